package sample

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/decathlon/internal/adapters/source"
	"github.com/okian/decathlon/internal/domain/measure"
	"github.com/okian/decathlon/internal/domain/scoring"
)

func TestGenerator(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		ctx := context.Background()

		Convey("When writing rows twice with the same seed", func() {
			var a, b bytes.Buffer
			n, err := New(WithRows(20), WithSeed(42)).Write(ctx, &a)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 20)
			_, err = New(WithRows(20), WithSeed(42)).Write(ctx, &b)
			So(err, ShouldBeNil)

			Convey("Then the output should be identical", func() {
				So(a.String(), ShouldEqual, b.String())
				So(strings.Count(a.String(), "\n"), ShouldEqual, 20)
			})
		})

		Convey("When different seeds are used", func() {
			var a, b bytes.Buffer
			_, _ = New(WithRows(5), WithSeed(1)).Write(ctx, &a)
			_, _ = New(WithRows(5), WithSeed(2)).Write(ctx, &b)

			Convey("Then the output should differ", func() {
				So(a.String(), ShouldNotEqual, b.String())
			})
		})

		Convey("When generating clean rows", func() {
			var buf bytes.Buffer
			_, err := New(WithRows(50), WithSeed(7)).Write(ctx, &buf)
			So(err, ShouldBeNil)

			records, err := source.NewCSVSource(&buf).Records(ctx)
			So(err, ShouldBeNil)

			Convey("Then every row should be complete and score cleanly", func() {
				So(len(records), ShouldEqual, 50)
				scorer := scoring.NewCatalogScorer()
				for i := range records {
					So(len(records[i].Marks), ShouldEqual, 10)
					So(strings.HasPrefix(records[i].Name, "Athlete "), ShouldBeTrue)
					So(scorer.Score(ctx, &records[i]), ShouldBeNil)
					So(records[i].Total, ShouldBeGreaterThan, 0)
				}
			})

			Convey("Then the 1500m should be clock formatted", func() {
				raw, ok := records[0].Mark("1500m")
				So(ok, ShouldBeTrue)
				So(raw, ShouldContainSubstring, ":")
				v, err := measure.Parse(raw)
				So(err, ShouldBeNil)
				So(v, ShouldBeBetweenOrEqual, 250.0, 320.0)
			})
		})

		Convey("When every row must be malformed", func() {
			g := New(WithSeed(3), WithMalformedRate(1))

			Convey("Then each row should contain exactly one unparseable field", func() {
				for i := 0; i < 20; i++ {
					row, err := g.Row()
					So(err, ShouldBeNil)
					count := 0
					for _, f := range row[1:] {
						if f == Malformed {
							count++
						}
					}
					So(count, ShouldEqual, 1)
				}
			})
		})

		Convey("When every row must be short", func() {
			g := New(WithSeed(4), WithShortRate(1))

			Convey("Then rows should stop before the last event", func() {
				for i := 0; i < 20; i++ {
					row, err := g.Row()
					So(err, ShouldBeNil)
					So(len(row), ShouldBeBetweenOrEqual, 1, 10)
				}
			})
		})

		Convey("When a custom delimiter is configured", func() {
			var buf bytes.Buffer
			_, err := New(WithRows(1), WithSeed(5), WithDelimiter('\t')).Write(ctx, &buf)

			Convey("Then rows should use it", func() {
				So(err, ShouldBeNil)
				So(strings.Count(buf.String(), "\t"), ShouldEqual, 10)
			})
		})

		Convey("When the delimiter is invalid", func() {
			_, err := New(WithDelimiter('.')).Write(ctx, &bytes.Buffer{})

			Convey("Then writing should fail", func() {
				So(errors.Is(err, source.ErrDelimiter), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			n, err := New(WithRows(5)).Write(cctx, &bytes.Buffer{})

			Convey("Then nothing should be written", func() {
				So(n, ShouldEqual, 0)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})

		Convey("When options are out of range", func() {
			g := New(WithRows(-1), WithMalformedRate(2), WithShortRate(-0.5))

			Convey("Then defaults should be kept", func() {
				So(g.rows, ShouldEqual, 10)
				So(g.malformedRate, ShouldEqual, 0)
				So(g.shortRate, ShouldEqual, 0)
			})
		})
	})
}
