package sink_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"go.yaml.in/yaml/v3"

	"github.com/okian/decathlon/internal/adapters/sink"
	"github.com/okian/decathlon/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func entries() []types.Entry {
	return []types.Entry{
		{
			Position: 1, Place: "1", Name: "Siim Susi", Score: 4200.5,
			Events: []types.EventResult{
				{Event: "100m", Raw: "12.61", Measurement: 12.61, Points: 536.2},
				{Event: "1500m", Raw: "5.25.72", Measurement: 325.72, Points: 421.3},
			},
		},
		{
			Position: 2, Place: "2-3", Name: "Jaan Lepp", Score: 300,
			Events: []types.EventResult{{Event: "Shot_put", Raw: "9.22", Measurement: 9.22, Points: 300}},
		},
		{Position: 3, Place: "2-3", Name: "Mari Maasikas", Score: 300, Events: []types.EventResult{}},
	}
}

func TestParseFormat(t *testing.T) {
	Convey("Given format names", t, func() {
		Convey("Then known names should parse case-insensitively", func() {
			f, err := sink.ParseFormat(" JSONL ")
			So(err, ShouldBeNil)
			So(f, ShouldEqual, sink.FormatJSONL)
		})

		Convey("And unknown names should be rejected", func() {
			_, err := sink.ParseFormat("xml")
			So(errors.Is(err, sink.ErrUnknownFormat), ShouldBeTrue)
		})
	})
}

func TestSinks(t *testing.T) {
	ctx := context.Background()

	Convey("Given ranked entries", t, func() {
		in := entries()
		var buf bytes.Buffer

		Convey("When writing JSON", func() {
			s, err := sink.New(sink.FormatJSON, &buf)
			So(err, ShouldBeNil)
			So(s.Write(ctx, in), ShouldBeNil)

			Convey("Then it should decode back to the same entries", func() {
				var out []types.Entry
				So(json.Unmarshal(buf.Bytes(), &out), ShouldBeNil)
				So(out, ShouldResemble, in)
				So(buf.String(), ShouldContainSubstring, "\n  {")
			})
		})

		Convey("When writing JSON lines", func() {
			s, _ := sink.New(sink.FormatJSONL, &buf)
			So(s.Write(ctx, in), ShouldBeNil)

			Convey("Then each entry should be on its own line", func() {
				lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
				So(len(lines), ShouldEqual, 3)
				var first types.Entry
				So(json.Unmarshal([]byte(lines[0]), &first), ShouldBeNil)
				So(first.Name, ShouldEqual, "Siim Susi")
			})
		})

		Convey("When writing YAML", func() {
			s, _ := sink.New(sink.FormatYAML, &buf)
			So(s.Write(ctx, in), ShouldBeNil)

			Convey("Then it should decode back to the same entries", func() {
				var out []types.Entry
				So(yaml.Unmarshal(buf.Bytes(), &out), ShouldBeNil)
				So(len(out), ShouldEqual, 3)
				So(out[1].Place, ShouldEqual, "2-3")
				So(out[0].Events[1].Measurement, ShouldEqual, 325.72)
			})
		})

		Convey("When writing CBOR", func() {
			s, _ := sink.New(sink.FormatCBOR, &buf)
			So(s.Write(ctx, in), ShouldBeNil)

			Convey("Then it should decode back to the same entries", func() {
				var out []types.Entry
				So(cbor.Unmarshal(buf.Bytes(), &out), ShouldBeNil)
				So(len(out), ShouldEqual, 3)
				So(out[0].Score, ShouldEqual, 4200.5)
				So(out[0].Events[1].Measurement, ShouldEqual, 325.72)
				So(out[2].Place, ShouldEqual, "2-3")
			})
		})

		Convey("When writing CSV", func() {
			s, _ := sink.New(sink.FormatCSV, &buf)
			So(s.Write(ctx, in), ShouldBeNil)

			Convey("Then raw values should sit under their event columns", func() {
				rows, err := csv.NewReader(&buf).ReadAll()
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 4)
				So(rows[0][:4], ShouldResemble, []string{"place", "name", "score", "100m"})
				So(rows[1][0], ShouldEqual, "1")
				So(rows[1][2], ShouldEqual, "4200.5")
				So(rows[1][3], ShouldEqual, "12.61")
				So(rows[1][12], ShouldEqual, "5.25.72")
				So(rows[2][5], ShouldEqual, "9.22")
				So(rows[2][3], ShouldEqual, "")
			})
		})

		Convey("When writing an empty result set as JSON", func() {
			s, _ := sink.New(sink.FormatJSON, &buf)
			So(s.Write(ctx, nil), ShouldBeNil)

			Convey("Then an empty array should be written", func() {
				So(strings.TrimSpace(buf.String()), ShouldEqual, "[]")
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			s, _ := sink.New(sink.FormatJSON, &buf)

			Convey("Then nothing should be written", func() {
				So(errors.Is(s.Write(cctx, in), context.Canceled), ShouldBeTrue)
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given an unknown format", t, func() {
		_, err := sink.New(sink.Format("xml"), &bytes.Buffer{})

		Convey("Then creation should fail", func() {
			So(errors.Is(err, sink.ErrUnknownFormat), ShouldBeTrue)
		})
	})
}

func TestCreate(t *testing.T) {
	Convey("Given an output path", t, func() {
		path := filepath.Join(t.TempDir(), "results.json")

		Convey("When writing through a created sink", func() {
			s, closer, err := sink.Create(path, sink.FormatJSON)
			So(err, ShouldBeNil)
			So(s.Write(context.Background(), entries()), ShouldBeNil)
			So(closer.Close(), ShouldBeNil)

			Convey("Then the file should hold the results", func() {
				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "Mari Maasikas")
			})
		})
	})

	Convey("Given an unwritable path", t, func() {
		_, _, err := sink.Create(filepath.Join(t.TempDir(), "missing", "results.json"), sink.FormatJSON)

		Convey("Then a create error should be returned", func() {
			So(errors.Is(err, sink.ErrCreate), ShouldBeTrue)
		})
	})

	Convey("Given the stdout marker", t, func() {
		s, closer, err := sink.Create(sink.Stdout, sink.FormatJSONL)

		Convey("Then a sink should be returned with a no-op closer", func() {
			So(err, ShouldBeNil)
			So(s, ShouldNotBeNil)
			So(closer.Close(), ShouldBeNil)
		})
	})
}
