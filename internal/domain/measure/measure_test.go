package measure_test

import (
	"errors"
	"testing"

	"github.com/okian/decathlon/internal/domain/measure"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given raw result strings", t, func() {
		Convey("When the value is a plain decimal", func() {
			Convey("Then it should parse directly", func() {
				for raw, want := range map[string]float64{
					"12.61":  12.61,
					"5":      5,
					" 7.45 ": 7.45,
					"-0.5":   -0.5,
					"1e2":    100,
				} {
					got, err := measure.Parse(raw)
					So(err, ShouldBeNil)
					So(got, ShouldEqual, want)
				}
			})
		})

		Convey("When the value is a clock string", func() {
			Convey("Then minutes, seconds and hundredths should combine", func() {
				got, err := measure.Parse("2:15.30")
				So(err, ShouldBeNil)
				So(got, ShouldAlmostEqual, 135.3, 1e-9)

				got, err = measure.Parse("5.25.72")
				So(err, ShouldBeNil)
				So(got, ShouldAlmostEqual, 325.72, 1e-9)
			})

			Convey("And hundredths are taken literally", func() {
				got, err := measure.Parse("2:15.3")
				So(err, ShouldBeNil)
				So(got, ShouldAlmostEqual, 135.03, 1e-9)
			})
		})

		Convey("When the value fits neither shape", func() {
			Convey("Then it should be unparseable", func() {
				for _, raw := range []string{
					"abc",
					"1:2:3:4",
					"2:15",
					"",
					"   ",
					"2::15.30",
					":2:15.30",
					"2:15.30.",
					"NaN",
					"inf",
					"-Inf",
					"0x10",
					"12,61",
				} {
					_, err := measure.Parse(raw)
					So(err, ShouldNotBeNil)
					So(errors.Is(err, measure.ErrUnparseable), ShouldBeTrue)
				}
			})
		})
	})
}
