package ranking_test

import (
	"math"
	"testing"

	"github.com/okian/decathlon/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func labels(ps []ranking.Placement) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Label
	}
	return out
}

func ids(ps []ranking.Placement) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestRank(t *testing.T) {
	Convey("Given distinct scores", t, func() {
		in := []ranking.Entry{{ID: 0, Score: 10}, {ID: 1, Score: 30}, {ID: 2, Score: 20}}
		out := ranking.Rank(in)

		Convey("Then they should be ordered descending with plain labels", func() {
			So(ids(out), ShouldResemble, []int{1, 2, 0})
			So(labels(out), ShouldResemble, []string{"1", "2", "3"})
			So(out[2].Position, ShouldEqual, 3)
		})

		Convey("And the input should not be reordered", func() {
			So(in[0].ID, ShouldEqual, 0)
			So(in[1].ID, ShouldEqual, 1)
		})
	})

	Convey("Given a three-way tie for fourth place", t, func() {
		in := []ranking.Entry{
			{ID: 0, Score: 9000},
			{ID: 1, Score: 8000},
			{ID: 2, Score: 8500},
			{ID: 3, Score: 8000},
			{ID: 4, Score: 8700},
			{ID: 5, Score: 7000},
			{ID: 6, Score: 8000},
		}
		out := ranking.Rank(in)

		Convey("Then all tied competitors should share the block label", func() {
			So(labels(out), ShouldResemble, []string{"1", "2", "3", "4-5-6", "4-5-6", "4-5-6", "7"})
		})

		Convey("And tied competitors should keep their input order", func() {
			So(ids(out), ShouldResemble, []int{0, 4, 2, 1, 3, 6, 5})
		})

		Convey("And positions should stay sequential", func() {
			for i, p := range out {
				So(p.Position, ShouldEqual, i+1)
			}
		})

		Convey("And one tie group should be counted", func() {
			So(ranking.Groups(out), ShouldEqual, 1)
		})
	})

	Convey("Given scores that are close but not equal", t, func() {
		a := 0.1 + 0.2
		b := 0.3
		out := ranking.Rank([]ranking.Entry{{ID: 0, Score: b}, {ID: 1, Score: a}})

		Convey("Then they should not be treated as a tie", func() {
			So(a == b, ShouldBeFalse)
			So(labels(out), ShouldResemble, []string{"1", "2"})
			So(ids(out), ShouldResemble, []int{1, 0})
		})
	})

	Convey("Given everyone tied", t, func() {
		out := ranking.Rank([]ranking.Entry{{ID: 0}, {ID: 1}, {ID: 2}})

		Convey("Then every label should list all positions", func() {
			So(labels(out), ShouldResemble, []string{"1-2-3", "1-2-3", "1-2-3"})
		})
	})

	Convey("Given two separate tie groups", t, func() {
		out := ranking.Rank([]ranking.Entry{
			{ID: 0, Score: 5}, {ID: 1, Score: 5}, {ID: 2, Score: 1}, {ID: 3, Score: 1},
		})

		Convey("Then both should be labelled and counted", func() {
			So(labels(out), ShouldResemble, []string{"1-2", "1-2", "3-4", "3-4"})
			So(ranking.Groups(out), ShouldEqual, 2)
		})
	})

	Convey("Given a zero score among positive ones", t, func() {
		out := ranking.Rank([]ranking.Entry{{ID: 0, Score: 0}, {ID: 1, Score: 100}})

		Convey("Then it should rank last", func() {
			So(ids(out), ShouldResemble, []int{1, 0})
			So(out[1].Label, ShouldEqual, "2")
		})
	})

	Convey("Given an infinite score", t, func() {
		out := ranking.Rank([]ranking.Entry{{ID: 0, Score: 1}, {ID: 1, Score: math.Inf(1)}, {ID: 2, Score: math.Inf(1)}})

		Convey("Then infinities should tie at the top", func() {
			So(labels(out), ShouldResemble, []string{"1-2", "1-2", "3"})
		})
	})

	Convey("Given no entries", t, func() {
		out := ranking.Rank(nil)

		Convey("Then the result should be empty", func() {
			So(out, ShouldBeEmpty)
			So(ranking.Groups(out), ShouldEqual, 0)
		})
	})

	Convey("Given the same input twice", t, func() {
		in := []ranking.Entry{{ID: 0, Score: 3}, {ID: 1, Score: 3}, {ID: 2, Score: 4}}

		Convey("Then the placements should be identical", func() {
			So(ranking.Rank(in), ShouldResemble, ranking.Rank(in))
		})
	})
}
