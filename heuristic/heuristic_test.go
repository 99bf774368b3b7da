package heuristic

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"hdastar/grid"
)

func TestEuclidean(t *testing.T) {
	Convey("Given two positions 3 apart on X and 4 apart on Y", t, func() {
		from := grid.Position{X: 0, Y: 0}
		to := grid.Position{X: 3, Y: 4}

		Convey("Euclidean returns the straight-line distance", func() {
			So(Euclidean(from, to), ShouldEqual, 5.0)
		})
	})

	Convey("Given the same position twice", t, func() {
		p := grid.Position{X: 7, Y: 7}
		Convey("Euclidean returns zero", func() {
			So(Euclidean(p, p), ShouldEqual, 0.0)
		})
	})
}

func TestWeighted(t *testing.T) {
	from := grid.Position{X: 0, Y: 0}
	to := grid.Position{X: 3, Y: 4}

	Convey("Given alpha=0", t, func() {
		h := Weighted(0)
		Convey("Every estimate is zero, reducing A* to uniform-cost search", func() {
			So(h(from, to), ShouldEqual, 0.0)
		})
	})

	Convey("Given alpha=1", t, func() {
		h := Weighted(1)
		Convey("The estimate equals the Euclidean distance", func() {
			So(h(from, to), ShouldEqual, Euclidean(from, to))
		})
	})

	Convey("Given alpha=2", t, func() {
		h := Weighted(2)
		Convey("The estimate is twice the Euclidean distance, and inadmissible", func() {
			So(h(from, to), ShouldEqual, 2*Euclidean(from, to))
		})
	})
}
