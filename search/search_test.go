package search

import (
	"testing"

	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"

	"hdastar/grid"
	"hdastar/heuristic"
)

func discard() zerolog.Logger {
	return zerolog.Nop()
}

func TestAStar(t *testing.T) {
	Convey("Given a 3x3 grid where start and end are the same cell", t, func() {
		g, err := grid.New(3, 3, grid.Free)
		So(err, ShouldBeNil)
		g.Start = grid.Position{X: 1, Y: 1}
		g.End = grid.Position{X: 1, Y: 1}

		Convey("AStar finds a zero-cost path immediately", func() {
			result := AStar(g, heuristic.Euclidean, discard())
			So(result.Cost, ShouldEqual, 0)
		})
	})

	Convey("Given a 5x5 open grid with a diagonal start-to-end line", t, func() {
		g, err := grid.New(5, 5, grid.Free)
		So(err, ShouldBeNil)
		g.Start = grid.Position{X: 1, Y: 1}
		g.End = grid.Position{X: 3, Y: 3}

		Convey("AStar takes the cheaper diagonal route over an axis-aligned one", func() {
			result := AStar(g, heuristic.Euclidean, discard())
			So(result.Cost, ShouldEqual, 2.0) // two diagonal Free moves, cost 1.0 each
		})
	})

	Convey("Given a 7x7 grid with a one-cell gap in an otherwise solid wall", t, func() {
		g, err := grid.New(7, 7, grid.Free)
		So(err, ShouldBeNil)
		for x := 1; x < 6; x++ {
			g.SetValue(grid.Position{X: x, Y: 3}, grid.Wall)
		}
		g.SetValue(grid.Position{X: 3, Y: 3}, grid.Free) // the gap
		g.Start = grid.Position{X: 1, Y: 1}
		g.End = grid.Position{X: 1, Y: 5}

		Convey("AStar routes through the gap", func() {
			result := AStar(g, heuristic.Euclidean, discard())
			So(result.Cost, ShouldBeGreaterThan, 0)
			So(result.Marks.Mark(grid.Position{X: 3, Y: 3}), ShouldEqual, grid.Path)
		})
	})

	Convey("Given a destination cell that is a Wall", t, func() {
		g, err := grid.New(5, 5, grid.Free)
		So(err, ShouldBeNil)
		g.Start = grid.Position{X: 1, Y: 1}
		g.End = grid.Position{X: 3, Y: 3}
		g.SetValue(g.End, grid.Wall)

		Convey("AStar reports NotFound without searching", func() {
			result := AStar(g, heuristic.Euclidean, discard())
			So(result.Cost, ShouldEqual, NotFound)
		})
	})

	Convey("Given a start walled off from the end by a solid partition", t, func() {
		g, err := grid.New(7, 7, grid.Free)
		So(err, ShouldBeNil)
		for x := 0; x < 7; x++ {
			g.SetValue(grid.Position{X: x, Y: 3}, grid.Wall)
		}
		g.Start = grid.Position{X: 1, Y: 1}
		g.End = grid.Position{X: 1, Y: 5}

		Convey("AStar exhausts the frontier and reports NotFound", func() {
			result := AStar(g, heuristic.Euclidean, discard())
			So(result.Cost, ShouldEqual, NotFound)
		})
	})
}
