package gridgen

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"hdastar/grid"
)

func TestEmpty(t *testing.T) {
	Convey("Given a request for a 9x9 empty grid", t, func() {
		g, err := Empty(9, 9)
		So(err, ShouldBeNil)

		Convey("Every interior cell is Free", func() {
			for x := 1; x < 8; x++ {
				for y := 1; y < 8; y++ {
					So(g.Value(grid.Position{X: x, Y: y}), ShouldEqual, grid.Free)
				}
			}
		})

		Convey("Start and End are set to opposite interior corners", func() {
			So(g.Start, ShouldResemble, grid.Position{X: 7, Y: 7})
			So(g.End, ShouldResemble, grid.Position{X: 1, Y: 1})
		})
	})
}

func TestPoints(t *testing.T) {
	Convey("Given an invalid density", t, func() {
		_, err := Points(9, 9, grid.Wall, 1.5, rand.New(rand.NewSource(1)))
		So(err, ShouldNotBeNil)
	})

	Convey("Given density 0", t, func() {
		g, err := Points(9, 9, grid.Wall, 0, rand.New(rand.NewSource(1)))
		So(err, ShouldBeNil)

		Convey("No interior cell is ever filled", func() {
			for x := 1; x < 8; x++ {
				for y := 1; y < 8; y++ {
					So(g.Value(grid.Position{X: x, Y: y}), ShouldEqual, grid.Free)
				}
			}
		})
	})

	Convey("Given density 1", t, func() {
		g, err := Points(9, 9, grid.Wall, 1, rand.New(rand.NewSource(1)))
		So(err, ShouldBeNil)

		Convey("Every interior cell is filled", func() {
			for x := 1; x < 8; x++ {
				for y := 1; y < 8; y++ {
					So(g.Value(grid.Position{X: x, Y: y}), ShouldEqual, grid.Wall)
				}
			}
		})
	})
}

func TestMaze(t *testing.T) {
	Convey("Given maze dimensions that are too small", t, func() {
		_, err := Maze(2, 2, 1, rand.New(rand.NewSource(1)))
		So(err, ShouldNotBeNil)
	})

	Convey("Given a valid maze request", t, func() {
		rng := rand.New(rand.NewSource(42))
		g, err := Maze(4, 4, 1, rng)
		So(err, ShouldBeNil)

		Convey("The output grid has the expected scaled dimensions", func() {
			So(g.X, ShouldEqual, 4*2+1)
			So(g.Y, ShouldEqual, 4*2+1)
		})

		Convey("Start and End are free interior cells", func() {
			So(g.Value(g.Start), ShouldEqual, grid.Free)
			So(g.Value(g.End), ShouldEqual, grid.Free)
		})
	})

	Convey("Given the same seed twice", t, func() {
		g1, err1 := Maze(5, 5, 2, rand.New(rand.NewSource(7)))
		g2, err2 := Maze(5, 5, 2, rand.New(rand.NewSource(7)))
		So(err1, ShouldBeNil)
		So(err2, ShouldBeNil)

		Convey("The generated maze is identical", func() {
			for x := 0; x < g1.X; x++ {
				for y := 0; y < g1.Y; y++ {
					p := grid.Position{X: x, Y: y}
					So(g1.Value(p), ShouldEqual, g2.Value(p))
				}
			}
		})
	})
}
