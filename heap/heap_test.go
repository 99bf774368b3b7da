package heap

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"hdastar/grid"
)

func TestFrontier(t *testing.T) {
	Convey("Given an empty frontier", t, func() {
		var f Frontier
		So(f.Empty(), ShouldBeTrue)
		So(f.Len(), ShouldEqual, 0)

		Convey("When entries are added out of score order", func() {
			f.Add(Entry{Pos: grid.Position{X: 3, Y: 3}, Score: 3})
			f.Add(Entry{Pos: grid.Position{X: 1, Y: 1}, Score: 1})
			f.Add(Entry{Pos: grid.Position{X: 2, Y: 2}, Score: 2})

			Convey("Pop returns them in ascending score order", func() {
				So(f.Pop().Score, ShouldEqual, 1)
				So(f.Pop().Score, ShouldEqual, 2)
				So(f.Pop().Score, ShouldEqual, 3)
				So(f.Empty(), ShouldBeTrue)
			})

			Convey("Top does not remove the minimum", func() {
				top := f.Top()
				So(top.Score, ShouldEqual, 1)
				So(f.Len(), ShouldEqual, 3)
			})
		})

		Convey("When entries share a score", func() {
			f.Add(Entry{Pos: grid.Position{X: 1, Y: 1}, Score: 5})
			f.Add(Entry{Pos: grid.Position{X: 2, Y: 2}, Score: 5})

			Convey("Both are still returned by Pop", func() {
				first := f.Pop()
				second := f.Pop()
				So(first.Score, ShouldEqual, 5)
				So(second.Score, ShouldEqual, 5)
				So(f.Empty(), ShouldBeTrue)
			})
		})
	})
}
