package wire

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"hdastar/grid"
)

func TestPositionRoundTrip(t *testing.T) {
	Convey("Given a position with positive coordinates", t, func() {
		p := grid.Position{X: 123, Y: 456}

		Convey("Encode then decode yields the original value", func() {
			got, err := DecodePosition(EncodePosition(p))
			So(err, ShouldBeNil)
			So(got, ShouldEqual, p)
		})

		Convey("Decode rejects a payload of the wrong length", func() {
			_, err := DecodePosition([]byte{1, 2, 3})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestNodeRoundTrip(t *testing.T) {
	Convey("Given a node record", t, func() {
		n := Node{
			Pos:          grid.Position{X: 7, Y: 9},
			Cost:         12.5,
			Score:        19.75,
			ParentRank:   3,
			ParentHandle: 42,
		}

		Convey("Encode then decode yields the original value", func() {
			got, err := DecodeNode(EncodeNode(n))
			So(err, ShouldBeNil)
			So(got, ShouldResemble, n)
		})

		Convey("Decode rejects a truncated payload", func() {
			b := EncodeNode(n)
			_, err := DecodeNode(b[:len(b)-1])
			So(err, ShouldNotBeNil)
		})
	})
}

func TestNodeBatchRoundTrip(t *testing.T) {
	Convey("Given a batch of several node records", t, func() {
		nodes := []Node{
			{Pos: grid.Position{X: 1, Y: 1}, Cost: 1, Score: 1},
			{Pos: grid.Position{X: 2, Y: 2}, Cost: 2, Score: 2},
			{Pos: grid.Position{X: 3, Y: 3}, Cost: 3, Score: 3},
		}

		Convey("Encode then decode yields back the same records in order", func() {
			got, err := DecodeNodeBatch(EncodeNodeBatch(nodes))
			So(err, ShouldBeNil)
			So(got, ShouldResemble, nodes)
		})

		Convey("Decode rejects an empty payload", func() {
			_, err := DecodeNodeBatch(nil)
			So(err, ShouldNotBeNil)
		})

		Convey("Decode rejects a payload that isn't a multiple of the node size", func() {
			b := EncodeNodeBatch(nodes)
			_, err := DecodeNodeBatch(b[:len(b)-1])
			So(err, ShouldNotBeNil)
		})
	})
}

func TestHandleIndexRoundTrip(t *testing.T) {
	Convey("Given a window-buffer index", t, func() {
		Convey("Encode then decode yields the original value", func() {
			got, err := DecodeHandleIndex(EncodeHandleIndex(99))
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 99)
		})

		Convey("Decode rejects a payload of the wrong length", func() {
			_, err := DecodeHandleIndex([]byte{1, 2, 3})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestToHandleNode(t *testing.T) {
	Convey("Given a wire Node", t, func() {
		n := Node{
			Pos:          grid.Position{X: 4, Y: 5},
			Cost:         2,
			Score:        3,
			ParentRank:   1,
			ParentHandle: 6,
		}

		Convey("ToHandleNode splits it into a handle.Node and its parent handle", func() {
			hn, parent := n.ToHandleNode()
			So(hn.Pos, ShouldEqual, n.Pos)
			So(hn.Cost, ShouldEqual, n.Cost)
			So(hn.Score, ShouldEqual, n.Score)
			So(parent.Owner, ShouldEqual, 1)
			So(parent.Index, ShouldEqual, 6)
		})
	})
}
