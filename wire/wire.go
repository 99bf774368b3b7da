// Package wire implements the fixed on-the-wire layouts for Position and
// Node records, matching the original MPI program's explicit
// MPI_Datatype field offsets (CreateMpiPositionDataType /
// CreateMpiNodeDataType): declared by explicit byte offset rather than
// relying on natural struct alignment, so the layout is identical no
// matter how the Go compiler would otherwise lay out the struct.
//
// Byte order is a fixed, consistent choice (BigEndian) across every
// worker in a run; since all workers are goroutines of the same
// process, there is no heterogeneous-endianness cluster to negotiate
// with.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"hdastar/grid"
	"hdastar/handle"
)

var order = binary.BigEndian

// PositionSize is the encoded byte length of a Position.
const PositionSize = 8

// NodeSize is the encoded byte length of a Node record.
const NodeSize = PositionSize + 8 + 8 + 4 + 4

// Node is the remote node message: a discovered frontier entry in
// flight to its owner, carrying its parent as a (rank, handle) pair
// instead of a local pointer.
type Node struct {
	Pos          grid.Position
	Cost         float64
	Score        float64
	ParentRank   int32
	ParentHandle int32
}

// EncodePosition writes p's fixed 8-byte layout (x int32 @0, y int32 @4).
func EncodePosition(p grid.Position) []byte {
	b := make([]byte, PositionSize)
	putPosition(b, p)
	return b
}

func putPosition(b []byte, p grid.Position) {
	order.PutUint32(b[0:4], uint32(int32(p.X)))
	order.PutUint32(b[4:8], uint32(int32(p.Y)))
}

func getPosition(b []byte) grid.Position {
	return grid.Position{
		X: int(int32(order.Uint32(b[0:4]))),
		Y: int(int32(order.Uint32(b[4:8]))),
	}
}

// DecodePosition reads a Position from its fixed 8-byte layout.
func DecodePosition(b []byte) (grid.Position, error) {
	if len(b) != PositionSize {
		return grid.Position{}, fmt.Errorf("wire: position payload must be %d bytes, got %d", PositionSize, len(b))
	}
	return getPosition(b), nil
}

// EncodeNode writes n's fixed layout:
// pos position @0 (8 bytes), cost float64 @8, score float64 @16,
// parent_rank int32 @24, parent_handle int32 @28. 32 bytes total.
func EncodeNode(n Node) []byte {
	b := make([]byte, NodeSize)
	putPosition(b[0:8], n.Pos)
	order.PutUint64(b[8:16], math.Float64bits(n.Cost))
	order.PutUint64(b[16:24], math.Float64bits(n.Score))
	order.PutUint32(b[24:28], uint32(n.ParentRank))
	order.PutUint32(b[28:32], uint32(n.ParentHandle))
	return b
}

// DecodeNode reads a Node from its fixed 32-byte layout.
func DecodeNode(b []byte) (Node, error) {
	if len(b) != NodeSize {
		return Node{}, fmt.Errorf("wire: node payload must be %d bytes, got %d", NodeSize, len(b))
	}
	return Node{
		Pos:          getPosition(b[0:8]),
		Cost:         math.Float64frombits(order.Uint64(b[8:16])),
		Score:        math.Float64frombits(order.Uint64(b[16:24])),
		ParentRank:   int32(order.Uint32(b[24:28])),
		ParentHandle: int32(order.Uint32(b[28:32])),
	}, nil
}

// EncodeNodeBatch writes 1..8 node records back to back: the layout of a
// NODE message payload, one record per distinct neighbor routed to the
// same destination in a single expansion step.
func EncodeNodeBatch(nodes []Node) []byte {
	b := make([]byte, 0, NodeSize*len(nodes))
	for _, n := range nodes {
		b = append(b, EncodeNode(n)...)
	}
	return b
}

// DecodeNodeBatch splits a NODE message payload back into individual
// node records.
func DecodeNodeBatch(b []byte) ([]Node, error) {
	if len(b) == 0 || len(b)%NodeSize != 0 {
		return nil, fmt.Errorf("wire: node batch payload must be a positive multiple of %d bytes, got %d", NodeSize, len(b))
	}
	n := len(b) / NodeSize
	nodes := make([]Node, n)
	for i := 0; i < n; i++ {
		node, err := DecodeNode(b[i*NodeSize : (i+1)*NodeSize])
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}
	return nodes, nil
}

// EncodeHandleIndex writes a window-buffer index as a 4-byte payload: the
// PATH_QUERY message body. The owning rank is implicit in the message
// destination, so only the local window-buffer index need travel.
func EncodeHandleIndex(i int) []byte {
	b := make([]byte, 4)
	order.PutUint32(b, uint32(int32(i)))
	return b
}

// DecodeHandleIndex reads a window-buffer index from its 4-byte payload.
func DecodeHandleIndex(b []byte) (int, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("wire: handle index payload must be 4 bytes, got %d", len(b))
	}
	return int(int32(order.Uint32(b))), nil
}

// ToHandleNode converts a wire Node into the in-process handle.Node
// representation used once a message has crossed into a worker's own
// frontier/window-buffer bookkeeping.
func (n Node) ToHandleNode() (handle.Node, handle.Handle) {
	return handle.Node{
			Pos:   n.Pos,
			Cost:  n.Cost,
			Score: n.Score,
		}, handle.Handle{
			Owner: int(n.ParentRank),
			Index: int(n.ParentHandle),
		}
}
