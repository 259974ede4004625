package serum

import (
	"encoding/binary"
	"fmt"
)

// Order book account layout:
// - padding "serum" (5 bytes)
// - accountFlags: u64
// - slab header (32 bytes): bumpIndex u32, zero u32, freeListLen u32, zero u32,
//   freeListHead u32, root u32, leafCount u32, zero u32
// - nodes, 72 bytes each
// - padding (7 bytes)
const (
	slabFlagsOffset  = 5
	slabHeaderOffset = 13
	slabHeaderSize   = 32
	slabNodesOffset  = slabHeaderOffset + slabHeaderSize
	slabNodeSize     = 72
)

// Slab node tags.
const (
	nodeUninitialized uint32 = 0
	nodeInner         uint32 = 1
	nodeLeaf          uint32 = 2
	nodeFree          uint32 = 3
	nodeLastFree      uint32 = 4
)

// Order is one resting order read from a slab leaf.
type Order struct {
	PriceLots    uint64
	QuantityLots uint64
	OwnerSlot    uint8
}

// slab is a decoded critbit tree.
type slab struct {
	flags     uint64
	bumpIndex uint32
	root      uint32
	leafCount uint32
	nodes     []byte
}

func decodeSlab(data []byte) (*slab, error) {
	if len(data) < slabNodesOffset {
		return nil, fmt.Errorf("%w: order book data too short: %d", ErrInvalidAccount, len(data))
	}

	s := &slab{
		flags:     binary.LittleEndian.Uint64(data[slabFlagsOffset:]),
		bumpIndex: binary.LittleEndian.Uint32(data[slabHeaderOffset:]),
		root:      binary.LittleEndian.Uint32(data[slabHeaderOffset+20:]),
		leafCount: binary.LittleEndian.Uint32(data[slabHeaderOffset+24:]),
		nodes:     data[slabNodesOffset:],
	}

	if uint64(s.bumpIndex)*slabNodeSize > uint64(len(s.nodes)) {
		return nil, fmt.Errorf("%w: bump index %d exceeds account size", ErrInvalidAccount, s.bumpIndex)
	}
	return s, nil
}

func (s *slab) node(i uint32) ([]byte, error) {
	if i >= s.bumpIndex {
		return nil, fmt.Errorf("%w: node index %d out of range", ErrInvalidAccount, i)
	}
	start := int(i) * slabNodeSize
	return s.nodes[start : start+slabNodeSize], nil
}

// orders returns all leaves in ascending key order (ascending price).
func (s *slab) orders() ([]Order, error) {
	if s.leafCount == 0 {
		return nil, nil
	}

	out := make([]Order, 0, s.leafCount)
	stack := []uint32{s.root}
	visited := 0
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visited++
		if visited > int(s.bumpIndex) {
			return nil, fmt.Errorf("%w: cycle in order book tree", ErrInvalidAccount)
		}

		n, err := s.node(i)
		if err != nil {
			return nil, err
		}

		switch binary.LittleEndian.Uint32(n[0:4]) {
		case nodeInner:
			// push right first so the left subtree is visited first
			stack = append(stack, binary.LittleEndian.Uint32(n[28:32]), binary.LittleEndian.Uint32(n[24:28]))
		case nodeLeaf:
			out = append(out, Order{
				OwnerSlot:    n[4],
				PriceLots:    binary.LittleEndian.Uint64(n[16:24]), // upper half of the u128 key
				QuantityLots: binary.LittleEndian.Uint64(n[56:64]),
			})
		default:
			return nil, fmt.Errorf("%w: unexpected node tag at %d", ErrInvalidAccount, i)
		}
	}

	if len(out) != int(s.leafCount) {
		return nil, fmt.Errorf("%w: found %d leaves, header says %d", ErrInvalidAccount, len(out), s.leafCount)
	}
	return out, nil
}
