package heap

import (
	"errors"
	"fmt"
)

// Ref is a handle to an array owned by a Heap. On the interpreter's operand
// stack a Ref travels as a plain int32; it only regains this type inside the
// array instructions.
type Ref int32

var (
	ErrNegativeLength = errors.New("negative array length")
	ErrBadRef         = errors.New("reference was never allocated")
)

// Heap is an append-only store of int32 arrays. Arrays are never resized or
// freed individually; the Heap owns every array for the process lifetime.
type Heap struct {
	arrays [][]int32
}

// New creates an empty Heap.
func New() *Heap {
	return &Heap{arrays: make([][]int32, 0, 8)}
}

// Alloc allocates a zeroed array of count elements and returns its handle.
// Slot 0 of the backing storage holds the element count; slots 1..count hold
// the elements.
func (h *Heap) Alloc(count int32) (Ref, error) {
	if count < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeLength, count)
	}

	arr := make([]int32, count+1)
	arr[0] = count
	h.arrays = append(h.arrays, arr)

	return Ref(len(h.arrays) - 1), nil
}

// Deref returns the mutable backing storage for a handle, including the
// length slot at index 0.
func (h *Heap) Deref(r Ref) ([]int32, error) {
	if r < 0 || int(r) >= len(h.arrays) {
		return nil, fmt.Errorf("%w: %d", ErrBadRef, r)
	}

	return h.arrays[r], nil
}

// Size returns the number of arrays allocated so far.
func (h *Heap) Size() int {
	return len(h.arrays)
}
