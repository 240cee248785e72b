package datastructure

import (
	"errors"
)

var (
	ErrHeapEmpty = errors.New("heap is empty")
	ErrHeapFull  = errors.New("heap capacity exceeded")
	ErrNotInHeap = errors.New("item not in the heap")
)

type HeapItem struct {
	ID   int32
	Cost uint32
}

// MinHeap binary heap priorityqueue ordered by Cost. Backing array and the
// pos back-pointer slice are allocated once at construction; Insert never
// grows past capacity (fails closed instead). pos[id] holds the current heap
// slot of id, -1 when id is not in the heap, which makes DecreaseKey O(logN)
// instead of a linear scan.
type MinHeap struct {
	heap []HeapItem
	pos  []int32
}

// NewMinHeap capacity = max items in the heap at once, maxID = exclusive
// upper bound on item IDs.
func NewMinHeap(capacity, maxID int32) *MinHeap {
	h := &MinHeap{
		heap: make([]HeapItem, 0, capacity),
		pos:  make([]int32, maxID),
	}
	for i := range h.pos {
		h.pos[i] = -1
	}
	return h
}

// parent get index of the parent
func (h *MinHeap) parent(index int32) int32 {
	return (index - 1) / 2
}

// leftChild get index of the left child
func (h *MinHeap) leftChild(index int32) int32 {
	return 2*index + 1
}

// rightChild get index of the right child
func (h *MinHeap) rightChild(index int32) int32 {
	return 2*index + 2
}

// heapifyUp maintain heap property. check whether the parent of index is bigger,
// if so swap, then recurse to the parent. O(logN) tree height.
func (h *MinHeap) heapifyUp(index int32) {
	for index != 0 && h.heap[index].Cost < h.heap[h.parent(index)].Cost {
		h.heap[index], h.heap[h.parent(index)] = h.heap[h.parent(index)], h.heap[index]

		h.pos[h.heap[index].ID] = index
		h.pos[h.heap[h.parent(index)].ID] = h.parent(index)
		index = h.parent(index)
	}
}

// heapifyDown maintain heap property. check whether one of the children of index
// is smaller, if so swap with the smaller child, then recurse down. O(logN).
func (h *MinHeap) heapifyDown(index int32) {
	smallest := index
	left := h.leftChild(index)
	right := h.rightChild(index)

	if left < int32(len(h.heap)) && h.heap[left].Cost < h.heap[smallest].Cost {
		smallest = left
	}
	if right < int32(len(h.heap)) && h.heap[right].Cost < h.heap[smallest].Cost {
		smallest = right
	}
	if smallest != index {
		h.heap[index], h.heap[smallest] = h.heap[smallest], h.heap[index]
		h.pos[h.heap[index].ID] = index
		h.pos[h.heap[smallest].ID] = smallest

		h.heapifyDown(smallest)
	}
}

func (h *MinHeap) isEmpty() bool {
	return len(h.heap) == 0
}

func (h *MinHeap) Size() int {
	return len(h.heap)
}

func (h *MinHeap) Contains(id int32) bool {
	return h.pos[id] >= 0
}

// GetMin peek the minimum of the min-heap (index 0)
func (h *MinHeap) GetMin() (HeapItem, error) {
	if h.isEmpty() {
		return HeapItem{}, ErrHeapEmpty
	}
	return h.heap[0], nil
}

// Insert a new item. Fails closed when the backing array is at capacity, the
// heap is left untouched.
func (h *MinHeap) Insert(key HeapItem) error {
	if len(h.heap) == cap(h.heap) {
		return ErrHeapFull
	}
	h.heap = append(h.heap, key)
	index := int32(h.Size() - 1)
	h.pos[key.ID] = index
	h.heapifyUp(index)
	return nil
}

// ExtractMin take the minimum of the min-heap (index 0) & pop it. Moves the
// last element into the root then heapifyDown(0). O(logN).
func (h *MinHeap) ExtractMin() (HeapItem, error) {
	if h.isEmpty() {
		return HeapItem{}, ErrHeapEmpty
	}
	root := h.heap[0]
	h.heap[0] = h.heap[h.Size()-1]
	h.heap = h.heap[:h.Size()-1]
	h.pos[root.ID] = -1
	if !h.isEmpty() {
		h.pos[h.heap[0].ID] = 0
		h.heapifyDown(0)
	}
	return root, nil
}

// DecreaseKey update the Cost of an item already in the min-heap. A lowered
// key can only move toward the root, so only the upward sift runs. O(logN).
func (h *MinHeap) DecreaseKey(item HeapItem) error {
	index := h.pos[item.ID]
	if index < 0 || index >= int32(h.Size()) {
		return ErrNotInHeap
	}
	if item.Cost > h.heap[index].Cost {
		return errors.New("new cost is larger than the current cost")
	}
	h.heap[index] = item
	h.heapifyUp(index)
	return nil
}

// Reset empty the heap. Only the slots of items still in the heap are
// touched, so repeated Reset between searches stays cheap.
func (h *MinHeap) Reset() {
	for _, it := range h.heap {
		h.pos[it.ID] = -1
	}
	h.heap = h.heap[:0]
}
