package sequence

import "container/heap"

// PriorityItem is a handle to a queued value. It stays valid until the value
// is dequeued or removed, and can be passed to Update or Remove.
type PriorityItem[T any] struct {
	Value    T
	Priority int
	seq      uint64
	index    int
}

// Queued reports whether the item is still held by a queue.
func (it *PriorityItem[T]) Queued() bool {
	return it.index >= 0
}

type priorityQueue[T any] struct {
	items []*PriorityItem[T]
}

func (pq *priorityQueue[T]) Len() int {
	return len(pq.items)
}

func (pq *priorityQueue[T]) Less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.seq < b.seq
}

func (pq *priorityQueue[T]) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
	pq.items[i].index = i
	pq.items[j].index = j
}

func (pq *priorityQueue[T]) Push(x any) {
	item := x.(*PriorityItem[T])
	item.index = len(pq.items)
	pq.items = append(pq.items, item)
}

func (pq *priorityQueue[T]) Pop() any {
	old := pq.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // avoid memory leak
	item.index = -1 // for safety
	pq.items = old[0 : n-1]
	return item
}

// PriorityQueue is a min-priority queue. Items with equal priority are
// dequeued in the order they were enqueued.
type PriorityQueue[T any] struct {
	pq  priorityQueue[T]
	seq uint64
}

func NewPriorityQueue[T any]() *PriorityQueue[T] {
	pq := &PriorityQueue[T]{}
	heap.Init(&pq.pq)
	return pq
}

func (pq *PriorityQueue[T]) Enqueue(value T, priority int) *PriorityItem[T] {
	pq.seq++
	item := &PriorityItem[T]{
		Value:    value,
		Priority: priority,
		seq:      pq.seq,
	}
	heap.Push(&pq.pq, item)
	return item
}

func (pq *PriorityQueue[T]) Dequeue() (T, bool) {
	if pq.pq.Len() == 0 {
		var zero T
		return zero, false
	}
	item := heap.Pop(&pq.pq).(*PriorityItem[T])
	return item.Value, true
}

func (pq *PriorityQueue[T]) Peek() (T, bool) {
	if pq.pq.Len() == 0 {
		var zero T
		return zero, false
	}
	return pq.pq.items[0].Value, true
}

// Update replaces the value and priority of a queued item and restores heap
// order. The item keeps its original insertion rank.
func (pq *PriorityQueue[T]) Update(item *PriorityItem[T], value T, priority int) {
	if !item.Queued() {
		return
	}
	item.Value = value
	item.Priority = priority
	heap.Fix(&pq.pq, item.index)
}

// Remove drops a queued item. Removing an item that already left the queue
// is a no-op.
func (pq *PriorityQueue[T]) Remove(item *PriorityItem[T]) {
	if !item.Queued() || item.index >= pq.pq.Len() || pq.pq.items[item.index] != item {
		return
	}
	heap.Remove(&pq.pq, item.index)
}

func (pq *PriorityQueue[T]) Len() int {
	return pq.pq.Len()
}

func (pq *PriorityQueue[T]) IsEmpty() bool {
	return pq.pq.Len() == 0
}
