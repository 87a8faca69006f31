package dijkstra

import (
	"cmp"
	"container/heap"
)

// item is one heap entry. Stale entries stay in the heap and are skipped
// when popped (lazy decrease-key).
type item[N cmp.Ordered] struct {
	dist float64
	seq  int
	node N
}

// queue is a min-heap ordered by distance, then by insertion sequence.
type queue[N cmp.Ordered] []item[N]

func (q queue[N]) Len() int { return len(q) }

func (q queue[N]) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}

func (q queue[N]) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue[N]) Push(x any) { *q = append(*q, x.(item[N])) }

func (q *queue[N]) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

func (q *queue[N]) push(it item[N]) { heap.Push(q, it) }

func (q *queue[N]) pop() item[N] { return heap.Pop(q).(item[N]) }
