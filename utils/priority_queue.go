package utils

// Comparable orders heterogeneous queue elements; Less reports whether the
// receiver sorts before other.
type Comparable interface {
	Less(other interface{}) bool
}

// PriorityQueue is a container/heap backing store over Comparable elements.
type PriorityQueue []Comparable

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	return pq[i].Less(pq[j])
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *PriorityQueue) Push(x interface{}) {
	*pq = append(*pq, x.(Comparable))
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
