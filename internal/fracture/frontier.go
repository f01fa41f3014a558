package fracture

// candidate is a vertex waiting to be tested, keyed by its distance from
// the region's seed.
type candidate struct {
	id       int
	priority float64
}

// frontier is a binary min-heap of candidates for container/heap. Equal
// priorities pop in ascending id order so growth is reproducible.
type frontier []candidate

func (q frontier) Len() int { return len(q) }

func (q frontier) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].id < q[j].id
}

func (q frontier) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *frontier) Push(x interface{}) { *q = append(*q, x.(candidate)) }

func (q *frontier) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
