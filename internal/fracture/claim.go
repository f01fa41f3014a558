package fracture

import "sync/atomic"

// ClaimMask records, per vertex, whether it is still available to any
// region. Flags only ever go from considered to claimed.
type ClaimMask struct {
	considered []atomic.Bool
}

// NewClaimMask returns a mask with every vertex considered.
func NewClaimMask(n int) *ClaimMask {
	m := &ClaimMask{considered: make([]atomic.Bool, n)}
	m.Reset()
	return m
}

// Reset marks every vertex considered again. Not safe for concurrent use.
func (m *ClaimMask) Reset() {
	for i := range m.considered {
		m.considered[i].Store(true)
	}
}

func (m *ClaimMask) Len() int { return len(m.considered) }

// Considered reports whether id is still unclaimed.
func (m *ClaimMask) Considered(id int) bool { return m.considered[id].Load() }

// Claim flips id from considered to claimed. It returns false when another
// region got there first.
func (m *ClaimMask) Claim(id int) bool { return m.considered[id].CompareAndSwap(true, false) }

// Unclaimed returns the ids that are still considered, ascending.
func (m *ClaimMask) Unclaimed() []int {
	var out []int
	for i := range m.considered {
		if m.considered[i].Load() {
			out = append(out, i)
		}
	}
	return out
}

// ClaimedCount returns the number of claimed vertices.
func (m *ClaimMask) ClaimedCount() int {
	n := 0
	for i := range m.considered {
		if !m.considered[i].Load() {
			n++
		}
	}
	return n
}
