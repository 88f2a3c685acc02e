package session

import "slices"

// Queue is the FIFO of connections waiting for an opponent.
type Queue struct {
	entries []string
}

func NewQueue() *Queue { return &Queue{} }

func (q *Queue) Push(id string) { q.entries = append(q.entries, id) }

// PushFront puts id back at the head, ahead of everyone else.
func (q *Queue) PushFront(id string) {
	q.entries = slices.Insert(q.entries, 0, id)
}

// Pop removes and returns the oldest entry.
func (q *Queue) Pop() (string, bool) {
	if len(q.entries) == 0 {
		return "", false
	}
	id := q.entries[0]
	q.entries[0] = ""
	q.entries = q.entries[1:]
	return id, true
}

// Remove drops id wherever it sits. Linear in queue length.
func (q *Queue) Remove(id string) bool {
	i := slices.Index(q.entries, id)
	if i < 0 {
		return false
	}
	q.entries = slices.Delete(q.entries, i, i+1)
	return true
}

func (q *Queue) Contains(id string) bool { return slices.Contains(q.entries, id) }

func (q *Queue) Len() int { return len(q.entries) }

// Snapshot returns the waiting ids oldest first.
func (q *Queue) Snapshot() []string { return slices.Clone(q.entries) }
