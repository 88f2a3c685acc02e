package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Tege1337/chess2.0/internal/engine"
)

func TestSession_Seats(t *testing.T) {
	s := &Session{ID: "g1", White: "a", Black: "b"}

	side, ok := s.SideOf("a")
	require.True(t, ok)
	assert.Equal(t, engine.White, side)
	side, ok = s.SideOf("b")
	require.True(t, ok)
	assert.Equal(t, engine.Black, side)
	_, ok = s.SideOf("c")
	assert.False(t, ok)

	opp, ok := s.Opponent("a")
	require.True(t, ok)
	assert.Equal(t, "b", opp)
	_, ok = s.Opponent("c")
	assert.False(t, ok)

	assert.Equal(t, "b", s.Seat(engine.Black))
	assert.Equal(t, []string{"a", "b"}, s.Participants())
}

func TestRegistry_CreateGetDelete(t *testing.T) {
	r := NewRegistry()
	pos := engine.NewChess().NewPosition()

	s, err := r.Create("g1", "a", "b", pos)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Count())

	got, ok := r.Get("g1")
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, []*Session{s}, r.All())

	_, err = r.Create("g1", "c", "d", pos)
	assert.ErrorIs(t, err, ErrSessionExists)

	removed, err := r.Delete("g1")
	require.NoError(t, err)
	assert.Same(t, s, removed)
	assert.False(t, r.Has("g1"))

	_, err = r.Delete("g1")
	assert.ErrorIs(t, err, ErrSessionMissing)
}

func TestRegistry_RejectsSelfSession(t *testing.T) {
	r := NewRegistry()
	_, err := r.Create("g1", "a", "a", nil)
	assert.ErrorIs(t, err, ErrSamePlayer)
	assert.Equal(t, 0, r.Count())
}

func TestConnections_Lifecycle(t *testing.T) {
	c := NewConnections()
	first := c.Add("a")
	assert.Same(t, first, c.Add("a"))

	_, ok := c.SessionOf("a")
	assert.False(t, ok)

	c.Join("a", "g1", "b")
	sid, ok := c.SessionOf("a")
	require.True(t, ok)
	assert.Equal(t, "g1", sid)

	c.Leave("a")
	_, ok = c.SessionOf("a")
	assert.False(t, ok)
	conn, _ := c.Get("a")
	assert.Equal(t, "b", conn.LastOpponent)

	c.Forget("a")
	assert.Empty(t, conn.LastOpponent)

	c.Remove("a")
	assert.Equal(t, 0, c.Count())
	// unknown ids are ignored
	c.Join("ghost", "g2", "x")
	_, ok = c.Get("ghost")
	assert.False(t, ok)
}

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	q.Push("a")
	q.Push("b")
	q.Push("c")

	id, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "a", id)

	q.PushFront("a")
	assert.Equal(t, []string{"a", "b", "c"}, q.Snapshot())

	assert.True(t, q.Remove("b"))
	assert.False(t, q.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, q.Snapshot())
	assert.True(t, q.Contains("c"))

	q.Pop()
	q.Pop()
	_, ok = q.Pop()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
}

func TestPropertyQueuePreservesArrivalOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		q := NewQueue()
		var model []string
		n := rapid.IntRange(1, 30).Draw(t, "n")
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("c%d", i)
			q.Push(id)
			model = append(model, id)
		}

		removals := rapid.IntRange(0, n).Draw(t, "removals")
		for i := 0; i < removals; i++ {
			idx := rapid.IntRange(0, n-1).Draw(t, "remove_idx")
			id := fmt.Sprintf("c%d", idx)
			if q.Remove(id) {
				for j, m := range model {
					if m == id {
						model = append(model[:j], model[j+1:]...)
						break
					}
				}
			}
		}

		for _, want := range model {
			got, ok := q.Pop()
			if !ok || got != want {
				t.Fatalf("pop: got %q (%v), want %q", got, ok, want)
			}
		}
		if q.Len() != 0 {
			t.Fatalf("queue not drained: %v", q.Snapshot())
		}
	})
}
