package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Tege1337/chess2.0/internal/engine"
	"github.com/Tege1337/chess2.0/pkg/types"
)

func newTestHub(t *testing.T, opts ...Option) (*Hub, *recorder) {
	t.Helper()
	o, rec := newTestOrchestrator(opts...)
	h := NewHub(context.Background(), o, zap.NewNop(), 8)
	t.Cleanup(func() {
		h.Inbox() <- ShutdownHub{}
		<-h.Done()
	})
	return h, rec
}

func send(t *testing.T, h *Hub, m func(reply chan error) HubMsg) error {
	t.Helper()
	reply := make(chan error, 1)
	h.Inbox() <- m(reply)
	select {
	case err := <-reply:
		return err
	case <-time.After(time.Second):
		t.Fatal("no reply from hub")
		return nil
	}
}

func TestHub_PairsThroughInbox(t *testing.T) {
	h, rec := newTestHub(t, WithCoin(func() bool { return true }))

	for _, id := range []string{"a", "b"} {
		require.NoError(t, send(t, h, func(r chan error) HubMsg { return Connect{ConnID: id, Reply: r} }))
	}
	require.NoError(t, send(t, h, func(r chan error) HubMsg { return FindGame{ConnID: "a", Reply: r} }))
	require.NoError(t, send(t, h, func(r chan error) HubMsg { return FindGame{ConnID: "b", Reply: r} }))

	assert.Equal(t, []string{types.EventWaiting, types.EventGameStart}, rec.typesTo("a"))
	assert.Equal(t, []string{types.EventGameStart}, rec.typesTo("b"))

	stats, err := h.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Connections: 2, Waiting: 0, Sessions: 1}, stats)
}

func TestHub_RejectedMoveRepliesAndReports(t *testing.T) {
	h, rec := newTestHub(t, WithCoin(func() bool { return true }))

	for _, id := range []string{"b", "w"} {
		require.NoError(t, send(t, h, func(r chan error) HubMsg { return Connect{ConnID: id, Reply: r} }))
		require.NoError(t, send(t, h, func(r chan error) HubMsg { return FindGame{ConnID: id, Reply: r} }))
	}
	rec.reset()

	err := send(t, h, func(r chan error) HubMsg {
		return SubmitMove{ConnID: "b", Move: engine.MoveRequest{From: "e7", To: "e5"}, Reply: r}
	})
	require.ErrorIs(t, err, ErrNotYourTurn)

	msgs := rec.to("b")
	require.Len(t, msgs, 1)
	assert.Equal(t, types.EventError, msgs[0].Type)
	assert.Equal(t, "Not your turn", msgs[0].Error)
	assert.Empty(t, rec.to("w"))
}

func TestHub_DuplicateFindGameIsRejected(t *testing.T) {
	h, rec := newTestHub(t)

	require.NoError(t, send(t, h, func(r chan error) HubMsg { return Connect{ConnID: "a", Reply: r} }))
	require.NoError(t, send(t, h, func(r chan error) HubMsg { return FindGame{ConnID: "a", Reply: r} }))
	err := send(t, h, func(r chan error) HubMsg { return FindGame{ConnID: "a", Reply: r} })
	assert.ErrorIs(t, err, ErrAlreadyQueued)
	assert.Equal(t, []string{types.EventWaiting, types.EventError}, rec.typesTo("a"))
}

func TestHub_DisconnectThroughInbox(t *testing.T) {
	h, rec := newTestHub(t)

	for _, id := range []string{"a", "b"} {
		require.NoError(t, send(t, h, func(r chan error) HubMsg { return Connect{ConnID: id, Reply: r} }))
		require.NoError(t, send(t, h, func(r chan error) HubMsg { return FindGame{ConnID: id, Reply: r} }))
	}
	require.NoError(t, send(t, h, func(r chan error) HubMsg { return Disconnect{ConnID: "a", Reply: r} }))

	assert.Contains(t, rec.typesTo("b"), types.EventOpponentDisconnected)
	stats, err := h.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Connections: 1}, stats)
}

func TestHub_Shutdown(t *testing.T) {
	o, _ := newTestOrchestrator()
	h := NewHub(context.Background(), o, zap.NewNop(), 1)

	h.Inbox() <- ShutdownHub{}
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	err := h.Send(context.Background(), Connect{ConnID: "late"})
	// The buffered inbox may still accept one message after the loop exits.
	if err == nil {
		err = h.Send(context.Background(), Connect{ConnID: "later"})
	}
	assert.ErrorIs(t, err, context.Canceled)

	_, err = h.Stats(context.Background())
	assert.Error(t, err)
}

func TestHub_ParentCancelStopsLoop(t *testing.T) {
	o, rec := newTestOrchestrator()
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(ctx, o, zap.NewNop(), 4)

	for _, id := range []string{"a", "b"} {
		require.NoError(t, send(t, h, func(r chan error) HubMsg { return Connect{ConnID: id, Reply: r} }))
		require.NoError(t, send(t, h, func(r chan error) HubMsg { return FindGame{ConnID: id, Reply: r} }))
	}
	require.Equal(t, 1, rec.bound())

	cancel()
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("hub did not stop on parent cancel")
	}
	// Sessions still live at stop are retired.
	assert.Zero(t, rec.bound())
}
