package hub

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Tege1337/chess2.0/internal/engine"
)

type HubMsg interface{ isHubMsg() }

// Reply channels are optional; when set they must have room for one value.

type Connect struct {
	ConnID string
	Reply  chan error
}

type Disconnect struct {
	ConnID string
	Reply  chan error
}

type FindGame struct {
	ConnID string
	Reply  chan error
}

type SubmitMove struct {
	ConnID string
	Move   engine.MoveRequest
	Reply  chan error
}

type Rematch struct {
	ConnID string
	Reply  chan error
}

type GetStats struct {
	Reply chan Stats
}

type ShutdownHub struct{}

func (Connect) isHubMsg()     {}
func (Disconnect) isHubMsg()  {}
func (FindGame) isHubMsg()    {}
func (SubmitMove) isHubMsg()  {}
func (Rematch) isHubMsg()     {}
func (GetStats) isHubMsg()    {}
func (ShutdownHub) isHubMsg() {}

// Hub is the reactor: one goroutine that applies every inbound event to the
// Orchestrator, one at a time, run to completion.
type Hub struct {
	inbox  chan HubMsg
	orch   *Orchestrator
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewHub(parent context.Context, orch *Orchestrator, logger *zap.Logger, inboxSize int) *Hub {
	if inboxSize <= 0 {
		inboxSize = 64
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, inboxSize),
		orch:   orch,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed once the loop has exited.
func (h *Hub) Done() <-chan struct{} { return h.done }

// Send enqueues m unless ctx ends or the hub stops first.
func (h *Hub) Send(ctx context.Context, m HubMsg) error {
	select {
	case h.inbox <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return fmt.Errorf("hub stopped: %w", context.Canceled)
	}
}

// Stats asks the loop for current counts.
func (h *Hub) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	if err := h.Send(ctx, GetStats{Reply: reply}); err != nil {
		return Stats{}, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	case <-h.done:
		return Stats{}, fmt.Errorf("hub stopped: %w", context.Canceled)
	}
}

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			h.logger.Info("hub stopped", zap.Any("stats", h.orch.Stats()))
			h.orch.Shutdown()
			return

		case m := <-h.inbox:
			h.handle(m)
		}
	}
}

func (h *Hub) handle(m HubMsg) {
	switch msg := m.(type) {
	case Connect:
		h.orch.Connect(msg.ConnID)
		reply(msg.Reply, nil)

	case Disconnect:
		err := h.run(msg.ConnID, func() error {
			h.orch.OnDisconnect(msg.ConnID)
			return nil
		})
		reply(msg.Reply, err)

	case FindGame:
		reply(msg.Reply, h.run(msg.ConnID, func() error {
			return h.orch.FindGame(msg.ConnID)
		}))

	case SubmitMove:
		reply(msg.Reply, h.run(msg.ConnID, func() error {
			return h.orch.SubmitMove(msg.ConnID, msg.Move)
		}))

	case Rematch:
		reply(msg.Reply, h.run(msg.ConnID, func() error {
			return h.orch.RequestRematch(msg.ConnID)
		}))

	case GetStats:
		msg.Reply <- h.orch.Stats()

	case ShutdownHub:
		h.cancel()
	}
}

// run executes op and reports a failure to connID only. A panic is contained
// here so one bad request cannot stop the loop.
func (h *Hub) run(connID string, op func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("handler panicked",
				zap.String("conn_id", connID),
				zap.Any("panic", r),
			)
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
		if err != nil {
			h.logger.Debug("request rejected",
				zap.String("conn_id", connID),
				zap.Error(err),
			)
			h.orch.Report(connID, err)
		}
	}()
	return op()
}

func reply(ch chan error, err error) {
	if ch != nil {
		ch <- err
	}
}
