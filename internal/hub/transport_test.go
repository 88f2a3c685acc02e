package hub

import (
	"slices"
	"sync"

	"github.com/Tege1337/chess2.0/pkg/types"
)

type delivery struct {
	To    string
	Group string
	Msg   types.ServerMessage
}

// recorder is an in-memory Transport that logs every delivery.
type recorder struct {
	mu     sync.Mutex
	groups map[string][]string
	sent   []delivery
}

func newRecorder() *recorder {
	return &recorder{groups: make(map[string][]string)}
}

func (r *recorder) Unicast(connID string, msg types.ServerMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, delivery{To: connID, Msg: msg})
}

func (r *recorder) Broadcast(sessionID string, msg types.ServerMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.groups[sessionID] {
		r.sent = append(r.sent, delivery{To: id, Group: sessionID, Msg: msg})
	}
}

func (r *recorder) Bind(sessionID string, connIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[sessionID] = slices.Clone(connIDs)
}

func (r *recorder) Unbind(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.groups, sessionID)
}

// to returns what connID received, oldest first.
func (r *recorder) to(connID string) []types.ServerMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []types.ServerMessage
	for _, d := range r.sent {
		if d.To == connID {
			out = append(out, d.Msg)
		}
	}
	return out
}

func (r *recorder) typesTo(connID string) []string {
	var out []string
	for _, m := range r.to(connID) {
		out = append(out, m.Type)
	}
	return out
}

func (r *recorder) count(msgType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.sent {
		if d.Msg.Type == msgType {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}

// bound reports how many session groups are still bound.
func (r *recorder) bound() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.groups)
}
