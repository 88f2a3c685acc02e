package session

// Connection is the registry's record of one live transport endpoint. It only
// refers to its session by id.
type Connection struct {
	ID string
	// SessionID is the active session, empty when idle or queued.
	SessionID string
	// LastOpponent is the peer of the most recent pairing. It outlives the
	// session itself so a finished game can still relay rematch requests.
	LastOpponent string
}

// Connections maps connection id to its record.
type Connections struct {
	conns map[string]*Connection
}

func NewConnections() *Connections {
	return &Connections{conns: make(map[string]*Connection)}
}

// Add registers id. Adding a known id is a no-op that returns the existing record.
func (c *Connections) Add(id string) *Connection {
	if conn, ok := c.conns[id]; ok {
		return conn
	}
	conn := &Connection{ID: id}
	c.conns[id] = conn
	return conn
}

func (c *Connections) Get(id string) (*Connection, bool) {
	conn, ok := c.conns[id]
	return conn, ok
}

// SessionOf returns the active session id for id, if any.
func (c *Connections) SessionOf(id string) (string, bool) {
	conn, ok := c.conns[id]
	if !ok || conn.SessionID == "" {
		return "", false
	}
	return conn.SessionID, true
}

// Join records that id now sits in sessionID against opponent.
func (c *Connections) Join(id, sessionID, opponent string) {
	if conn, ok := c.conns[id]; ok {
		conn.SessionID = sessionID
		conn.LastOpponent = opponent
	}
}

// Leave clears the active session reference but keeps the last opponent.
func (c *Connections) Leave(id string) {
	if conn, ok := c.conns[id]; ok {
		conn.SessionID = ""
	}
}

// Forget clears both the active session and the last opponent link.
func (c *Connections) Forget(id string) {
	if conn, ok := c.conns[id]; ok {
		conn.SessionID = ""
		conn.LastOpponent = ""
	}
}

func (c *Connections) Remove(id string) {
	delete(c.conns, id)
}

func (c *Connections) Count() int { return len(c.conns) }
