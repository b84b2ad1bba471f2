package app

import (
	"sync"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	Conn   core.SignalConnection
	Client string
	Room   domain.RoomKey
	User   domain.Identity
	Joined bool
}

// Registry maps live connections to their transport and to the room they joined.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.ConnectionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.ConnectionID]*sessionEntry),
	}
}

// Attach binds a freshly accepted connection. client is the browser token used
// only to correlate logs.
func (r *Registry) Attach(cid domain.ConnectionID, conn core.SignalConnection, client string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[cid] = &sessionEntry{Conn: conn, Client: client}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("client", client).Msg("attached connection")
}

// Detach forgets the connection entirely and returns its transport, if any.
func (r *Registry) Detach(cid domain.ConnectionID) (core.SignalConnection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[cid]
	if !ok {
		return nil, false
	}
	delete(r.sessions, cid)
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("detached connection")
	return e.Conn, e.Conn != nil
}

// Register records that cid joined room as user, overwriting any previous
// association. Callers clear the old room's presence first.
func (r *Registry) Register(cid domain.ConnectionID, user domain.Identity, room domain.RoomKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[cid]
	if !ok {
		e = &sessionEntry{}
		r.sessions[cid] = e
	}
	e.User = user
	e.Room = room
	e.Joined = true
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("room", string(room)).Msg("registered")
}

func (r *Registry) Lookup(cid domain.ConnectionID) (domain.Identity, domain.RoomKey, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[cid]
	if !ok || !e.Joined {
		return domain.Identity{}, "", false
	}
	return e.User, e.Room, true
}

// Unregister removes the room association and returns it. Of two concurrent
// calls for the same connection only one observes ok == true.
func (r *Registry) Unregister(cid domain.ConnectionID) (domain.Identity, domain.RoomKey, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[cid]
	if !ok || !e.Joined {
		return domain.Identity{}, "", false
	}
	user, room := e.User, e.Room
	e.User = domain.Identity{}
	e.Room = ""
	e.Joined = false
	if e.Conn == nil {
		delete(r.sessions, cid)
	}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("room", string(room)).Msg("unregistered")
	return user, room, true
}

func (r *Registry) Conn(cid domain.ConnectionID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[cid]
	if !ok || e.Conn == nil {
		return nil, false
	}
	return e.Conn, true
}

func (r *Registry) Client(cid domain.ConnectionID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[cid]; ok {
		return e.Client
	}
	return ""
}

// Kick closes the transport. The connection's read loop then runs the normal
// disconnect path.
func (r *Registry) Kick(cid domain.ConnectionID) bool {
	conn, ok := r.Conn(cid)
	if !ok {
		return false
	}
	conn.Close()
	log.Warn().Str("module", "app.registry").Str("cid", string(cid)).Msg("kicked connection")
	return true
}

// CloseAll closes every attached transport and reports how many there were.
func (r *Registry) CloseAll() int {
	r.mu.RLock()
	conns := make([]core.SignalConnection, 0, len(r.sessions))
	for _, e := range r.sessions {
		if e.Conn != nil {
			conns = append(conns, e.Conn)
		}
	}
	r.mu.RUnlock()

	for _, c := range conns {
		c.Close()
	}
	log.Info().Str("module", "app.registry").Int("closed", len(conns)).Msg("closed all connections")
	return len(conns)
}

// Count reports attached connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// MembersOfRoom lists connections whose registered room is name.
func (r *Registry) MembersOfRoom(name domain.RoomKey) []domain.ConnectionID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ConnectionID, 0)
	for cid, e := range r.sessions {
		if e.Joined && e.Room == name {
			out = append(out, cid)
		}
	}
	return out
}
