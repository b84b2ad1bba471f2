package app

import (
	"sort"
	"sync"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// PresenceTable maps each live room to its members. A room entry exists only
// while it has at least one member.
type PresenceTable struct {
	mu    sync.RWMutex
	rooms map[domain.RoomKey]*core.RoomPresence
}

func NewPresenceTable() *PresenceTable {
	return &PresenceTable{rooms: make(map[domain.RoomKey]*core.RoomPresence)}
}

// Join adds the member and returns the new count.
func (t *PresenceTable) Join(room domain.RoomKey, cid domain.ConnectionID, user domain.Identity) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.rooms[room]
	if !ok {
		p = core.NewRoomPresence(room)
		t.rooms[room] = p
		log.Debug().Str("module", "app.presence").Str("room", string(room)).Msg("room opened")
	}
	p.Add(cid, user)
	return p.Count()
}

// Leave removes the member and returns how many remain. The room entry is
// dropped when the last member leaves.
func (t *PresenceTable) Leave(room domain.RoomKey, cid domain.ConnectionID) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.rooms[room]
	if !ok {
		return 0
	}
	p.Remove(cid)
	n := p.Count()
	if n == 0 {
		delete(t.rooms, room)
		log.Debug().Str("module", "app.presence").Str("room", string(room)).Msg("room closed")
	}
	return n
}

func (t *PresenceTable) MembersOf(room domain.RoomKey) []domain.Member {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.rooms[room]
	if !ok {
		return []domain.Member{}
	}
	return p.Snapshot()
}

func (t *PresenceTable) CountOf(room domain.RoomKey) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if p, ok := t.rooms[room]; ok {
		return p.Count()
	}
	return 0
}

func (t *PresenceTable) Contains(room domain.RoomKey, cid domain.ConnectionID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.rooms[room]
	return ok && p.Has(cid)
}

func (t *PresenceTable) ConnectionsOf(room domain.RoomKey) []domain.ConnectionID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if p, ok := t.rooms[room]; ok {
		return p.Connections()
	}
	return nil
}

func (t *PresenceTable) Has(room domain.RoomKey) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.rooms[room]
	return ok
}

// Rooms lists live rooms sorted by name.
func (t *PresenceTable) Rooms() []domain.RoomInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.RoomInfo, 0, len(t.rooms))
	for name, p := range t.rooms {
		out = append(out, domain.RoomInfo{Name: name, MemberCount: p.Count()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
