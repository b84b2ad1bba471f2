package core

import "github.com/dkeye/Huddle/internal/domain"

// RoomPresence is the live member set of one room, keyed by connection and
// kept in join order. It is not goroutine-safe; the owning table locks it.
type RoomPresence struct {
	room   domain.RoomKey
	order  []domain.ConnectionID
	byConn map[domain.ConnectionID]domain.Identity
}

func NewRoomPresence(room domain.RoomKey) *RoomPresence {
	return &RoomPresence{
		room:   room,
		byConn: make(map[domain.ConnectionID]domain.Identity),
	}
}

func (r *RoomPresence) Room() domain.RoomKey { return r.room }

func (r *RoomPresence) Count() int { return len(r.order) }

// Add inserts the member. Re-adding a connection replaces its identity in place.
func (r *RoomPresence) Add(cid domain.ConnectionID, user domain.Identity) {
	if _, ok := r.byConn[cid]; !ok {
		r.order = append(r.order, cid)
	}
	r.byConn[cid] = user
}

// Remove drops the member and reports whether it was present.
func (r *RoomPresence) Remove(cid domain.ConnectionID) bool {
	if _, ok := r.byConn[cid]; !ok {
		return false
	}
	delete(r.byConn, cid)
	for i, id := range r.order {
		if id == cid {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *RoomPresence) Has(cid domain.ConnectionID) bool {
	_, ok := r.byConn[cid]
	return ok
}

func (r *RoomPresence) Snapshot() []domain.Member {
	out := make([]domain.Member, 0, len(r.order))
	for _, cid := range r.order {
		out = append(out, domain.NewMember(cid, r.byConn[cid]))
	}
	return out
}

func (r *RoomPresence) Connections() []domain.ConnectionID {
	out := make([]domain.ConnectionID, len(r.order))
	copy(out, r.order)
	return out
}
