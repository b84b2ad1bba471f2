package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Huddle/internal/domain"
)

func TestRoomPresenceKeepsJoinOrder(t *testing.T) {
	p := NewRoomPresence("lobby")
	p.Add("c1", domain.Identity{Username: "ann"})
	p.Add("c2", domain.Identity{Username: "bob"})
	p.Add("c3", domain.Identity{Username: "cid"})

	snap := p.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, domain.ConnectionID("c1"), snap[0].ConnectionID)
	assert.Equal(t, domain.ConnectionID("c2"), snap[1].ConnectionID)
	assert.Equal(t, domain.ConnectionID("c3"), snap[2].ConnectionID)
	assert.Equal(t, "bob", snap[1].Username)
}

func TestRoomPresenceReAddReplacesInPlace(t *testing.T) {
	p := NewRoomPresence("lobby")
	p.Add("c1", domain.Identity{Username: "ann"})
	p.Add("c2", domain.Identity{Username: "bob"})
	p.Add("c1", domain.Identity{Username: "ann2"})

	assert.Equal(t, 2, p.Count())
	snap := p.Snapshot()
	assert.Equal(t, "ann2", snap[0].Username)
}

func TestRoomPresenceIdenticalIdentitiesAreIndependent(t *testing.T) {
	same := domain.Identity{UserID: "u1", Username: "ann"}
	p := NewRoomPresence("lobby")
	p.Add("tab-1", same)
	p.Add("tab-2", same)

	assert.True(t, p.Remove("tab-1"))
	assert.Equal(t, 1, p.Count())
	assert.True(t, p.Has("tab-2"))
	assert.False(t, p.Has("tab-1"))
	assert.False(t, p.Remove("tab-1"))
}

func TestRoomPresenceConnectionsIsACopy(t *testing.T) {
	p := NewRoomPresence("lobby")
	p.Add("c1", domain.Identity{Username: "ann"})
	conns := p.Connections()
	conns[0] = "mutated"
	assert.True(t, p.Has("c1"))
	assert.Equal(t, []domain.ConnectionID{"c1"}, p.Connections())
}

func TestEncodeEnvelope(t *testing.T) {
	f, err := Encode(NewEvent("users-count", 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"users-count","payload":0}`, string(f))

	f, err = Encode(NewEvent("pong", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pong"}`, string(f))
}
