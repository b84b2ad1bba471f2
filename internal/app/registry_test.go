package app

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

type stubConn struct {
	closed atomic.Int32
}

func (c *stubConn) TrySend(core.Frame) error { return nil }
func (c *stubConn) Close()                   { c.closed.Add(1) }

func TestRegistryRegisterLookupUnregister(t *testing.T) {
	r := NewRegistry()
	conn := &stubConn{}
	r.Attach("c1", conn, "tok")

	_, _, ok := r.Lookup("c1")
	assert.False(t, ok, "attached but not joined")

	ann := domain.Identity{Username: "ann"}
	r.Register("c1", ann, "lobby")
	user, room, ok := r.Lookup("c1")
	require.True(t, ok)
	assert.Equal(t, ann, user)
	assert.Equal(t, domain.RoomKey("lobby"), room)
	assert.Equal(t, []domain.ConnectionID{"c1"}, r.MembersOfRoom("lobby"))

	user, room, ok = r.Unregister("c1")
	require.True(t, ok)
	assert.Equal(t, "ann", user.Username)
	assert.Equal(t, domain.RoomKey("lobby"), room)

	_, _, ok = r.Unregister("c1")
	assert.False(t, ok)

	got, ok := r.Conn("c1")
	require.True(t, ok, "transport survives leaving a room")
	assert.Same(t, conn, got)
	assert.Equal(t, "tok", r.Client("c1"))
}

func TestRegistryRegisterOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", domain.Identity{Username: "ann"}, "a")
	r.Register("c1", domain.Identity{Username: "ann"}, "b")
	_, room, ok := r.Lookup("c1")
	require.True(t, ok)
	assert.Equal(t, domain.RoomKey("b"), room)
	assert.Empty(t, r.MembersOfRoom("a"))
}

func TestRegistryConcurrentUnregisterOnlyOneWins(t *testing.T) {
	r := NewRegistry()
	r.Attach("c1", &stubConn{}, "")
	r.Register("c1", domain.Identity{Username: "ann"}, "lobby")

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, ok := r.Unregister("c1"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestRegistryKickAndCloseAll(t *testing.T) {
	r := NewRegistry()
	a, b := &stubConn{}, &stubConn{}
	r.Attach("a", a, "")
	r.Attach("b", b, "")

	assert.True(t, r.Kick("a"))
	assert.False(t, r.Kick("missing"))
	assert.Equal(t, int32(1), a.closed.Load())

	assert.Equal(t, 2, r.CloseAll())
	assert.Equal(t, int32(1), b.closed.Load())

	conn, ok := r.Detach("a")
	require.True(t, ok)
	assert.Same(t, a, conn)
	assert.Equal(t, 1, r.Count())
}
