package app

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Huddle/internal/domain"
)

func TestPresenceRoomExistsOnlyWhileOccupied(t *testing.T) {
	p := NewPresenceTable()
	assert.Equal(t, 1, p.Join("lobby", "a", domain.Identity{Username: "ann"}))
	assert.Equal(t, 2, p.Join("lobby", "b", domain.Identity{Username: "bob"}))
	assert.True(t, p.Has("lobby"))

	assert.Equal(t, 1, p.Leave("lobby", "a"))
	assert.True(t, p.Has("lobby"))
	assert.Equal(t, 0, p.Leave("lobby", "b"))
	assert.False(t, p.Has("lobby"))
	assert.Empty(t, p.Rooms())
	assert.Equal(t, []domain.Member{}, p.MembersOf("lobby"))
}

func TestPresenceLeaveUnknownIsNoop(t *testing.T) {
	p := NewPresenceTable()
	assert.Equal(t, 0, p.Leave("nowhere", "a"))
	p.Join("lobby", "a", domain.Identity{Username: "ann"})
	assert.Equal(t, 1, p.Leave("lobby", "ghost"))
}

func TestPresenceRoomsSorted(t *testing.T) {
	p := NewPresenceTable()
	p.Join("zeta", "a", domain.Identity{Username: "ann"})
	p.Join("alpha", "b", domain.Identity{Username: "bob"})
	p.Join("alpha", "c", domain.Identity{Username: "cyd"})

	rooms := p.Rooms()
	require.Len(t, rooms, 2)
	assert.Equal(t, domain.RoomInfo{Name: "alpha", MemberCount: 2}, rooms[0])
	assert.Equal(t, domain.RoomInfo{Name: "zeta", MemberCount: 1}, rooms[1])
}

func TestPresenceConcurrentJoinLeave(t *testing.T) {
	p := NewPresenceTable()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cid := domain.ConnectionID(fmt.Sprintf("c%d", i))
			p.Join("lobby", cid, domain.Identity{Username: "u"})
			if i%2 == 0 {
				p.Leave("lobby", cid)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 25, p.CountOf("lobby"))
	assert.Len(t, p.ConnectionsOf("lobby"), 25)
}
