package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

type memDirectory struct {
	mu      sync.Mutex
	rooms   map[domain.RoomKey]*domain.Room
	creates atomic.Int32
	delay   time.Duration
	err     error
}

func newMemDirectory() *memDirectory {
	return &memDirectory{rooms: make(map[domain.RoomKey]*domain.Room)}
}

func (d *memDirectory) FindByName(_ context.Context, name domain.RoomKey) (*domain.Room, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if r, ok := d.rooms[name]; ok {
		return r, nil
	}
	return nil, core.ErrNotFound
}

func (d *memDirectory) CreateOrGetByName(_ context.Context, name domain.RoomKey, attrs domain.RoomAttrs) (*domain.Room, error) {
	time.Sleep(d.delay)
	d.creates.Add(1)
	d.mu.Lock()
	defer d.mu.Unlock()
	if r, ok := d.rooms[name]; ok {
		return r, nil
	}
	r := &domain.Room{ID: domain.RoomID("id-" + string(name)), Name: name, CreatedBy: attrs.CreatedBy, Color: attrs.Color}
	d.rooms[name] = r
	return r, nil
}

func TestResolverCreatesOnFirstUse(t *testing.T) {
	dir := newMemDirectory()
	res := NewRoomResolver(dir)

	room, err := res.Resolve(context.Background(), "lobby", domain.Identity{Email: "a@x.io"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", room.CreatedBy)
	assert.Equal(t, domain.DefaultRoomColor, room.Color)

	again, err := res.Resolve(context.Background(), "lobby", domain.Identity{Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, room.ID, again.ID)
	assert.Equal(t, int32(1), dir.creates.Load())
}

func TestResolverConcurrentFirstUseSharesOneRecord(t *testing.T) {
	dir := newMemDirectory()
	dir.delay = 20 * time.Millisecond
	res := NewRoomResolver(dir)

	var wg sync.WaitGroup
	ids := make([]domain.RoomID, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := res.Resolve(context.Background(), "fresh", domain.Identity{Username: "u"})
			if assert.NoError(t, err) {
				ids[i] = r.ID
			}
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Len(t, dir.rooms, 1)
}

func TestResolverPropagatesStoreErrors(t *testing.T) {
	dir := newMemDirectory()
	dir.err = errors.New("db down")
	res := NewRoomResolver(dir)

	_, err := res.Resolve(context.Background(), "lobby", domain.Identity{Username: "u"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "db down")
	assert.Equal(t, int32(0), dir.creates.Load())
}
