package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// RoomResolver turns a room key into its durable record, creating it on first
// use. Concurrent resolutions of one key share a single lookup/create; other
// keys are not held up.
type RoomResolver struct {
	dir   core.RoomDirectory
	group singleflight.Group
}

func NewRoomResolver(dir core.RoomDirectory) *RoomResolver {
	return &RoomResolver{dir: dir}
}

func (r *RoomResolver) Resolve(ctx context.Context, key domain.RoomKey, creator domain.Identity) (*domain.Room, error) {
	v, err, shared := r.group.Do(string(key), func() (any, error) {
		room, err := r.dir.FindByName(ctx, key)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("find room %q: %w", key, err)
		}
		room, err = r.dir.CreateOrGetByName(ctx, key, domain.DefaultRoomAttrs(creator))
		if err != nil {
			return nil, fmt.Errorf("create room %q: %w", key, err)
		}
		log.Info().Str("module", "app.resolver").Str("room", string(key)).Str("id", string(room.ID)).Msg("room resolved by create")
		return room, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Str("module", "app.resolver").Str("room", string(key)).Msg("shared resolution")
	}
	return v.(*domain.Room), nil
}

// Lookup finds an existing room without creating it.
func (r *RoomResolver) Lookup(ctx context.Context, key domain.RoomKey) (*domain.Room, error) {
	return r.dir.FindByName(ctx, key)
}
