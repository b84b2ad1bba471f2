package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

type emptyRooms struct{}

func (emptyRooms) FindByName(context.Context, domain.RoomKey) (*domain.Room, error) {
	return nil, core.ErrNotFound
}

func (emptyRooms) CreateOrGetByName(_ context.Context, name domain.RoomKey, _ domain.RoomAttrs) (*domain.Room, error) {
	return &domain.Room{ID: "r1", Name: name}, nil
}

func newEngine(ping func(context.Context) error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	o := orch.New(app.NewRegistry(), app.NewPresenceTable(), app.NewRoomResolver(emptyRooms{}), nil, nil)
	h := NewHandlers(o, ping, 50, []ICEServer{{URLs: []string{"turn:t.example.dev"}, Username: "u", Credential: "p"}})
	r := gin.New()
	h.Register(r)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthDegradedWhenDatabaseDown(t *testing.T) {
	r := newEngine(func(context.Context) error { return errors.New("database is closed") })
	w := get(r, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "DEGRADED")
}

func TestHistoryRejectsBadLimit(t *testing.T) {
	r := newEngine(nil)
	for _, q := range []string{"0", "-3", "ten"} {
		w := get(r, "/rooms/lobby/messages?limit="+q)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
	w := get(r, "/rooms/lobby/messages")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestICEServersCarryCredentials(t *testing.T) {
	r := newEngine(nil)
	w := get(r, "/ice-servers")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"urls":["turn:t.example.dev"]`)
	assert.Contains(t, w.Body.String(), `"username":"u"`)
	assert.Contains(t, w.Body.String(), `"credential":"p"`)
}

func TestRoomsEmpty(t *testing.T) {
	r := newEngine(nil)
	w := get(r, "/rooms")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
