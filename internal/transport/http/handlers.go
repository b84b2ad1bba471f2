// Package http holds the REST handlers of the hub.
package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

const MaxHistoryLimit = 500

// ICEServer is one configured STUN or TURN server.
type ICEServer struct {
	URLs       []string
	Username   string
	Credential string
}

type Handlers struct {
	orch         *orch.Orchestrator
	ping         func(ctx context.Context) error
	historyLimit int
	iceServers   []webrtc.ICEServer
}

func NewHandlers(o *orch.Orchestrator, ping func(ctx context.Context) error, historyLimit int, servers []ICEServer) *Handlers {
	ice := make([]webrtc.ICEServer, 0, len(servers))
	for _, s := range servers {
		srv := webrtc.ICEServer{URLs: s.URLs, Username: s.Username}
		if s.Credential != "" {
			srv.Credential = s.Credential
		}
		ice = append(ice, srv)
	}
	return &Handlers{orch: o, ping: ping, historyLimit: historyLimit, iceServers: ice}
}

func (h *Handlers) Register(r gin.IRoutes) {
	r.GET("/health", h.Health)
	r.GET("/rooms", h.Rooms)
	r.GET("/rooms/:name/messages", h.History)
	r.DELETE("/rooms/:name/messages/:id", h.DeleteMessage)
	r.GET("/ice-servers", h.ICEServers)
}

func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"connections": h.orch.Registry.Count(),
	}
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			body["status"] = "DEGRADED"
			body["database"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["database"] = "OK"
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handlers) Rooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.LiveRooms())
}

func (h *Handlers) History(c *gin.Context) {
	room, err := domain.ParseRoomKey(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit := h.historyLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, MaxHistoryLimit)
	}

	msgs, err := h.orch.History(c.Request.Context(), room, limit)
	if errors.Is(err, core.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "transport.http").Str("room", string(room)).Msg("history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *Handlers) DeleteMessage(c *gin.Context) {
	room, err := domain.ParseRoomKey(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := domain.MessageID(c.Param("id"))
	deletedBy := c.Query("deletedBy")

	err = h.orch.DeleteMessage(c.Request.Context(), room, id, deletedBy)
	if errors.Is(err, core.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "transport.http").Str("id", string(id)).Msg("delete message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messageId": id})
}

func (h *Handlers) ICEServers(c *gin.Context) {
	c.JSON(http.StatusOK, h.iceServers)
}
