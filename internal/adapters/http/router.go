package http

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/adapters/signal"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/config"
	transport "github.com/dkeye/Huddle/internal/transport/http"
)

const clientTokenKey = "ct"

func genClientToken() string {
	idStr := uuid.NewString()
	return idStr
}

// ClientTokenMiddleware keeps a per-browser token in the session. It only
// correlates log lines; it is not an identity.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(clientTokenKey).(string)
		if token == "" {
			token = genClientToken()
			session.Set(clientTokenKey, token)
			if err := session.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("session save")
			}
		}
		c.Set("client_token", token)
		c.Next()
	}
}

type Deps struct {
	Orch    *orch.Orchestrator
	Limiter signal.Limiter
	// Ping reports database health for /api/health. Optional.
	Ping func(ctx context.Context) error
}

func SetupRouter(ctx context.Context, cfg *config.Config, deps Deps) (*gin.Engine, error) {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	origins, err := NewOriginMatcher(cfg.AllowedOrigins, cfg.AllowedOriginPatterns)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  origins.Allow,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	r.Use(sessions.Sessions("HuddleSessions", store))
	r.Use(ClientTokenMiddleware())

	opts := signal.Options{
		ReadLimit:   cfg.ReadLimit,
		PingPeriod:  cfg.PingPeriod,
		PongWait:    cfg.PongWait,
		WriteWait:   cfg.WriteWait,
		SendBuffer:  cfg.SendBuffer,
		CheckOrigin: origins.CheckOrigin,
	}
	ctrl := signal.NewSignalWSController(deps.Orch, deps.Limiter, opts)

	handlers := transport.NewHandlers(deps.Orch, deps.Ping, cfg.HistoryLimit, iceServers(cfg.ICEServers))
	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	handlers.Register(api)
	api.GET("/ws", func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Int("origins", len(cfg.AllowedOrigins)).
		Int("origin_patterns", len(cfg.AllowedOriginPatterns)).Msg("router setup")
	return r, nil
}

func iceServers(in []config.ICEServer) []transport.ICEServer {
	out := make([]transport.ICEServer, 0, len(in))
	for _, s := range in {
		out = append(out, transport.ICEServer{URLs: s.URLs, Username: s.Username, Credential: s.Credential})
	}
	return out
}
