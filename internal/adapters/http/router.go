package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/dkeye/Podcast/internal/adapters/auth"
	"github.com/dkeye/Podcast/internal/adapters/signal"
	"github.com/dkeye/Podcast/internal/app/orch"
	"github.com/dkeye/Podcast/internal/config"
	"github.com/dkeye/Podcast/internal/domain"
	rest "github.com/dkeye/Podcast/internal/transport/http"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	sessionName = "PodcastSessions"
	guestKey    = "guest_id"
	guestMaxAge = 3600 * 24 * 7
)

type Deps struct {
	Orch     *orch.Orchestrator
	Sessions rest.SessionFinder
	Auth     *auth.JWTService
}

// bearerToken looks for a JWT in the query, the Authorization header and
// the jwt cookie, in that order.
func bearerToken(c *gin.Context) string {
	if t := c.Query("token"); t != "" {
		return t
	}
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if t, err := c.Cookie("jwt"); err == nil {
		return t
	}
	return ""
}

// IdentityMiddleware resolves the caller to an authenticated user or a
// guest whose id survives reconnects through the session cookie.
func IdentityMiddleware(jwt *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			user, err := jwt.Verify(token)
			if err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("rejected token")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication error"})
				return
			}
			c.Set(signal.UserKey, user)
			c.Next()
			return
		}

		session := sessions.Default(c)
		guestID, _ := session.Get(guestKey).(string)
		if guestID == "" {
			guestID = uuid.NewString()
			session.Set(guestKey, guestID)
			if err := session.Save(); err != nil {
				log.Error().Err(err).Str("module", "adapters.http").Msg("save guest session")
			}
		}
		c.Set(signal.UserKey, domain.NewGuest(guestID))
		c.Next()
	}
}

// originChecker allows everything when allowed is empty.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(o, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: guestMaxAge, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(sessionName, store))

	api := r.Group("/api")

	handlers := &rest.Handlers{
		Sessions:   deps.Sessions,
		Rooms:      deps.Orch,
		ICEServers: cfg.WebRTCICEServers(),
	}
	handlers.Register(api)

	ctrl := signal.NewSignalWSController(deps.Orch, signal.Options{
		ReadLimit:   cfg.ReadLimit,
		PingPeriod:  cfg.PingPeriod,
		PongWait:    cfg.PongWait,
		WriteWait:   cfg.WriteWait,
		SendBuffer:  cfg.SendBuffer,
		Limiter:     signal.NewMessageRateLimiter(cfg.RateLimit.MessagesPerSecond, cfg.RateLimit.Burst),
		CheckOrigin: originChecker(cfg.AllowedOrigins),
	})
	api.GET("/ws/signal", IdentityMiddleware(deps.Auth), func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Int("origins", len(cfg.AllowedOrigins)).Msg("router setup")
	return r
}
