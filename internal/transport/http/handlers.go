package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/dkeye/Podcast/internal/core"
	"github.com/dkeye/Podcast/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

// SessionFinder returns active sessions only.
type SessionFinder interface {
	FindActiveSession(ctx context.Context, roomID domain.RoomID) (*domain.Session, error)
}

type RoomLister interface {
	ListRooms(ctx context.Context) ([]core.RoomInfo, error)
}

// Handlers is the thin REST surface next to the signaling socket.
type Handlers struct {
	Sessions   SessionFinder
	Rooms      RoomLister
	ICEServers []webrtc.ICEServer
}

func (h *Handlers) Register(api *gin.RouterGroup) {
	api.GET("/health", h.health)
	api.GET("/sessions/:roomId", h.session)
	api.GET("/rooms", h.rooms)
	api.GET("/ice-servers", h.iceServers)
}

func (h *Handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/sessions/:roomId returns active session metadata.
func (h *Handlers) session(c *gin.Context) {
	sess, err := h.Sessions.FindActiveSession(c.Request.Context(), domain.RoomID(c.Param("roomId")))
	if err != nil {
		if errors.Is(err, core.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		log.Error().Err(err).Str("module", "transport.http").Msg("session lookup")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get session"})
		return
	}
	c.JSON(http.StatusOK, sess)
}

// GET /api/rooms lists rooms with at least one live member.
func (h *Handlers) rooms(c *gin.Context) {
	rooms, err := h.Rooms.ListRooms(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("module", "transport.http").Msg("list rooms")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Unavailable"})
		return
	}
	if rooms == nil {
		rooms = []core.RoomInfo{}
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handlers) iceServers(c *gin.Context) {
	servers := h.ICEServers
	if servers == nil {
		servers = []webrtc.ICEServer{}
	}
	c.JSON(http.StatusOK, gin.H{"iceServers": servers})
}
