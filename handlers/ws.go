package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/mindbankhq/mindbank-api/middleware"
)

// WSHandler pushes invalidation signals to a user's other open
// sessions: move a task on the phone, the desktop board refreshes.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive for cloud hosting that kills idle connections.
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("🔌 Board client disconnected: %v", userID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades an authenticated request to a websocket and tags
// the session with the user id for targeted broadcasts.
func (h *WSHandler) HandleWS(c *gin.Context) {
	userID := middleware.GetUserID(c)

	err := h.M.HandleRequestWithKeys(c.Writer, c.Request, map[string]interface{}{
		"user_id": userID,
	})
	if err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// BroadcastUpdate signals all of a user's sessions that a resource
// changed and should be refetched.
func (h *WSHandler) BroadcastUpdate(userID string, updateType string, resourceID string) {
	msg, err := json.Marshal(gin.H{"type": updateType, "id": resourceID})
	if err != nil {
		return
	}

	err = h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
		id, exists := s.Get("user_id")
		return exists && id == userID
	})
	if err != nil {
		log.Printf("⚠️ Error broadcasting to user %s: %v", userID, err)
	}
}
