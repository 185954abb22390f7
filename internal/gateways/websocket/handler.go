package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"taskboard/internal/app/identity"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type ServeWSHandler struct {
	hub         *Hub
	identitySvc identity.Service
}

func NewServeWSHandler(hub *Hub, identitySvc identity.Service) *ServeWSHandler {
	return &ServeWSHandler{hub: hub, identitySvc: identitySvc}
}

func (h *ServeWSHandler) ServeWS(c *gin.Context) {
	sessionKey := c.Query("session_key")
	if sessionKey == "" {
		h.hub.logger.Warnw("WebSocket connection rejected: session_key missing",
			"client_ip", c.ClientIP(),
			"user_agent", c.GetHeader("User-Agent"),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_key is required"})
		return
	}

	auth, err := h.identitySvc.GetAuth(sessionKey)
	if err != nil {
		h.hub.logger.Warnw("WebSocket connection rejected: session not found",
			"client_ip", c.ClientIP(),
		)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.logger.Errorw("Failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		ID:     generateClientID(),
		UserID: auth.UserID,
		OrgID:  auth.OrgID,
	}

	h.hub.logger.Infow("WebSocket connection established",
		"client_id", client.ID,
		"user_id", client.UserID,
		"org_id", client.OrgID,
		"client_ip", c.ClientIP(),
	)

	h.hub.register <- client

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
	h.hub.unregister <- client
}
