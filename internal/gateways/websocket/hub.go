package websocket

import (
	"crypto/rand"
	"encoding/base64"

	"go.uber.org/zap"
	"taskboard/internal/utils"
)

type Client struct {
	hub    *Hub
	conn   ClientConn
	ID     string
	UserID string
	OrgID  string
}

type ClientConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	Close() error
}

func generateClientID() string {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "xxxxx"
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

// Hub fans out view-invalidation events to connected clients. Clients
// receiving a board_stale event re-fetch the board view over HTTP; no
// board data travels over the socket itself.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	eventBus   *utils.EventBus
	logger     *zap.SugaredLogger
}

func NewHub(eventBus *utils.EventBus, logger *zap.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		eventBus:   eventBus,
		logger:     logger.Sugar(),
	}
}

func (h *Hub) Run() {
	h.logger.Info("WebSocket Hub started")

	events := h.eventBus.SubscribeCh()

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Infow("Client connected",
				"client_id", client.ID,
				"clients_count", len(h.clients),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.logger.Infow("Client disconnected",
					"client_id", client.ID,
					"clients_count", len(h.clients),
				)
			}

		case event := <-events:
			for client := range h.clients {
				if err := client.conn.WriteJSON(event); err != nil {
					h.logger.Warnw("Failed to send event, dropping client",
						"client_id", client.ID,
						"event", event.Event,
						"error", err,
					)
					client.conn.Close()
					delete(h.clients, client)
				}
			}
		}
	}
}
