package handlers

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/hiraya-ph/outage-watch/backend/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// RealtimeHandler upgrades dashboard connections into hub subscriptions
type RealtimeHandler struct {
	hub *realtime.Hub
}

// NewRealtimeHandler creates a new RealtimeHandler
func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// RegisterRealtimeRoutes registers the WebSocket endpoint
func (h *RealtimeHandler) RegisterRealtimeRoutes(g *echo.Group) {
	g.GET("/ws", h.Subscribe)
	g.GET("/ws/stats", h.Stats)
}

// Subscribe upgrades the connection and streams change events. Optional
// query params scope the subscription: table picks one table, barangay
// filters announcement events to a neighborhood.
func (h *RealtimeHandler) Subscribe(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return err
	}

	client := realtime.NewClient(h.hub, conn, c.QueryParam("table"), c.QueryParam("barangay"))
	go client.WritePump()
	go client.ReadPump()
	return nil
}

// Stats reports hub health for monitoring.
func (h *RealtimeHandler) Stats(c echo.Context) error {
	clients, lastBroadcast := h.hub.Stats()
	return c.JSON(http.StatusOK, echo.Map{
		"clients":           clients,
		"last_broadcast_at": lastBroadcast,
	})
}
