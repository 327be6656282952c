package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/immxrtalbeast/meetflow/internal/events"
)

type EventsController struct {
	hub      *events.Hub
	upgrader websocket.Upgrader
}

func NewEventsController(hub *events.Hub) *EventsController {
	return &EventsController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Stream upgrades to a websocket and forwards the meeting's events until the
// client disconnects. The events are advisory; clients reconcile through the
// REST endpoints.
func (c *EventsController) Stream(ctx *gin.Context) {
	meetingID, err := uuid.Parse(ctx.Param("meetingID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
		return
	}

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		return
	}

	sub := c.hub.Subscribe(meetingID)

	go forwardEvents(conn, sub)

	// drain reads to notice disconnects; clients do not send anything useful
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			c.hub.Unsubscribe(sub)
			conn.Close()
			return
		}
	}
}

func forwardEvents(conn *websocket.Conn, sub *events.Subscriber) {
	for event := range sub.C {
		if err := conn.WriteJSON(event); err != nil {
			return
		}
	}
}
