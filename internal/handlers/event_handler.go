package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"teamchat/internal/realtime"
)

const keepAliveInterval = 25 * time.Second

// Subscriber is the read side of the realtime hub.
type Subscriber interface {
	Subscribe(teamID int64) (<-chan realtime.Event, func())
}

type EventHandler struct {
	hub Subscriber
}

func NewEventHandler(hub Subscriber) *EventHandler {
	return &EventHandler{hub: hub}
}

// Stream godoc
// @Summary      Server-sent change notifications for a team
// @Description  Each event names what changed; clients refetch the affected resource.
// @Tags         Events
// @Produce      text/event-stream
// @Param        teamID  path  int  true  "Team ID"
// @Success      200
// @Security     BearerAuth
// @Router       /teams/{teamID}/events [get]
func (h *EventHandler) Stream(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	events, unsubscribe := h.hub.Subscribe(teamID)
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	ctx := c.Request.Context()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Type), ev)
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
}
