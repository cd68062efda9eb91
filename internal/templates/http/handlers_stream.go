package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/domain"
	"github.com/gin-gonic/gin"
)

const (
	keepAliveInterval = 15 * time.Second
	streamBuffer      = 8
)

// StreamTemplateEvents streams collection changes using Server-Sent Events (SSE)
func (h *Handler) StreamTemplateEvents(c *gin.Context) {
	// Set SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	events := make(chan domain.ChangeEvent, streamBuffer)
	unsubscribe := h.store.Subscribe(func(ev domain.ChangeEvent) {
		for {
			select {
			case events <- ev:
				return
			default:
			}
			// Slow client: drop the oldest pending event, every event carries
			// the full collection anyway.
			select {
			case <-events:
			default:
			}
		}
	})
	defer unsubscribe()

	initial := h.store.List("")
	writeEvent(c, "initial", gin.H{"templates": initial, "count": len(initial)})
	flusher.Flush()

	ctx := c.Request.Context()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case ev := <-events:
			writeEvent(c, "templates", gin.H{
				"operation": ev.Operation,
				"templates": ev.Templates,
				"count":     len(ev.Templates),
			})
			flusher.Flush()
		}
	}
}

func writeEvent(c *gin.Context, name string, payload any) {
	data, _ := json.Marshal(payload)
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", name, string(data))
}
