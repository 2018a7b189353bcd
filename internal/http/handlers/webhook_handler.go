// README: Inbound SMS webhook handler; Twilio form in, TwiML out.
package handlers

import (
	"context"
	"encoding/xml"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"hail/internal/modules/conversation"
	"hail/internal/types"
)

// Dispatcher is the conversation machine as the gateway sees it.
type Dispatcher interface {
	Handle(ctx context.Context, ev conversation.Event) string
}

type WebhookHandler struct {
	conv Dispatcher
}

func NewWebhookHandler(conv Dispatcher) *WebhookHandler {
	return &WebhookHandler{conv: conv}
}

// twimlResponse renders the single reply back through the same request.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

func (h *WebhookHandler) Inbound(c *gin.Context) {
	from := strings.TrimSpace(c.PostForm("From"))
	if from == "" {
		writeError(c, http.StatusBadRequest, "missing sender")
		return
	}

	ev := conversation.Event{
		Sender: types.ID(from),
		Body:   c.PostForm("Body"),
	}

	// Both coordinate fields present is the sole signal a location was sent.
	latStr := c.PostForm("Latitude")
	lngStr := c.PostForm("Longitude")
	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr == nil && lngErr == nil {
			ev.Location = &types.Point{Lat: lat, Lng: lng}
		}
	}

	reply := h.conv.Handle(c.Request.Context(), ev)
	c.XML(http.StatusOK, twimlResponse{Message: reply})
}
