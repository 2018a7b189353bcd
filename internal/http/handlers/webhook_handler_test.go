// README: Webhook handler tests (form parsing, TwiML rendering).
package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"hail/internal/http/handlers"
	"hail/internal/modules/conversation"
)

// stubDispatcher records the last event and returns a canned reply.
type stubDispatcher struct {
	last  conversation.Event
	reply string
}

func (s *stubDispatcher) Handle(_ context.Context, ev conversation.Event) string {
	s.last = ev
	return s.reply
}

func buildRouter(d handlers.Dispatcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewWebhookHandler(d)
	r.POST("/webhook/sms", h.Inbound)
	return r
}

func postForm(r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/sms", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestInboundTextMessage(t *testing.T) {
	d := &stubDispatcher{reply: "Send 'HELP' for a list of available commands."}
	r := buildRouter(d)

	w := postForm(r, url.Values{
		"From": {"+15550001111"},
		"Body": {"hello"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<Response>") || !strings.Contains(body, "<Message>") {
		t.Errorf("body = %q, want TwiML envelope", body)
	}
	if !strings.Contains(body, d.reply) {
		t.Errorf("body = %q, want the dispatcher reply embedded", body)
	}
	if d.last.Sender != "+15550001111" || d.last.Body != "hello" {
		t.Errorf("event = %+v, want sender and body forwarded", d.last)
	}
	if d.last.Location != nil {
		t.Errorf("location = %v, want nil for a text message", d.last.Location)
	}
}

func TestInboundLocationMessage(t *testing.T) {
	d := &stubDispatcher{reply: "Location received. Please share your destination location."}
	r := buildRouter(d)

	w := postForm(r, url.Values{
		"From":      {"+15550001111"},
		"Latitude":  {"25.033"},
		"Longitude": {"121.565"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if d.last.Location == nil {
		t.Fatal("location = nil, want parsed coordinates")
	}
	if d.last.Location.Lat != 25.033 || d.last.Location.Lng != 121.565 {
		t.Errorf("location = %+v, want (25.033, 121.565)", d.last.Location)
	}
}

// One coordinate alone is not a location message.
func TestInboundPartialCoordinatesTreatedAsText(t *testing.T) {
	d := &stubDispatcher{reply: "ok"}
	r := buildRouter(d)

	postForm(r, url.Values{
		"From":     {"+15550001111"},
		"Body":     {"where am I"},
		"Latitude": {"25.033"},
	})
	if d.last.Location != nil {
		t.Errorf("location = %v, want nil with only one coordinate", d.last.Location)
	}
}

func TestInboundMissingSender(t *testing.T) {
	d := &stubDispatcher{reply: "ok"}
	r := buildRouter(d)

	w := postForm(r, url.Values{"Body": {"hello"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
