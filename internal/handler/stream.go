package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"assistant-gateway/internal/middleware"
	"assistant-gateway/internal/relay"
)

type StreamHandler struct {
	Relay *relay.Relay
	// AssistantID is the configured default assistant. When unset, stream
	// requests are rejected before any channel is opened.
	AssistantID string
	Logger      *zap.Logger
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Stream relays one run as a server-sent event stream.
func (h *StreamHandler) Stream(c *gin.Context) {
	req, ok := h.streamRequest(c)
	if !ok {
		return
	}

	sink, err := relay.NewSSESink(c.Writer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.Relay.Run(c.Request.Context(), req, sink)
}

// StreamWS is the WebSocket variant: same relay, one text message per
// frame.
func (h *StreamHandler) StreamWS(c *gin.Context) {
	req, ok := h.streamRequest(c)
	if !ok {
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer ws.Close()

	sink := &relay.WebSocketSink{Conn: ws}
	h.Relay.Run(c.Request.Context(), req, sink)

	deadline := time.Now().Add(time.Second)
	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
}

// streamRequest runs the pre-stream rejections: identity, thread id, and
// the configured assistant. All three answer with plain JSON so no stream
// headers are sent on failure.
func (h *StreamHandler) streamRequest(c *gin.Context) (relay.Request, bool) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return relay.Request{}, false
	}

	threadID := c.Query("thread_id")
	if threadID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "thread_id is required"})
		return relay.Request{}, false
	}

	if h.AssistantID == "" {
		h.Logger.Error("OPENAI_ASSISTANT_ID not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Assistant configuration missing"})
		return relay.Request{}, false
	}

	return relay.Request{
		ThreadID:    threadID,
		AssistantID: h.AssistantID,
		UserID:      identity.User.ID,
	}, true
}
