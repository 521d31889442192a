package relay

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const doneSentinel = "[DONE]"

type contentFrame struct {
	Content string `json:"content"`
}

type errorFrame struct {
	Error string `json:"error"`
}

// SSESink writes frames as server-sent events and flushes after each one.
type SSESink struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSESink declares the response as an incrementally-flushed event
// stream and returns the sink.
func NewSSESink(w http.ResponseWriter) (*SSESink, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support flushing")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &SSESink{w: w, flusher: flusher}, nil
}

func (s *SSESink) SendContent(delta string) error {
	return s.writeFrame(contentFrame{Content: delta})
}

func (s *SSESink) SendError(message string) error {
	return s.writeFrame(errorFrame{Error: message})
}

func (s *SSESink) SendDone() error {
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", doneSentinel); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func (s *SSESink) writeFrame(frame any) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WebSocketSink writes each frame as one text message.
type WebSocketSink struct {
	Conn         *websocket.Conn
	WriteTimeout time.Duration
}

func (s *WebSocketSink) SendContent(delta string) error {
	return s.writeJSON(contentFrame{Content: delta})
}

func (s *WebSocketSink) SendError(message string) error {
	return s.writeJSON(errorFrame{Error: message})
}

func (s *WebSocketSink) SendDone() error {
	s.deadline()
	return s.Conn.WriteMessage(websocket.TextMessage, []byte(doneSentinel))
}

func (s *WebSocketSink) writeJSON(frame any) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	s.deadline()
	return s.Conn.WriteMessage(websocket.TextMessage, payload)
}

func (s *WebSocketSink) deadline() {
	timeout := s.WriteTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s.Conn.SetWriteDeadline(time.Now().Add(timeout))
}
