package assistant

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// EventThreadMessageDelta is the only upstream event kind the relay acts
// on; everything else passes through Recv with an empty Delta.
const EventThreadMessageDelta = "thread.message.delta"

// StreamEvent is one upstream run event. Delta carries the incremental
// text for thread.message.delta events and is empty otherwise.
type StreamEvent struct {
	Type  string
	Delta string
}

// RunStream reads the server-sent event sequence of a streamed run. The
// go-openai SDK does not cover run streaming, so this speaks the wire
// format directly.
type RunStream struct {
	body      io.ReadCloser
	scanner   *bufio.Scanner
	eventType string
}

// StreamRun starts a streamed run of the assistant against the thread.
func (c *Client) StreamRun(ctx context.Context, threadID, assistantID string) (*RunStream, error) {
	payload, err := json.Marshal(map[string]any{
		"assistant_id": assistantID,
		"stream":       true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal run payload: %w", err)
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/threads/" + threadID + "/runs"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("OpenAI-Beta", "assistants=v2")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("run request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, fmt.Errorf("run status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &RunStream{body: resp.Body, scanner: scanner}, nil
}

// Recv returns the next event in arrival order. It returns io.EOF when the
// provider signals completion or the stream ends.
func (s *RunStream) Recv() (StreamEvent, error) {
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if strings.HasPrefix(line, "event:") {
			s.eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			continue
		}
		if !strings.HasPrefix(line, "data:") {
			// Blank separators and comment lines.
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			return StreamEvent{}, io.EOF
		}

		event := StreamEvent{Type: s.eventType}
		if s.eventType == EventThreadMessageDelta {
			event.Delta = parseMessageDelta([]byte(data))
		}
		return event, nil
	}

	if err := s.scanner.Err(); err != nil {
		return StreamEvent{}, fmt.Errorf("read stream: %w", err)
	}
	return StreamEvent{}, io.EOF
}

func (s *RunStream) Close() error {
	return s.body.Close()
}

func parseMessageDelta(data []byte) string {
	var payload struct {
		Delta struct {
			Content []struct {
				Type string `json:"type"`
				Text struct {
					Value string `json:"value"`
				} `json:"text"`
			} `json:"content"`
		} `json:"delta"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	var b strings.Builder
	for _, part := range payload.Delta.Content {
		if part.Type == "text" {
			b.WriteString(part.Text.Value)
		}
	}
	return b.String()
}
