package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func sseDelta(text string) string {
	payload, _ := json.Marshal(map[string]any{
		"delta": map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": map[string]any{"value": text}},
			},
		},
	})
	return "event: thread.message.delta\ndata: " + string(payload) + "\n\n"
}

func TestStreamRun_Recv(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/threads/thread_1/runs" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("OpenAI-Beta"); got != "assistants=v2" {
			t.Errorf("unexpected beta header %q", got)
		}
		var body map[string]any
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)
		if body["assistant_id"] != "asst_1" || body["stream"] != true {
			t.Errorf("unexpected run payload: %v", body)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: thread.run.created\ndata: {\"id\":\"run_1\"}\n\n")
		fmt.Fprint(w, sseDelta("Hel"))
		fmt.Fprint(w, sseDelta("lo"))
		fmt.Fprint(w, "event: thread.run.completed\ndata: {\"id\":\"run_1\"}\n\n")
		fmt.Fprint(w, "event: done\ndata: [DONE]\n\n")
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{APIKey: "sk-test", BaseURL: srv.URL}, zap.NewNop())
	stream, err := c.StreamRun(context.Background(), "thread_1", "asst_1")
	if err != nil {
		t.Fatalf("StreamRun: %v", err)
	}
	defer stream.Close()

	var events []StreamEvent
	for {
		ev, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		events = append(events, ev)
	}

	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d: %+v", len(events), events)
	}
	if events[0].Type != "thread.run.created" || events[0].Delta != "" {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1].Delta != "Hel" || events[2].Delta != "lo" {
		t.Fatalf("unexpected deltas: %+v", events)
	}
	if events[3].Type != "thread.run.completed" || events[3].Delta != "" {
		t.Fatalf("unexpected completion event: %+v", events[3])
	}
}

func TestStreamRun_UpstreamRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"message":"No thread found"}}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{APIKey: "sk-test", BaseURL: srv.URL}, zap.NewNop())
	if _, err := c.StreamRun(context.Background(), "missing", "asst_1"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseMessageDelta_IgnoresNonText(t *testing.T) {
	data := []byte(`{"delta":{"content":[{"type":"image_file","image_file":{"file_id":"f"}},{"type":"text","text":{"value":"ok"}}]}}`)
	if got := parseMessageDelta(data); got != "ok" {
		t.Fatalf("expected %q, got %q", "ok", got)
	}
	if got := parseMessageDelta([]byte("not json")); got != "" {
		t.Fatalf("expected empty delta, got %q", got)
	}
}
