package assistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{APIKey: "sk-test", BaseURL: srv.URL}, zap.NewNop())
}

func TestCreateAssistant_Defaults(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assistants" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("unmarshal request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"asst_1","object":"assistant","name":"Fashion Founder GPT","model":"gpt-4o","instructions":"x"}`))
	}))

	created, err := c.CreateAssistant(context.Background(), CreateParams{})
	if err != nil {
		t.Fatalf("CreateAssistant: %v", err)
	}
	if created.ID != "asst_1" {
		t.Fatalf("unexpected assistant: %+v", created)
	}
	if gotBody["name"] != DefaultAssistantName {
		t.Fatalf("expected default name, got %v", gotBody["name"])
	}
	if gotBody["model"] != DefaultModel {
		t.Fatalf("expected default model, got %v", gotBody["model"])
	}
	if gotBody["instructions"] != DefaultInstructions {
		t.Fatalf("expected default instructions, got %v", gotBody["instructions"])
	}
	if tools, present := gotBody["tools"]; present {
		if arr, ok := tools.([]any); !ok || len(arr) != 0 {
			t.Fatalf("expected empty tool set, got %v", tools)
		}
	}
}

func TestCreateAssistant_Overrides(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"id":"asst_2","model":"gpt-4o-mini","name":"Custom"}`))
	}))

	_, err := c.CreateAssistant(context.Background(), CreateParams{Name: "Custom", Model: "gpt-4o-mini", Instructions: "Be terse."})
	if err != nil {
		t.Fatalf("CreateAssistant: %v", err)
	}
	if gotBody["name"] != "Custom" || gotBody["model"] != "gpt-4o-mini" || gotBody["instructions"] != "Be terse." {
		t.Fatalf("unexpected payload: %v", gotBody)
	}
}

func TestListAssistants_Empty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assistants" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"object":"list","data":[]}`))
	}))

	list, err := c.ListAssistants(context.Background())
	if err != nil {
		t.Fatalf("ListAssistants: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}
}

func TestCreateThreadAndMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/threads":
			w.Write([]byte(`{"id":"thread_1","object":"thread"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/threads/thread_1/messages":
			raw, _ := io.ReadAll(r.Body)
			var body map[string]any
			json.Unmarshal(raw, &body)
			if body["role"] != "user" || body["content"] != "hello" {
				t.Errorf("unexpected message payload: %v", body)
			}
			w.Write([]byte(`{"id":"msg_1","object":"thread.message"}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	threadID, err := c.CreateThread(context.Background())
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}
	if threadID != "thread_1" {
		t.Fatalf("unexpected thread id %q", threadID)
	}
	if err := c.CreateMessage(context.Background(), threadID, "user", "hello"); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
}

func TestUpdateInstructions(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assistants/asst_1" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"id":"asst_1","model":"gpt-4o","instructions":"new text"}`))
	}))

	updated, err := c.UpdateInstructions(context.Background(), "asst_1", "new text")
	if err != nil {
		t.Fatalf("UpdateInstructions: %v", err)
	}
	if updated.Instructions != "new text" {
		t.Fatalf("unexpected assistant: %+v", updated)
	}
}
