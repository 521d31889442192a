package model

// User is the identity resolved from a Supabase access token. It is fetched
// per request and never cached or mutated locally.
type User struct {
	ID           string         `json:"id"`
	Aud          string         `json:"aud,omitempty"`
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    string         `json:"created_at,omitempty"`
}

// Subscription is a row from the subscriptions table. Write operations
// require one with status "active".
type Subscription struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

const SubscriptionStatusActive = "active"

// Thread mirrors one row of the threads table. The id is assigned by the
// LLM provider when the upstream thread is created.
type Thread struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// Message mirrors one row of the messages table. Ids are generated locally.
type Message struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	Content  string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Assistant is the upstream-owned LLM configuration; this system only
// passes it through.
type Assistant struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Model        string `json:"model"`
	Instructions string `json:"instructions"`
}
