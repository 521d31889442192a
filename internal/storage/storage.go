package storage

import (
	"context"

	"assistant-gateway/internal/model"
)

// Storage persists the gateway's two tables and answers subscription
// lookups. Inserts are independent network calls; there is no transaction
// spanning an upstream call and a local row.
type Storage interface {
	// InsertThread stores one thread row and returns it as stored.
	InsertThread(ctx context.Context, thread model.Thread) (model.Thread, error)

	// InsertMessage stores one message row.
	InsertMessage(ctx context.Context, msg model.Message) error

	// GetActiveSubscription returns the user's active subscription row, or
	// nil when none exists.
	GetActiveSubscription(ctx context.Context, userID string) (*model.Subscription, error)

	Close() error
}
