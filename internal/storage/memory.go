package storage

import (
	"context"
	"fmt"
	"sync"

	"assistant-gateway/internal/model"
)

// MemoryStorage keeps rows in process memory. Used in tests and for running
// the gateway without external storage.
type MemoryStorage struct {
	mu            sync.RWMutex
	threads       map[string]model.Thread
	messages      map[string]model.Message
	subscriptions map[string]model.Subscription // keyed by user id
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		threads:       make(map[string]model.Thread),
		messages:      make(map[string]model.Message),
		subscriptions: make(map[string]model.Subscription),
	}
}

func (s *MemoryStorage) InsertThread(_ context.Context, thread model.Thread) (model.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.threads[thread.ID]; exists {
		return model.Thread{}, fmt.Errorf("thread %s already exists", thread.ID)
	}
	s.threads[thread.ID] = thread
	return thread, nil
}

func (s *MemoryStorage) InsertMessage(_ context.Context, msg model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.messages[msg.ID]; exists {
		return fmt.Errorf("message %s already exists", msg.ID)
	}
	s.messages[msg.ID] = msg
	return nil
}

func (s *MemoryStorage) GetActiveSubscription(_ context.Context, userID string) (*model.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subscriptions[userID]
	if !ok || sub.Status != model.SubscriptionStatusActive {
		return nil, nil
	}
	copied := sub
	return &copied, nil
}

func (s *MemoryStorage) Close() error { return nil }

// SetSubscription seeds a subscription row.
func (s *MemoryStorage) SetSubscription(sub model.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions[sub.UserID] = sub
}

// Messages returns all stored messages for a thread, in no particular order.
func (s *MemoryStorage) Messages(threadID string) []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Message
	for _, m := range s.messages {
		if m.ThreadID == threadID {
			out = append(out, m)
		}
	}
	return out
}

// Thread returns a stored thread row by id.
func (s *MemoryStorage) Thread(id string) (model.Thread, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[id]
	return t, ok
}
