package auth

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"assistant-gateway/internal/model"
)

type fakeUserSource struct {
	user  model.User
	err   error
	calls int
}

func (f *fakeUserSource) ResolveUser(_ context.Context, _ string) (model.User, error) {
	f.calls++
	return f.user, f.err
}

type fakeSubSource struct {
	sub   *model.Subscription
	err   error
	calls int
}

func (f *fakeSubSource) GetActiveSubscription(_ context.Context, _ string) (*model.Subscription, error) {
	f.calls++
	return f.sub, f.err
}

func TestValidate_EmptyToken(t *testing.T) {
	users := &fakeUserSource{}
	subs := &fakeSubSource{}
	v := &SupabaseValidator{Users: users, Subscriptions: subs, Logger: zap.NewNop()}

	if _, err := v.Validate(context.Background(), ""); err != ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if users.calls != 0 || subs.calls != 0 {
		t.Fatalf("expected no lookups for empty token")
	}
}

func TestValidate_WithSubscription(t *testing.T) {
	users := &fakeUserSource{user: model.User{ID: "user-1"}}
	subs := &fakeSubSource{sub: &model.Subscription{ID: "s1", UserID: "user-1", Status: "active"}}
	v := &SupabaseValidator{Users: users, Subscriptions: subs, Logger: zap.NewNop()}

	id, err := v.Validate(context.Background(), "token")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if id.User.ID != "user-1" || id.Subscription == nil || id.Subscription.ID != "s1" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestValidate_NoSubscription(t *testing.T) {
	users := &fakeUserSource{user: model.User{ID: "user-1"}}
	subs := &fakeSubSource{}
	v := &SupabaseValidator{Users: users, Subscriptions: subs, Logger: zap.NewNop()}

	id, err := v.Validate(context.Background(), "token")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if id.Subscription != nil {
		t.Fatalf("expected nil subscription, got %+v", id.Subscription)
	}
}

func TestValidate_UserLookupFails(t *testing.T) {
	users := &fakeUserSource{err: ErrUnauthenticated}
	subs := &fakeSubSource{}
	v := &SupabaseValidator{Users: users, Subscriptions: subs, Logger: zap.NewNop()}

	if _, err := v.Validate(context.Background(), "token"); err != ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if subs.calls != 0 {
		t.Fatalf("expected no subscription lookup after failed user lookup")
	}
}

func TestValidate_SubscriptionLookupFails(t *testing.T) {
	users := &fakeUserSource{user: model.User{ID: "user-1"}}
	subs := &fakeSubSource{err: errors.New("connection refused")}
	v := &SupabaseValidator{Users: users, Subscriptions: subs, Logger: zap.NewNop()}

	if _, err := v.Validate(context.Background(), "token"); err != ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
