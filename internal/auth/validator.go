package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"assistant-gateway/internal/model"
)

// ErrUnauthenticated covers a missing, invalid, or expired credential.
// Callers surface it uniformly; no distinction is made beyond message text.
var ErrUnauthenticated = errors.New("invalid or expired token")

// Identity is the per-request result of validating an access token.
// Subscription is nil when the user has no active subscription row.
type Identity struct {
	User         model.User
	Subscription *model.Subscription
}

type Validator interface {
	Validate(ctx context.Context, accessToken string) (Identity, error)
}

// UserSource resolves an access token to a user. Implementations: the
// GoTrue REST endpoint, or local JWT verification.
type UserSource interface {
	ResolveUser(ctx context.Context, accessToken string) (model.User, error)
}

// SubscriptionSource is satisfied by the storage layer.
type SubscriptionSource interface {
	GetActiveSubscription(ctx context.Context, userID string) (*model.Subscription, error)
}

// SupabaseValidator resolves the user and looks up the active subscription
// on every call; nothing is cached across requests.
type SupabaseValidator struct {
	Users         UserSource
	Subscriptions SubscriptionSource
	Logger        *zap.Logger
}

func (v *SupabaseValidator) Validate(ctx context.Context, accessToken string) (Identity, error) {
	if accessToken == "" {
		return Identity{}, ErrUnauthenticated
	}

	user, err := v.Users.ResolveUser(ctx, accessToken)
	if err != nil {
		return Identity{}, err
	}

	sub, err := v.Subscriptions.GetActiveSubscription(ctx, user.ID)
	if err != nil {
		// The original behavior treats any verification failure as an
		// authentication failure rather than a server error.
		if v.Logger != nil {
			v.Logger.Error("subscription lookup failed", zap.Error(err), zap.String("user_id", user.ID))
		}
		return Identity{}, ErrUnauthenticated
	}

	return Identity{User: user, Subscription: sub}, nil
}
