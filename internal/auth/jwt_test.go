package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return signed
}

func TestJWTVerifier_ResolveUser(t *testing.T) {
	secret := "jwt-secret"
	token := signTestToken(t, secret, Claims{
		Email: "a@example.com",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	v := &JWTVerifier{Secret: secret}
	user, err := v.ResolveUser(context.Background(), token)
	if err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}
	if user.ID != "user-1" || user.Email != "a@example.com" || user.Aud != "authenticated" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestJWTVerifier_Expired(t *testing.T) {
	secret := "jwt-secret"
	token := signTestToken(t, secret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	v := &JWTVerifier{Secret: secret}
	if _, err := v.ResolveUser(context.Background(), token); err != ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestJWTVerifier_WrongSecret(t *testing.T) {
	token := signTestToken(t, "other-secret", Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	v := &JWTVerifier{Secret: "jwt-secret"}
	if _, err := v.ResolveUser(context.Background(), token); err != ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestVerifyToken_MissingSubject(t *testing.T) {
	secret := "jwt-secret"
	token := signTestToken(t, secret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	if _, err := VerifyToken(token, secret); err == nil {
		t.Fatalf("expected error for missing subject")
	}
}
