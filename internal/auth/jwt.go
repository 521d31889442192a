package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"assistant-gateway/internal/model"
)

// Claims mirrors the fields Supabase puts into its HS256 access tokens.
type Claims struct {
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

// JWTVerifier resolves users from access tokens locally, using the
// project's JWT secret. Expiry is enforced by the parser.
type JWTVerifier struct {
	Secret string
}

func (v *JWTVerifier) ResolveUser(_ context.Context, accessToken string) (model.User, error) {
	claims, err := VerifyToken(accessToken, v.Secret)
	if err != nil {
		return model.User{}, ErrUnauthenticated
	}
	aud := ""
	if len(claims.Audience) > 0 {
		aud = claims.Audience[0]
	}
	return model.User{
		ID:           claims.Subject,
		Aud:          aud,
		Email:        claims.Email,
		Role:         claims.Role,
		UserMetadata: claims.UserMetadata,
	}, nil
}

func VerifyToken(tokenString, secret string) (*Claims, error) {
	if secret == "" {
		return nil, errors.New("missing secret")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidSubject
	}
	return claims, nil
}
