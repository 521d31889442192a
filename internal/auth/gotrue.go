package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"assistant-gateway/internal/model"
)

// GoTrueClient asks the Supabase auth endpoint who a token belongs to.
type GoTrueClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

type GoTrueConfig struct {
	// SupabaseURL is the project URL, e.g. https://proj.supabase.co.
	SupabaseURL string
	// APIKey is sent as the apikey header; the service-role key works here.
	APIKey     string
	HTTPClient *http.Client
}

func NewGoTrueClient(cfg GoTrueConfig, logger *zap.Logger) (*GoTrueClient, error) {
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("supabase url is empty")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &GoTrueClient{
		baseURL:    strings.TrimSuffix(cfg.SupabaseURL, "/") + "/auth/v1",
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

func (c *GoTrueClient) ResolveUser(ctx context.Context, accessToken string) (model.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return model.User{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("auth service unreachable", zap.Error(err))
		}
		return model.User{}, ErrUnauthenticated
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return model.User{}, ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return model.User{}, ErrUnauthenticated
	}

	var user model.User
	if err := json.Unmarshal(body, &user); err != nil || user.ID == "" {
		return model.User{}, ErrUnauthenticated
	}
	return user, nil
}
