package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"assistant-gateway/internal/model"
)

// PostgRESTStorage talks to a Supabase project's REST endpoint with the
// service-role key.
type PostgRESTStorage struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

type PostgRESTConfig struct {
	// SupabaseURL is the project URL, e.g. https://proj.supabase.co.
	SupabaseURL string
	ServiceKey  string
	HTTPClient  *http.Client
}

func NewPostgRESTStorage(cfg PostgRESTConfig, logger *zap.Logger) (*PostgRESTStorage, error) {
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("supabase url is empty")
	}
	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("service key is empty")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &PostgRESTStorage{
		baseURL:    strings.TrimSuffix(cfg.SupabaseURL, "/") + "/rest/v1",
		serviceKey: cfg.ServiceKey,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

func (s *PostgRESTStorage) InsertThread(ctx context.Context, thread model.Thread) (model.Thread, error) {
	var rows []model.Thread
	err := s.insert(ctx, "threads", thread, &rows)
	if err != nil {
		return model.Thread{}, err
	}
	if len(rows) == 0 {
		return model.Thread{}, fmt.Errorf("threads insert returned no row")
	}
	return rows[0], nil
}

func (s *PostgRESTStorage) InsertMessage(ctx context.Context, msg model.Message) error {
	return s.insert(ctx, "messages", msg, nil)
}

func (s *PostgRESTStorage) GetActiveSubscription(ctx context.Context, userID string) (*model.Subscription, error) {
	query := url.Values{}
	query.Set("user_id", "eq."+userID)
	query.Set("status", "eq."+model.SubscriptionStatusActive)
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/subscriptions?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subscriptions query failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("subscriptions query status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rows []model.Subscription
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode subscriptions: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *PostgRESTStorage) Close() error { return nil }

// insert POSTs one row; when out is non-nil the inserted representation is
// requested back and decoded into it.
func (s *PostgRESTStorage) insert(ctx context.Context, table string, row any, out any) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal %s row: %w", table, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/"+table, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	if out != nil {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s insert failed: %w", table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Error("postgrest insert rejected",
			zap.String("table", table),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%s insert status %d: %s", table, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode %s insert response: %w", table, err)
		}
	}
	return nil
}

func (s *PostgRESTStorage) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
}
