package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port    int
	GinMode string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	AssistantID   string

	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseJWTSecret  string

	DatabaseURL string

	FrontendURL string
}

type Env interface {
	Getenv(key string) string
}

type osEnv struct{}

func (osEnv) Getenv(key string) string { return os.Getenv(key) }

func LoadConfig() (Config, error) {
	return LoadConfigFromEnv(osEnv{})
}

func LoadConfigFromEnv(env Env) (Config, error) {
	cfg := Config{
		Port:          3000,
		GinMode:       "release",
		OpenAIBaseURL: "https://api.openai.com/v1",
	}

	if raw := env.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT")
		}
		cfg.Port = port
	}

	if raw := env.Getenv("GIN_MODE"); raw != "" {
		cfg.GinMode = raw
	}

	cfg.OpenAIAPIKey = env.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required")
	}

	if raw := env.Getenv("OPENAI_BASE_URL"); raw != "" {
		cfg.OpenAIBaseURL = raw
	}

	// Optional at startup: the stream endpoint rejects requests until it
	// is set.
	cfg.AssistantID = env.Getenv("OPENAI_ASSISTANT_ID")

	cfg.SupabaseURL = env.Getenv("SUPABASE_URL")
	if cfg.SupabaseURL == "" {
		return Config{}, fmt.Errorf("SUPABASE_URL is required")
	}

	cfg.SupabaseServiceKey = env.Getenv("SUPABASE_SERVICE_ROLE_KEY")
	if cfg.SupabaseServiceKey == "" {
		return Config{}, fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is required")
	}

	// When set, access tokens are verified locally instead of through the
	// auth service's user endpoint.
	cfg.SupabaseJWTSecret = env.Getenv("SUPABASE_JWT_SECRET")

	// When set, thread/message rows go to Postgres directly instead of the
	// PostgREST endpoint.
	cfg.DatabaseURL = env.Getenv("DATABASE_URL")

	cfg.FrontendURL = env.Getenv("FRONTEND_URL")

	return cfg, nil
}
