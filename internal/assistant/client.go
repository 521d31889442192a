package assistant

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"assistant-gateway/internal/model"
)

// Defaults applied when createAssistant is called without arguments.
const (
	DefaultAssistantName = "Fashion Founder GPT"
	DefaultModel         = "gpt-4o"

	DefaultInstructions = `You are Fashion Founder GPT, an expert AI fashion consultant and stylist. Your role is to:

1. Provide personalized fashion advice based on user preferences, body type, occasion, and budget
2. Suggest outfit combinations and styling tips
3. Recommend trending fashion items and brands
4. Help users build a cohesive wardrobe
5. Offer guidance on color coordination, fabric selection, and seasonal trends
6. Provide fashion industry insights and sustainable fashion options

Always be friendly, encouraging, and help users feel confident in their fashion choices. Ask clarifying questions when needed to provide the most relevant advice.`
)

// Client wraps the OpenAI Assistants API. Constructed once at process start
// and shared; it holds no per-request state.
type Client struct {
	api        *openai.Client
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type ClientConfig struct {
	APIKey string
	// BaseURL, e.g. https://api.openai.com/v1. Tests point it at a fake.
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.HTTPClient == nil {
		// No overall timeout: the same client carries long-lived run
		// streams.
		cfg.HTTPClient = &http.Client{Transport: &http.Transport{
			ResponseHeaderTimeout: 30 * time.Second,
		}}
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL
	apiCfg.HTTPClient = cfg.HTTPClient

	return &Client{
		api:        openai.NewClientWithConfig(apiCfg),
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
		logger:     logger,
	}
}

// CreateParams are all optional; zero values fall back to the defaults
// above (and an empty tool set).
type CreateParams struct {
	Name         string
	Instructions string
	Model        string
	Tools        []openai.AssistantTool
}

func (c *Client) CreateAssistant(ctx context.Context, params CreateParams) (model.Assistant, error) {
	if params.Name == "" {
		params.Name = DefaultAssistantName
	}
	if params.Instructions == "" {
		params.Instructions = DefaultInstructions
	}
	if params.Model == "" {
		params.Model = DefaultModel
	}
	if params.Tools == nil {
		params.Tools = []openai.AssistantTool{}
	}

	created, err := c.api.CreateAssistant(ctx, openai.AssistantRequest{
		Name:         &params.Name,
		Instructions: &params.Instructions,
		Tools:        params.Tools,
		Model:        params.Model,
	})
	if err != nil {
		return model.Assistant{}, fmt.Errorf("create assistant: %w", err)
	}
	return toAssistant(created), nil
}

func (c *Client) ListAssistants(ctx context.Context) ([]model.Assistant, error) {
	list, err := c.api.ListAssistants(ctx, nil, nil, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list assistants: %w", err)
	}
	out := make([]model.Assistant, 0, len(list.Assistants))
	for _, a := range list.Assistants {
		out = append(out, toAssistant(a))
	}
	return out, nil
}

// UpdateInstructions replaces an assistant's instruction text upstream.
func (c *Client) UpdateInstructions(ctx context.Context, assistantID, instructions string) (model.Assistant, error) {
	updated, err := c.api.ModifyAssistant(ctx, assistantID, openai.AssistantRequest{
		Instructions: &instructions,
	})
	if err != nil {
		return model.Assistant{}, fmt.Errorf("update assistant: %w", err)
	}
	return toAssistant(updated), nil
}

// CreateThread opens a fresh upstream conversation thread and returns its
// provider-assigned id.
func (c *Client) CreateThread(ctx context.Context) (string, error) {
	thread, err := c.api.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	return thread.ID, nil
}

// CreateMessage appends a message to an upstream thread.
func (c *Client) CreateMessage(ctx context.Context, threadID, role, content string) error {
	_, err := c.api.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    role,
		Content: content,
	})
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

func toAssistant(a openai.Assistant) model.Assistant {
	out := model.Assistant{ID: a.ID, Model: a.Model}
	if a.Name != nil {
		out.Name = *a.Name
	}
	if a.Instructions != nil {
		out.Instructions = *a.Instructions
	}
	return out
}
