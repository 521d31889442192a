package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"assistant-gateway/internal/assistant"
)

type AssistantHandler struct {
	Assistants *assistant.Client
	Logger     *zap.Logger
}

type createAssistantBody struct {
	Name         string                 `json:"name"`
	Instructions string                 `json:"instructions"`
	Tools        []openai.AssistantTool `json:"tools"`
	Model        string                 `json:"model"`
}

// Create registers a new assistant upstream. All fields are optional; the
// defaults describe the stock persona.
func (h *AssistantHandler) Create(c *gin.Context) {
	var body createAssistantBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	}

	created, err := h.Assistants.CreateAssistant(c.Request.Context(), assistant.CreateParams{
		Name:         body.Name,
		Instructions: body.Instructions,
		Tools:        body.Tools,
		Model:        body.Model,
	})
	if err != nil {
		h.Logger.Error("create assistant failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"assistant": created,
		"message":   fmt.Sprintf("Assistant created successfully! Add this to your .env file:\nOPENAI_ASSISTANT_ID=%s", created.ID),
	})
}

// List passes the upstream listing through unfiltered.
func (h *AssistantHandler) List(c *gin.Context) {
	assistants, err := h.Assistants.ListAssistants(c.Request.Context())
	if err != nil {
		h.Logger.Error("list assistants failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assistants": assistants})
}
