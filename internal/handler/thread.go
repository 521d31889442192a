package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"assistant-gateway/internal/assistant"
	"assistant-gateway/internal/middleware"
	"assistant-gateway/internal/model"
	"assistant-gateway/internal/storage"
)

type ThreadHandler struct {
	Assistants *assistant.Client
	Store      storage.Storage
	Logger     *zap.Logger
}

type createThreadBody struct {
	ThreadName string `json:"thread_name"`
}

type sendMessageBody struct {
	ThreadID string `json:"thread_id"`
	Role     string `json:"role"`
	Content  string `json:"content"`
}

// Create opens an upstream thread and records it as one row keyed by the
// provider-assigned id. If the row insert fails the upstream thread is
// orphaned; there is no compensating delete.
func (h *ThreadHandler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	var body createThreadBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	}

	threadID, err := h.Assistants.CreateThread(c.Request.Context())
	if err != nil {
		h.Logger.Error("create thread failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	row, err := h.Store.InsertThread(c.Request.Context(), model.Thread{
		ID:     threadID,
		UserID: identity.User.ID,
		Name:   body.ThreadName,
	})
	if err != nil {
		h.Logger.Error("thread row insert failed", zap.Error(err), zap.String("thread_id", threadID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, row)
}

// SendMessage stores the message locally under a fresh id, then forwards
// the same role/content upstream. The two writes are independent.
func (h *ThreadHandler) SendMessage(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	var body sendMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if body.ThreadID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "thread_id is required"})
		return
	}
	if body.Role == "" {
		body.Role = model.RoleUser
	}

	msgID := newMessageID()
	err := h.Store.InsertMessage(c.Request.Context(), model.Message{
		ID:       msgID,
		ThreadID: body.ThreadID,
		UserID:   identity.User.ID,
		Role:     body.Role,
		Content:  body.Content,
	})
	if err != nil {
		h.Logger.Error("message insert failed", zap.Error(err), zap.String("thread_id", body.ThreadID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.Assistants.CreateMessage(c.Request.Context(), body.ThreadID, body.Role, body.Content); err != nil {
		h.Logger.Error("upstream message create failed", zap.Error(err), zap.String("thread_id", body.ThreadID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message_id": msgID})
}

func newMessageID() string {
	return uuid.NewString()
}
