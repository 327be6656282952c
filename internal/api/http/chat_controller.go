package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/api/http/converter"
	"github.com/immxrtalbeast/meetflow/internal/auth"
	"github.com/immxrtalbeast/meetflow/internal/service"
)

type ChatController struct {
	chat service.ChatInteractor
}

func NewChatController(chat service.ChatInteractor) *ChatController {
	return &ChatController{chat: chat}
}

func (c *ChatController) SendMessage(ctx *gin.Context) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	meetingID, err := uuid.Parse(ctx.Param("meetingID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
		return
	}

	type SendMessageRequest struct {
		DisplayName string `json:"display_name" binding:"required"`
		Message     string `json:"message" binding:"required"`
	}
	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	message, err := c.chat.Send(ctx.Request.Context(), meetingID, identity, req.DisplayName, req.Message)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "message": converter.ChatMessageToAPI(message)})
}

func (c *ChatController) ListMessages(ctx *gin.Context) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	meetingID, err := uuid.Parse(ctx.Param("meetingID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
		return
	}

	messages, err := c.chat.List(ctx.Request.Context(), meetingID, identity)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "messages": converter.ChatMessagesToAPI(messages)})
}
