package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/api/http/converter"
	"github.com/immxrtalbeast/meetflow/internal/auth"
	"github.com/immxrtalbeast/meetflow/internal/service"
)

type AccessController struct {
	access service.AccessInteractor
}

func NewAccessController(access service.AccessInteractor) *AccessController {
	return &AccessController{access: access}
}

func (c *AccessController) RequestJoin(ctx *gin.Context) {
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

	type JoinRequestBody struct {
		DisplayName string `json:"display_name" binding:"required"`
	}
	var req JoinRequestBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	decision, err := c.access.RequestJoin(ctx.Request.Context(), meetingID, identity, req.DisplayName)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"request_id": decision.RequestID,
		"approved":   decision.Approved,
		"can_join":   decision.CanJoin,
	})
}

func (c *AccessController) ListPending(ctx *gin.Context) {
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

	requests, err := c.access.ListPending(ctx.Request.Context(), meetingID, identity)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "requests": converter.JoinRequestsToAPI(requests)})
}

func (c *AccessController) Respond(ctx *gin.Context) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	requestID, err := uuid.Parse(ctx.Param("requestID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	type RespondRequest struct {
		Approve *bool `json:"approve" binding:"required"`
	}
	var req RespondRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	request, err := c.access.Respond(ctx.Request.Context(), requestID, identity, *req.Approve)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "request": converter.JoinRequestToAPI(request)})
}
