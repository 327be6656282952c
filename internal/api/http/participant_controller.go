package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/api/http/converter"
	"github.com/immxrtalbeast/meetflow/internal/auth"
	"github.com/immxrtalbeast/meetflow/internal/service"
)

type ParticipantController struct {
	participants service.ParticipantInteractor
}

func NewParticipantController(participants service.ParticipantInteractor) *ParticipantController {
	return &ParticipantController{participants: participants}
}

func (c *ParticipantController) Join(ctx *gin.Context) {
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

	type JoinBody struct {
		DisplayName string `json:"display_name" binding:"required"`
	}
	var req JoinBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := c.participants.Join(ctx.Request.Context(), meetingID, identity, req.DisplayName)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"participant": converter.ParticipantToAPI(result.Participant),
		"room_id":     result.RoomID,
		"room_token":  result.RoomToken,
	})
}

func (c *ParticipantController) Leave(ctx *gin.Context) {
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

	if err := c.participants.Leave(ctx.Request.Context(), meetingID, identity); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (c *ParticipantController) Me(ctx *gin.Context) {
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

	participant, err := c.participants.CheckActive(ctx.Request.Context(), meetingID, identity)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if participant == nil {
		ctx.JSON(http.StatusOK, gin.H{"ok": true, "active": false})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "active": true, "participant": converter.ParticipantToAPI(participant)})
}

func (c *ParticipantController) ListActive(ctx *gin.Context) {
	meetingID, err := uuid.Parse(ctx.Param("meetingID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
		return
	}

	participants, err := c.participants.ListActive(ctx.Request.Context(), meetingID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "participants": converter.ParticipantsToAPI(participants)})
}
