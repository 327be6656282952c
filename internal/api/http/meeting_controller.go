package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/api/http/converter"
	"github.com/immxrtalbeast/meetflow/internal/auth"
	"github.com/immxrtalbeast/meetflow/internal/service"
)

type MeetingController struct {
	meetings service.MeetingInteractor
}

func NewMeetingController(meetings service.MeetingInteractor) *MeetingController {
	return &MeetingController{meetings: meetings}
}

func (c *MeetingController) CreateMeeting(ctx *gin.Context) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	type CreateMeetingRequest struct {
		Title                     string `json:"title" binding:"required"`
		Description               string `json:"description"`
		AllowParticipantRecording bool   `json:"allow_participant_recording"`
	}
	var req CreateMeetingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	meeting, err := c.meetings.Create(ctx.Request.Context(), identity, req.Title, req.Description, req.AllowParticipantRecording)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "meeting": converter.MeetingToAPI(meeting)})
}

func (c *MeetingController) ListMeetings(ctx *gin.Context) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	meetings, err := c.meetings.List(ctx.Request.Context(), identity)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "meetings": converter.MeetingsToAPI(meetings)})
}

func (c *MeetingController) GetMeeting(ctx *gin.Context) {
	meetingID, err := uuid.Parse(ctx.Param("meetingID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
		return
	}

	meeting, err := c.meetings.Get(ctx.Request.Context(), meetingID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "meeting": converter.MeetingToAPI(meeting)})
}

func (c *MeetingController) UpdateMeeting(ctx *gin.Context) {
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

	type UpdateMeetingRequest struct {
		Title                     string `json:"title"`
		Description               string `json:"description"`
		AllowParticipantRecording *bool  `json:"allow_participant_recording"`
	}
	var req UpdateMeetingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	meeting, err := c.meetings.UpdateSettings(ctx.Request.Context(), meetingID, identity, req.Title, req.Description, req.AllowParticipantRecording)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "meeting": converter.MeetingToAPI(meeting)})
}

func (c *MeetingController) HideMeeting(ctx *gin.Context) {
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

	if err := c.meetings.Hide(ctx.Request.Context(), meetingID, identity); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (c *MeetingController) DeleteMeeting(ctx *gin.Context) {
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

	if err := c.meetings.Remove(ctx.Request.Context(), meetingID, identity); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
