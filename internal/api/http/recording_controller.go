package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/api/http/converter"
	"github.com/immxrtalbeast/meetflow/internal/auth"
	"github.com/immxrtalbeast/meetflow/internal/service"
)

type RecordingController struct {
	recordings service.RecordingInteractor
}

func NewRecordingController(recordings service.RecordingInteractor) *RecordingController {
	return &RecordingController{recordings: recordings}
}

func (c *RecordingController) StartRecording(ctx *gin.Context) {
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

	type StartRecordingRequest struct {
		DisplayName string `json:"display_name"`
	}
	var req StartRecordingRequest
	_ = ctx.ShouldBindJSON(&req)

	recording, err := c.recordings.Start(ctx.Request.Context(), meetingID, identity, req.DisplayName)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "recording": converter.RecordingToAPI(recording)})
}

func (c *RecordingController) StopRecording(ctx *gin.Context) {
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

	type StopRecordingRequest struct {
		RecordingID string `json:"recording_id"`
	}
	var req StopRecordingRequest
	_ = ctx.ShouldBindJSON(&req)

	var recordingID *uuid.UUID
	if req.RecordingID != "" {
		parsed, err := uuid.Parse(req.RecordingID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid recording id"})
			return
		}
		recordingID = &parsed
	}

	recording, err := c.recordings.Stop(ctx.Request.Context(), meetingID, identity, recordingID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "recording": converter.RecordingToAPI(recording)})
}

func (c *RecordingController) ListRecordings(ctx *gin.Context) {
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

	recordings, err := c.recordings.List(ctx.Request.Context(), meetingID, identity)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "recordings": converter.RecordingsToAPI(recordings)})
}

// DownloadRecording proxies the resolved media stream to the client. A
// recording whose asset is still processing is not an error: the client gets
// a 200 with a processing status and retries later.
func (c *RecordingController) DownloadRecording(ctx *gin.Context) {
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
	recordingID, err := uuid.Parse(ctx.Param("recordingID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid recording id"})
		return
	}

	result, err := c.recordings.ResolveDownload(ctx.Request.Context(), meetingID, recordingID, identity)
	if err != nil {
		if errors.Is(err, service.ErrRecordingNotReady) {
			ctx.JSON(http.StatusOK, gin.H{"ok": false, "status": "processing"})
			return
		}
		respondError(ctx, err)
		return
	}
	defer result.Body.Close()

	ctx.Header("Content-Type", result.ContentType)
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	if result.Size > 0 {
		ctx.Header("Content-Length", strconv.FormatInt(result.Size, 10))
	}
	ctx.Status(http.StatusOK)
	_, _ = io.Copy(ctx.Writer, result.Body)
}

func (c *RecordingController) RecordingInsights(ctx *gin.Context) {
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
	recordingID, err := uuid.Parse(ctx.Param("recordingID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid recording id"})
		return
	}

	insights, err := c.recordings.FetchInsights(ctx.Request.Context(), meetingID, recordingID, identity)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"transcript": insights.Transcript,
		"summary":    insights.Summary,
	})
}
