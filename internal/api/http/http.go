package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/meetflow/internal/repository"
	"github.com/immxrtalbeast/meetflow/internal/service"
)

// respondError maps core errors onto the HTTP envelope. Not-found maps to
// 400 like every other expected client mistake; only collaborator failures
// surface as 500, with a generic message.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrRequestNotPending),
		errors.Is(err, service.ErrRecordingInProgress),
		errors.Is(err, service.ErrNoActiveRecording),
		errors.Is(err, repository.ErrMeetingNotFound),
		errors.Is(err, repository.ErrJoinRequestNotFound),
		errors.Is(err, repository.ErrParticipantNotFound),
		errors.Is(err, repository.ErrFileNotFound),
		errors.Is(err, repository.ErrRecordingNotFound):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
