package repository

import "errors"

var (
	ErrMeetingNotFound     = errors.New("meeting not found")
	ErrJoinRequestNotFound = errors.New("join request not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrFileNotFound        = errors.New("file not found")
	ErrRecordingNotFound   = errors.New("recording not found")
)
