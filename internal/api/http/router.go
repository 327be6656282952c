package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/meetflow/internal/auth"
)

type Controllers struct {
	Meetings     *MeetingController
	Access       *AccessController
	Participants *ParticipantController
	Chat         *ChatController
	Files        *FileController
	Recordings   *RecordingController
	Events       *EventsController
}

func SetupRouter(jwtSecret string, allowedOrigins []string, c Controllers) *gin.Engine {
	router := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowCredentials = true
	config.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"Origin",
		"Accept",
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	router.Use(cors.New(config))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(auth.Middleware(jwtSecret))

	meetings := api.Group("/meetings")
	meetings.POST("", c.Meetings.CreateMeeting)
	meetings.GET("", c.Meetings.ListMeetings)
	meetings.GET("/:meetingID", c.Meetings.GetMeeting)
	meetings.PATCH("/:meetingID", c.Meetings.UpdateMeeting)
	meetings.POST("/:meetingID/hide", c.Meetings.HideMeeting)
	meetings.DELETE("/:meetingID", c.Meetings.DeleteMeeting)

	meetings.POST("/:meetingID/join-requests", c.Access.RequestJoin)
	meetings.GET("/:meetingID/join-requests", c.Access.ListPending)
	api.POST("/join-requests/:requestID/respond", c.Access.Respond)

	meetings.POST("/:meetingID/participants", c.Participants.Join)
	meetings.POST("/:meetingID/leave", c.Participants.Leave)
	meetings.GET("/:meetingID/participants", c.Participants.ListActive)
	meetings.GET("/:meetingID/participants/me", c.Participants.Me)

	meetings.POST("/:meetingID/messages", c.Chat.SendMessage)
	meetings.GET("/:meetingID/messages", c.Chat.ListMessages)

	meetings.POST("/:meetingID/files", c.Files.UploadFile)
	meetings.GET("/:meetingID/files", c.Files.ListFiles)

	files := api.Group("/files")
	files.GET("/:fileID/download-url", c.Files.DownloadFile)
	files.DELETE("/:fileID", c.Files.DeleteFile)

	meetings.POST("/:meetingID/recordings/start", c.Recordings.StartRecording)
	meetings.POST("/:meetingID/recordings/stop", c.Recordings.StopRecording)
	meetings.GET("/:meetingID/recordings", c.Recordings.ListRecordings)
	meetings.GET("/:meetingID/recordings/:recordingID/download", c.Recordings.DownloadRecording)
	meetings.GET("/:meetingID/recordings/:recordingID/insights", c.Recordings.RecordingInsights)

	meetings.GET("/:meetingID/events", c.Events.Stream)

	return router
}
