package main

import (
	"errors"
	"log/slog"
	"os"

	httpapi "github.com/immxrtalbeast/meetflow/internal/api/http"
	"github.com/immxrtalbeast/meetflow/internal/config"
	"github.com/immxrtalbeast/meetflow/internal/events"
	"github.com/immxrtalbeast/meetflow/internal/platform"
	"github.com/immxrtalbeast/meetflow/internal/repository"
	"github.com/immxrtalbeast/meetflow/internal/repository/model"
	"github.com/immxrtalbeast/meetflow/internal/service"
	"github.com/immxrtalbeast/meetflow/internal/storage"
	"github.com/immxrtalbeast/meetflow/lib/logger/slogpretty"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	db, err := connectDatabase(cfg.Database)
	if err != nil {
		log.Error("failed to connect database", slog.Any("error", err))
		os.Exit(1)
	}

	meetingRepo := repository.NewPostgresMeetingRepository(db)
	requestRepo := repository.NewPostgresJoinRequestRepository(db)
	participantRepo := repository.NewPostgresParticipantRepository(db)
	messageRepo := repository.NewPostgresChatMessageRepository(db)
	fileRepo := repository.NewPostgresFileRepository(db)
	recordingRepo := repository.NewPostgresRecordingRepository(db)

	videoClient := platform.NewClient(cfg.Platform.BaseURL, cfg.Platform.APIKey, cfg.Platform.Timeout, log)
	storageClient := storage.NewClient(cfg.Storage.BaseURL, cfg.Storage.ServiceKey, cfg.Storage.Bucket, log)
	hub := events.NewHub()

	meetingService := service.NewMeetingService(meetingRepo, requestRepo, participantRepo, videoClient, log)
	accessService := service.NewAccessService(meetingRepo, requestRepo, hub, log)
	recordingService := service.NewRecordingService(meetingRepo, participantRepo, recordingRepo, videoClient, storageClient, cfg.Storage.SignedURLTTL, hub, log)
	participantService := service.NewParticipantService(meetingRepo, requestRepo, participantRepo, videoClient, recordingService, hub, log)
	chatService := service.NewChatService(meetingRepo, messageRepo, hub, log)
	fileService := service.NewFileService(meetingRepo, fileRepo, storageClient, cfg.Storage.SignedURLTTL, log)

	router := httpapi.SetupRouter(cfg.Auth.JWTSecret, cfg.HTTP.AllowedOrigins, httpapi.Controllers{
		Meetings:     httpapi.NewMeetingController(meetingService),
		Access:       httpapi.NewAccessController(accessService),
		Participants: httpapi.NewParticipantController(participantService),
		Chat:         httpapi.NewChatController(chatService),
		Files:        httpapi.NewFileController(fileService),
		Recordings:   httpapi.NewRecordingController(recordingService),
		Events:       httpapi.NewEventsController(hub),
	})

	log.Info("starting application", slog.String("addr", cfg.HTTP.Address))
	if err := router.Run(cfg.HTTP.Address); err != nil {
		log.Error("http server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

func connectDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database dsn is empty")
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	db.AutoMigrate(
		&model.Meeting{},
		&model.JoinRequest{},
		&model.Participant{},
		&model.ChatMessage{},
		&model.FileRecord{},
		&model.Recording{},
	)

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}
