package server

import (
	"fmt"
	"net/http"
	"time"

	"faceauth/internal/auth/usecase"
	"faceauth/internal/config"
	"faceauth/internal/database"
	"faceauth/internal/notify"
	"faceauth/internal/recognition"
	"faceauth/pkg/crypto"
	"faceauth/pkg/logger"
	"faceauth/pkg/mailer"
	"faceauth/pkg/uploadfiles"
)

type Server struct {
	cfg        *config.Config
	db         database.Service
	mailer     mailer.Mailer
	extractor  recognition.Extractor
	cipher     *crypto.Cipher
	hub        *notify.Hub
	thumbnails usecase.ThumbnailStore
}

func New() (*http.Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	cipher, err := crypto.NewCipher(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}

	var thumbnails usecase.ThumbnailStore
	if cfg.Storage.Endpoint != "" {
		uploader, err := uploadfiles.NewUploader(uploadfiles.Config{
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			BucketName:      cfg.Storage.BucketName,
			Region:          cfg.Storage.Region,
		})
		if err != nil {
			return nil, err
		}
		thumbnails = uploader
	} else {
		logger.Warn("Thumbnail storage not configured, face thumbnails disabled")
	}

	srv := &Server{
		cfg:        cfg,
		db:         db,
		mailer:     mailer.NewResendMailer(cfg.Mail.APIKey, cfg.Mail.FromEmail),
		extractor:  recognition.NewClient(cfg.Recognizer.URL, cfg.Recognizer.Timeout),
		cipher:     cipher,
		hub:        notify.NewHub(),
		thumbnails: thumbnails,
	}

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     srv.RegisterRoutes(),
		IdleTimeout: time.Minute,
		ReadTimeout: 10 * time.Second,
		// No write timeout: /events holds long-lived SSE streams open.
		WriteTimeout: 0,
	}

	return server, nil
}
