package server

import (
	"net/http"

	"faceauth/internal/auth/handler"
	"faceauth/internal/auth/repository"
	"faceauth/internal/auth/usecase"
	sessionMiddleware "faceauth/internal/middleware"
	"faceauth/internal/notify"
	"faceauth/pkg/embedding"
	"faceauth/pkg/password"
	"faceauth/pkg/ratelimit"
	"faceauth/pkg/validator"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Validator = validator.NewRequestValidator()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XFrameOptions:      "DENY",
		ContentTypeNosniff: "nosniff",
		XSSProtection:      "1; mode=block",
		HSTSMaxAge:         31536000,
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{s.cfg.AppURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStore(100),
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
		},
	}))
	// Face images arrive as base64 JSON payloads.
	e.Use(middleware.BodyLimit("8MB"))

	e.GET("/health", s.healthHandler)

	s.setupAuthRoutes(e)

	return e
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.db.Health())
}

func (s *Server) setupAuthRoutes(e *echo.Echo) {
	secure := s.cfg.AppEnv == "production"

	sessionMW := sessionMiddleware.NewSessionMiddleware(s.db.Pool(), secure)
	requireSession := sessionMW.RequireSession()

	userStore := repository.NewUserStore(s.db, s.cipher)
	authUsecase := usecase.NewAuthService(
		userStore,
		s.extractor,
		embedding.NewComparator(s.cfg.Auth.FaceMatchThreshold),
		password.NewHasher(s.cfg.Auth.BcryptCost),
		ratelimit.New(s.cfg.Auth.MaxSignupAttempts, s.cfg.Auth.SignupAttemptWindow),
		s.mailer,
		s.hub,
		s.thumbnails,
		usecase.Config{
			CodeExpiry:           s.cfg.Auth.CodeExpiry,
			StrictPasswordPolicy: s.cfg.Auth.StrictPasswordPolicy,
		},
	)
	authHandler := handler.NewAuthHandler(authUsecase, sessionMW, secure)

	authGroup := e.Group("/auth")
	authHandler.Bind(authGroup, requireSession)

	e.GET("/events", notify.SSEHandler(s.hub), requireSession)
}
