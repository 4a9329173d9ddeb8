package handler

import (
	"errors"
	"net/http"
	"time"

	"faceauth/internal/auth/domain"
	"faceauth/internal/auth/usecase"
	"faceauth/internal/recognition"
	"faceauth/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const sessionCookieName = "session_token"

// SessionInvalidator drops a session token from any fast-path cache so a
// destroyed session stops authenticating immediately.
type SessionInvalidator interface {
	Invalidate(sessionToken string)
}

type AuthHandler struct {
	usecase  usecase.AuthUsecase
	sessions SessionInvalidator
	secure   bool
}

func NewAuthHandler(u usecase.AuthUsecase, sessions SessionInvalidator, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		usecase:  u,
		sessions: sessions,
		secure:   secureCookies,
	}
}

func (h *AuthHandler) Bind(g *echo.Group, requireSession echo.MiddlewareFunc) {
	g.POST("/signup", h.SignupHandler)
	g.POST("/verify-code", h.VerifyCodeHandler)
	g.POST("/resend-code", h.ResendCodeHandler)
	g.POST("/login-face", h.LoginFaceHandler)
	g.POST("/login-password", h.LoginPasswordHandler)
	g.POST("/validate-face", h.ValidateFaceHandler)
	g.POST("/logout", h.LogoutHandler)
	g.GET("/me", h.MeHandler, requireSession)
}

func (h *AuthHandler) SignupHandler(c echo.Context) error {
	var req usecase.SignupInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.usecase.Signup(c.Request().Context(), req, c.RealIP())
	if err != nil {
		return h.errorResponse(c, "SignupHandler", err)
	}

	return c.JSON(http.StatusCreated, output)
}

func (h *AuthHandler) VerifyCodeHandler(c echo.Context) error {
	var req usecase.VerifyCodeInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.usecase.VerifyCode(c.Request().Context(), req)
	if err != nil {
		return h.errorResponse(c, "VerifyCodeHandler", err)
	}

	return c.JSON(http.StatusOK, output)
}

func (h *AuthHandler) ResendCodeHandler(c echo.Context) error {
	var req usecase.ResendCodeInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.usecase.ResendCode(c.Request().Context(), req)
	if err != nil {
		return h.errorResponse(c, "ResendCodeHandler", err)
	}

	return c.JSON(http.StatusOK, output)
}

func (h *AuthHandler) LoginFaceHandler(c echo.Context) error {
	var req usecase.FaceLoginInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.usecase.LoginFace(c.Request().Context(), req, c.Request().UserAgent(), c.RealIP())
	if err != nil {
		return h.errorResponse(c, "LoginFaceHandler", err)
	}

	h.setSessionCookie(c, output.Session)

	return c.JSON(http.StatusOK, echo.Map{"user": output.User, "message": output.Message})
}

func (h *AuthHandler) LoginPasswordHandler(c echo.Context) error {
	var req usecase.PasswordLoginInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.usecase.LoginPassword(c.Request().Context(), req, c.Request().UserAgent(), c.RealIP())
	if err != nil {
		return h.errorResponse(c, "LoginPasswordHandler", err)
	}

	h.setSessionCookie(c, output.Session)

	return c.JSON(http.StatusOK, echo.Map{"user": output.User, "message": output.Message})
}

func (h *AuthHandler) ValidateFaceHandler(c echo.Context) error {
	var req usecase.ValidateFaceInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.usecase.ValidateFace(c.Request().Context(), req)
	if err != nil {
		status, message := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Unexpected error in ValidateFaceHandler", "error", err)
			message = "Internal server error"
		}
		return c.JSON(status, usecase.ValidateFaceOutput{Valid: false, Message: message})
	}

	return c.JSON(http.StatusOK, output)
}

func (h *AuthHandler) LogoutHandler(c echo.Context) error {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
	}

	output, err := h.usecase.Logout(c.Request().Context(), usecase.LogoutInput{Token: cookie.Value})
	if err != nil {
		logger.Error("Error during logout", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	// The database row is gone; the cached lookup must go with it, or the
	// token keeps authenticating until the cache entry expires.
	if h.sessions != nil {
		h.sessions.Invalidate(cookie.Value)
	}

	h.clearSessionCookie(c)

	return c.JSON(http.StatusOK, output)
}

func (h *AuthHandler) MeHandler(c echo.Context) error {
	rawID, ok := c.Get("account_id").(string)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
	}

	accountID, err := uuid.Parse(rawID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
	}

	output, err := h.usecase.CurrentUser(c.Request().Context(), accountID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.clearSessionCookie(c)
			return c.JSON(http.StatusNotFound, echo.Map{"error": domain.ErrUserNotFound.Error()})
		}
		logger.Error("Unexpected error in MeHandler", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"user": output})
}

func (h *AuthHandler) errorResponse(c echo.Context, operation string, err error) error {
	status, message := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error("Unexpected error", "handler", operation, "error", err)
		message = "Internal server error"
	}
	return c.JSON(status, echo.Map{"error": message})
}

func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidEmailFormat),
		errors.Is(err, domain.ErrInvalidPasswordFormat),
		errors.Is(err, domain.ErrMissingFaceImage),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrFaceAlreadyRegistered),
		errors.Is(err, domain.ErrAlreadyVerified),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrNotVerified),
		errors.Is(err, recognition.ErrInvalidImage),
		errors.Is(err, recognition.ErrNoFaceDetected),
		errors.Is(err, recognition.ErrExtractionTimeout):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrFaceMismatch):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, err.Error()
	default:
		return http.StatusInternalServerError, ""
	}
}

func (h *AuthHandler) setSessionCookie(c echo.Context, session usecase.SessionInfo) {
	if session.Token == "" {
		return
	}

	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Expires:  time.Now().Add(domain.SessionDurationMinutes * time.Minute),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	}
	c.SetCookie(cookie)
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	}
	c.SetCookie(cookie)
}
