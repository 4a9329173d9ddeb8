package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"faceauth/internal/auth/domain"
	"faceauth/internal/auth/repository"
	"faceauth/internal/notify"
	"faceauth/internal/recognition"
	"faceauth/pkg/embedding"
	"faceauth/pkg/logger"
	"faceauth/pkg/mailer"
	"faceauth/pkg/password"
	"faceauth/pkg/ratelimit"

	"github.com/google/uuid"
)

// ThumbnailStore persists a face thumbnail and returns its public URL.
type ThumbnailStore interface {
	UploadImage(ctx context.Context, imageB64, key string) (string, error)
}

// Config tunes the auth service behavior.
type Config struct {
	CodeExpiry           time.Duration
	StrictPasswordPolicy bool
}

type AuthService struct {
	repo       repository.UserRepository
	extractor  recognition.Extractor
	comparator embedding.Comparator
	hasher     *password.Hasher
	limiter    *ratelimit.Limiter
	mailer     mailer.Mailer
	publisher  notify.Publisher
	thumbnails ThumbnailStore
	cfg        Config
}

func NewAuthService(
	repo repository.UserRepository,
	extractor recognition.Extractor,
	comparator embedding.Comparator,
	hasher *password.Hasher,
	limiter *ratelimit.Limiter,
	m mailer.Mailer,
	publisher notify.Publisher,
	thumbnails ThumbnailStore,
	cfg Config,
) AuthUsecase {
	if cfg.CodeExpiry <= 0 {
		cfg.CodeExpiry = domain.CodeExpiryMinutes * time.Minute
	}
	return &AuthService{
		repo:       repo,
		extractor:  extractor,
		comparator: comparator,
		hasher:     hasher,
		limiter:    limiter,
		mailer:     m,
		publisher:  publisher,
		thumbnails: thumbnails,
		cfg:        cfg,
	}
}

// Signup runs the enrollment pipeline in fixed order: validate,
// rate-limit, extract, duplicate scan, persist, issue code. A failure at
// any step leaves no partial account behind.
func (s *AuthService) Signup(ctx context.Context, input SignupInput, clientIP string) (SignupOutput, error) {
	name := strings.TrimSpace(input.Name)
	email := domain.NormalizeEmail(input.Email)

	if len(name) < domain.MinNameLength {
		return SignupOutput{}, domain.ErrInvalidName
	}
	if !domain.IsValidEmail(email) {
		return SignupOutput{}, domain.ErrInvalidEmailFormat
	}
	if !domain.IsValidPassword(input.Password, s.cfg.StrictPasswordPolicy) {
		return SignupOutput{}, domain.ErrInvalidPasswordFormat
	}
	if input.FaceImage == "" {
		return SignupOutput{}, domain.ErrMissingFaceImage
	}

	if s.limiter.IsLimited(clientIP) {
		return SignupOutput{}, domain.ErrTooManyAttempts
	}
	s.limiter.Record(clientIP)

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		if existing.Verified {
			return SignupOutput{}, domain.ErrEmailTaken
		}
		// Unverified leftovers from an abandoned signup are replaced.
		if err := s.repo.DeleteUser(ctx, existing.ID); err != nil {
			logger.Error("Failed to delete unverified account", "email", email, "error", err)
			return SignupOutput{}, fmt.Errorf("failed to replace unverified account: %w", err)
		}
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		logger.Error("Repository error checking account existence", "error", err)
		return SignupOutput{}, fmt.Errorf("failed to check account existence: %w", err)
	}

	vector, err := s.extractor.Extract(ctx, input.FaceImage)
	if err != nil {
		return SignupOutput{}, err
	}

	if err := s.scanForDuplicateIdentity(ctx, vector); err != nil {
		return SignupOutput{}, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		logger.Error("Password hashing error", "error", err)
		return SignupOutput{}, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := domain.GenerateCode()
	if err != nil {
		return SignupOutput{}, fmt.Errorf("failed to generate verification code: %w", err)
	}
	codeHash, err := s.hasher.Hash(code)
	if err != nil {
		return SignupOutput{}, fmt.Errorf("failed to hash verification code: %w", err)
	}
	expiresAt := time.Now().Add(s.cfg.CodeExpiry)

	account := &domain.Account{
		Name:          name,
		Email:         email,
		PasswordHash:  passwordHash,
		Verified:      false,
		CodeHash:      &codeHash,
		CodeExpiresAt: &expiresAt,
	}
	account.SetEmbedding(vector)

	if err := account.Validate(); err != nil {
		return SignupOutput{}, err
	}

	// The code fields ride along in the same insert, so a persistence
	// failure cannot leave a dangling code. A concurrent signup for the
	// same email loses here on the unique constraint.
	created, err := s.repo.CreateUser(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return SignupOutput{}, domain.ErrEmailTaken
		}
		logger.Error("Repository error creating account", "error", err)
		return SignupOutput{}, fmt.Errorf("failed to create account: %w", err)
	}

	s.uploadThumbnailAsync(created.ID, input.FaceImage)
	s.mailer.SendMailAsync(created.Email, mailer.TemplateVerificationCode,
		mailer.VerificationCodePayload(created.Name, code, int(s.cfg.CodeExpiry.Minutes())),
		"signup-verification-code")

	logger.Info("Account signup successful", "email", created.Email)

	return SignupOutput{
		ID:      created.ID.String(),
		Email:   created.Email,
		Message: "Signup successful. Please check your email for the verification code.",
	}, nil
}

// VerifyCode advances an account from unverified to verified. The
// transition is irreversible; a second correct submit reports
// AlreadyVerified rather than silently succeeding.
func (s *AuthService) VerifyCode(ctx context.Context, input VerifyCodeInput) (VerifyCodeOutput, error) {
	account, err := s.getAccountByEmail(ctx, input.Email)
	if err != nil {
		return VerifyCodeOutput{}, err
	}

	if account.Verified {
		return VerifyCodeOutput{}, domain.ErrAlreadyVerified
	}

	if account.CodeExpiresAt == nil || time.Now().After(*account.CodeExpiresAt) {
		return VerifyCodeOutput{}, domain.ErrCodeExpired
	}

	if account.CodeHash == nil || !s.hasher.Compare(strings.TrimSpace(input.OTP), *account.CodeHash) {
		return VerifyCodeOutput{}, domain.ErrInvalidCode
	}

	if err := s.repo.MarkVerified(ctx, account.ID); err != nil {
		logger.Error("Failed to mark account verified", "email", account.Email, "error", err)
		return VerifyCodeOutput{}, fmt.Errorf("failed to verify account: %w", err)
	}

	account.Verified = true
	account.CodeHash = nil
	account.CodeExpiresAt = nil

	s.publisher.Publish(account.ID, "verified", map[string]any{
		"email": account.Email,
	})

	logger.Info("Account verified", "email", account.Email)

	return VerifyCodeOutput{
		User:    toAccountInfo(account),
		Message: "Account verified successfully. You can now login.",
	}, nil
}

// ResendCode issues a fresh code while the account is still unverified.
// Only one pending code is valid at a time; the previous pair is
// overwritten.
func (s *AuthService) ResendCode(ctx context.Context, input ResendCodeInput) (ResendCodeOutput, error) {
	account, err := s.getAccountByEmail(ctx, input.Email)
	if err != nil {
		return ResendCodeOutput{}, err
	}

	if account.Verified {
		return ResendCodeOutput{}, domain.ErrAlreadyVerified
	}

	code, err := domain.GenerateCode()
	if err != nil {
		return ResendCodeOutput{}, fmt.Errorf("failed to generate verification code: %w", err)
	}
	codeHash, err := s.hasher.Hash(code)
	if err != nil {
		return ResendCodeOutput{}, fmt.Errorf("failed to hash verification code: %w", err)
	}
	expiresAt := time.Now().Add(s.cfg.CodeExpiry)

	if err := s.repo.SetVerificationCode(ctx, account.ID, codeHash, expiresAt); err != nil {
		logger.Error("Failed to store verification code", "email", account.Email, "error", err)
		return ResendCodeOutput{}, fmt.Errorf("failed to store verification code: %w", err)
	}

	// Unlike signup, the caller explicitly asked for this email, so a
	// delivery failure is surfaced.
	err = s.mailer.SendMail(account.Email, mailer.TemplateVerificationCode,
		mailer.VerificationCodePayload(account.Name, code, int(s.cfg.CodeExpiry.Minutes())))
	if err != nil {
		logger.Error("Failed to send verification code email", "email", account.Email, "error", err)
		return ResendCodeOutput{}, fmt.Errorf("failed to send verification email: %w", err)
	}

	return ResendCodeOutput{Message: "Verification code sent successfully"}, nil
}

// LoginFace authenticates with a fresh face capture. There is no fallback
// to password on a face mismatch.
func (s *AuthService) LoginFace(ctx context.Context, input FaceLoginInput, userAgent, ipAddress string) (LoginOutput, error) {
	account, err := s.getAccountByEmail(ctx, input.Email)
	if err != nil {
		return LoginOutput{}, err
	}

	if !account.Verified {
		return LoginOutput{}, domain.ErrNotVerified
	}

	vector, err := s.extractor.Extract(ctx, input.FaceImage)
	if err != nil {
		return LoginOutput{}, err
	}

	stored, err := account.EmbeddingVector()
	if err != nil {
		logger.Error("Failed to decode stored embedding", "email", account.Email, "error", err)
		return LoginOutput{}, fmt.Errorf("failed to decode stored embedding: %w", err)
	}

	if !s.comparator.SamePerson(vector, stored) {
		return LoginOutput{}, domain.ErrFaceMismatch
	}

	return s.establishSession(ctx, account, userAgent, ipAddress)
}

// LoginPassword is the independent non-biometric path. An unverified
// account is rejected before the password is even checked.
func (s *AuthService) LoginPassword(ctx context.Context, input PasswordLoginInput, userAgent, ipAddress string) (LoginOutput, error) {
	account, err := s.repo.GetUserByEmail(ctx, domain.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return LoginOutput{}, domain.ErrInvalidCredentials
		}
		logger.Error("Repository error fetching account", "error", err)
		return LoginOutput{}, fmt.Errorf("failed to fetch account: %w", err)
	}

	if !account.Verified {
		return LoginOutput{}, domain.ErrNotVerified
	}

	if !s.hasher.Compare(input.Password, account.PasswordHash) {
		return LoginOutput{}, domain.ErrInvalidCredentials
	}

	return s.establishSession(ctx, account, userAgent, ipAddress)
}

func (s *AuthService) Logout(ctx context.Context, input LogoutInput) (LogoutOutput, error) {
	if input.Token == "" {
		return LogoutOutput{}, domain.ErrInvalidCredentials
	}

	session, err := s.repo.GetSessionByToken(ctx, input.Token)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		logger.Error("Repository error fetching session", "error", err)
		return LogoutOutput{}, fmt.Errorf("failed to fetch session: %w", err)
	}

	if err := s.repo.DeleteSessionByToken(ctx, input.Token); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		logger.Error("Failed to delete session during logout", "error", err)
		return LogoutOutput{}, fmt.Errorf("failed to logout: %w", err)
	}

	if session != nil {
		s.publisher.Publish(session.AccountID, "logout", map[string]any{
			"logout_time": time.Now().UTC().Format(time.RFC3339),
		})
	}

	return LogoutOutput{Message: "Logged out successfully"}, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, accountID uuid.UUID) (AccountInfo, error) {
	account, err := s.repo.GetUserByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return AccountInfo{}, domain.ErrUserNotFound
		}
		return AccountInfo{}, fmt.Errorf("failed to fetch account: %w", err)
	}

	return toAccountInfo(account), nil
}

// ValidateFace is a persistence-free pre-check of an image before signup
// or login.
func (s *AuthService) ValidateFace(ctx context.Context, input ValidateFaceInput) (ValidateFaceOutput, error) {
	if input.FaceImage == "" {
		return ValidateFaceOutput{}, domain.ErrMissingFaceImage
	}

	if _, err := s.extractor.Extract(ctx, input.FaceImage); err != nil {
		return ValidateFaceOutput{}, err
	}

	return ValidateFaceOutput{
		Valid:   true,
		Message: "Face validation successful",
	}, nil
}

// scanForDuplicateIdentity walks every stored embedding looking for a
// same-person match. Linear today; the repository collaborator can be
// swapped for an indexed nearest-neighbor lookup without touching this
// pipeline.
func (s *AuthService) scanForDuplicateIdentity(ctx context.Context, vector embedding.Vector) error {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		logger.Error("Repository error listing accounts", "error", err)
		return fmt.Errorf("failed to scan for duplicate identity: %w", err)
	}

	for _, other := range accounts {
		stored, err := other.EmbeddingVector()
		if err != nil {
			logger.Warn("Skipping account with undecodable embedding", "account_id", other.ID, "error", err)
			continue
		}
		if s.comparator.SamePerson(vector, stored) {
			return domain.ErrFaceAlreadyRegistered
		}
	}

	return nil
}

func (s *AuthService) establishSession(ctx context.Context, account *domain.Account, userAgent, ipAddress string) (LoginOutput, error) {
	if err := s.repo.UpdateLastLoginAt(ctx, account.ID); err != nil {
		logger.Error("Failed to update last login timestamp", "email", account.Email, "error", err)
	}

	token, err := domain.GenerateSecureToken()
	if err != nil {
		logger.Error("Failed to generate session token", "error", err)
		return LoginOutput{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		AccountID:    account.ID,
		SessionToken: token,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
		ExpiresAt:    now.Add(domain.SessionDurationMinutes * time.Minute),
		CreatedAt:    now,
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		logger.Error("Failed to store session", "email", account.Email, "error", err)
		return LoginOutput{}, fmt.Errorf("failed to store session: %w", err)
	}

	loginTime := now.UTC().Format(time.RFC3339)
	s.mailer.SendMailAsync(account.Email, mailer.TemplateLoginAlert,
		mailer.LoginAlertPayload(account.Name, loginTime, ipAddress), "login-alert")
	s.publisher.Publish(account.ID, "login", map[string]any{
		"name":       account.Name,
		"login_time": loginTime,
	})

	logger.Info("Login successful", "email", account.Email)

	last := now
	account.LastLoginAt = &last

	return LoginOutput{
		User: toAccountInfo(account),
		Session: SessionInfo{
			Token:     session.SessionToken,
			ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
		},
		Message: "Login successful",
	}, nil
}

func (s *AuthService) getAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	account, err := s.repo.GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		logger.Error("Repository error fetching account", "error", err)
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}
	return account, nil
}

func (s *AuthService) uploadThumbnailAsync(accountID uuid.UUID, imageB64 string) {
	if s.thumbnails == nil {
		return
	}

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Panic in thumbnail goroutine", "account_id", accountID, "panic", rec)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		url, err := s.thumbnails.UploadImage(ctx, imageB64, fmt.Sprintf("faces/%s.jpg", accountID))
		if err != nil {
			logger.Error("Failed to upload face thumbnail", "account_id", accountID, "error", err)
			return
		}

		if err := s.repo.UpdatePhotoURL(ctx, accountID, url); err != nil {
			logger.Error("Failed to store thumbnail URL", "account_id", accountID, "error", err)
		}
	}()
}

func toAccountInfo(a *domain.Account) AccountInfo {
	info := AccountInfo{
		ID:        a.ID.String(),
		Name:      a.Name,
		Email:     a.Email,
		PhotoURL:  a.PhotoURL,
		Verified:  a.Verified,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
	if a.LastLoginAt != nil {
		info.LastLoginAt = a.LastLoginAt.Format(time.RFC3339)
	}
	return info
}
