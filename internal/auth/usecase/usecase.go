package usecase

import (
	"context"

	"github.com/google/uuid"
)

type AuthUsecase interface {
	Signup(ctx context.Context, input SignupInput, clientIP string) (SignupOutput, error)
	VerifyCode(ctx context.Context, input VerifyCodeInput) (VerifyCodeOutput, error)
	ResendCode(ctx context.Context, input ResendCodeInput) (ResendCodeOutput, error)
	LoginFace(ctx context.Context, input FaceLoginInput, userAgent, ipAddress string) (LoginOutput, error)
	LoginPassword(ctx context.Context, input PasswordLoginInput, userAgent, ipAddress string) (LoginOutput, error)
	Logout(ctx context.Context, input LogoutInput) (LogoutOutput, error)
	CurrentUser(ctx context.Context, accountID uuid.UUID) (AccountInfo, error)
	ValidateFace(ctx context.Context, input ValidateFaceInput) (ValidateFaceOutput, error)
}
