package usecase

type SignupInput struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FaceImage string `json:"face_image" validate:"required"`
}

type SignupOutput struct {
	ID      string `json:"user_id"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type VerifyCodeInput struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

type VerifyCodeOutput struct {
	User    AccountInfo `json:"user"`
	Message string      `json:"message"`
}

type ResendCodeInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResendCodeOutput struct {
	Message string `json:"message"`
}

type FaceLoginInput struct {
	Email     string `json:"email" validate:"required,email"`
	FaceImage string `json:"face_image" validate:"required"`
}

type PasswordLoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginOutput struct {
	User    AccountInfo `json:"user"`
	Session SessionInfo `json:"session"`
	Message string      `json:"message"`
}

type LogoutInput struct {
	Token string
}

type LogoutOutput struct {
	Message string `json:"message"`
}

type ValidateFaceInput struct {
	FaceImage string `json:"face_image" validate:"required"`
}

type ValidateFaceOutput struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

type AccountInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photo_url,omitempty"`
	Verified    bool   `json:"verified"`
	CreatedAt   string `json:"created_at"`
	LastLoginAt string `json:"last_login_at,omitempty"`
}

type SessionInfo struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}
