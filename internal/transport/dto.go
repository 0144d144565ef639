package transport

import "time"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type VerifyMFARequest struct {
	UserID uint64 `json:"user_id"`
	Code   string `json:"code"`
}

type ResendMFARequest struct {
	UserID uint64 `json:"user_id"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenPairResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	AccessExp    time.Time `json:"access_expires_at"`
	RefreshExp   time.Time `json:"refresh_expires_at"`
}

type MFAPendingResponse struct {
	MFARequired bool      `json:"mfa_required"`
	UserID      uint64    `json:"user_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type EnrollRequest struct {
	ClassID string `json:"class_id"`
}

type RegistrationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ClassID string `json:"class_id"`
}
