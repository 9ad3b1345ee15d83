package dto

import "time"

type SendSmsRequest struct {
	Phone string `json:"phone" validate:"required,cnmobile"`
}

type SendSmsResponse struct {
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expires_at"`
}

type VerifySmsRequest struct {
	Phone string `json:"phone" validate:"required,cnmobile"`
	Code  string `json:"code" validate:"required,len=6"`
}

type LoginRequest struct {
	Phone string `json:"phone" validate:"required,cnmobile"`
	Code  string `json:"code" validate:"required,len=6"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}
