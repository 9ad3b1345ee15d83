package dto

type RegisterRequest struct {
	Phone          string `json:"phone" validate:"required,cnmobile"`
	SmsCode        string `json:"sms_code" validate:"required,len=6"`
	BusinessTypeID string `json:"business_type_id" validate:"required"`
	RoleID         string `json:"role_id" validate:"required"`
	StoreName      string `json:"store_name" validate:"required,max=200"`
	ContactName    string `json:"contact_name" validate:"required,max=100"`
	Address        string `json:"address" validate:"max=500"`
}

type RegisterResponse struct {
	UserID         string `json:"user_id"`
	RegistrationID string `json:"registration_id"`
	Status         string `json:"status"`
}

type ReviewRegistrationRequest struct {
	Status  string `json:"status" validate:"required,oneof=pending approved rejected"`
	Comment string `json:"comment" validate:"max=500"`
}

type RegistrationListQuery struct {
	Status string `form:"status" json:"status" validate:"omitempty,oneof=pending approved rejected"`
}
