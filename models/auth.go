package models

type LoginInput struct {
	Identifier string `json:"email_or_phone"`
	Password   string `json:"password"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type LoginResponse struct {
	TokenPair
	User User `json:"user"`
}

type RefreshInput struct {
	Refresh string `json:"refresh"`
}

type UpdatePasswordInput struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

type SendOTPInput struct {
	Email string `json:"email"`
}

type ResetPasswordInput struct {
	Email              string `json:"email"`
	OTP                string `json:"otp"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

// MessageResponse is returned by endpoints that only acknowledge a request.
type MessageResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// RememberedCredentials are persisted only after the user opts in.
type RememberedCredentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}
