package request

type UpdateProfileRequest struct {
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Bio       string `json:"bio" validate:"max=500"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// UpdateSettingRequest toggles one boolean setting.
type UpdateSettingRequest struct {
	Type  string `json:"type" validate:"required,oneof=email_notifications article_alerts chat_notifications dark_mode"`
	Value *bool  `json:"value" validate:"required"`
}
