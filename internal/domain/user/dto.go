// internal/domain/user/dto.go
package user

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`

	// Populated by the handler, not the client body.
	DeviceInfo string `json:"-"`
	IPAddress  string `json:"-"`
	UserAgent  string `json:"-"`
}

type AuthResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

type UpdateProfileRequest struct {
	FirstName         *string `json:"first_name,omitempty" binding:"omitempty,max=100"`
	LastName          *string `json:"last_name,omitempty" binding:"omitempty,max=100"`
	AvatarURL         *string `json:"avatar_url,omitempty" binding:"omitempty,url"`
	Bio               *string `json:"bio,omitempty" binding:"omitempty,max=500"`
	Timezone          *string `json:"timezone,omitempty"`
	PreferredLanguage *string `json:"preferred_language,omitempty"`
}

type UpdateSettingsRequest struct {
	ProfileVisibility  *ProfileVisibility `json:"profile_visibility,omitempty" binding:"omitempty,oneof=public private connections"`
	DataSharingEnabled *bool              `json:"data_sharing_enabled,omitempty"`
	EmailNotifications *bool              `json:"email_notifications,omitempty"`
	PushNotifications  *bool              `json:"push_notifications,omitempty"`
	SMSNotifications   *bool              `json:"sms_notifications,omitempty"`
	MarketingEmails    *bool              `json:"marketing_emails,omitempty"`
	SecurityAlerts     *bool              `json:"security_alerts,omitempty"`
	TwoFactorEnabled   *bool              `json:"two_factor_enabled,omitempty"`
}

// RequestMetadata carries per-request client context into audit entries.
type RequestMetadata struct {
	IPAddress string
	UserAgent string
}
