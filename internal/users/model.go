package users

import "time"

// Roles gate the upload quota on the shortlist endpoint: students may only
// self-check a single resume, HR users batch-upload.
const (
	RoleHR      = "hr"
	RoleStudent = "student"
)

type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          string    `json:"role"`
	PictureURL    string    `json:"pictureUrl,omitempty"`
	OAuthProvider string    `json:"oauthProvider,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleHR, RoleStudent:
		return true
	default:
		return false
	}
}
