package models

import "github.com/golang-jwt/jwt/v5"

// AppMetadata is the provider-managed part of the session token.
type AppMetadata struct {
	Role     string `json:"role,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// SessionClaims are the claims of a session token issued by the identity provider.
type SessionClaims struct {
	Email       string      `json:"email,omitempty"`
	Role        string      `json:"role,omitempty"`
	SessionID   string      `json:"session_id,omitempty"`
	AppMetadata AppMetadata `json:"app_metadata"`
	jwt.RegisteredClaims
}

// UserID returns the authenticated user's id.
func (c *SessionClaims) UserID() string {
	return c.Subject
}

// IsAdmin reports whether the user carries the platform admin flag.
func (c *SessionClaims) IsAdmin() bool {
	return c.AppMetadata.Role == "admin"
}

// SessionInfo is the session summary returned to the dashboard.
type SessionInfo struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
	ExpiresAt int64  `json:"expiresAt"`
}
