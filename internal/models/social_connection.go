package models

import "time"

// Social platforms a business can connect.
const (
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
	PlatformTikTok    = "tiktok"
	PlatformX         = "x"
)

// SocialConnection links a business to a social media account.
// OAuth tokens are sealed at rest and never serialized.
type SocialConnection struct {
	ID             string     `db:"id" json:"id"`
	UserID         string     `db:"user_id" json:"userId"`
	Platform       string     `db:"platform" json:"platform"`
	Handle         string     `db:"handle" json:"handle"`
	AccessToken    *string    `db:"access_token" json:"-"`
	RefreshToken   *string    `db:"refresh_token" json:"-"`
	TokenExpiresAt *time.Time `db:"token_expires_at" json:"tokenExpiresAt"`
	ProfileData    JSONObject `db:"profile_data" json:"profileData"`
	LastSyncedAt   *time.Time `db:"last_synced_at" json:"lastSyncedAt"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}

// UpsertSocialConnectionRequest connects or refreshes one platform.
type UpsertSocialConnectionRequest struct {
	Platform       string     `json:"platform" binding:"required"`
	Handle         string     `json:"handle" binding:"required"`
	AccessToken    string     `json:"accessToken"`
	RefreshToken   string     `json:"refreshToken"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt"`
	ProfileData    JSONObject `json:"profileData"`
}
