package models

import "time"

// ContentStatus mirrors the content_status enum.
type ContentStatus string

const (
	ContentDraft     ContentStatus = "draft"
	ContentScheduled ContentStatus = "scheduled"
	ContentPublished ContentStatus = "published"
	ContentFailed    ContentStatus = "failed"
)

// Valid reports whether s is a known content status.
func (s ContentStatus) Valid() bool {
	switch s {
	case ContentDraft, ContentScheduled, ContentPublished, ContentFailed:
		return true
	}
	return false
}

// ContentPlan is a planned social media post.
type ContentPlan struct {
	ID           string        `db:"id" json:"id"`
	UserID       string        `db:"user_id" json:"userId"`
	Title        string        `db:"title" json:"title"`
	Description  *string       `db:"description" json:"description"`
	ContentType  string        `db:"content_type" json:"contentType"`
	Platform     string        `db:"platform" json:"platform"`
	Hashtags     []string      `db:"hashtags" json:"hashtags"`
	MediaURL     []string      `db:"media_url" json:"mediaUrl"`
	ScheduledFor *time.Time    `db:"scheduled_for" json:"scheduledFor"`
	Status       ContentStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`
}

// ContentPlanRequest is the create/update payload.
type ContentPlanRequest struct {
	Title        string         `json:"title" binding:"required"`
	Description  *string        `json:"description"`
	ContentType  string         `json:"contentType" binding:"required"`
	Platform     string         `json:"platform" binding:"required"`
	Hashtags     []string       `json:"hashtags"`
	MediaURL     []string       `json:"mediaUrl"`
	ScheduledFor *time.Time     `json:"scheduledFor"`
	Status       *ContentStatus `json:"status"`
}

// ContentPlanFilter narrows content plan listings.
type ContentPlanFilter struct {
	Status *ContentStatus
}
