package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// SubscriptionTier mirrors the subscription_tier enum.
type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierBasic      SubscriptionTier = "basic"
	TierPro        SubscriptionTier = "pro"
	TierEnterprise SubscriptionTier = "enterprise"
)

// Industry mirrors the business_industry enum.
type Industry string

const (
	IndustryRetail        Industry = "retail"
	IndustryHospitality   Industry = "hospitality"
	IndustryHealthcare    Industry = "healthcare"
	IndustryTechnology    Industry = "technology"
	IndustryManufacturing Industry = "manufacturing"
	IndustryEducation     Industry = "education"
	IndustryFinance       Industry = "finance"
	IndustryOther         Industry = "other"
)

// Valid reports whether i is one of the known industries.
func (i Industry) Valid() bool {
	switch i {
	case IndustryRetail, IndustryHospitality, IndustryHealthcare, IndustryTechnology,
		IndustryManufacturing, IndustryEducation, IndustryFinance, IndustryOther:
		return true
	}
	return false
}

// Store themes and layouts offered by the storefront builder.
const (
	ThemeModern  = "modern"
	ThemeClassic = "classic"
	ThemeBold    = "bold"

	LayoutGrid    = "grid"
	LayoutSidebar = "sidebar"
)

// StoreSettings is stored as JSONB in business_profiles.settings.
type StoreSettings struct {
	Role         string `json:"role,omitempty"`
	Theme        string `json:"theme,omitempty"`
	Layout       string `json:"layout,omitempty"`
	PrimaryColor string `json:"primaryColor,omitempty"`
	BannerURL    string `json:"bannerUrl,omitempty"`
}

func (s StoreSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *StoreSettings) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan StoreSettings")
	}
	return json.Unmarshal(bytes, s)
}

// JSONObject is a free-form JSONB column (business hours, social media handles, profile data).
type JSONObject map[string]interface{}

func (j JSONObject) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONObject) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan JSONObject")
	}
	return json.Unmarshal(bytes, j)
}

// BusinessProfile is the tenant record. Its id equals the owner's user id.
type BusinessProfile struct {
	ID                  string           `db:"id" json:"id"`
	BusinessName        *string          `db:"business_name" json:"businessName"`
	BusinessDescription *string          `db:"business_description" json:"businessDescription"`
	BusinessAddress     *string          `db:"business_address" json:"businessAddress"`
	BusinessHours       JSONObject       `db:"business_hours" json:"businessHours"`
	ContactEmail        *string          `db:"contact_email" json:"contactEmail"`
	ContactPhone        *string          `db:"contact_phone" json:"contactPhone"`
	Industry            *Industry        `db:"industry" json:"industry"`
	LogoURL             *string          `db:"logo_url" json:"logoUrl"`
	WebsiteURL          *string          `db:"website_url" json:"websiteUrl"`
	SocialMedia         JSONObject       `db:"social_media" json:"socialMedia"`
	Settings            StoreSettings    `db:"settings" json:"settings"`
	SubscriptionTier    SubscriptionTier `db:"subscription_tier" json:"subscriptionTier"`
	SubscriptionStatus  *string          `db:"subscription_status" json:"subscriptionStatus"`
	SubscriptionEndDate *time.Time       `db:"subscription_end_date" json:"subscriptionEndDate"`
	ProductLimit        *int             `db:"product_limit" json:"productLimit"`
	CreatedAt           time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time        `db:"updated_at" json:"updatedAt"`
}

// DisplayName returns the business name or a placeholder for unfinished profiles.
func (p *BusinessProfile) DisplayName() string {
	if p == nil || p.BusinessName == nil || *p.BusinessName == "" {
		return "My Business"
	}
	return *p.BusinessName
}

// UpsertBusinessProfileRequest is the payload of the profile setup form.
type UpsertBusinessProfileRequest struct {
	BusinessName        string     `json:"businessName" binding:"required"`
	BusinessDescription *string    `json:"businessDescription"`
	BusinessAddress     *string    `json:"businessAddress"`
	BusinessHours       JSONObject `json:"businessHours"`
	ContactEmail        *string    `json:"contactEmail"`
	ContactPhone        *string    `json:"contactPhone"`
	Industry            *Industry  `json:"industry"`
	LogoURL             *string    `json:"logoUrl"`
	WebsiteURL          *string    `json:"websiteUrl"`
	SocialMedia         JSONObject `json:"socialMedia"`
}

// UpdateStoreSettingsRequest changes the storefront appearance.
type UpdateStoreSettingsRequest struct {
	Theme        *string `json:"theme"`
	Layout       *string `json:"layout"`
	PrimaryColor *string `json:"primaryColor"`
	BannerURL    *string `json:"bannerUrl"`
}
