package models

import "time"

// User is a visitor account. Only used for favorites today; the admin role
// lives outside this table (env-configured credentials).
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Favorite bookmarks a profile for either a logged-in user or an anonymous
// browser session. Exactly one of UserID/SessionID is set.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index;uniqueIndex:idx_fav_user" json:"user_id,omitempty"`
	SessionID *string   `gorm:"size:64;index;uniqueIndex:idx_fav_session" json:"session_id,omitempty"`
	ProfileID uint      `gorm:"not null;index;uniqueIndex:idx_fav_user;uniqueIndex:idx_fav_session" json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`

	Profile *Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}

// Submission statuses.
const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

// Submission is a visitor-suggested directory entry awaiting review.
type Submission struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	SubmissionType       string    `gorm:"size:50" json:"submission_type"`
	Name                 string    `gorm:"size:255;not null" json:"name"`
	CategoryID           *uint     `json:"category_id,omitempty"`
	SubcategoryID        *uint     `json:"subcategory_id,omitempty"`
	SuggestedCategory    string    `gorm:"size:100" json:"suggested_category,omitempty"`
	SuggestedSubcategory string    `gorm:"size:100" json:"suggested_subcategory,omitempty"`
	Location             string    `gorm:"size:100" json:"location,omitempty"`
	Language             string    `gorm:"size:50" json:"language,omitempty"`
	Status               string    `gorm:"size:20;not null;default:pending;index" json:"status"`
	CreatedAt            time.Time `json:"created_at"`

	Tags        []SubmissionTag        `gorm:"foreignKey:SubmissionID" json:"tags,omitempty"`
	SocialLinks []SubmissionSocialLink `gorm:"foreignKey:SubmissionID" json:"social_links,omitempty"`
}

// SubmissionTag references either an existing tag or a free-text suggestion.
type SubmissionTag struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	SubmissionID uint   `gorm:"not null;index" json:"-"`
	TagID        *uint  `json:"tag_id,omitempty"`
	SuggestedTag string `gorm:"size:100" json:"suggested_tag,omitempty"`
}

// SubmissionSocialLink is a platform link attached to a submission.
type SubmissionSocialLink struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	SubmissionID uint   `gorm:"not null;index" json:"-"`
	Platform     string `gorm:"size:50;not null" json:"platform"`
	URL          string `gorm:"size:1024;not null" json:"url"`
}
