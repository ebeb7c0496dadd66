package models

import (
	"strings"
	"time"
)

// Profile lifecycle states.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// DefaultAvatarPath is the placeholder image assigned to profiles that have
// no real picture yet. Filters treat it the same as a missing image.
const DefaultAvatarPath = "/avatars/default.png"

// Profile is a directory entry (person or brand).
//
// CategoryID and SubcategoryID are the denormalized "primary" pointers kept
// for display; the profile_subcategories junction is the source of truth for
// which subcategories a profile belongs to. The store keeps the primary
// pointer in sync by convention (first assigned subcategory wins).
type Profile struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:255;not null;index" json:"name"`
	ImageURL    *string    `gorm:"size:1024" json:"image_url"`
	Insight     string     `gorm:"type:text" json:"insight,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`
	NotesURL    string     `gorm:"size:1024" json:"notes_url,omitempty"`
	Location    string     `gorm:"size:100;index" json:"location,omitempty"`
	Language    string     `gorm:"size:50;index" json:"language,omitempty"`
	Status      string     `gorm:"size:20;not null;default:draft;index" json:"status"`
	PublishedAt *time.Time `gorm:"index" json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	CategoryID    *uint `gorm:"index" json:"category_id"`
	SubcategoryID *uint `gorm:"index" json:"subcategory_id"`

	Category    *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Subcategory *Subcategory `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`

	// All subcategories via the profile_subcategories junction.
	Subcategories []Subcategory `gorm:"many2many:profile_subcategories" json:"subcategories,omitempty"`
	Tags          []Tag         `gorm:"many2many:profile_tags" json:"tags,omitempty"`
	SocialLinks   []SocialLink  `gorm:"foreignKey:ProfileID" json:"social_links,omitempty"`

	// RelevanceScore is populated by the related-profiles query only.
	RelevanceScore int `gorm:"->;-:migration" json:"relevance_score,omitempty"`
}

// IsPublished reports whether the profile is visible to the public API.
func (p Profile) IsPublished() bool { return p.Status == StatusPublished }

// HasValidImage reports whether image_url points at a real picture rather
// than nothing, the default avatar, or a known placeholder.
func (p Profile) HasValidImage() bool {
	if p.ImageURL == nil {
		return false
	}
	url := *p.ImageURL
	if url == "" || url == DefaultAvatarPath {
		return false
	}
	return !strings.Contains(url, "placeholder")
}

// Category is the top level of the two-level classification hierarchy.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Slug string `gorm:"size:100;not null;uniqueIndex" json:"slug"`

	Subcategories []Subcategory `gorm:"foreignKey:CategoryID" json:"subcategories,omitempty"`
}

// Subcategory belongs to exactly one category. Name and slug are unique
// within that category.
type Subcategory struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CategoryID uint   `gorm:"not null;index;uniqueIndex:idx_subcat_name;uniqueIndex:idx_subcat_slug" json:"category_id"`
	Name       string `gorm:"size:100;not null;uniqueIndex:idx_subcat_name" json:"name"`
	Slug       string `gorm:"size:100;not null;uniqueIndex:idx_subcat_slug" json:"slug"`
}

// ProfileSubcategory is the profiles<->subcategories junction row.
// The composite primary key makes duplicate pairs impossible.
type ProfileSubcategory struct {
	ProfileID     uint `gorm:"primaryKey"`
	SubcategoryID uint `gorm:"primaryKey"`
}

// Tag classification types.
const (
	TagUniversal  = "universal"
	TagContextual = "contextual"
)

// Tag is a free-form label. Type is periodically recomputed by the
// classification service; only approved tags are served to the public API.
type Tag struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Type     string `gorm:"size:20;not null;default:contextual" json:"type"`
	Approved bool   `gorm:"not null;default:false" json:"approved"`
}

// ProfileTag is the profiles<->tags junction row.
type ProfileTag struct {
	ProfileID uint `gorm:"primaryKey"`
	TagID     uint `gorm:"primaryKey"`
}

// SocialLink is one external platform link owned by a profile.
type SocialLink struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	ProfileID uint   `gorm:"not null;index;uniqueIndex:idx_social_link" json:"-"`
	Platform  string `gorm:"size:50;not null;uniqueIndex:idx_social_link" json:"platform"`
	URL       string `gorm:"size:1024;not null;uniqueIndex:idx_social_link" json:"url"`
}
