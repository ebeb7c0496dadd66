// Package services holds domain logic that spans multiple stores, such as
// the periodic tag classification analysis.
package services

import (
	"context"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/curata-dev/curata/internal/models"
)

// Classification thresholds: a tag is universal when it appears in more
// than 85% of categories while covering fewer than 90% of profiles.
const (
	universalCategoryThreshold = 85.0
	universalProfileThreshold  = 90.0
)

// TagClassifier recomputes universal/contextual suggestions from current
// tag usage.
type TagClassifier struct {
	db *gorm.DB
}

func NewTagClassifier(db *gorm.DB) *TagClassifier { return &TagClassifier{db: db} }

// Suggestion is the classification verdict for one tag.
type Suggestion struct {
	TagID              uint    `json:"tag_id"`
	TagName            string  `json:"tag_name"`
	CurrentType        string  `json:"current_type"`
	SuggestedType      string  `json:"suggested_type"`
	CategoryCount      int     `json:"category_count"`
	ProfileCount       int     `json:"profile_count"`
	CategoryPercentage float64 `json:"category_percentage"`
	ProfilePercentage  float64 `json:"profile_percentage"`
	NeedsUpdate        bool    `json:"needs_update"`
	Approved           bool    `json:"approved"`
	Confidence         int     `json:"confidence"`
}

// Report is the full analysis result.
type Report struct {
	TotalTags       int          `json:"total_tags"`
	TotalCategories int64        `json:"total_categories"`
	TotalProfiles   int64        `json:"total_profiles"`
	Suggestions     []Suggestion `json:"suggestions"`
	AllTags         []Suggestion `json:"all_tags"`
}

type tagUsage struct {
	ID            uint
	Name          string
	Type          string
	Approved      bool
	CategoryCount int
	ProfileCount  int
}

// Analyze measures every tag's category and profile coverage over published
// profiles and suggests a classification for each.
func (c *TagClassifier) Analyze(ctx context.Context) (*Report, error) {
	var totalCategories, totalProfiles int64
	if err := c.db.WithContext(ctx).Model(&models.Category{}).Count(&totalCategories).Error; err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	if err := c.db.WithContext(ctx).Model(&models.Profile{}).
		Where("status = ?", models.StatusPublished).
		Count(&totalProfiles).Error; err != nil {
		return nil, fmt.Errorf("count profiles: %w", err)
	}

	var usage []tagUsage
	err := c.db.WithContext(ctx).Model(&models.Tag{}).
		Select("tags.id, tags.name, tags.type, tags.approved, "+
			"COUNT(DISTINCT profiles.category_id) AS category_count, "+
			"COUNT(DISTINCT profiles.id) AS profile_count").
		Joins("LEFT JOIN profile_tags ON profile_tags.tag_id = tags.id").
		Joins("LEFT JOIN profiles ON profiles.id = profile_tags.profile_id AND profiles.status = ?", models.StatusPublished).
		Group("tags.id, tags.name, tags.type, tags.approved").
		Order("tags.name").
		Scan(&usage).Error
	if err != nil {
		return nil, fmt.Errorf("tag usage stats: %w", err)
	}

	report := &Report{
		TotalCategories: totalCategories,
		TotalProfiles:   totalProfiles,
		Suggestions:     []Suggestion{},
		AllTags:         []Suggestion{},
	}

	for _, u := range usage {
		categoryPct := percentage(u.CategoryCount, totalCategories)
		profilePct := percentage(u.ProfileCount, totalProfiles)

		suggested := models.TagContextual
		if categoryPct > universalCategoryThreshold && profilePct < universalProfileThreshold {
			suggested = models.TagUniversal
		}

		s := Suggestion{
			TagID:              u.ID,
			TagName:            u.Name,
			CurrentType:        u.Type,
			SuggestedType:      suggested,
			CategoryCount:      u.CategoryCount,
			ProfileCount:       u.ProfileCount,
			CategoryPercentage: categoryPct,
			ProfilePercentage:  profilePct,
			NeedsUpdate:        u.Type != suggested,
			Approved:           u.Approved,
			Confidence:         confidence(categoryPct, profilePct, suggested),
		}
		report.AllTags = append(report.AllTags, s)
		if s.NeedsUpdate {
			report.Suggestions = append(report.Suggestions, s)
		}
	}
	report.TotalTags = len(report.AllTags)
	return report, nil
}

// confidence scores a verdict 0-100: universal verdicts gain confidence the
// further the tag sits above the category threshold and below the profile
// threshold; contextual verdicts gain it the further below the category
// threshold.
func confidence(categoryPct, profilePct float64, suggested string) int {
	if suggested == models.TagUniversal {
		categoryScore := math.Min(100, (categoryPct-universalCategoryThreshold)*10)
		profileScore := math.Min(100, (universalProfileThreshold-profilePct)*10)
		return int(math.Round((categoryScore + profileScore) / 2))
	}
	return int(math.Round(math.Min(100, (universalCategoryThreshold-categoryPct)*2)))
}

func percentage(count int, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*100*100) / 100
}
