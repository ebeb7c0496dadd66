// Package store implements the profile query engine: composable filters,
// deduplicated pagination, list aggregation and relevance ranking, plus the
// secondary stores (categories, tags, favorites, submissions) built on the
// same entity schema.
package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/curata-dev/curata/internal/models"
)

const defaultAvatarPath = models.DefaultAvatarPath

// recentWindow bounds GetRecent: only profiles published inside it qualify.
const recentWindow = 48 * time.Hour

// ErrNotFound is returned by operations that need an existing reference
// profile (e.g. GetRelated) when that profile does not exist.
var ErrNotFound = errors.New("store: profile not found")

// ProfileStore runs all profile read and write paths against the database.
// It holds no per-request state; concurrent use is safe.
type ProfileStore struct {
	db *gorm.DB
}

func NewProfileStore(db *gorm.DB) *ProfileStore { return &ProfileStore{db: db} }

// ProfilePage is one page of filtered profiles plus the counts a client
// needs to paginate.
type ProfilePage struct {
	Profiles   []models.Profile `json:"profiles"`
	Pagination Pagination       `json:"pagination"`
}

// filtered builds the shared predicate/join set used by both the count and
// the page query. Category/subcategory are always joined: the search
// predicate and the denormalized display names need them.
func (s *ProfileStore) filtered(ctx context.Context, f *Filter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Profile{}).
		Joins("LEFT JOIN categories ON categories.id = profiles.category_id").
		Joins("LEFT JOIN subcategories ON subcategories.id = profiles.subcategory_id")
	return f.compile().apply(q)
}

// GetAll returns one page of profiles matching the filter plus the total
// count of distinct matching profiles.
//
// The count runs over COUNT(DISTINCT profiles.id) with the identical
// predicate set as the page query, so join fan-out from multi-valued
// dimensions can never inflate the total. The page query groups by profile
// identity for the same reason; the full subcategory and social-link lists
// are attached in a second pass keyed by the page's profile IDs.
func (s *ProfileStore) GetAll(ctx context.Context, f Filter) (*ProfilePage, error) {
	if err := f.normalize(); err != nil {
		return nil, err
	}

	var total int64
	if err := s.filtered(ctx, &f).Distinct("profiles.id").Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count profiles: %w", err)
	}

	profiles := []models.Profile{}
	err := s.filtered(ctx, &f).
		Select("profiles.*").
		Group("profiles.id, categories.id, subcategories.id").
		Order(f.orderClause()).
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Preload("Category").
		Preload("Subcategory").
		Preload("Subcategories", subcategoriesByName).
		Preload("SocialLinks").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	return &ProfilePage{
		Profiles: profiles,
		Pagination: Pagination{
			Page:       f.Page,
			Limit:      f.Limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(f.Limit))),
		},
	}, nil
}

// GetByID returns a profile with its full tag and social-link lists, or
// (nil, nil) when no such profile exists.
func (s *ProfileStore) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Subcategory").
		Preload("Subcategories", subcategoriesByName).
		Preload("Tags", func(q *gorm.DB) *gorm.DB { return q.Order("tags.name") }).
		Preload("SocialLinks").
		First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %d: %w", id, err)
	}
	return &p, nil
}

// GetRelated scores every other published profile against the reference:
//
//	score = tier + shared tag count
//	tier  = 3 same subcategory, 2 same category, 1 otherwise
//
// ordered by score then recency. Many shared tags can lift a tier-1
// candidate above a tier-3 one.
func (s *ProfileStore) GetRelated(ctx context.Context, profileID uint, limit int) ([]models.Profile, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	var ref models.Profile
	err := s.db.WithContext(ctx).Select("id", "category_id", "subcategory_id").First(&ref, profileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load reference profile %d: %w", profileID, err)
	}

	var tagIDs []uint
	if err := s.db.WithContext(ctx).Model(&models.ProfileTag{}).
		Where("profile_id = ?", profileID).
		Pluck("tag_id", &tagIDs).Error; err != nil {
		return nil, fmt.Errorf("load reference tags: %w", err)
	}

	tier := "CASE WHEN profiles.subcategory_id IS NOT NULL AND profiles.subcategory_id = ? THEN 3 " +
		"WHEN profiles.category_id IS NOT NULL AND profiles.category_id = ? THEN 2 ELSE 1 END"
	args := []any{ref.SubcategoryID, ref.CategoryID}

	shared := "0"
	if len(tagIDs) > 0 {
		shared = "(SELECT COUNT(*) FROM profile_tags pt WHERE pt.profile_id = profiles.id AND pt.tag_id IN (?))"
		args = append(args, tagIDs)
	}

	var related []models.Profile
	err = s.db.WithContext(ctx).Model(&models.Profile{}).
		Select("profiles.*, ("+tier+" + "+shared+") AS relevance_score", args...).
		Where("profiles.id <> ?", profileID).
		Where("profiles.status = ?", models.StatusPublished).
		Order("relevance_score DESC, profiles.published_at DESC").
		Limit(limit).
		Preload("Category").
		Find(&related).Error
	if err != nil {
		return nil, fmt.Errorf("list related profiles: %w", err)
	}
	return related, nil
}

// GetRecent returns the most recently published profiles from the last 48
// hours, newest first.
func (s *ProfileStore) GetRecent(ctx context.Context, limit int) ([]models.Profile, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	cutoff := time.Now().Add(-recentWindow)

	profiles := []models.Profile{}
	err := s.db.WithContext(ctx).
		Where("status = ?", models.StatusPublished).
		Where("published_at >= ?", cutoff).
		Order("published_at DESC").
		Limit(limit).
		Preload("Category").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("list recent profiles: %w", err)
	}
	return profiles, nil
}

// FilterOptions are the distinct values a client can filter on.
type FilterOptions struct {
	Countries []string `json:"countries"`
	Languages []string `json:"languages"`
	Platforms []string `json:"platforms"`
}

// GetFilterOptions lists distinct locations and languages across published
// profiles, and distinct platforms across all social links.
func (s *ProfileStore) GetFilterOptions(ctx context.Context) (*FilterOptions, error) {
	opts := &FilterOptions{Countries: []string{}, Languages: []string{}, Platforms: []string{}}

	err := s.db.WithContext(ctx).Model(&models.Profile{}).
		Distinct("location").
		Where("location <> ''").
		Where("status = ?", models.StatusPublished).
		Order("location").
		Pluck("location", &opts.Countries).Error
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&models.Profile{}).
		Distinct("language").
		Where("language <> ''").
		Where("status = ?", models.StatusPublished).
		Order("language").
		Pluck("language", &opts.Languages).Error
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&models.SocialLink{}).
		Distinct("platform").
		Order("platform").
		Pluck("platform", &opts.Platforms).Error
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}

	return opts, nil
}

func subcategoriesByName(q *gorm.DB) *gorm.DB {
	return q.Order("subcategories.name")
}
