package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/curata-dev/curata/internal/models"
)

// TagStore serves tag lookups and the profile<->tag junction.
type TagStore struct {
	db *gorm.DB
}

func NewTagStore(db *gorm.DB) *TagStore { return &TagStore{db: db} }

// GetAll lists approved tags ordered by name, optionally restricted to one
// classification type.
func (s *TagStore) GetAll(ctx context.Context, tagType string) ([]models.Tag, error) {
	q := s.db.WithContext(ctx).Where("approved = ?", true)
	if tagType != "" {
		q = q.Where("type = ?", tagType)
	}
	tags := []models.Tag{}
	if err := q.Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// GetUniversal lists approved universal tags.
func (s *TagStore) GetUniversal(ctx context.Context) ([]models.Tag, error) {
	return s.GetAll(ctx, models.TagUniversal)
}

// GetContextual lists approved contextual tags in use by published profiles
// of the given category.
func (s *TagStore) GetContextual(ctx context.Context, categoryID uint) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := s.db.WithContext(ctx).Model(&models.Tag{}).
		Distinct("tags.*").
		Joins("INNER JOIN profile_tags ON profile_tags.tag_id = tags.id").
		Joins("INNER JOIN profiles ON profiles.id = profile_tags.profile_id").
		Where("profiles.category_id = ?", categoryID).
		Where("tags.type = ?", models.TagContextual).
		Where("tags.approved = ?", true).
		Order("tags.name").
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("list contextual tags for category %d: %w", categoryID, err)
	}
	return tags, nil
}

// GetBySubcategory lists approved tags used by published profiles whose
// primary subcategory matches.
func (s *TagStore) GetBySubcategory(ctx context.Context, subcategoryID uint) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := s.db.WithContext(ctx).Model(&models.Tag{}).
		Distinct("tags.*").
		Joins("INNER JOIN profile_tags ON profile_tags.tag_id = tags.id").
		Joins("INNER JOIN profiles ON profiles.id = profile_tags.profile_id").
		Where("profiles.subcategory_id = ?", subcategoryID).
		Where("profiles.status = ?", models.StatusPublished).
		Where("tags.approved = ?", true).
		Order("tags.name").
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("list tags for subcategory %d: %w", subcategoryID, err)
	}
	return tags, nil
}

// GetByProfile lists every tag linked to the profile, approved or not.
func (s *TagStore) GetByProfile(ctx context.Context, profileID uint) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := s.db.WithContext(ctx).Model(&models.Tag{}).
		Joins("INNER JOIN profile_tags ON profile_tags.tag_id = tags.id").
		Where("profile_tags.profile_id = ?", profileID).
		Order("tags.name").
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("list tags for profile %d: %w", profileID, err)
	}
	return tags, nil
}

// Create inserts a tag. New tags default to contextual and unapproved.
func (s *TagStore) Create(ctx context.Context, name, tagType string, approved bool) (*models.Tag, error) {
	if tagType == "" {
		tagType = models.TagContextual
	}
	t := models.Tag{Name: name, Type: tagType, Approved: approved}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &t, nil
}

// AssignToProfile links a tag to a profile; duplicate pairs are ignored.
func (s *TagStore) AssignToProfile(ctx context.Context, profileID, tagID uint) error {
	row := models.ProfileTag{ProfileID: profileID, TagID: tagID}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("assign tag %d to profile %d: %w", tagID, profileID, err)
	}
	return nil
}

// RemoveFromProfile unlinks a tag from a profile.
func (s *TagStore) RemoveFromProfile(ctx context.Context, profileID, tagID uint) error {
	err := s.db.WithContext(ctx).
		Where("profile_id = ? AND tag_id = ?", profileID, tagID).
		Delete(&models.ProfileTag{}).Error
	if err != nil {
		return fmt.Errorf("remove tag %d from profile %d: %w", tagID, profileID, err)
	}
	return nil
}

// Approve marks a tag approved with the given classification type.
// Returns (nil, nil) when the tag does not exist.
func (s *TagStore) Approve(ctx context.Context, tagID uint, tagType string) (*models.Tag, error) {
	var t models.Tag
	err := s.db.WithContext(ctx).First(&t, tagID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tag %d: %w", tagID, err)
	}
	t.Type = tagType
	t.Approved = true
	if err := s.db.WithContext(ctx).Save(&t).Error; err != nil {
		return nil, fmt.Errorf("approve tag %d: %w", tagID, err)
	}
	return &t, nil
}
