package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/curata-dev/curata/internal/models"
)

// ErrNameRequired rejects profile creation without a name.
var ErrNameRequired = errors.New("store: profile name is required")

// ProfileInput carries admin-supplied profile fields. Nil pointers mean
// "leave unchanged" on update and "use the default" on create.
type ProfileInput struct {
	Name          *string `json:"name"`
	CategoryID    *uint   `json:"category_id"`
	SubcategoryID *uint   `json:"subcategory_id"`
	ImageURL      *string `json:"image_url"`
	Insight       *string `json:"insight"`
	Notes         *string `json:"notes"`
	NotesURL      *string `json:"notes_url"`
	Status        *string `json:"status"`
}

// Create inserts a new profile. Status defaults to draft; publishing stamps
// published_at when it is not already set.
func (s *ProfileStore) Create(ctx context.Context, in ProfileInput) (*models.Profile, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, ErrNameRequired
	}

	p := models.Profile{
		Name:          *in.Name,
		CategoryID:    in.CategoryID,
		SubcategoryID: in.SubcategoryID,
		ImageURL:      in.ImageURL,
		Status:        models.StatusDraft,
	}
	if in.Insight != nil {
		p.Insight = *in.Insight
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
	if in.NotesURL != nil {
		p.NotesURL = *in.NotesURL
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if p.Status == models.StatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return &p, nil
}

// Update applies the supplied fields to an existing profile, leaving the
// rest untouched. Returns (nil, nil) when the profile does not exist.
func (s *ProfileStore) Update(ctx context.Context, id uint, in ProfileInput) (*models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %d: %w", id, err)
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.CategoryID != nil {
		p.CategoryID = in.CategoryID
	}
	if in.SubcategoryID != nil {
		p.SubcategoryID = in.SubcategoryID
	}
	if in.ImageURL != nil {
		p.ImageURL = in.ImageURL
	}
	if in.Insight != nil {
		p.Insight = *in.Insight
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
	if in.NotesURL != nil {
		p.NotesURL = *in.NotesURL
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if p.Status == models.StatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	if err := s.db.WithContext(ctx).Save(&p).Error; err != nil {
		return nil, fmt.Errorf("update profile %d: %w", id, err)
	}
	return &p, nil
}

// Delete removes a profile and its dependent rows (junction entries, social
// links, favorites) in one transaction. Returns (nil, nil) when the profile
// does not exist.
func (s *ProfileStore) Delete(ctx context.Context, id uint) (*models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %d: %w", id, err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", id).Delete(&models.ProfileSubcategory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", id).Delete(&models.ProfileTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", id).Delete(&models.SocialLink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Profile{}, id).Error
	})
	if err != nil {
		return nil, fmt.Errorf("delete profile %d: %w", id, err)
	}
	return &p, nil
}

// SetSubcategories replaces the profile's junction rows with the supplied
// set. The first ID becomes the primary subcategory_id pointer; an empty set
// clears it. Junction and pointer stay in sync by this convention, not by a
// database constraint.
func (s *ProfileStore) SetSubcategories(ctx context.Context, profileID uint, subcategoryIDs []uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Profile{}).Where("id = ?", profileID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}

		if err := tx.Where("profile_id = ?", profileID).Delete(&models.ProfileSubcategory{}).Error; err != nil {
			return err
		}
		for _, sid := range subcategoryIDs {
			row := models.ProfileSubcategory{ProfileID: profileID, SubcategoryID: sid}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return err
			}
		}

		var primary *uint
		if len(subcategoryIDs) > 0 {
			primary = &subcategoryIDs[0]
		}
		return tx.Model(&models.Profile{}).Where("id = ?", profileID).
			Update("subcategory_id", primary).Error
	})
}

// AssignSubcategory links one subcategory to the profile, ignoring
// duplicates. When the profile has no primary subcategory yet, the first
// assignment becomes it (insert-order convention).
func (s *ProfileStore) AssignSubcategory(ctx context.Context, profileID, subcategoryID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := models.ProfileSubcategory{ProfileID: profileID, SubcategoryID: subcategoryID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Model(&models.Profile{}).
			Where("id = ? AND subcategory_id IS NULL", profileID).
			Update("subcategory_id", subcategoryID).Error
	})
}
