package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/curata-dev/curata/internal/models"
)

// SubmissionInput is a visitor-suggested directory entry.
type SubmissionInput struct {
	SubmissionType       string               `json:"submission_type"`
	Name                 string               `json:"name"`
	CategoryID           *uint                `json:"category_id"`
	SubcategoryID        *uint                `json:"subcategory_id"`
	SuggestedCategory    string               `json:"suggested_category"`
	SuggestedSubcategory string               `json:"suggested_subcategory"`
	Location             string               `json:"location"`
	Language             string               `json:"language"`
	TagIDs               []uint               `json:"tags"`
	SuggestedTags        []string             `json:"suggested_tags"`
	SocialLinks          []SubmissionLinkSpec `json:"social_links"`
}

// SubmissionLinkSpec is one platform link attached to a submission.
type SubmissionLinkSpec struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// SubmissionStore manages visitor submissions awaiting review.
type SubmissionStore struct {
	db *gorm.DB
}

func NewSubmissionStore(db *gorm.DB) *SubmissionStore { return &SubmissionStore{db: db} }

// Create writes the submission and its tag/link children in one
// transaction; a failure anywhere leaves nothing behind.
func (s *SubmissionStore) Create(ctx context.Context, in SubmissionInput) (*models.Submission, error) {
	if in.Name == "" {
		return nil, ErrNameRequired
	}

	sub := models.Submission{
		SubmissionType:       in.SubmissionType,
		Name:                 in.Name,
		CategoryID:           in.CategoryID,
		SubcategoryID:        in.SubcategoryID,
		SuggestedCategory:    in.SuggestedCategory,
		SuggestedSubcategory: in.SuggestedSubcategory,
		Location:             in.Location,
		Language:             in.Language,
		Status:               models.SubmissionPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}
		for _, tagID := range in.TagIDs {
			id := tagID
			row := models.SubmissionTag{SubmissionID: sub.ID, TagID: &id}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, suggested := range in.SuggestedTags {
			row := models.SubmissionTag{SubmissionID: sub.ID, SuggestedTag: suggested}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, link := range in.SocialLinks {
			row := models.SubmissionSocialLink{SubmissionID: sub.ID, Platform: link.Platform, URL: link.URL}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return &sub, nil
}

// GetAll lists submissions newest first, optionally restricted to a status.
func (s *SubmissionStore) GetAll(ctx context.Context, status string, page, limit int) ([]models.Submission, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if page < 1 || limit < 1 {
		return nil, ErrInvalidPagination
	}

	q := s.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	submissions := []models.Submission{}
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Preload("Tags").
		Preload("SocialLinks").
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, nil
}

// GetByID returns one submission or (nil, nil) when it does not exist.
func (s *SubmissionStore) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("SocialLinks").
		First(&sub, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get submission %d: %w", id, err)
	}
	return &sub, nil
}

// UpdateStatus sets the review status. Returns (nil, nil) when the
// submission does not exist.
func (s *SubmissionStore) UpdateStatus(ctx context.Context, id uint, status string) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.WithContext(ctx).First(&sub, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get submission %d: %w", id, err)
	}
	sub.Status = status
	if err := s.db.WithContext(ctx).Save(&sub).Error; err != nil {
		return nil, fmt.Errorf("update submission %d: %w", id, err)
	}
	return &sub, nil
}
