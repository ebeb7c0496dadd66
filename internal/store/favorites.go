package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/curata-dev/curata/internal/models"
)

// ErrOwnerRequired rejects favorite operations with neither a user nor a
// session identity.
var ErrOwnerRequired = errors.New("store: favorite owner (user or session) required")

// Owner identifies who a favorite belongs to: a logged-in user or an
// anonymous browser session. Exactly one side should be set.
type Owner struct {
	UserID    *uint
	SessionID *string
}

func (o Owner) valid() bool { return o.UserID != nil || o.SessionID != nil }

// FavoriteStore manages per-user and per-session profile bookmarks.
type FavoriteStore struct {
	db *gorm.DB
}

func NewFavoriteStore(db *gorm.DB) *FavoriteStore { return &FavoriteStore{db: db} }

// Add bookmarks a profile; duplicates are ignored. Returns ErrNotFound when
// the profile does not exist.
func (s *FavoriteStore) Add(ctx context.Context, owner Owner, profileID uint) error {
	if !owner.valid() {
		return ErrOwnerRequired
	}
	var exists int64
	if err := s.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", profileID).Count(&exists).Error; err != nil {
		return fmt.Errorf("check profile %d: %w", profileID, err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	fav := models.Favorite{UserID: owner.UserID, SessionID: owner.SessionID, ProfileID: profileID}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error; err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// Remove deletes the bookmark if present.
func (s *FavoriteStore) Remove(ctx context.Context, owner Owner, profileID uint) error {
	if !owner.valid() {
		return ErrOwnerRequired
	}
	err := s.ownerScope(ctx, owner).
		Where("profile_id = ?", profileID).
		Delete(&models.Favorite{}).Error
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// GetAll lists the owner's favorites over published profiles, newest first.
func (s *FavoriteStore) GetAll(ctx context.Context, owner Owner) ([]models.Favorite, error) {
	if !owner.valid() {
		return nil, ErrOwnerRequired
	}
	favorites := []models.Favorite{}
	err := s.ownerScope(ctx, owner).
		Joins("INNER JOIN profiles ON profiles.id = favorites.profile_id").
		Where("profiles.status = ?", models.StatusPublished).
		Order("favorites.created_at DESC").
		Preload("Profile.Category").
		Preload("Profile.Subcategory").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

// FavoriteGroup is the per-category bucket of GetGroupedByCategory.
type FavoriteGroup struct {
	CategoryID   *uint             `json:"category_id"`
	CategorySlug string            `json:"category_slug"`
	Favorites    []models.Favorite `json:"profiles"`
}

// GetGroupedByCategory folds the owner's favorites into buckets keyed by
// category name; profiles without a category land under "Uncategorized".
func (s *FavoriteStore) GetGroupedByCategory(ctx context.Context, owner Owner) (map[string]*FavoriteGroup, error) {
	favorites, err := s.GetAll(ctx, owner)
	if err != nil {
		return nil, err
	}

	grouped := map[string]*FavoriteGroup{}
	for _, fav := range favorites {
		name := "Uncategorized"
		group := &FavoriteGroup{}
		if fav.Profile != nil && fav.Profile.Category != nil {
			name = fav.Profile.Category.Name
			group.CategoryID = fav.Profile.CategoryID
			group.CategorySlug = fav.Profile.Category.Slug
		}
		if existing, ok := grouped[name]; ok {
			group = existing
		} else {
			grouped[name] = group
		}
		group.Favorites = append(group.Favorites, fav)
	}
	return grouped, nil
}

// Count reports how many favorites the owner has.
func (s *FavoriteStore) Count(ctx context.Context, owner Owner) (int64, error) {
	if !owner.valid() {
		return 0, ErrOwnerRequired
	}
	var count int64
	if err := s.ownerScope(ctx, owner).Model(&models.Favorite{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return count, nil
}

// IsFavorited reports whether the owner bookmarked the profile.
func (s *FavoriteStore) IsFavorited(ctx context.Context, owner Owner, profileID uint) (bool, error) {
	if !owner.valid() {
		return false, ErrOwnerRequired
	}
	var count int64
	err := s.ownerScope(ctx, owner).Model(&models.Favorite{}).
		Where("profile_id = ?", profileID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return count > 0, nil
}

// TransferToUser moves a session's favorites onto a user account, typically
// right after login. Bookmarks the user already has are dropped rather than
// duplicated.
func (s *FavoriteStore) TransferToUser(ctx context.Context, userID uint, sessionID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		favorites := []models.Favorite{}
		if err := tx.Where("session_id = ?", sessionID).Find(&favorites).Error; err != nil {
			return err
		}
		for _, fav := range favorites {
			moved := models.Favorite{UserID: &userID, ProfileID: fav.ProfileID, CreatedAt: fav.CreatedAt}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&moved).Error; err != nil {
				return err
			}
		}
		return tx.Where("session_id = ?", sessionID).Delete(&models.Favorite{}).Error
	})
}

func (s *FavoriteStore) ownerScope(ctx context.Context, owner Owner) *gorm.DB {
	q := s.db.WithContext(ctx)
	switch {
	case owner.UserID != nil && owner.SessionID != nil:
		return q.Where("favorites.user_id = ? OR favorites.session_id = ?", owner.UserID, owner.SessionID)
	case owner.UserID != nil:
		return q.Where("favorites.user_id = ?", owner.UserID)
	default:
		return q.Where("favorites.session_id = ?", owner.SessionID)
	}
}
