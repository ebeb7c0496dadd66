package store

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/curata-dev/curata/internal/db"
	"github.com/curata-dev/curata/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.RegisterJoinTables(conn); err != nil {
		t.Fatalf("join tables: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedCategory(t *testing.T, conn *gorm.DB, name, slug string) models.Category {
	t.Helper()
	c := models.Category{Name: name, Slug: slug}
	if err := conn.Create(&c).Error; err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	return c
}

func seedSubcategory(t *testing.T, conn *gorm.DB, categoryID uint, name, slug string) models.Subcategory {
	t.Helper()
	sc := models.Subcategory{CategoryID: categoryID, Name: name, Slug: slug}
	if err := conn.Create(&sc).Error; err != nil {
		t.Fatalf("seed subcategory %s: %v", name, err)
	}
	return sc
}

func seedTag(t *testing.T, conn *gorm.DB, name, tagType string, approved bool) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Type: tagType, Approved: approved}
	if err := conn.Create(&tag).Error; err != nil {
		t.Fatalf("seed tag %s: %v", name, err)
	}
	return tag
}

func seedProfile(t *testing.T, conn *gorm.DB, p models.Profile) models.Profile {
	t.Helper()
	if p.Status == "" {
		p.Status = models.StatusPublished
	}
	if p.Status == models.StatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
	if err := conn.Create(&p).Error; err != nil {
		t.Fatalf("seed profile %s: %v", p.Name, err)
	}
	return p
}

func linkTag(t *testing.T, conn *gorm.DB, profileID, tagID uint) {
	t.Helper()
	if err := conn.Create(&models.ProfileTag{ProfileID: profileID, TagID: tagID}).Error; err != nil {
		t.Fatalf("link tag %d to profile %d: %v", tagID, profileID, err)
	}
}

func linkSubcategory(t *testing.T, conn *gorm.DB, profileID, subcategoryID uint) {
	t.Helper()
	if err := conn.Create(&models.ProfileSubcategory{ProfileID: profileID, SubcategoryID: subcategoryID}).Error; err != nil {
		t.Fatalf("link subcategory %d to profile %d: %v", subcategoryID, profileID, err)
	}
}

func addSocialLink(t *testing.T, conn *gorm.DB, profileID uint, platform, url string) {
	t.Helper()
	if err := conn.Create(&models.SocialLink{ProfileID: profileID, Platform: platform, URL: url}).Error; err != nil {
		t.Fatalf("add social link %s: %v", platform, err)
	}
}

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }
