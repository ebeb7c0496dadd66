package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Pagination defaults.
const (
	DefaultPageSize     = 20
	DefaultRelatedLimit = 6
	DefaultRecentLimit  = 10
)

// ErrInvalidPagination is returned when page or limit is zero or negative
// after defaults have been applied. Callers map it to a 400-class error.
var ErrInvalidPagination = errors.New("store: page and limit must be positive")

// Filter is a structured profile-listing request. Every dimension is
// optional; supplied dimensions combine with AND, membership inside a
// multi-valued dimension is OR ("any of"). Empty slices mean the dimension
// is absent, not "match nothing".
type Filter struct {
	Page  int
	Limit int

	Status         string // "" disables the status predicate
	CategoryID     uint
	SubcategoryIDs []uint
	TagIDs         []uint
	Search         string
	Countries      []string
	Languages      []string
	Platforms      []string
	HasImage       bool
	Random         bool
}

// predicate is one WHERE clause with its bound arguments. Placeholders are
// positional `?` resolved at execution time, so clause order never matters.
type predicate struct {
	expr string
	args []any
}

// queryPlan is the compiled form of a Filter: the extra joins needed to
// evaluate every predicate plus the predicate list itself.
//
// Filter joins carry the _f alias suffix. They exist only to restrict the
// result set; the full subcategory and social-link lists are loaded by a
// separate aggregation pass, so a tag filter can never truncate the
// displayed lists.
type queryPlan struct {
	joins []string
	preds []predicate
}

func (f *Filter) compile() queryPlan {
	var plan queryPlan

	if f.Status != "" {
		plan.where("profiles.status = ?", f.Status)
	}
	if f.CategoryID != 0 {
		plan.where("profiles.category_id = ?", f.CategoryID)
	}
	if len(f.SubcategoryIDs) > 0 {
		plan.join("INNER JOIN profile_subcategories ps_f ON ps_f.profile_id = profiles.id")
		plan.where("ps_f.subcategory_id IN ?", f.SubcategoryIDs)
	}
	if len(f.TagIDs) > 0 {
		plan.join("INNER JOIN profile_tags pt_f ON pt_f.profile_id = profiles.id")
		plan.where("pt_f.tag_id IN ?", f.TagIDs)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		plan.where(
			"(LOWER(profiles.name) LIKE ? OR LOWER(categories.name) LIKE ? OR LOWER(subcategories.name) LIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if len(f.Countries) > 0 {
		plan.where("profiles.location IN ?", f.Countries)
	}
	if len(f.Languages) > 0 {
		plan.where("profiles.language IN ?", f.Languages)
	}
	if len(f.Platforms) > 0 {
		plan.join("INNER JOIN social_links sl_f ON sl_f.profile_id = profiles.id")
		plan.where("sl_f.platform IN ?", f.Platforms)
	}
	if f.HasImage {
		plan.where("profiles.image_url IS NOT NULL AND profiles.image_url <> '' AND profiles.image_url <> ? AND profiles.image_url NOT LIKE '%placeholder%'", defaultAvatarPath)
	}

	return plan
}

// normalize applies pagination defaults and rejects non-positive values.
// A zero value means "not supplied"; negatives are caller mistakes and must
// not silently turn into "return everything".
func (f *Filter) normalize() error {
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = DefaultPageSize
	}
	if f.Page < 1 || f.Limit < 1 {
		return ErrInvalidPagination
	}
	return nil
}

func (f *Filter) orderClause() string {
	if f.Random {
		return "RANDOM()"
	}
	return "profiles.published_at DESC, profiles.created_at DESC"
}

func (p *queryPlan) join(clause string) {
	p.joins = append(p.joins, clause)
}

func (p *queryPlan) where(expr string, args ...any) {
	p.preds = append(p.preds, predicate{expr: expr, args: args})
}

// apply attaches the plan to a base query.
func (p queryPlan) apply(q *gorm.DB) *gorm.DB {
	for _, j := range p.joins {
		q = q.Joins(j)
	}
	for _, pred := range p.preds {
		q = q.Where(pred.expr, pred.args...)
	}
	return q
}

// Pagination reports the slice of results a page query returned.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}
