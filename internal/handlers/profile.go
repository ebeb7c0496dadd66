package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/curata-dev/curata/internal/httpx"
	"github.com/curata-dev/curata/internal/models"
	"github.com/curata-dev/curata/internal/store"
	"github.com/curata-dev/curata/internal/validation"
)

// ProfileHandler serves the profile read paths and the admin write paths.
type ProfileHandler struct {
	Store *store.ProfileStore
	Tags  *store.TagStore
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{Store: store.NewProfileStore(db), Tags: store.NewTagStore(db)}
}

// List handles GET /api/profiles.
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	f, ok := h.parseFilter(w, r)
	if !ok {
		return
	}
	result, err := h.Store.GetAll(r.Context(), f)
	if errors.Is(err, store.ErrInvalidPagination) {
		httpx.Error(w, http.StatusBadRequest, "Invalid pagination parameters")
		return
	}
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching profiles")
		return
	}
	httpx.Page(w, http.StatusOK, result.Profiles, result.Pagination)
}

// parseFilter translates query-string parameters into a store.Filter,
// rejecting malformed values before any query is built.
func (h *ProfileHandler) parseFilter(w http.ResponseWriter, r *http.Request) (store.Filter, bool) {
	var f store.Filter
	var err error

	if f.Page, err = queryInt(r, "page", 1); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid page parameter")
		return f, false
	}
	if f.Limit, err = queryInt(r, "limit", store.DefaultPageSize); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid limit parameter")
		return f, false
	}
	if f.CategoryID, err = queryUint(r, "category_id"); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid category_id parameter")
		return f, false
	}
	if f.SubcategoryIDs, err = queryUintList(r, "subcategory_ids"); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid subcategory_ids parameter")
		return f, false
	}
	if f.TagIDs, err = queryUintList(r, "tag_ids"); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid tag_ids parameter")
		return f, false
	}

	q := r.URL.Query()
	f.Search = q.Get("search")
	f.Status = q.Get("status")
	if f.Status == "" {
		f.Status = models.StatusPublished
	}
	f.Random = q.Get("random") == "true"
	f.HasImage = q.Get("has_image") == "true"
	f.Countries = queryStringList(r, "countries")
	f.Languages = queryStringList(r, "languages")
	f.Platforms = queryStringList(r, "platforms")
	return f, true
}

// FilterOptions handles GET /api/profiles/filters.
func (h *ProfileHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.Store.GetFilterOptions(r.Context())
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching filter options")
		return
	}
	httpx.Data(w, http.StatusOK, opts)
}

// Get handles GET /api/profiles/{id}.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}
	profile, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching profile")
		return
	}
	if profile == nil {
		httpx.Error(w, http.StatusNotFound, "Profile not found")
		return
	}
	httpx.Data(w, http.StatusOK, profile)
}

// Related handles GET /api/profiles/{id}/related.
func (h *ProfileHandler) Related(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}
	limit, err := queryInt(r, "limit", store.DefaultRelatedLimit)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid limit parameter")
		return
	}
	profiles, err := h.Store.GetRelated(r.Context(), id, limit)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching related profiles")
		return
	}
	httpx.Data(w, http.StatusOK, profiles)
}

// Recent handles GET /api/profiles/recent.
func (h *ProfileHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", store.DefaultRecentLimit)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid limit parameter")
		return
	}
	profiles, err := h.Store.GetRecent(r.Context(), limit)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching recent profiles")
		return
	}
	httpx.Data(w, http.StatusOK, profiles)
}

// Create handles POST /api/profiles (admin).
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in store.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	v := validation.Violations{}
	if in.Name == nil {
		v["name"] = "required"
	} else {
		validation.Required("name", *in.Name, v)
	}
	if in.Status != nil {
		validation.OneOf("status", *in.Status, []string{models.StatusDraft, models.StatusPublished}, v)
	}
	if !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, "Validation failed")
		return
	}
	profile, err := h.Store.Create(r.Context(), in)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error creating profile")
		return
	}
	httpx.Data(w, http.StatusCreated, profile)
}

// Update handles PUT /api/profiles/{id} (admin).
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}
	var in store.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if in.Status != nil {
		v := validation.Violations{}
		validation.OneOf("status", *in.Status, []string{models.StatusDraft, models.StatusPublished}, v)
		if !v.Empty() {
			httpx.Error(w, http.StatusBadRequest, "Validation failed")
			return
		}
	}
	profile, err := h.Store.Update(r.Context(), id, in)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error updating profile")
		return
	}
	if profile == nil {
		httpx.Error(w, http.StatusNotFound, "Profile not found")
		return
	}
	httpx.Data(w, http.StatusOK, profile)
}

// Delete handles DELETE /api/profiles/{id} (admin).
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}
	profile, err := h.Store.Delete(r.Context(), id)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error deleting profile")
		return
	}
	if profile == nil {
		httpx.Error(w, http.StatusNotFound, "Profile not found")
		return
	}
	httpx.Message(w, http.StatusOK, "Profile deleted successfully", profile)
}

// SetSubcategories handles PUT /api/profiles/{id}/subcategories (admin).
func (h *ProfileHandler) SetSubcategories(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}
	var body struct {
		SubcategoryIDs []uint `json:"subcategory_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	err = h.Store.SetSubcategories(r.Context(), id, body.SubcategoryIDs)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error updating subcategories")
		return
	}
	httpx.Message(w, http.StatusOK, "Subcategories updated", nil)
}

// AssignTag handles POST /api/profiles/{id}/tags (admin).
func (h *ProfileHandler) AssignTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}
	var body struct {
		TagID uint `json:"tag_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.TagID == 0 {
		httpx.Error(w, http.StatusBadRequest, "tag_id is required")
		return
	}
	if err := h.Tags.AssignToProfile(r.Context(), id, body.TagID); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error assigning tag")
		return
	}
	httpx.Message(w, http.StatusOK, "Tag assigned", nil)
}

// RemoveTag handles DELETE /api/profiles/{id}/tags/{tagId} (admin).
func (h *ProfileHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}
	tagID, err := pathID(r, "tagId")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid tag ID")
		return
	}
	if err := h.Tags.RemoveFromProfile(r.Context(), id, tagID); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error removing tag")
		return
	}
	httpx.Message(w, http.StatusOK, "Tag removed", nil)
}
