package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/curata-dev/curata/internal/httpx"
	"github.com/curata-dev/curata/internal/models"
	"github.com/curata-dev/curata/internal/services"
	"github.com/curata-dev/curata/internal/store"
	"github.com/curata-dev/curata/internal/validation"
)

// TagHandler serves tag lookups and the classification admin surface.
type TagHandler struct {
	Store      *store.TagStore
	Classifier *services.TagClassifier
}

func NewTagHandler(db *gorm.DB) *TagHandler {
	return &TagHandler{Store: store.NewTagStore(db), Classifier: services.NewTagClassifier(db)}
}

// List handles GET /api/tags with an optional ?type= restriction.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tagType := r.URL.Query().Get("type")
	if tagType != "" && tagType != models.TagUniversal && tagType != models.TagContextual {
		httpx.Error(w, http.StatusBadRequest, "Invalid tag type")
		return
	}
	tags, err := h.Store.GetAll(r.Context(), tagType)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching tags")
		return
	}
	httpx.Data(w, http.StatusOK, tags)
}

// Universal handles GET /api/tags/universal.
func (h *TagHandler) Universal(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Store.GetUniversal(r.Context())
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching tags")
		return
	}
	httpx.Data(w, http.StatusOK, tags)
}

// Contextual handles GET /api/tags/contextual/{categoryId}.
func (h *TagHandler) Contextual(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryId")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	tags, err := h.Store.GetContextual(r.Context(), categoryID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching tags")
		return
	}
	httpx.Data(w, http.StatusOK, tags)
}

// BySubcategory handles GET /api/tags/subcategory/{subcategoryId}.
func (h *TagHandler) BySubcategory(w http.ResponseWriter, r *http.Request) {
	subcategoryID, err := pathID(r, "subcategoryId")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid subcategory ID")
		return
	}
	tags, err := h.Store.GetBySubcategory(r.Context(), subcategoryID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching tags")
		return
	}
	httpx.Data(w, http.StatusOK, tags)
}

// ByProfile handles GET /api/tags/profile/{profileId}.
func (h *TagHandler) ByProfile(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "profileId")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}
	tags, err := h.Store.GetByProfile(r.Context(), profileID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching tags")
		return
	}
	httpx.Data(w, http.StatusOK, tags)
}

// Create handles POST /api/tags (admin).
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Approved bool   `json:"approved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	v := validation.Violations{}
	validation.Required("name", body.Name, v)
	if body.Type != "" {
		validation.OneOf("type", body.Type, []string{models.TagUniversal, models.TagContextual}, v)
	}
	if !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, "Invalid tag payload")
		return
	}
	tag, err := h.Store.Create(r.Context(), body.Name, body.Type, body.Approved)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error creating tag")
		return
	}
	httpx.Data(w, http.StatusCreated, tag)
}

// Analyze handles GET /api/tags/classification/analyze (admin): recompute
// universal/contextual suggestions from current usage.
func (h *TagHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	report, err := h.Classifier.Analyze(r.Context())
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error analyzing tags")
		return
	}
	httpx.Data(w, http.StatusOK, report)
}

// Approve handles PUT /api/tags/{id}/approve (admin).
func (h *TagHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid tag ID")
		return
	}
	var body struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if body.Type == "" {
		body.Type = models.TagContextual
	}
	v := validation.Violations{}
	validation.OneOf("type", body.Type, []string{models.TagUniversal, models.TagContextual}, v)
	if !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, "Invalid tag type")
		return
	}
	tag, err := h.Store.Approve(r.Context(), id, body.Type)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error approving tag")
		return
	}
	if tag == nil {
		httpx.Error(w, http.StatusNotFound, "Tag not found")
		return
	}
	httpx.Message(w, http.StatusOK, "Tag approved", tag)
}
