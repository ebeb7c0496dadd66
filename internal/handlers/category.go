package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/curata-dev/curata/internal/httpx"
	"github.com/curata-dev/curata/internal/store"
	"github.com/curata-dev/curata/internal/validation"
)

// CategoryHandler serves the classification hierarchy.
type CategoryHandler struct {
	Store *store.CategoryStore
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{Store: store.NewCategoryStore(db)}
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Store.GetAll(r.Context())
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching categories")
		return
	}
	httpx.Data(w, http.StatusOK, categories)
}

// Get handles GET /api/categories/{id}.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	category, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching category")
		return
	}
	if category == nil {
		httpx.Error(w, http.StatusNotFound, "Category not found")
		return
	}
	httpx.Data(w, http.StatusOK, category)
}

// Subcategories handles GET /api/categories/{id}/subcategories.
func (h *CategoryHandler) Subcategories(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	subcategories, err := h.Store.GetSubcategories(r.Context(), id)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching subcategories")
		return
	}
	httpx.Data(w, http.StatusOK, subcategories)
}

// Create handles POST /api/categories (admin).
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	v := validation.Violations{}
	validation.Required("name", body.Name, v)
	validation.Required("slug", body.Slug, v)
	if !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, "Name and slug are required")
		return
	}
	category, err := h.Store.Create(r.Context(), body.Name, body.Slug)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error creating category")
		return
	}
	httpx.Data(w, http.StatusCreated, category)
}

// CreateSubcategory handles POST /api/categories/{id}/subcategories (admin).
func (h *CategoryHandler) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	var body struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	v := validation.Violations{}
	validation.Required("name", body.Name, v)
	validation.Required("slug", body.Slug, v)
	if !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, "Name and slug are required")
		return
	}
	subcategory, err := h.Store.CreateSubcategory(r.Context(), id, body.Name, body.Slug)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error creating subcategory")
		return
	}
	httpx.Data(w, http.StatusCreated, subcategory)
}
