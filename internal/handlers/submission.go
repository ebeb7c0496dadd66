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

// SubmissionHandler serves visitor submissions and their admin review.
type SubmissionHandler struct {
	Store *store.SubmissionStore
}

func NewSubmissionHandler(db *gorm.DB) *SubmissionHandler {
	return &SubmissionHandler{Store: store.NewSubmissionStore(db)}
}

// Create handles POST /api/submissions.
func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in store.SubmissionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	sub, err := h.Store.Create(r.Context(), in)
	if errors.Is(err, store.ErrNameRequired) {
		httpx.Error(w, http.StatusBadRequest, "Name is required")
		return
	}
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error creating submission")
		return
	}
	httpx.Message(w, http.StatusCreated, "Submission received", sub)
}

// List handles GET /api/submissions (admin).
func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid page parameter")
		return
	}
	limit, err := queryInt(r, "limit", store.DefaultPageSize)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid limit parameter")
		return
	}
	status := r.URL.Query().Get("status")
	if status != "" {
		v := validation.Violations{}
		validation.OneOf("status", status, []string{models.SubmissionPending, models.SubmissionApproved, models.SubmissionRejected}, v)
		if !v.Empty() {
			httpx.Error(w, http.StatusBadRequest, "Invalid status parameter")
			return
		}
	}
	submissions, err := h.Store.GetAll(r.Context(), status, page, limit)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching submissions")
		return
	}
	httpx.Data(w, http.StatusOK, submissions)
}

// Get handles GET /api/submissions/{id} (admin).
func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid submission ID")
		return
	}
	sub, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching submission")
		return
	}
	if sub == nil {
		httpx.Error(w, http.StatusNotFound, "Submission not found")
		return
	}
	httpx.Data(w, http.StatusOK, sub)
}

// UpdateStatus handles PUT /api/submissions/{id}/status (admin).
func (h *SubmissionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid submission ID")
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	v := validation.Violations{}
	validation.OneOf("status", body.Status, []string{models.SubmissionPending, models.SubmissionApproved, models.SubmissionRejected}, v)
	if !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, "Invalid status")
		return
	}
	sub, err := h.Store.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error updating submission")
		return
	}
	if sub == nil {
		httpx.Error(w, http.StatusNotFound, "Submission not found")
		return
	}
	httpx.Message(w, http.StatusOK, "Submission updated", sub)
}
