package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curata-dev/curata/internal/auth"
	"github.com/curata-dev/curata/internal/httpx"
	"github.com/curata-dev/curata/internal/store"
)

// sessionHeader carries the anonymous favorites session between requests.
const sessionHeader = "X-Session-ID"

// FavoriteHandler serves bookmarks for both logged-in users and anonymous
// sessions. Identity comes from the bearer token when present, otherwise
// from the X-Session-ID header.
type FavoriteHandler struct {
	Store *store.FavoriteStore
}

func NewFavoriteHandler(db *gorm.DB) *FavoriteHandler {
	return &FavoriteHandler{Store: store.NewFavoriteStore(db)}
}

// owner resolves the request's favorite owner. For anonymous requests with
// no session header yet, issueSession controls whether a fresh session ID
// is minted (Add does; reads do not, an unknown visitor has no favorites).
func (h *FavoriteHandler) owner(r *http.Request, issueSession bool) (store.Owner, string) {
	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		return store.Owner{UserID: &userID}, ""
	}
	if sessionID := r.Header.Get(sessionHeader); sessionID != "" {
		return store.Owner{SessionID: &sessionID}, ""
	}
	if !issueSession {
		return store.Owner{}, ""
	}
	sessionID := uuid.NewString()
	return store.Owner{SessionID: &sessionID}, sessionID
}

// List handles GET /api/favorites.
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, _ := h.owner(r, false)
	if owner.UserID == nil && owner.SessionID == nil {
		httpx.Data(w, http.StatusOK, []struct{}{})
		return
	}
	favorites, err := h.Store.GetAll(r.Context(), owner)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching favorites")
		return
	}
	httpx.Data(w, http.StatusOK, favorites)
}

// Grouped handles GET /api/favorites/grouped.
func (h *FavoriteHandler) Grouped(w http.ResponseWriter, r *http.Request) {
	owner, _ := h.owner(r, false)
	if owner.UserID == nil && owner.SessionID == nil {
		httpx.Data(w, http.StatusOK, map[string]struct{}{})
		return
	}
	grouped, err := h.Store.GetGroupedByCategory(r.Context(), owner)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching favorites")
		return
	}
	httpx.Data(w, http.StatusOK, grouped)
}

// Count handles GET /api/favorites/count.
func (h *FavoriteHandler) Count(w http.ResponseWriter, r *http.Request) {
	owner, _ := h.owner(r, false)
	if owner.UserID == nil && owner.SessionID == nil {
		httpx.Data(w, http.StatusOK, map[string]int64{"count": 0})
		return
	}
	count, err := h.Store.Count(r.Context(), owner)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error counting favorites")
		return
	}
	httpx.Data(w, http.StatusOK, map[string]int64{"count": count})
}

// Check handles GET /api/favorites/{profileId}/check.
func (h *FavoriteHandler) Check(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "profileId")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}
	owner, _ := h.owner(r, false)
	if owner.UserID == nil && owner.SessionID == nil {
		httpx.Data(w, http.StatusOK, map[string]bool{"favorited": false})
		return
	}
	favorited, err := h.Store.IsFavorited(r.Context(), owner, profileID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error checking favorite")
		return
	}
	httpx.Data(w, http.StatusOK, map[string]bool{"favorited": favorited})
}

// Add handles POST /api/favorites/{profileId}. Anonymous first-time callers
// get a session ID back in both the header and the payload.
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "profileId")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}
	owner, newSession := h.owner(r, true)
	err = h.Store.Add(r.Context(), owner, profileID)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error adding favorite")
		return
	}
	if newSession != "" {
		w.Header().Set(sessionHeader, newSession)
		httpx.Message(w, http.StatusCreated, "Favorite added", map[string]string{"session_id": newSession})
		return
	}
	httpx.Message(w, http.StatusCreated, "Favorite added", nil)
}

// Remove handles DELETE /api/favorites/{profileId}.
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "profileId")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}
	owner, _ := h.owner(r, false)
	if owner.UserID == nil && owner.SessionID == nil {
		httpx.Error(w, http.StatusBadRequest, "No favorites session")
		return
	}
	if err := h.Store.Remove(r.Context(), owner, profileID); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error removing favorite")
		return
	}
	httpx.Message(w, http.StatusOK, "Favorite removed", nil)
}

// Transfer handles POST /api/favorites/transfer: moves the session's
// bookmarks onto the authenticated user after login.
func (h *FavoriteHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	var body struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.SessionID == "" {
		httpx.Error(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if err := h.Store.TransferToUser(r.Context(), userID, body.SessionID); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error transferring favorites")
		return
	}
	httpx.Message(w, http.StatusOK, "Favorites transferred", nil)
}
