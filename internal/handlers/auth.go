package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/curata-dev/curata/internal/auth"
	"github.com/curata-dev/curata/internal/httpx"
	"github.com/curata-dev/curata/internal/store"
	"github.com/curata-dev/curata/internal/validation"
)

// AuthHandler serves user signup/login and the env-credentialed admin login.
type AuthHandler struct {
	Users *store.UserStore
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{Users: store.NewUserStore(db)}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	v := validation.Violations{}
	validation.Required("email", body.Email, v)
	validation.Required("password", body.Password, v)
	if !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	user, err := h.Users.Create(r.Context(), body.Email, body.Password)
	if errors.Is(err, store.ErrEmailTaken) {
		httpx.Error(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error creating account")
		return
	}
	token, err := auth.IssueUserToken(user.ID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error issuing token")
		return
	}
	httpx.Data(w, http.StatusCreated, map[string]any{"token": token, "user": user})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	user, err := h.Users.FindByEmail(r.Context(), body.Email)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error logging in")
		return
	}
	if user == nil || !h.Users.VerifyPassword(user, body.Password) {
		httpx.Error(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	token, err := auth.IssueUserToken(user.ID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error issuing token")
		return
	}
	httpx.Data(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

// Me handles GET /api/auth/me (requires a user token).
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	user, err := h.Users.FindByID(r.Context(), userID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error fetching account")
		return
	}
	if user == nil {
		httpx.Error(w, http.StatusUnauthorized, "Account no longer exists")
		return
	}
	httpx.Data(w, http.StatusOK, user)
}

// AdminLogin handles POST /api/admin/login. Admin credentials live in the
// environment (ADMIN_USERNAME, ADMIN_PASSWORD_HASH), not in the database.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	username := os.Getenv("ADMIN_USERNAME")
	passwordHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if username == "" || passwordHash == "" {
		httpx.Error(w, http.StatusServiceUnavailable, "Admin login is not configured")
		return
	}
	if body.Username != username ||
		bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(body.Password)) != nil {
		httpx.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.IssueAdminToken(username)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Error issuing token")
		return
	}
	httpx.Data(w, http.StatusOK, map[string]string{"token": token})
}

// AdminVerify handles GET /api/admin/verify: confirms the bearer token
// still grants admin access.
func (h *AuthHandler) AdminVerify(w http.ResponseWriter, r *http.Request) {
	if !auth.IsAdmin(r.Context()) {
		httpx.Error(w, http.StatusUnauthorized, "Admin access required")
		return
	}
	httpx.Message(w, http.StatusOK, "Token valid", nil)
}
