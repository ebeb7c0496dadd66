package main

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/curata-dev/curata/internal/auth"
	"github.com/curata-dev/curata/internal/handlers"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux *http.ServeMux
	db  *gorm.DB
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB) *App {
	app := &App{
		mux: http.NewServeMux(),
		db:  db,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler. Auth claims are attached globally;
// individual routes decide whether they require them.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	auth.Middleware(a.mux).ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	ph := handlers.NewProfileHandler(a.db)
	ch := handlers.NewCategoryHandler(a.db)
	th := handlers.NewTagHandler(a.db)
	fh := handlers.NewFavoriteHandler(a.db)
	sh := handlers.NewSubmissionHandler(a.db)
	ah := handlers.NewAuthHandler(a.db)

	// Profiles (public reads)
	a.mux.HandleFunc("GET /api/profiles", ph.List)
	a.mux.HandleFunc("GET /api/profiles/filters", ph.FilterOptions)
	a.mux.HandleFunc("GET /api/profiles/recent", ph.Recent)
	a.mux.HandleFunc("GET /api/profiles/{id}", ph.Get)
	a.mux.HandleFunc("GET /api/profiles/{id}/related", ph.Related)

	// Profiles (admin writes)
	a.mux.Handle("POST /api/profiles", a.requireAdmin(http.HandlerFunc(ph.Create)))
	a.mux.Handle("PUT /api/profiles/{id}", a.requireAdmin(http.HandlerFunc(ph.Update)))
	a.mux.Handle("DELETE /api/profiles/{id}", a.requireAdmin(http.HandlerFunc(ph.Delete)))
	a.mux.Handle("PUT /api/profiles/{id}/subcategories", a.requireAdmin(http.HandlerFunc(ph.SetSubcategories)))
	a.mux.Handle("POST /api/profiles/{id}/tags", a.requireAdmin(http.HandlerFunc(ph.AssignTag)))
	a.mux.Handle("DELETE /api/profiles/{id}/tags/{tagId}", a.requireAdmin(http.HandlerFunc(ph.RemoveTag)))

	// Categories
	a.mux.HandleFunc("GET /api/categories", ch.List)
	a.mux.HandleFunc("GET /api/categories/{id}", ch.Get)
	a.mux.HandleFunc("GET /api/categories/{id}/subcategories", ch.Subcategories)
	a.mux.Handle("POST /api/categories", a.requireAdmin(http.HandlerFunc(ch.Create)))
	a.mux.Handle("POST /api/categories/{id}/subcategories", a.requireAdmin(http.HandlerFunc(ch.CreateSubcategory)))

	// Tags
	a.mux.HandleFunc("GET /api/tags", th.List)
	a.mux.HandleFunc("GET /api/tags/universal", th.Universal)
	a.mux.HandleFunc("GET /api/tags/contextual/{categoryId}", th.Contextual)
	a.mux.HandleFunc("GET /api/tags/subcategory/{subcategoryId}", th.BySubcategory)
	a.mux.HandleFunc("GET /api/tags/profile/{profileId}", th.ByProfile)
	a.mux.Handle("POST /api/tags", a.requireAdmin(http.HandlerFunc(th.Create)))
	a.mux.Handle("GET /api/tags/classification/analyze", a.requireAdmin(http.HandlerFunc(th.Analyze)))
	a.mux.Handle("PUT /api/tags/{id}/approve", a.requireAdmin(http.HandlerFunc(th.Approve)))

	// Favorites (user token or anonymous session header)
	a.mux.HandleFunc("GET /api/favorites", fh.List)
	a.mux.HandleFunc("GET /api/favorites/grouped", fh.Grouped)
	a.mux.HandleFunc("GET /api/favorites/count", fh.Count)
	a.mux.HandleFunc("GET /api/favorites/{profileId}/check", fh.Check)
	a.mux.HandleFunc("POST /api/favorites/{profileId}", fh.Add)
	a.mux.HandleFunc("DELETE /api/favorites/{profileId}", fh.Remove)
	a.mux.Handle("POST /api/favorites/transfer", auth.RequireAuth(http.HandlerFunc(fh.Transfer)))

	// Submissions
	a.mux.HandleFunc("POST /api/submissions", sh.Create)
	a.mux.Handle("GET /api/submissions", a.requireAdmin(http.HandlerFunc(sh.List)))
	a.mux.Handle("GET /api/submissions/{id}", a.requireAdmin(http.HandlerFunc(sh.Get)))
	a.mux.Handle("PUT /api/submissions/{id}/status", a.requireAdmin(http.HandlerFunc(sh.UpdateStatus)))

	// Auth
	a.mux.HandleFunc("POST /api/auth/signup", ah.Signup)
	a.mux.HandleFunc("POST /api/auth/login", ah.Login)
	a.mux.Handle("GET /api/auth/me", auth.RequireAuth(http.HandlerFunc(ah.Me)))
	a.mux.HandleFunc("POST /api/admin/login", ah.AdminLogin)
	a.mux.HandleFunc("GET /api/admin/verify", ah.AdminVerify)

	// Health
	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
}

// requireAdmin wraps a handler to require a valid admin token.
func (a *App) requireAdmin(next http.Handler) http.Handler {
	return auth.RequireAdmin(next)
}
