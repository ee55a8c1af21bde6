package web

import (
	"net/http"

	"lessondesk/internal/adapters/http/middleware"
	"lessondesk/internal/domain/account"
)

// registerRoutes wires every page and API handler onto the mux.
// The Auth middleware runs for all routes; RequireAuth/RequireRole
// wrap the ones that need a session.
func registerRoutes(mux *http.ServeMux) {
	requireAdmin := middleware.RequireRole(account.RoleAdmin)

	// Public pages
	mux.HandleFunc("/", handleHome)
	mux.HandleFunc("/auth", handleAuth)
	mux.HandleFunc("/auth/signup", handleSignup)
	mux.HandleFunc("/auth/forgot", handleForgot)
	mux.HandleFunc("/auth/reset", handleReset)
	mux.HandleFunc("/logout", handleLogout)

	// Signed-in pages
	mux.Handle("/dashboard", middleware.RequireAuth(http.HandlerFunc(handleDashboard)))
	mux.Handle("/lessons", middleware.RequireAuth(http.HandlerFunc(handleLessons)))
	mux.Handle("/clients", middleware.RequireAuth(http.HandlerFunc(handleClients)))
	mux.Handle("/dashboards", middleware.RequireAuth(http.HandlerFunc(handleCustomDashboards)))
	mux.Handle("/analytics", middleware.RequireAuth(http.HandlerFunc(handleAnalytics)))
	mux.Handle("/exports/lessons.csv", middleware.RequireAuth(http.HandlerFunc(handleExportLessons)))
	mux.Handle("/account/password", middleware.RequireAuth(http.HandlerFunc(handleChangePassword)))

	// Admin pages
	mux.Handle("/devmode/role", requireAdmin(http.HandlerFunc(handleSwitchRole)))
	mux.Handle("/admin/accounts", requireAdmin(http.HandlerFunc(handleAdminAccounts)))
	mux.Handle("/admin/features", requireAdmin(http.HandlerFunc(handleAdminFeatures)))
	mux.Handle("/api/perf", requireAdmin(http.HandlerFunc(handlePerfStats)))
}
