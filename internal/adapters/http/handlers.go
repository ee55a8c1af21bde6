package web

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"lessondesk/internal/adapters/http/middleware"
	"lessondesk/internal/application/orchestrators"
	"lessondesk/internal/domain/access"
	accountDomain "lessondesk/internal/domain/account"
	"lessondesk/internal/domain/featureflag"
	profileDomain "lessondesk/internal/domain/profile"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// errNoEmailSender is returned when the reset flow runs without a configured sender.
var errNoEmailSender = errors.New("email sender is not configured")

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

const templatesDir = "internal/adapters/http/templates"

// viewAccess bundles everything templates need to decide what to show.
type viewAccess struct {
	Session  middleware.Session
	LoggedIn bool
	Profile  *profileDomain.Profile
	Access   access.FeatureAccess
	Flags    map[string]featureflag.FeatureFlag
}

// currentViewAccess resolves the signed-in user's profile, evaluates
// capability access, and loads the feature flags. A missing or unreadable
// profile degrades to free-tier access rather than failing the page.
func currentViewAccess(r *http.Request, loading bool) viewAccess {
	va := viewAccess{Flags: map[string]featureflag.FeatureFlag{}}

	for _, f := range featureflag.DefaultFlags() {
		va.Flags[f.Key] = f
	}
	if stores != nil && stores.FeatureFlagStore != nil {
		if flags, err := stores.FeatureFlagStore.List(r.Context()); err == nil {
			for _, f := range flags {
				va.Flags[f.Key] = f
			}
		} else {
			slog.Warn("feature_flags_unavailable", "error", err)
		}
	}

	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		va.Access = access.Evaluate(nil, loading)
		return va
	}
	va.Session = sess
	va.LoggedIn = true

	if stores != nil && stores.ProfileStore != nil {
		if prof, err := stores.ProfileStore.GetByAccountID(r.Context(), sess.AccountID); err == nil {
			va.Profile = &prof
		} else {
			slog.Warn("profile_unavailable", "account_id", sess.AccountID, "error", err)
		}
	}
	va.Access = access.Evaluate(va.Profile, loading)
	return va
}

// FeatureVisible reports whether the area behind a flag is open to this user:
// the flag must be on for the role AND any required capability must be held.
func (va viewAccess) FeatureVisible(key string) bool {
	if !va.LoggedIn {
		return false
	}
	flag, ok := va.Flags[key]
	if !ok {
		return false
	}
	if !flag.EnabledForRole(va.Session.Role) {
		return false
	}
	if flag.RequiredCapability != "" && !va.Access.Can(flag.RequiredCapability) {
		return false
	}
	return true
}

// requireFeature blocks the request unless the flagged area is visible to
// the current user. Returns the resolved view access on success.
func requireFeature(w http.ResponseWriter, r *http.Request, key string) (viewAccess, bool) {
	va := currentViewAccess(r, false)
	if !va.LoggedIn {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return va, false
	}
	if !va.FeatureVisible(key) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return va, false
	}
	return va, true
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	renderTemplateWithAccess(w, r, templateName, data, currentViewAccess(r, false))
}

func renderTemplateWithAccess(w http.ResponseWriter, r *http.Request, templateName string, data any, va viewAccess) {
	displayName := ""
	initials := "?"
	tier := profileDomain.TierFree
	if va.Profile != nil {
		displayName = va.Profile.DisplayName
		initials = va.Profile.Initials()
		tier = va.Profile.Tier()
	} else if va.LoggedIn {
		displayName = va.Session.Email
	}

	funcMap := template.FuncMap{
		"currentRole":    func() string { return va.Session.Role },
		"currentEmail":   func() string { return va.Session.Email },
		"isLoggedIn":     func() bool { return va.LoggedIn },
		"isAdmin":        func() bool { return va.Session.Role == accountDomain.RoleAdmin },
		"displayName":    func() string { return displayName },
		"initials":       func() string { return initials },
		"tier":           func() string { return tier },
		"plan":           func() string { return access.PlanForRole(va.Session.Role) },
		"csrfToken":      func() string { return csrf.Token(r) },
		"can":            func(capability string) bool { return va.Access.Can(capability) },
		"featureVisible": func(key string) bool { return va.FeatureVisible(key) },
		"accessLoading":  func() bool { return va.Access.IsLoading },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// handleHome routes / to the dashboard or the sign-in screen.
func handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/auth", http.StatusSeeOther)
}

// handleAuth handles GET (form) and POST (authenticate) for /auth
func handleAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		// If already logged in, redirect to dashboard
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "auth.html", map[string]any{
			"CSRFToken":    csrf.Token(r),
			"ResetDone":    r.URL.Query().Get("reset") == "1",
			"SignedUpFrom": r.URL.Query().Get("from"),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.LoginInput{
			Email:    r.FormValue("Email"),
			Password: r.FormValue("Password"),
		}

		deps := orchestrators.LoginDeps{
			AccountStore: stores.AccountStore,
		}

		result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
		if err != nil {
			renderTemplate(w, r, "auth.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     err.Error(),
				"Email":     input.Email,
			})
			return
		}

		// Create session
		token, err := sessions.Create(result.AccountID, result.Email, result.Role)
		if err != nil {
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}

		middleware.SetSessionCookie(w, token)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleSignup handles GET (form) and POST (create account) for /auth/signup
func handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "signup.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		email := r.FormValue("Email")
		password := r.FormValue("Password")
		if password != r.FormValue("ConfirmPassword") {
			renderTemplate(w, r, "signup.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     "Passwords do not match",
				"Email":     email,
			})
			return
		}

		deps := orchestrators.CreateAccountDeps{
			AccountStore: stores.AccountStore,
			ProfileStore: stores.ProfileStore,
		}
		accountID, err := orchestrators.ExecuteCreateAccount(r.Context(), orchestrators.CreateAccountInput{
			Email:       email,
			Password:    password,
			Role:        accountDomain.RoleBasic,
			DisplayName: r.FormValue("DisplayName"),
		}, deps)
		if err != nil {
			renderTemplate(w, r, "signup.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     err.Error(),
				"Email":     email,
			})
			return
		}

		// New accounts go straight to the dashboard
		token, err := sessions.Create(accountID, email, accountDomain.RoleBasic)
		if err != nil {
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}
		middleware.SetSessionCookie(w, token)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleForgot handles GET (form) and POST (send reset link) for /auth/forgot
func handleForgot(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		renderTemplate(w, r, "forgot.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		sender := emailSender
		if sender == nil {
			internalError(w, errNoEmailSender)
			return
		}

		err := orchestrators.ExecuteRequestPasswordReset(r.Context(), orchestrators.RequestPasswordResetInput{
			Email:   r.FormValue("Email"),
			BaseURL: BaseURL,
		}, orchestrators.RequestPasswordResetDeps{
			AccountStore: stores.AccountStore,
			EmailSender:  sender,
		})
		if err != nil {
			internalError(w, err)
			return
		}

		// Same response whether or not the email exists
		renderTemplate(w, r, "forgot.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Sent":      true,
		})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleReset handles GET (landing from email link) and POST (set password) for /auth/reset
func handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		tokenValue := r.URL.Query().Get("token")
		if tokenValue == "" {
			renderTemplate(w, r, "reset.html", map[string]any{
				"TokenError": accountDomain.ErrTokenInvalid.Error(),
			})
			return
		}

		// Validate before showing the form so a dead link fails fast
		token, err := stores.AccountStore.GetRecoveryTokenByToken(r.Context(), tokenValue)
		tokenErr := ""
		switch {
		case err != nil:
			tokenErr = accountDomain.ErrTokenInvalid.Error()
		case token.Used:
			tokenErr = accountDomain.ErrTokenUsed.Error()
		case token.IsExpired(timeNow()):
			tokenErr = accountDomain.ErrTokenExpired.Error()
		}
		if tokenErr != "" {
			renderTemplate(w, r, "reset.html", map[string]any{
				"TokenError": tokenErr,
			})
			return
		}

		renderTemplate(w, r, "reset.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Token":     tokenValue,
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		tokenValue := r.FormValue("Token")
		password := r.FormValue("Password")
		if password != r.FormValue("ConfirmPassword") {
			renderTemplate(w, r, "reset.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Token":     tokenValue,
				"Error":     "Passwords do not match",
			})
			return
		}

		err := orchestrators.ExecuteResetPassword(r.Context(), orchestrators.ResetPasswordInput{
			Token:       tokenValue,
			NewPassword: password,
		}, orchestrators.ResetPasswordDeps{AccountStore: stores.AccountStore})
		if err != nil {
			renderTemplate(w, r, "reset.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Token":     tokenValue,
				"Error":     err.Error(),
			})
			return
		}

		// Success lands back on the sign-in screen
		http.Redirect(w, r, "/auth?reset=1", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Delete session
	cookie, err := r.Cookie("lessondesk_session")
	if err == nil {
		sessions.Delete(cookie.Value)
	}

	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/auth", http.StatusSeeOther)
}

// handleChangePassword handles GET (form) and POST (update) for /account/password
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}

	if r.Method == "GET" {
		renderTemplate(w, r, "change_password.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Form error", http.StatusBadRequest)
			return
		}

		input := orchestrators.ChangePasswordInput{
			AccountID:       session.AccountID,
			CurrentPassword: r.FormValue("CurrentPassword"),
			NewPassword:     r.FormValue("NewPassword"),
		}

		// Validate confirm matches
		if r.FormValue("NewPassword") != r.FormValue("ConfirmPassword") {
			renderTemplate(w, r, "change_password.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     "New passwords do not match",
			})
			return
		}

		deps := orchestrators.ChangePasswordDeps{
			AccountStore: stores.AccountStore,
		}

		if err := orchestrators.ExecuteChangePassword(r.Context(), input, deps); err != nil {
			renderTemplate(w, r, "change_password.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     err.Error(),
			})
			return
		}

		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleSwitchRole handles POST /devmode/role for trying the app as another role.
func handleSwitchRole(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteSwitchRole(r.Context(), orchestrators.SwitchRoleInput{
		AccountID:  session.AccountID,
		TargetRole: r.FormValue("Role"),
	}, orchestrators.SwitchRoleDeps{
		AccountStore: stores.AccountStore,
		ProfileStore: stores.ProfileStore,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Keep the session in step with the stored role
	if cookie, cerr := r.Cookie("lessondesk_session"); cerr == nil {
		session.Role = result.Role
		sessions.Update(cookie.Value, session)
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
