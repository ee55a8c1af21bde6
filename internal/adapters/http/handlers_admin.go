package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/csrf"

	accountStore "lessondesk/internal/adapters/storage/account"
	accountDomain "lessondesk/internal/domain/account"
)

// handleAdminAccounts handles GET (list) and POST (status change) for /admin/accounts
func handleAdminAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		page := 1
		if v := r.URL.Query().Get("page"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				page = n
			}
		}
		const perPage = 50

		filter := accountStore.ListFilter{
			Role:   r.URL.Query().Get("role"),
			Limit:  perPage,
			Offset: (page - 1) * perPage,
		}
		accounts, err := stores.AccountStore.List(r.Context(), filter)
		if err != nil {
			internalError(w, err)
			return
		}
		total, err := stores.AccountStore.Count(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}

		renderTemplate(w, r, "admin_accounts.html", map[string]any{
			"CSRFToken":  csrf.Token(r),
			"Accounts":   accounts,
			"Total":      total,
			"Page":       page,
			"HasNext":    page*perPage < total,
			"RoleFilter": filter.Role,
			"Roles":      accountDomain.ValidRoles,
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		acct, err := stores.AccountStore.GetByID(r.Context(), r.FormValue("AccountID"))
		if err != nil {
			http.Error(w, "Account not found", http.StatusNotFound)
			return
		}

		switch r.FormValue("Action") {
		case "disable":
			acct.Status = accountDomain.StatusDisabled
		case "enable":
			acct.Status = accountDomain.StatusActive
		default:
			http.Error(w, "Unknown action", http.StatusBadRequest)
			return
		}

		if err := stores.AccountStore.Save(r.Context(), acct); err != nil {
			internalError(w, err)
			return
		}

		http.Redirect(w, r, "/admin/accounts", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleAdminFeatures handles GET (list) and POST (update) for /admin/features
func handleAdminFeatures(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		flags, err := stores.FeatureFlagStore.List(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		renderTemplate(w, r, "admin_features.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Flags":     flags,
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		key := r.FormValue("Key")
		flag, err := stores.FeatureFlagStore.GetByKey(r.Context(), key)
		if err != nil {
			http.Error(w, "Unknown feature flag", http.StatusNotFound)
			return
		}

		// Checkboxes submit "on" when ticked, nothing when not
		flag.EnabledAdmin = r.FormValue("EnabledAdmin") != ""
		flag.EnabledPower = r.FormValue("EnabledPower") != ""
		flag.EnabledBasic = r.FormValue("EnabledBasic") != ""

		if err := stores.FeatureFlagStore.Save(r.Context(), flag); err != nil {
			internalError(w, err)
			return
		}

		http.Redirect(w, r, "/admin/features", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handlePerfStats handles GET /api/perf returning aggregated timings as JSON.
func handlePerfStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if perfCollector == nil {
		http.Error(w, "perf collection disabled", http.StatusServiceUnavailable)
		return
	}

	sinceMinutes := 15
	if v := r.URL.Query().Get("since_minutes"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			sinceMinutes = n
		}
	}

	snap := perfCollector.Snapshot(timeNow().Add(-time.Duration(sinceMinutes)*time.Minute), 10)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}
