package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"

	lessonStore "lessondesk/internal/adapters/storage/lesson"
	"lessondesk/internal/application/orchestrators"
	"lessondesk/internal/application/projections"
	clientDomain "lessondesk/internal/domain/client"
	"lessondesk/internal/domain/featureflag"
	lessonDomain "lessondesk/internal/domain/lesson"
)

// handleDashboard handles GET /dashboard
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// ?loading=1 renders the skeleton state, useful when styling it
	loading := r.URL.Query().Get("loading") == "1"
	va := currentViewAccess(r, loading)

	query := projections.GetDashboardQuery{
		UserID:   va.Session.AccountID,
		ClientID: r.URL.Query().Get("client"),
		Search:   r.URL.Query().Get("q"),
	}
	result := projections.QueryGetDashboard(r.Context(), query, projections.GetDashboardDeps{
		LessonStore: stores.LessonStore,
		ClientStore: stores.ClientStore,
	})

	lessonsError := ""
	if result.LessonsError != nil {
		lessonsError = "Could not load your lessons. Please try again."
	}

	renderTemplateWithAccess(w, r, "dashboard.html", map[string]any{
		"CSRFToken":    csrf.Token(r),
		"Lessons":      result.Lessons,
		"LessonsError": lessonsError,
		"Clients":      result.Clients,
		"TotalLessons": result.TotalLessons,
		"TotalMinutes": result.TotalMinutes,
		"ClientFilter": query.ClientID,
		"Search":       query.Search,
		"HasFilters":   query.ClientID != "" || query.Search != "",
	}, va)
}

// handleLessons handles GET (list) and POST (create) for /lessons
func handleLessons(w http.ResponseWriter, r *http.Request) {
	va, ok := requireFeature(w, r, featureflag.KeyLessons)
	if !ok {
		return
	}

	if r.Method == "GET" {
		filter := lessonStore.ListFilter{
			ClientID: r.URL.Query().Get("client"),
			Search:   r.URL.Query().Get("q"),
		}
		lessons, err := stores.LessonStore.ListByUserID(r.Context(), va.Session.AccountID, filter)
		if err != nil {
			internalError(w, err)
			return
		}
		clients, err := stores.ClientStore.ListByUserID(r.Context(), va.Session.AccountID)
		if err != nil {
			internalError(w, err)
			return
		}

		renderTemplateWithAccess(w, r, "lessons.html", map[string]any{
			"CSRFToken":    csrf.Token(r),
			"Lessons":      lessons,
			"Clients":      clients,
			"ClientFilter": filter.ClientID,
			"Search":       filter.Search,
			"HasFilters":   filter.ClientID != "" || filter.Search != "",
		}, va)
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		duration := 0
		if v := r.FormValue("DurationMinutes"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "Duration must be a number", http.StatusBadRequest)
				return
			}
			duration = n
		}

		entity := lessonDomain.Lesson{
			ID:              generateID(),
			UserID:          va.Session.AccountID,
			ClientID:        r.FormValue("ClientID"),
			Subject:         r.FormValue("Subject"),
			Notes:           r.FormValue("Notes"),
			DurationMinutes: duration,
			CreatedAt:       timeNow(),
		}
		if err := entity.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.LessonStore.Save(r.Context(), entity); err != nil {
			internalError(w, err)
			return
		}

		http.Redirect(w, r, "/lessons", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleClients handles GET (list) and POST (create) for /clients
func handleClients(w http.ResponseWriter, r *http.Request) {
	va, ok := requireFeature(w, r, featureflag.KeyClients)
	if !ok {
		return
	}

	if r.Method == "GET" {
		clients, err := stores.ClientStore.ListByUserID(r.Context(), va.Session.AccountID)
		if err != nil {
			internalError(w, err)
			return
		}
		renderTemplateWithAccess(w, r, "clients.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Clients":   clients,
		}, va)
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		entity := clientDomain.Client{
			ID:        generateID(),
			UserID:    va.Session.AccountID,
			Name:      r.FormValue("Name"),
			Email:     r.FormValue("Email"),
			CreatedAt: timeNow(),
		}
		if err := entity.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.ClientStore.Save(r.Context(), entity); err != nil {
			internalError(w, err)
			return
		}

		http.Redirect(w, r, "/clients", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleCustomDashboards handles GET /dashboards (business tier and up)
func handleCustomDashboards(w http.ResponseWriter, r *http.Request) {
	va, ok := requireFeature(w, r, featureflag.KeyDashboards)
	if !ok {
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	result, err := projections.QueryGetAnalytics(r.Context(), projections.GetAnalyticsQuery{
		UserID: va.Session.AccountID,
	}, projections.GetAnalyticsDeps{LessonStore: stores.LessonStore})
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplateWithAccess(w, r, "dashboards.html", map[string]any{
		"ClientTotals": result.ClientTotals,
		"TotalLessons": result.TotalLessons,
		"TotalMinutes": result.TotalMinutes,
	}, va)
}

// handleAnalytics handles GET /analytics (business tier and up)
func handleAnalytics(w http.ResponseWriter, r *http.Request) {
	va, ok := requireFeature(w, r, featureflag.KeyAnalytics)
	if !ok {
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	result, err := projections.QueryGetAnalytics(r.Context(), projections.GetAnalyticsQuery{
		UserID: va.Session.AccountID,
	}, projections.GetAnalyticsDeps{LessonStore: stores.LessonStore})
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplateWithAccess(w, r, "analytics.html", map[string]any{
		"TotalLessons": result.TotalLessons,
		"TotalMinutes": result.TotalMinutes,
		"ClientTotals": result.ClientTotals,
		"WeekTotals":   result.WeekTotals,
	}, va)
}

// handleExportLessons handles GET /exports/lessons.csv (team tier and up)
func handleExportLessons(w http.ResponseWriter, r *http.Request) {
	va, ok := requireFeature(w, r, featureflag.KeyExports)
	if !ok {
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	filename := fmt.Sprintf("lessons-%s.csv", timeNow().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	err := orchestrators.ExecuteExportLessons(r.Context(), orchestrators.ExportLessonsInput{
		UserID: va.Session.AccountID,
		Filter: lessonStore.ListFilter{
			ClientID: r.URL.Query().Get("client"),
			Search:   r.URL.Query().Get("q"),
		},
	}, w, orchestrators.ExportLessonsDeps{LessonStore: stores.LessonStore})
	if err != nil {
		// Headers may already be written; log and stop
		internalError(w, err)
	}
}
