package projections

import (
	"context"
	"log/slog"

	lessonstore "lessondesk/internal/adapters/storage/lesson"
	domainClient "lessondesk/internal/domain/client"
)

// DashboardLessonStore defines the lesson store interface needed by the dashboard projection.
type DashboardLessonStore interface {
	ListByUserID(ctx context.Context, userID string, filter lessonstore.ListFilter) ([]lessonstore.WithClient, error)
}

// DashboardClientStore defines the client store interface needed by the dashboard projection.
type DashboardClientStore interface {
	ListByUserID(ctx context.Context, userID string) ([]domainClient.Client, error)
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	UserID   string
	ClientID string // optional filter
	Search   string // optional subject filter
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	LessonStore DashboardLessonStore
	ClientStore DashboardClientStore
}

// DashboardResult carries the output of the dashboard projection.
// LessonsError is non-nil when the lesson read failed; the page shows the
// error instead of the list. A failed client read only degrades filtering,
// so it is logged and Clients stays empty.
type DashboardResult struct {
	Lessons      []lessonstore.WithClient
	LessonsError error
	Clients      []domainClient.Client

	TotalLessons int
	TotalMinutes int
}

// QueryGetDashboard aggregates lessons and clients for the dashboard page.
// The two reads are independent: a client-list failure never hides lessons.
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) DashboardResult {
	result := DashboardResult{
		Lessons: []lessonstore.WithClient{},
		Clients: []domainClient.Client{},
	}

	lessons, err := deps.LessonStore.ListByUserID(ctx, query.UserID, lessonstore.ListFilter{
		ClientID: query.ClientID,
		Search:   query.Search,
	})
	if err != nil {
		slog.Error("dashboard_lessons_failed", "user_id", query.UserID, "error", err)
		result.LessonsError = err
	} else {
		result.Lessons = lessons
		result.TotalLessons = len(lessons)
		for _, l := range lessons {
			result.TotalMinutes += l.DurationMinutes
		}
	}

	clients, err := deps.ClientStore.ListByUserID(ctx, query.UserID)
	if err != nil {
		slog.Warn("dashboard_clients_failed", "user_id", query.UserID, "error", err)
	} else {
		result.Clients = clients
	}

	return result
}
