package orchestrators

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	lessonstore "lessondesk/internal/adapters/storage/lesson"
)

// LessonStoreForExport defines the lesson store interface needed by ExportLessons.
type LessonStoreForExport interface {
	ListByUserID(ctx context.Context, userID string, filter lessonstore.ListFilter) ([]lessonstore.WithClient, error)
}

// ExportLessonsInput carries input for the export orchestrator.
type ExportLessonsInput struct {
	UserID string
	Filter lessonstore.ListFilter
}

// ExportLessonsDeps holds dependencies for ExportLessons.
type ExportLessonsDeps struct {
	LessonStore LessonStoreForExport
}

// ExecuteExportLessons streams the user's lessons as CSV to w.
// Rows follow the list ordering (newest first). The client column is empty
// for lessons with no client attached.
// PRE: UserID is non-empty; w is writable
// POST: A header row plus one row per lesson has been written to w
func ExecuteExportLessons(ctx context.Context, input ExportLessonsInput, w io.Writer, deps ExportLessonsDeps) error {
	if input.UserID == "" {
		return fmt.Errorf("user id cannot be empty")
	}

	lessons, err := deps.LessonStore.ListByUserID(ctx, input.UserID, input.Filter)
	if err != nil {
		return fmt.Errorf("export lessons: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "subject", "client", "duration_minutes", "notes"}); err != nil {
		return err
	}

	for _, l := range lessons {
		clientName := ""
		if l.Client != nil {
			clientName = l.Client.Name
		}
		row := []string{
			l.CreatedAt.Format("2006-01-02"),
			l.Subject,
			clientName,
			strconv.Itoa(l.DurationMinutes),
			l.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	slog.Info("export_event", "event", "lessons_exported", "user_id", input.UserID, "rows", len(lessons))
	return nil
}
