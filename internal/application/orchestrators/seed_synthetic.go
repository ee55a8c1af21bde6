package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lessondesk/internal/domain/account"
	"lessondesk/internal/domain/client"
	"lessondesk/internal/domain/lesson"

	"github.com/google/uuid"
)

// SyntheticSeedDeps holds all stores needed for synthetic data seeding.
type SyntheticSeedDeps struct {
	AccountStore synAccountStore
	ClientStore  synClientStore
	LessonStore  synLessonStore
}

type synAccountStore interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
}
type synClientStore interface {
	Save(ctx context.Context, c client.Client) error
	ListByUserID(ctx context.Context, userID string) ([]client.Client, error)
}
type synLessonStore interface {
	Save(ctx context.Context, l lesson.Lesson) error
	CountByUserID(ctx context.Context, userID string) (int, error)
}

// syntheticClients returns the demo clients attached to the basic test account.
func syntheticClients() []client.Client {
	return []client.Client{
		{Name: "Ana Ferreira", Email: "ana@example.com"},
		{Name: "Ben Okafor", Email: "ben@example.com"},
		{Name: "Carla Mendes", Email: ""},
	}
}

// syntheticLessons returns demo lessons spread over recent weeks.
// clientIdx of -1 means no client attached.
func syntheticLessons() []struct {
	Subject   string
	Notes     string
	Duration  int
	DaysAgo   int
	ClientIdx int
} {
	return []struct {
		Subject   string
		Notes     string
		Duration  int
		DaysAgo   int
		ClientIdx int
	}{
		{"Intro session", "Covered goals and current level.\n\n**Homework**: reading list.", 60, 21, 0},
		{"Grammar deep dive", "Past tense drills went well.", 45, 14, 0},
		{"Conversation practice", "- Ordering food\n- Directions", 30, 10, 1},
		{"Exam preparation", "Mock exam, scored 72%.", 90, 7, 1},
		{"Pronunciation workshop", "", 45, 3, 2},
		{"Self-study review", "Untracked drop-in session.", 30, 1, -1},
	}
}

// ExecuteSeedSynthetic fills the basic test account with demo clients and
// lessons so the dashboard has something to show in development.
// It is idempotent, it skips seeding when the account already has lessons.
// PRE: Test accounts have been seeded.
// POST: The basic test account has 3 clients and 6 lessons.
func ExecuteSeedSynthetic(ctx context.Context, deps SyntheticSeedDeps) error {
	acct, err := deps.AccountStore.GetByEmail(ctx, "dev+basic@lessondesk.app")
	if err != nil {
		return nil // test accounts not seeded, nothing to do
	}

	count, err := deps.LessonStore.CountByUserID(ctx, acct.ID)
	if err != nil {
		return fmt.Errorf("seed synthetic: count lessons: %w", err)
	}
	if count > 0 {
		return nil // already seeded
	}

	now := time.Now()

	clientIDs := make([]string, 0, 3)
	for _, c := range syntheticClients() {
		c.ID = uuid.New().String()
		c.UserID = acct.ID
		c.CreatedAt = now.AddDate(0, 0, -30)
		if err := deps.ClientStore.Save(ctx, c); err != nil {
			return fmt.Errorf("seed synthetic: save client %s: %w", c.Name, err)
		}
		clientIDs = append(clientIDs, c.ID)
	}

	for _, def := range syntheticLessons() {
		l := lesson.Lesson{
			ID:              uuid.New().String(),
			UserID:          acct.ID,
			Subject:         def.Subject,
			Notes:           def.Notes,
			DurationMinutes: def.Duration,
			CreatedAt:       now.AddDate(0, 0, -def.DaysAgo),
		}
		if def.ClientIdx >= 0 {
			l.ClientID = clientIDs[def.ClientIdx]
		}
		if err := deps.LessonStore.Save(ctx, l); err != nil {
			return fmt.Errorf("seed synthetic: save lesson %s: %w", def.Subject, err)
		}
	}

	slog.Info("seed_event", "event", "synthetic_seeded", "user_id", acct.ID, "clients", len(clientIDs), "lessons", len(syntheticLessons()))
	return nil
}
