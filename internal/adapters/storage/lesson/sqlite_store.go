package lesson

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"lessondesk/internal/adapters/storage"
	clientDomain "lessondesk/internal/domain/client"
	domain "lessondesk/internal/domain/lesson"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new LessonStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Lesson by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Lesson, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, client_id, subject, notes, duration_minutes, created_at
		FROM lesson
		WHERE id = ?
	`, id)

	entity, err := scanLesson(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Lesson{}, fmt.Errorf("lesson not found: %w", err)
	}
	return entity, err
}

// Save persists a Lesson to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Lesson) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var clientID any
	if entity.ClientID != "" {
		clientID = entity.ClientID
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO lesson (id, user_id, client_id, subject, notes, duration_minutes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			client_id=excluded.client_id,
			subject=excluded.subject,
			notes=excluded.notes,
			duration_minutes=excluded.duration_minutes
	`,
		entity.ID,
		entity.UserID,
		clientID,
		entity.Subject,
		entity.Notes,
		entity.DurationMinutes,
		entity.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save lesson: %w", err)
	}

	return tx.Commit()
}

// Delete removes a Lesson from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM lesson WHERE id = ?", id)
	return err
}

// ListByUserID returns the user's lessons newest-first with the client joined.
// PRE: userID is non-empty
// POST: Returns matching lessons ordered by created_at descending
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) ListByUserID(ctx context.Context, userID string, filter ListFilter) ([]WithClient, error) {
	var queryBuilder strings.Builder
	args := []any{userID}

	queryBuilder.WriteString(`
		SELECT l.id, l.user_id, l.client_id, l.subject, l.notes, l.duration_minutes, l.created_at,
		       c.id, c.user_id, c.name, c.email, c.created_at
		FROM lesson l
		LEFT JOIN client c ON c.id = l.client_id
		WHERE l.user_id = ?
	`)

	if filter.ClientID != "" {
		queryBuilder.WriteString(" AND l.client_id = ?")
		args = append(args, filter.ClientID)
	}
	if filter.Search != "" {
		queryBuilder.WriteString(" AND l.subject LIKE ? COLLATE NOCASE")
		args = append(args, "%"+filter.Search+"%")
	}

	queryBuilder.WriteString(" ORDER BY l.created_at DESC")

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []WithClient{}
	for rows.Next() {
		var entity domain.Lesson
		var clientID sql.NullString
		var createdAt string
		var cID, cUserID, cName, cEmail, cCreatedAt sql.NullString

		err := rows.Scan(
			&entity.ID,
			&entity.UserID,
			&clientID,
			&entity.Subject,
			&entity.Notes,
			&entity.DurationMinutes,
			&createdAt,
			&cID, &cUserID, &cName, &cEmail, &cCreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entity.ClientID = clientID.String
		entity.CreatedAt, _ = parseTime(createdAt)

		wc := WithClient{Lesson: entity}
		if cID.Valid {
			c := clientDomain.Client{
				ID:     cID.String,
				UserID: cUserID.String,
				Name:   cName.String,
				Email:  cEmail.String,
			}
			if cCreatedAt.Valid {
				c.CreatedAt, _ = parseTime(cCreatedAt.String)
			}
			wc.Client = &c
		}
		out = append(out, wc)
	}
	return out, rows.Err()
}

// CountByUserID returns the number of lessons belonging to a user.
// PRE: userID is non-empty
// POST: Returns the count
func (s *SQLiteStore) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lesson WHERE user_id = ?", userID).Scan(&count)
	return count, err
}

// scanLesson extracts a Lesson from a row scanner function.
func scanLesson(scan func(dest ...any) error) (domain.Lesson, error) {
	var entity domain.Lesson
	var clientID sql.NullString
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.UserID,
		&clientID,
		&entity.Subject,
		&entity.Notes,
		&entity.DurationMinutes,
		&createdAt,
	)
	if err != nil {
		return domain.Lesson{}, err
	}
	entity.ClientID = clientID.String
	entity.CreatedAt, _ = parseTime(createdAt)
	return entity, nil
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
