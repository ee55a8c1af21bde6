package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lessondesk/internal/adapters/storage"
	domain "lessondesk/internal/domain/client"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ClientStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Client by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Client, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, email, created_at
		FROM client
		WHERE id = ?
	`, id)

	entity, err := scanClient(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Client{}, fmt.Errorf("client not found: %w", err)
	}
	return entity, err
}

// Save persists a Client to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Client) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO client (id, user_id, name, email, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			email=excluded.email
	`,
		entity.ID,
		entity.UserID,
		entity.Name,
		entity.Email,
		entity.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save client: %w", err)
	}

	return tx.Commit()
}

// Delete removes a Client from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM client WHERE id = ?", id)
	return err
}

// ListByUserID returns the user's clients ordered by name.
// PRE: userID is non-empty
// POST: Returns matching clients sorted by name
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) ListByUserID(ctx context.Context, userID string) ([]domain.Client, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, email, created_at
		FROM client
		WHERE user_id = ?
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Client{}
	for rows.Next() {
		entity, err := scanClient(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

// scanClient extracts a Client from a row scanner function.
func scanClient(scan func(dest ...any) error) (domain.Client, error) {
	var entity domain.Client
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.UserID,
		&entity.Name,
		&entity.Email,
		&createdAt,
	)
	if err != nil {
		return domain.Client{}, err
	}
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
