package profile

import (
	"context"
	"database/sql"
	"fmt"

	"lessondesk/internal/adapters/storage"
	domain "lessondesk/internal/domain/profile"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ProfileStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const profileColumns = "id, account_id, role, subscription_tier, email, display_name"

// GetByID retrieves a Profile by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profile WHERE id = ?", id)

	entity, err := scanProfile(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Profile{}, fmt.Errorf("profile not found: %w", err)
	}
	return entity, err
}

// GetByAccountID retrieves the Profile belonging to an account.
// PRE: accountID is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByAccountID(ctx context.Context, accountID string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profile WHERE account_id = ?", accountID)

	entity, err := scanProfile(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Profile{}, fmt.Errorf("profile not found: %w", err)
	}
	return entity, err
}

// Save persists a Profile to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profile (id, account_id, role, subscription_tier, email, display_name)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			role=excluded.role,
			subscription_tier=excluded.subscription_tier,
			email=excluded.email,
			display_name=excluded.display_name
	`,
		entity.ID,
		entity.AccountID,
		entity.Role,
		entity.Tier(),
		entity.Email,
		entity.DisplayName,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	return tx.Commit()
}

// Delete removes a Profile from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM profile WHERE id = ?", id)
	return err
}

// UpdateRole mutates only the role column of the account's profile.
// PRE: accountID is non-empty, role has been validated by the caller
// POST: Role is updated; error if the profile does not exist
func (s *SQLiteStore) UpdateRole(ctx context.Context, accountID string, role string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE profile SET role = ? WHERE account_id = ?", role, accountID)
	if err != nil {
		return fmt.Errorf("update profile role: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("profile not found for account: %s", accountID)
	}
	return nil
}

// scanProfile extracts a Profile from a row scanner function.
func scanProfile(scan func(dest ...any) error) (domain.Profile, error) {
	var entity domain.Profile
	err := scan(
		&entity.ID,
		&entity.AccountID,
		&entity.Role,
		&entity.SubscriptionTier,
		&entity.Email,
		&entity.DisplayName,
	)
	if err != nil {
		return domain.Profile{}, err
	}
	return entity, nil
}
