package orchestrators

import (
	"context"
	"errors"
	"testing"

	"lessondesk/internal/domain/account"
	"lessondesk/internal/domain/profile"
)

type mockAccountStoreForCreate struct {
	accounts map[string]account.Account
}

func (m *mockAccountStoreForCreate) GetByEmail(_ context.Context, email string) (account.Account, error) {
	a, ok := m.accounts[email]
	if !ok {
		return account.Account{}, errors.New("account not found")
	}
	return a, nil
}

func (m *mockAccountStoreForCreate) Save(_ context.Context, a account.Account) error {
	m.accounts[a.Email] = a
	return nil
}

func (m *mockAccountStoreForCreate) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

type mockProfileStoreForCreate struct {
	saved []profile.Profile
}

func (m *mockProfileStoreForCreate) Save(_ context.Context, p profile.Profile) error {
	m.saved = append(m.saved, p)
	return nil
}

func TestExecuteCreateAccount_Success(t *testing.T) {
	accounts := &mockAccountStoreForCreate{accounts: map[string]account.Account{}}
	profiles := &mockProfileStoreForCreate{}
	deps := CreateAccountDeps{AccountStore: accounts, ProfileStore: profiles}

	id, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Email:    "new@lessondesk.app",
		Password: "secret1",
		Role:     account.RoleBasic,
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty account ID")
	}

	saved := accounts.accounts["new@lessondesk.app"]
	if saved.PasswordHash == "" {
		t.Error("expected password to be hashed")
	}
	if saved.Status != account.StatusActive {
		t.Errorf("expected status active, got %q", saved.Status)
	}

	if len(profiles.saved) != 1 {
		t.Fatalf("expected 1 profile saved, got %d", len(profiles.saved))
	}
	if profiles.saved[0].AccountID != id {
		t.Errorf("expected profile AccountID %q, got %q", id, profiles.saved[0].AccountID)
	}
	if profiles.saved[0].SubscriptionTier != profile.TierFree {
		t.Errorf("expected default tier free, got %q", profiles.saved[0].SubscriptionTier)
	}
}

func TestExecuteCreateAccount_DuplicateEmail(t *testing.T) {
	accounts := &mockAccountStoreForCreate{accounts: map[string]account.Account{
		"taken@lessondesk.app": {ID: "acct-001", Email: "taken@lessondesk.app"},
	}}
	deps := CreateAccountDeps{AccountStore: accounts, ProfileStore: &mockProfileStoreForCreate{}}

	_, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Email:    "taken@lessondesk.app",
		Password: "secret1",
		Role:     account.RoleBasic,
	}, deps)
	if err != ErrEmailAlreadyExists {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestExecuteCreateAccount_ShortPassword(t *testing.T) {
	accounts := &mockAccountStoreForCreate{accounts: map[string]account.Account{}}
	profiles := &mockProfileStoreForCreate{}
	deps := CreateAccountDeps{AccountStore: accounts, ProfileStore: profiles}

	_, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Email:    "new@lessondesk.app",
		Password: "short",
		Role:     account.RoleBasic,
	}, deps)
	if err != account.ErrPasswordTooShort {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
	if len(profiles.saved) != 0 {
		t.Errorf("expected no profile saved on failure, got %d", len(profiles.saved))
	}
}

func TestExecuteCreateAccount_InvalidRole(t *testing.T) {
	accounts := &mockAccountStoreForCreate{accounts: map[string]account.Account{}}
	deps := CreateAccountDeps{AccountStore: accounts, ProfileStore: &mockProfileStoreForCreate{}}

	_, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Email:    "new@lessondesk.app",
		Password: "secret1",
		Role:     "superuser",
	}, deps)
	if err != account.ErrInvalidRole {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

func TestExecuteSeedAdmin_SkipsWhenAccountsExist(t *testing.T) {
	accounts := &mockAccountStoreForCreate{accounts: map[string]account.Account{
		"existing@lessondesk.app": {ID: "acct-001", Email: "existing@lessondesk.app"},
	}}
	profiles := &mockProfileStoreForCreate{}
	deps := CreateAccountDeps{AccountStore: accounts, ProfileStore: profiles}

	if err := ExecuteSeedAdmin(context.Background(), deps, "admin@lessondesk.app", "secret1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := accounts.accounts["admin@lessondesk.app"]; ok {
		t.Error("expected no admin to be seeded when accounts exist")
	}
}

func TestExecuteSeedAdmin_SeedsEmptyStore(t *testing.T) {
	accounts := &mockAccountStoreForCreate{accounts: map[string]account.Account{}}
	profiles := &mockProfileStoreForCreate{}
	deps := CreateAccountDeps{AccountStore: accounts, ProfileStore: profiles}

	if err := ExecuteSeedAdmin(context.Background(), deps, "admin@lessondesk.app", "secret1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seeded, ok := accounts.accounts["admin@lessondesk.app"]
	if !ok {
		t.Fatal("expected admin account to be seeded")
	}
	if seeded.Role != account.RoleAdmin {
		t.Errorf("expected role admin, got %q", seeded.Role)
	}
	if len(profiles.saved) != 1 || profiles.saved[0].SubscriptionTier != profile.TierEnterprise {
		t.Error("expected seeded admin profile with enterprise tier")
	}
}
