package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"lessondesk/internal/domain/account"
	"lessondesk/internal/domain/profile"
)

// testAccountDef defines a single test account to seed.
type testAccountDef struct {
	Email       string
	Password    string
	Role        string
	Tier        string
	DisplayName string
}

// testAccounts returns the list of test accounts to seed, one per role
// plus one free-tier user for checking gated screens.
func testAccounts() []testAccountDef {
	return []testAccountDef{
		{
			Email:       "dev+admin@lessondesk.app",
			Password:    "Desk+admin!",
			Role:        account.RoleAdmin,
			Tier:        profile.TierEnterprise,
			DisplayName: "Test Admin",
		},
		{
			Email:       "dev+power@lessondesk.app",
			Password:    "Desk+power!",
			Role:        account.RolePower,
			Tier:        profile.TierBusiness,
			DisplayName: "Test Power",
		},
		{
			Email:       "dev+basic@lessondesk.app",
			Password:    "Desk+basic!",
			Role:        account.RoleBasic,
			Tier:        profile.TierTeam,
			DisplayName: "Test Basic",
		},
		{
			Email:       "dev+free@lessondesk.app",
			Password:    "Desk+free!",
			Role:        account.RoleBasic,
			Tier:        profile.TierFree,
			DisplayName: "Test Free",
		},
	}
}

// ExecuteSeedTestAccounts creates test accounts for each role if they don't already exist.
// It is idempotent, accounts that already exist (checked by email) are skipped.
// PRE: Database is migrated, admin seed has run.
// POST: 4 test accounts exist spanning all roles and tiers.
func ExecuteSeedTestAccounts(ctx context.Context, deps CreateAccountDeps) error {
	created := 0
	for _, def := range testAccounts() {
		// Check if account already exists
		_, err := deps.AccountStore.GetByEmail(ctx, def.Email)
		if err == nil {
			continue // already exists
		}

		_, err = ExecuteCreateAccount(ctx, CreateAccountInput{
			Email:       def.Email,
			Password:    def.Password,
			Role:        def.Role,
			Tier:        def.Tier,
			DisplayName: def.DisplayName,
		}, deps)
		if err != nil {
			return fmt.Errorf("seed test account %s: %w", def.Email, err)
		}

		created++
		slog.Info("seed_event", "event", "test_account_created", "email", def.Email, "role", def.Role, "tier", def.Tier)
	}

	if created > 0 {
		slog.Info("seed_event", "event", "test_accounts_seeded", "created", created)
	}
	return nil
}
