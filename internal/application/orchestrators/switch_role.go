package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"lessondesk/internal/domain/account"
)

// Role-switch errors
var (
	ErrSwitchInvalidRole = errors.New("target role is not valid")
	ErrSameRole          = errors.New("already operating as that role")
)

// AccountStoreForSwitchRole defines the account store interface needed by SwitchRole.
type AccountStoreForSwitchRole interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// ProfileStoreForSwitchRole defines the profile store interface needed by SwitchRole.
type ProfileStoreForSwitchRole interface {
	UpdateRole(ctx context.Context, accountID, role string) error
}

// SwitchRoleInput carries input for the role-switch orchestrator.
type SwitchRoleInput struct {
	AccountID  string
	TargetRole string
}

// SwitchRoleResult carries the updated session fields.
type SwitchRoleResult struct {
	Role string
}

// SwitchRoleDeps holds dependencies for SwitchRole.
type SwitchRoleDeps struct {
	AccountStore AccountStoreForSwitchRole
	ProfileStore ProfileStoreForSwitchRole
}

// ExecuteSwitchRole moves a signed-in user to a different role for testing purposes.
// Switching to the role already held is rejected so the UI can keep the
// current-role option disabled.
// PRE: AccountID refers to an existing account; TargetRole is on the allowlist
// POST: Both the account row and the profile row carry the new role
// INVARIANT: A failed switch leaves the stored role unchanged
func ExecuteSwitchRole(ctx context.Context, input SwitchRoleInput, deps SwitchRoleDeps) (SwitchRoleResult, error) {
	if !isValidTargetRole(input.TargetRole) {
		return SwitchRoleResult{}, ErrSwitchInvalidRole
	}

	acct, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return SwitchRoleResult{}, errors.New("account not found")
	}

	if acct.Role == input.TargetRole {
		return SwitchRoleResult{}, ErrSameRole
	}

	previous := acct.Role
	acct.Role = input.TargetRole
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return SwitchRoleResult{}, err
	}
	if err := deps.ProfileStore.UpdateRole(ctx, acct.ID, input.TargetRole); err != nil {
		return SwitchRoleResult{}, err
	}

	slog.Info("auth_event", "event", "role_switched", "account_id", acct.ID, "from", previous, "to", input.TargetRole)

	return SwitchRoleResult{Role: input.TargetRole}, nil
}

func isValidTargetRole(role string) bool {
	for _, r := range account.ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
