package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"lessondesk/internal/domain/account"
)

// AccountStoreForResetPassword defines the store interface needed by ResetPassword.
type AccountStoreForResetPassword interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	GetRecoveryTokenByToken(ctx context.Context, token string) (account.RecoveryToken, error)
	SaveRecoveryToken(ctx context.Context, t account.RecoveryToken) error
}

// ResetPasswordInput carries input for the reset orchestrator.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// ResetPasswordDeps holds dependencies for ResetPassword.
type ResetPasswordDeps struct {
	AccountStore AccountStoreForResetPassword
}

// ExecuteResetPassword consumes a recovery token and sets the new password.
// PRE: Token and NewPassword are non-empty
// POST: On success the password is replaced, the token is marked used, and any lockout is cleared
// INVARIANT: A used or expired token never changes the password
func ExecuteResetPassword(ctx context.Context, input ResetPasswordInput, deps ResetPasswordDeps) error {
	if input.Token == "" {
		return account.ErrTokenInvalid
	}
	if input.NewPassword == "" {
		return account.ErrEmptyPassword
	}
	if len(input.NewPassword) < account.MinPasswordLength {
		return account.ErrPasswordTooShort
	}

	token, err := deps.AccountStore.GetRecoveryTokenByToken(ctx, input.Token)
	if err != nil {
		slog.Info("auth_event", "event", "reset_failed", "reason", "token_not_found")
		return account.ErrTokenInvalid
	}
	if token.Used {
		slog.Info("auth_event", "event", "reset_failed", "account_id", token.AccountID, "reason", "token_used")
		return account.ErrTokenUsed
	}
	if token.IsExpired(time.Now()) {
		slog.Info("auth_event", "event", "reset_failed", "account_id", token.AccountID, "reason", "token_expired")
		return account.ErrTokenExpired
	}

	acct, err := deps.AccountStore.GetByID(ctx, token.AccountID)
	if err != nil {
		return account.ErrTokenInvalid
	}

	if err := acct.SetPassword(input.NewPassword); err != nil {
		return err
	}
	acct.ResetFailedLogins()

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	token.Invalidate()
	if err := deps.AccountStore.SaveRecoveryToken(ctx, token); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "password_reset", "account_id", acct.ID)
	return nil
}
