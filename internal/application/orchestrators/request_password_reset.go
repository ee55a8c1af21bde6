package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lessondesk/internal/adapters/email"
	"lessondesk/internal/domain/account"

	"github.com/google/uuid"
)

// AccountStoreForPasswordReset defines the store interface needed by the reset flow.
type AccountStoreForPasswordReset interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	SaveRecoveryToken(ctx context.Context, t account.RecoveryToken) error
	InvalidateTokensForAccount(ctx context.Context, accountID string) error
}

// RequestPasswordResetInput carries input for the reset-request orchestrator.
type RequestPasswordResetInput struct {
	Email   string
	BaseURL string // e.g. "https://lessondesk.app"
}

// RequestPasswordResetDeps holds dependencies for RequestPasswordReset.
type RequestPasswordResetDeps struct {
	AccountStore AccountStoreForPasswordReset
	EmailSender  email.Sender
}

// ExecuteRequestPasswordReset issues a recovery token and emails a reset link.
// Unknown emails succeed silently so the form cannot be used to probe for accounts.
// PRE: input.Email is non-empty
// POST: Any previous tokens for the account are invalidated; a fresh 1-hour token is stored and emailed
func ExecuteRequestPasswordReset(ctx context.Context, input RequestPasswordResetInput, deps RequestPasswordResetDeps) error {
	if input.Email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, input.Email)
	if err != nil {
		slog.Info("auth_event", "event", "reset_requested", "email", input.Email, "reason", "not_found")
		return nil
	}
	if acct.IsDisabled() {
		slog.Info("auth_event", "event", "reset_blocked", "email", input.Email, "reason", "disabled")
		return nil
	}

	// One live token per account
	if err := deps.AccountStore.InvalidateTokensForAccount(ctx, acct.ID); err != nil {
		return err
	}

	now := time.Now()
	token := account.RecoveryToken{
		ID:        uuid.New().String(),
		AccountID: acct.ID,
		Token:     uuid.New().String(),
		ExpiresAt: now.Add(account.RecoveryTokenTTL),
		CreatedAt: now,
	}
	if err := deps.AccountStore.SaveRecoveryToken(ctx, token); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/auth/reset?token=%s", input.BaseURL, token.Token)
	_, err = deps.EmailSender.Send(ctx, email.SendRequest{
		To:      []string{acct.Email},
		Subject: "Reset your LessonDesk password",
		HTML: fmt.Sprintf(
			`<p>Hello,</p><p>Someone asked to reset the password for this address. `+
				`The link below works once and expires in one hour.</p>`+
				`<p><a href="%s">Reset password</a></p>`+
				`<p>If that wasn't you, you can ignore this email.</p>`, link),
	})
	if err != nil {
		return err
	}

	slog.Info("auth_event", "event", "reset_requested", "email", input.Email, "account_id", acct.ID)
	return nil
}
