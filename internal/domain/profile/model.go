package profile

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Subscription tier constants, ordered free < team < business < enterprise.
const (
	TierFree       = "free"
	TierTeam       = "team"
	TierBusiness   = "business"
	TierEnterprise = "enterprise"
)

// ValidTiers contains all valid subscription tier values.
var ValidTiers = []string{TierFree, TierTeam, TierBusiness, TierEnterprise}

// Domain errors
var (
	ErrEmptyAccountID = errors.New("account_id is required")
	ErrEmptyEmail     = errors.New("email cannot be empty")
	ErrInvalidTier    = errors.New("subscription_tier must be one of: free, team, business, enterprise")
)

// Profile is the per-user record driving permission evaluation and the
// identity badge. One profile per account.
type Profile struct {
	ID               string
	AccountID        string
	Role             string // mirrors account role; second gating axis
	SubscriptionTier string
	Email            string
	DisplayName      string
}

// Validate checks required fields for a Profile.
// PRE: Profile struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Profile) Validate() error {
	if p.AccountID == "" {
		return ErrEmptyAccountID
	}
	if strings.TrimSpace(p.Email) == "" {
		return ErrEmptyEmail
	}
	if p.SubscriptionTier != "" && !IsValidTier(p.SubscriptionTier) {
		return ErrInvalidTier
	}
	return nil
}

// Tier returns the profile's subscription tier, defaulting to free when absent.
// INVARIANT: p is not mutated
func (p Profile) Tier() string {
	if p.SubscriptionTier == "" {
		return TierFree
	}
	return p.SubscriptionTier
}

// Initials derives the identity badge shown in the navigation header.
// Uses the first letters of up to two display-name words, falling back to
// the first letter of the email.
// INVARIANT: p is not mutated
func (p Profile) Initials() string {
	words := strings.Fields(p.DisplayName)
	if len(words) >= 2 {
		return strings.ToUpper(firstLetter(words[0]) + firstLetter(words[1]))
	}
	if len(words) == 1 {
		return strings.ToUpper(firstLetter(words[0]))
	}
	if p.Email != "" {
		return strings.ToUpper(firstLetter(p.Email))
	}
	return "?"
}

// firstLetter returns the first rune of s as a string. Byte slicing would
// split multi-byte letters.
func firstLetter(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}

// IsValidTier reports whether tier is one of the known subscription tiers.
func IsValidTier(tier string) bool {
	for _, t := range ValidTiers {
		if t == tier {
			return true
		}
	}
	return false
}
