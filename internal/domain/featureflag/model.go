package featureflag

import "errors"

// FeatureFlag holds server-enforced availability controls for a product area.
//
// Key is stable and referenced by code (routes/templates).
//
// NOTE: We store booleans per role explicitly rather than using maps to keep
// storage and JSON payloads simple.
type FeatureFlag struct {
	Key         string
	Description string

	EnabledAdmin bool
	EnabledPower bool
	EnabledBasic bool

	// RequiredCapability names a tier capability that must additionally be
	// granted before the area is shown; empty means role-only gating.
	RequiredCapability string
}

// Flag keys referenced by routes and templates.
const (
	KeyLessons      = "lessons"
	KeyClients      = "clients"
	KeyDashboards   = "dashboards"
	KeyAnalytics    = "analytics"
	KeyExports      = "exports"
	KeyAIAssistant  = "ai_assistant"
	KeyAccountAdmin = "account_admin"
)

var (
	ErrMissingKey = errors.New("feature flag key is required")
)

// Validate checks required fields for a FeatureFlag.
// PRE: FeatureFlag struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (f *FeatureFlag) Validate() error {
	if f.Key == "" {
		return ErrMissingKey
	}
	return nil
}

// EnabledForRole returns true if the area is enabled for the given role.
//
// PRE: role is a valid session role string
// INVARIANT: f is not mutated
func (f FeatureFlag) EnabledForRole(role string) bool {
	switch role {
	case "admin":
		return f.EnabledAdmin
	case "power_user":
		return f.EnabledPower
	case "basic_user":
		return f.EnabledBasic
	default:
		return false
	}
}
