package access

import (
	"lessondesk/internal/domain/account"
	"lessondesk/internal/domain/profile"
)

// Capability keys for the tier-gated product areas.
const (
	CapabilityExports           = "exports"
	CapabilityAdvancedAnalytics = "advanced_analytics"
	CapabilityCustomDashboards  = "custom_dashboards"
	CapabilityAI                = "ai_assistant"
)

// Plan constants for the role-derived axis.
const (
	PlanFree  = "free"
	PlanPaid  = "paid"
	PlanAdmin = "admin"
)

// tierRank orders subscription tiers. Unknown tiers rank below free so a
// corrupt value never grants access.
var tierRank = map[string]int{
	profile.TierFree:       0,
	profile.TierTeam:       1,
	profile.TierBusiness:   2,
	profile.TierEnterprise: 3,
}

// requiredTier maps each capability to the minimum tier that unlocks it.
var requiredTier = map[string]string{
	CapabilityExports:           profile.TierTeam,
	CapabilityAdvancedAnalytics: profile.TierBusiness,
	CapabilityCustomDashboards:  profile.TierBusiness,
	CapabilityAI:                profile.TierEnterprise,
}

// FeatureAccess is the derived capability set for one profile. It is a pure
// function of (profile, loading) and is never persisted.
type FeatureAccess struct {
	Tier                       string
	CanAccessExports           bool
	CanAccessAdvancedAnalytics bool
	CanAccessCustomDashboards  bool
	CanAccessAI                bool
	IsLoading                  bool
}

// Evaluate computes the FeatureAccess for a profile.
//
// While loading, and for a missing profile, every capability is denied:
// unresolved states default to the most restrictive access.
//
// PRE: none (p may be nil)
// POST: Returns the derived capability set; no side effects
// INVARIANT: p is not mutated
func Evaluate(p *profile.Profile, loading bool) FeatureAccess {
	if loading {
		return FeatureAccess{IsLoading: true}
	}
	if p == nil {
		return FeatureAccess{Tier: profile.TierFree}
	}
	tier := p.Tier()
	return FeatureAccess{
		Tier:                       tier,
		CanAccessExports:           TierAtLeast(tier, requiredTier[CapabilityExports]),
		CanAccessAdvancedAnalytics: TierAtLeast(tier, requiredTier[CapabilityAdvancedAnalytics]),
		CanAccessCustomDashboards:  TierAtLeast(tier, requiredTier[CapabilityCustomDashboards]),
		CanAccessAI:                TierAtLeast(tier, requiredTier[CapabilityAI]),
	}
}

// Can reports whether the given capability key is granted.
// INVARIANT: a is not mutated
func (a FeatureAccess) Can(capability string) bool {
	switch capability {
	case CapabilityExports:
		return a.CanAccessExports
	case CapabilityAdvancedAnalytics:
		return a.CanAccessAdvancedAnalytics
	case CapabilityCustomDashboards:
		return a.CanAccessCustomDashboards
	case CapabilityAI:
		return a.CanAccessAI
	default:
		return false
	}
}

// TierAtLeast reports whether tier ranks at or above required in the total
// order free < team < business < enterprise.
func TierAtLeast(tier, required string) bool {
	tr, ok := tierRank[tier]
	if !ok {
		return false
	}
	rr, ok := tierRank[required]
	if !ok {
		return false
	}
	return tr >= rr
}

// RequiredTierFor returns the minimum tier unlocking a capability, or free
// for unknown keys.
func RequiredTierFor(capability string) string {
	if t, ok := requiredTier[capability]; ok {
		return t
	}
	return profile.TierFree
}

// PlanForRole maps the coarse role axis onto a binary plan. This axis is
// independent of the subscription tier: role gates administrative surfaces,
// tier gates product features.
func PlanForRole(role string) string {
	switch role {
	case account.RoleAdmin:
		return PlanAdmin
	case account.RolePower:
		return PlanPaid
	default:
		return PlanFree
	}
}
