package featureflag

// DefaultFlags returns the known feature flags and their default settings.
//
// These represent the broad, user-visible areas of the product and drive the
// navigation header. As new major features are added, append to this list.
func DefaultFlags() []FeatureFlag {
	return []FeatureFlag{
		{
			Key:          KeyLessons,
			Description:  "Lessons (list, filters, create)",
			EnabledAdmin: true,
			EnabledPower: true,
			EnabledBasic: true,
		},
		{
			Key:          KeyClients,
			Description:  "Clients (list, create)",
			EnabledAdmin: true,
			EnabledPower: true,
			EnabledBasic: true,
		},
		{
			Key:                KeyDashboards,
			Description:        "Custom dashboards",
			EnabledAdmin:       true,
			EnabledPower:       true,
			EnabledBasic:       false,
			RequiredCapability: "custom_dashboards",
		},
		{
			Key:                KeyAnalytics,
			Description:        "Advanced analytics (per-client, per-week rollups)",
			EnabledAdmin:       true,
			EnabledPower:       true,
			EnabledBasic:       false,
			RequiredCapability: "advanced_analytics",
		},
		{
			Key:                KeyExports,
			Description:        "Lesson exports (CSV download)",
			EnabledAdmin:       true,
			EnabledPower:       true,
			EnabledBasic:       true,
			RequiredCapability: "exports",
		},
		{
			Key:                KeyAIAssistant,
			Description:        "AI assistant",
			EnabledAdmin:       true,
			EnabledPower:       true,
			EnabledBasic:       false,
			RequiredCapability: "ai_assistant",
		},
		{
			Key:          KeyAccountAdmin,
			Description:  "Account administration (accounts, flags, role switcher)",
			EnabledAdmin: true,
			EnabledPower: false,
			EnabledBasic: false,
		},
	}
}
