package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"lessondesk/internal/domain/featureflag"
)

// FeatureFlagStoreForSeed defines the store interface needed by SeedFeatureFlags.
type FeatureFlagStoreForSeed interface {
	GetByKey(ctx context.Context, key string) (featureflag.FeatureFlag, error)
	Save(ctx context.Context, f featureflag.FeatureFlag) error
}

// SeedFeatureFlagsDeps holds dependencies for SeedFeatureFlags.
type SeedFeatureFlagsDeps struct {
	FeatureFlagStore FeatureFlagStoreForSeed
}

// ExecuteSeedFeatureFlags inserts any default flags that are not yet stored.
// Existing flags are left untouched so admin edits survive restarts.
// PRE: Database is migrated.
// POST: Every default flag key has a row.
func ExecuteSeedFeatureFlags(ctx context.Context, deps SeedFeatureFlagsDeps) error {
	created := 0
	for _, def := range featureflag.DefaultFlags() {
		_, err := deps.FeatureFlagStore.GetByKey(ctx, def.Key)
		if err == nil {
			continue // already exists, keep stored values
		}
		if err := deps.FeatureFlagStore.Save(ctx, def); err != nil {
			return fmt.Errorf("seed feature flag %s: %w", def.Key, err)
		}
		created++
	}

	if created > 0 {
		slog.Info("seed_event", "event", "feature_flags_seeded", "created", created)
	}
	return nil
}
