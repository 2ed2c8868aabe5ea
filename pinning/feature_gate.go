package pinning

import (
	"context"

	featuregate "github.com/goliatone/go-featuregate/gate"
)

const (
	FeatureColumnPinning = "tables.pinning.columns"
	FeatureRowPinning    = "tables.pinning.rows"
)

// FeatureScope narrows feature gate resolution to a tenant, org or user.
type FeatureScope struct {
	TenantID string
	OrgID    string
	UserID   string
}

func featureEnabled(ctx context.Context, gate featuregate.FeatureGate, key string, scope FeatureScope) (bool, error) {
	if gate == nil {
		return true, nil
	}
	scopeSet := featureScopeSet(scope)
	if scopeSet == nil {
		return gate.Enabled(ctx, key)
	}
	return gate.Enabled(ctx, key, featuregate.WithScopeSet(*scopeSet))
}

func featureScopeSet(scope FeatureScope) *featuregate.ScopeSet {
	if scope.TenantID == "" && scope.OrgID == "" && scope.UserID == "" {
		return nil
	}
	return &featuregate.ScopeSet{
		System:   true,
		TenantID: scope.TenantID,
		OrgID:    scope.OrgID,
		UserID:   scope.UserID,
	}
}
