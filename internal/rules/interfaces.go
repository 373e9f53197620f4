package rules

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tradewind-labs/pricing-service/internal/pricing"
	"github.com/tradewind-labs/pricing-service/pkg/db/models"
)

// Repository defines persistence operations for pricing-rule tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCandidateRules(ctx context.Context, query pricing.RuleQuery) ([]models.PricingRule, error)
	FindRuleByID(ctx context.Context, query pricing.RuleQuery, id string) (*models.PricingRule, error)
	CountRulesForTenant(ctx context.Context, query pricing.RuleQuery) (int64, error)
}

// Snapshotter is the cache surface the cached provider needs. The package
// redis client satisfies it.
type Snapshotter interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	RuleCacheKey(parts ...string) string
}
