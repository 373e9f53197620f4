package rules

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tradewind-labs/pricing-service/internal/pricing"
	"github.com/tradewind-labs/pricing-service/pkg/logger"
	"github.com/tradewind-labs/pricing-service/pkg/redis"
)

// CachedProvider layers a Redis snapshot in front of another candidate
// source. Cache failures are never fatal: any miss, transport error, or
// stale encoding falls through to the inner provider.
type CachedProvider struct {
	inner pricing.RuleProvider
	cache Snapshotter
	ttl   time.Duration
	logg  *logger.Logger
}

// NewCachedProvider wraps inner with snapshot caching.
func NewCachedProvider(inner pricing.RuleProvider, cache Snapshotter, ttl time.Duration, logg *logger.Logger) *CachedProvider {
	return &CachedProvider{inner: inner, cache: cache, ttl: ttl, logg: logg}
}

func (p *CachedProvider) GetCandidateRules(ctx context.Context, query pricing.RuleQuery) ([]pricing.Rule, error) {
	key := p.snapshotKey(query)

	if cached, err := p.cache.Get(ctx, key); err == nil {
		var rules []pricing.Rule
		if err := json.Unmarshal([]byte(cached), &rules); err == nil {
			return rules, nil
		}
		if p.logg != nil {
			p.logg.Warn(ctx, "discarding undecodable rule snapshot")
		}
	} else if !redis.IsNil(err) && p.logg != nil {
		p.logg.Warn(ctx, "rule snapshot lookup failed, falling back to database")
	}

	rules, err := p.inner.GetCandidateRules(ctx, query)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(rules); err == nil {
		if err := p.cache.Set(ctx, key, string(encoded), p.ttl); err != nil && p.logg != nil {
			p.logg.Warn(ctx, "storing rule snapshot failed")
		}
	}
	return rules, nil
}

func (p *CachedProvider) snapshotKey(query pricing.RuleQuery) string {
	parts := []string{query.TenantID.String(), query.LocationID.String()}
	if query.ProductID != nil {
		parts = append(parts, "p", query.ProductID.String())
	}
	if query.CategoryID != nil {
		parts = append(parts, "c", query.CategoryID.String())
	}
	return p.cache.RuleCacheKey(parts...)
}
