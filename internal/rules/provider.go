package rules

import (
	"context"
	"encoding/json"

	"github.com/tradewind-labs/pricing-service/internal/pricing"
	"github.com/tradewind-labs/pricing-service/pkg/db/models"
	pkgerrors "github.com/tradewind-labs/pricing-service/pkg/errors"
	"github.com/tradewind-labs/pricing-service/pkg/logger"
)

// Provider adapts the rule repository to the engine's candidate source.
type Provider struct {
	repo Repository
	logg *logger.Logger
}

// NewProvider builds a database-backed candidate source.
func NewProvider(repo Repository, logg *logger.Logger) *Provider {
	return &Provider{repo: repo, logg: logg}
}

// GetCandidateRules loads and maps the structurally relevant rules for the
// query. Mapping never drops a rule: a snapshot that fails the engine's
// integrity checks is still returned so the engine can surface it as a
// warning instead of silently losing it here.
func (p *Provider) GetCandidateRules(ctx context.Context, query pricing.RuleQuery) ([]pricing.Rule, error) {
	records, err := p.repo.FindCandidateRules(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading candidate rules")
	}
	return mapRules(ctx, records, p.logg), nil
}

func mapRules(ctx context.Context, records []models.PricingRule, logg *logger.Logger) []pricing.Rule {
	rules := make([]pricing.Rule, 0, len(records))
	for _, record := range records {
		rules = append(rules, mapRule(ctx, record, logg))
	}
	return rules
}

func mapRule(ctx context.Context, record models.PricingRule, logg *logger.Logger) pricing.Rule {
	tiers := make([]pricing.Tier, 0, len(record.Tiers))
	for _, tier := range record.Tiers {
		tiers = append(tiers, pricing.Tier{
			ThresholdQuantity:  tier.ThresholdQuantity,
			DiscountPercentage: tier.DiscountPercentage,
		})
	}

	conditions := make([]pricing.Condition, 0, len(record.Conditions))
	for _, cond := range record.Conditions {
		conditions = append(conditions, pricing.Condition{
			Field:    cond.Field,
			Operator: cond.Operator,
			Value:    decodeConditionValue(ctx, cond, logg),
		})
	}

	return pricing.Rule{
		ID:          record.ID,
		TenantID:    record.TenantID,
		LocationID:  record.LocationID,
		ProductID:   record.ProductID,
		CategoryID:  record.CategoryID,
		Type:        record.RuleType,
		Value:       record.Value,
		MinQuantity: record.MinQuantity,
		MaxQuantity: record.MaxQuantity,
		StartDate:   record.StartDate,
		EndDate:     record.EndDate,
		Priority:    record.Priority,
		Conditions:  conditions,
		Tiers:       tiers,
		Status:      record.Status,
		IsActive:    record.IsActive,
		CreatedBy:   record.CreatedBy,
		UpdatedBy:   record.UpdatedBy,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

// decodeConditionValue unpacks the JSON-encoded operand. A column that is not
// valid JSON is kept as its raw string so equality conditions written before
// the encoding was enforced keep matching.
func decodeConditionValue(ctx context.Context, cond models.RuleCondition, logg *logger.Logger) any {
	var value any
	if err := json.Unmarshal([]byte(cond.Value), &value); err != nil {
		if logg != nil {
			logg.Warn(logg.WithRuleID(ctx, cond.RuleID.String()), "condition value is not valid JSON, using raw string")
		}
		return cond.Value
	}
	return value
}
