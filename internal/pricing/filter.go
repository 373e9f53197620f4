package pricing

import "github.com/tradewind-labs/pricing-service/pkg/enums"

// isApplicable reports whether an individually sound rule applies to the
// request. The active/status gate runs first so disabled rules are pruned
// before any window or condition work.
func isApplicable(rule Rule, req Request, fields map[string]any) bool {
	if !rule.IsActive || rule.Status != enums.RuleStatusActive {
		return false
	}
	if !matchesTarget(rule, req) {
		return false
	}
	if !withinDates(rule, req) {
		return false
	}
	if !withinQuantity(rule, req) {
		return false
	}
	return conditionsHold(rule.Conditions, fields)
}

// matchesTarget accepts global rules, exact product matches, and category
// matches.
func matchesTarget(rule Rule, req Request) bool {
	if rule.ProductID == nil && rule.CategoryID == nil {
		return true
	}
	if rule.ProductID != nil && req.ProductID != nil && *rule.ProductID == *req.ProductID {
		return true
	}
	if rule.CategoryID != nil && req.CategoryID != nil && *rule.CategoryID == *req.CategoryID {
		return true
	}
	return false
}

// withinDates checks the validity window; both bounds are inclusive.
func withinDates(rule Rule, req Request) bool {
	if rule.StartDate != nil && req.AsOf.Before(*rule.StartDate) {
		return false
	}
	if rule.EndDate != nil && req.AsOf.After(*rule.EndDate) {
		return false
	}
	return true
}

// withinQuantity checks the quantity window; both bounds are inclusive.
func withinQuantity(rule Rule, req Request) bool {
	if rule.MinQuantity != nil && req.Quantity < *rule.MinQuantity {
		return false
	}
	if rule.MaxQuantity != nil && req.Quantity > *rule.MaxQuantity {
		return false
	}
	return true
}
