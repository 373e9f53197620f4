package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/tradewind-labs/pricing-service/pkg/enums"
)

// computePrice resolves the final price and discount amount for the winning
// rule. A nil rule returns the base price untouched. The ok result is false
// only for a rule type outside the closed set, which callers must surface as
// a data-integrity warning rather than a silently wrong price.
func computePrice(rule *Rule, basePrice decimal.Decimal, quantity int) (finalPrice, discountAmount decimal.Decimal, ok bool) {
	if rule == nil {
		return roundPrice(basePrice), decimal.Zero, true
	}

	var price decimal.Decimal
	switch rule.Type {
	case enums.RuleTypeMarkup:
		price = basePrice.Mul(decimal.NewFromInt(1).Add(rule.Value.Div(hundred)))
	case enums.RuleTypeMarkdown, enums.RuleTypePercentageDiscount:
		price = applyPercentDiscount(basePrice, rule.Value)
	case enums.RuleTypeFixedPrice:
		price = rule.Value
	case enums.RuleTypeBulkDiscount:
		price = applyPercentDiscount(basePrice, bulkDiscountPercent(rule, quantity))
	default:
		return roundPrice(basePrice), decimal.Zero, false
	}

	if price.IsNegative() {
		price = decimal.Zero
	}
	price = roundPrice(price)

	discount := basePrice.Sub(price)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return price, roundPrice(discount), true
}

// bulkDiscountPercent resolves the tier with the largest threshold not
// exceeding the requested quantity. Tiers are held sorted ascending, so the
// last qualifying tier wins. Below the smallest threshold, or with no tiers
// configured, the rule's flat value applies.
func bulkDiscountPercent(rule *Rule, quantity int) decimal.Decimal {
	percent := rule.Value
	for _, tier := range rule.Tiers {
		if tier.ThresholdQuantity > quantity {
			break
		}
		percent = tier.DiscountPercentage
	}
	return percent
}

func applyPercentDiscount(basePrice, percent decimal.Decimal) decimal.Decimal {
	return basePrice.Mul(decimal.NewFromInt(1).Sub(percent.Div(hundred)))
}

// roundPrice rounds to 2 decimal places, half away from zero.
func roundPrice(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}
