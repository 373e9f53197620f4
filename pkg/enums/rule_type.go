package enums

import "fmt"

// RuleType is the closed set of pricing adjustments a rule can express.
type RuleType string

const (
	RuleTypeMarkup             RuleType = "markup"
	RuleTypeMarkdown           RuleType = "markdown"
	RuleTypeFixedPrice         RuleType = "fixed_price"
	RuleTypePercentageDiscount RuleType = "percentage_discount"
	RuleTypeBulkDiscount       RuleType = "bulk_discount"
)

var validRuleTypes = []RuleType{
	RuleTypeMarkup,
	RuleTypeMarkdown,
	RuleTypeFixedPrice,
	RuleTypePercentageDiscount,
	RuleTypeBulkDiscount,
}

// String implements fmt.Stringer.
func (t RuleType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known RuleType.
func (t RuleType) IsValid() bool {
	for _, candidate := range validRuleTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsPercentage reports whether the rule type interprets Value as a percentage.
func (t RuleType) IsPercentage() bool {
	switch t {
	case RuleTypeMarkup, RuleTypeMarkdown, RuleTypePercentageDiscount, RuleTypeBulkDiscount:
		return true
	case RuleTypeFixedPrice:
		return false
	}
	return false
}

// ParseRuleType converts raw input into a RuleType.
func ParseRuleType(value string) (RuleType, error) {
	for _, candidate := range validRuleTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rule type %q", value)
}
