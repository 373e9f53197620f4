package enums

import "fmt"

// RuleStatus captures the lifecycle state of a pricing rule. Scheduled and
// expired are informational states maintained by the rule-authoring tooling;
// the evaluator only ever honors active rules.
type RuleStatus string

const (
	RuleStatusActive    RuleStatus = "active"
	RuleStatusInactive  RuleStatus = "inactive"
	RuleStatusScheduled RuleStatus = "scheduled"
	RuleStatusExpired   RuleStatus = "expired"
)

var validRuleStatuses = []RuleStatus{
	RuleStatusActive,
	RuleStatusInactive,
	RuleStatusScheduled,
	RuleStatusExpired,
}

// String implements fmt.Stringer.
func (s RuleStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RuleStatus.
func (s RuleStatus) IsValid() bool {
	for _, candidate := range validRuleStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRuleStatus converts raw input into a RuleStatus.
func ParseRuleStatus(value string) (RuleStatus, error) {
	for _, candidate := range validRuleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rule status %q", value)
}
