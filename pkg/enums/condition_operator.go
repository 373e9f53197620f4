package enums

import "fmt"

// ConditionOperator is the comparison applied by an auxiliary rule condition.
type ConditionOperator string

const (
	OperatorEquals         ConditionOperator = "equals"
	OperatorNotEquals      ConditionOperator = "not_equals"
	OperatorGreaterThan    ConditionOperator = "greater_than"
	OperatorLessThan       ConditionOperator = "less_than"
	OperatorGreaterOrEqual ConditionOperator = "greater_or_equal"
	OperatorLessOrEqual    ConditionOperator = "less_or_equal"
	OperatorIn             ConditionOperator = "in"
	OperatorNotIn          ConditionOperator = "not_in"
)

var validConditionOperators = []ConditionOperator{
	OperatorEquals,
	OperatorNotEquals,
	OperatorGreaterThan,
	OperatorLessThan,
	OperatorGreaterOrEqual,
	OperatorLessOrEqual,
	OperatorIn,
	OperatorNotIn,
}

// String implements fmt.Stringer.
func (o ConditionOperator) String() string {
	return string(o)
}

// IsValid reports whether the value is a known ConditionOperator.
func (o ConditionOperator) IsValid() bool {
	for _, candidate := range validConditionOperators {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseConditionOperator converts raw input into a ConditionOperator.
func ParseConditionOperator(value string) (ConditionOperator, error) {
	for _, candidate := range validConditionOperators {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid condition operator %q", value)
}
