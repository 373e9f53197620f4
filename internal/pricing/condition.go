package pricing

import (
	"reflect"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradewind-labs/pricing-service/pkg/enums"
)

// conditionsHold reports whether every condition passes against the field
// map. An empty list is vacuously true.
func conditionsHold(conditions []Condition, fields map[string]any) bool {
	for _, condition := range conditions {
		if !conditionHolds(condition, fields) {
			return false
		}
	}
	return true
}

// conditionHolds evaluates one predicate. An unresolvable field or an
// operand the operator cannot compare yields false, never an error, so a
// malformed condition can only exclude its own rule.
func conditionHolds(condition Condition, fields map[string]any) bool {
	actual, ok := fields[condition.Field]
	if !ok {
		return false
	}

	switch condition.Operator {
	case enums.OperatorEquals:
		return looselyEqual(actual, condition.Value)
	case enums.OperatorNotEquals:
		return !looselyEqual(actual, condition.Value)
	case enums.OperatorGreaterThan:
		cmp, ok := compareOrdered(actual, condition.Value)
		return ok && cmp > 0
	case enums.OperatorLessThan:
		cmp, ok := compareOrdered(actual, condition.Value)
		return ok && cmp < 0
	case enums.OperatorGreaterOrEqual:
		cmp, ok := compareOrdered(actual, condition.Value)
		return ok && cmp >= 0
	case enums.OperatorLessOrEqual:
		cmp, ok := compareOrdered(actual, condition.Value)
		return ok && cmp <= 0
	case enums.OperatorIn:
		return memberOf(actual, condition.Value)
	case enums.OperatorNotIn:
		return !memberOf(actual, condition.Value)
	}
	return false
}

// looselyEqual compares numerically when both sides are numeric and falls
// back to string comparison otherwise, so a condition authored as "5" still
// matches a request field of 5.
func looselyEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
		return false
	}
	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			return as == bs
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

// compareOrdered returns -1/0/+1 for operands with a defined ordering:
// numbers, timestamps, or strings. The second return is false when the pair
// cannot be ordered.
func compareOrdered(a, b any) (int, bool) {
	if at, aok := toTime(a); aok {
		if bt, bok := toTime(b); bok {
			switch {
			case at.Before(bt):
				return -1, true
			case at.After(bt):
				return 1, true
			}
			return 0, true
		}
		return 0, false
	}
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			}
			return 0, true
		}
		return 0, false
	}
	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			switch {
			case as < bs:
				return -1, true
			case as > bs:
				return 1, true
			}
			return 0, true
		}
	}
	return 0, false
}

// memberOf reports whether value appears in the collection operand.
func memberOf(value, collection any) bool {
	if collection == nil {
		return false
	}
	rv := reflect.ValueOf(collection)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if looselyEqual(value, rv.Index(i).Interface()) {
			return true
		}
	}
	return false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case decimal.Decimal:
		f, _ := v.Float64()
		return f, true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func toTime(value any) (time.Time, bool) {
	if t, ok := value.(time.Time); ok {
		return t, true
	}
	if s, ok := value.(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
