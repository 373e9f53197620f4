package pricing

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradewind-labs/pricing-service/pkg/enums"
	pkgerrors "github.com/tradewind-labs/pricing-service/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// Condition is one auxiliary predicate a rule attaches to its applicability.
// Field names a key in the evaluation context; Value is the operand, a slice
// for membership operators.
type Condition struct {
	Field    string                  `json:"field"`
	Operator enums.ConditionOperator `json:"operator"`
	Value    any                     `json:"value"`
}

// Tier is one quantity threshold of a bulk-discount rule.
type Tier struct {
	ThresholdQuantity  int             `json:"threshold_quantity"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

// Rule is an immutable snapshot of a tenant-configured pricing adjustment.
// Instances are handed to the engine per call and never mutated by it.
type Rule struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   uuid.UUID  `json:"tenant_id"`
	LocationID uuid.UUID  `json:"location_id"`
	ProductID  *uuid.UUID `json:"product_id,omitempty"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`

	Type  enums.RuleType  `json:"rule_type"`
	Value decimal.Decimal `json:"value"`

	MinQuantity *int       `json:"min_quantity,omitempty"`
	MaxQuantity *int       `json:"max_quantity,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`

	Priority   int              `json:"priority"`
	Conditions []Condition      `json:"conditions,omitempty"`
	Tiers      []Tier           `json:"tiers,omitempty"`
	Status     enums.RuleStatus `json:"status"`
	IsActive   bool             `json:"is_active"`

	CreatedBy uuid.UUID `json:"created_by"`
	UpdatedBy uuid.UUID `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RuleParams carries the raw inputs for validated rule construction.
type RuleParams struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	LocationID uuid.UUID
	ProductID  *uuid.UUID
	CategoryID *uuid.UUID

	Type  enums.RuleType
	Value decimal.Decimal

	MinQuantity *int
	MaxQuantity *int
	StartDate   *time.Time
	EndDate     *time.Time

	Priority   int
	Conditions []Condition
	Tiers      []Tier
	Status     enums.RuleStatus
	IsActive   bool

	CreatedBy uuid.UUID
	UpdatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRule constructs a Rule after checking its structural invariants. Tiers
// are stored sorted ascending by threshold regardless of input order.
func NewRule(params RuleParams) (Rule, error) {
	if issue := ruleIssue(params); issue != "" {
		return Rule{}, pkgerrors.New(pkgerrors.CodeValidation, issue).WithDetails(map[string]any{
			"rule_id": params.ID,
		})
	}

	tiers := make([]Tier, len(params.Tiers))
	copy(tiers, params.Tiers)
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].ThresholdQuantity < tiers[j].ThresholdQuantity
	})

	return Rule{
		ID:          params.ID,
		TenantID:    params.TenantID,
		LocationID:  params.LocationID,
		ProductID:   params.ProductID,
		CategoryID:  params.CategoryID,
		Type:        params.Type,
		Value:       params.Value,
		MinQuantity: params.MinQuantity,
		MaxQuantity: params.MaxQuantity,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
		Priority:    params.Priority,
		Conditions:  params.Conditions,
		Tiers:       tiers,
		Status:      params.Status,
		IsActive:    params.IsActive,
		CreatedBy:   params.CreatedBy,
		UpdatedBy:   params.UpdatedBy,
		CreatedAt:   params.CreatedAt,
		UpdatedAt:   params.UpdatedAt,
	}, nil
}

// integrityIssue re-checks the construction invariants on a rule that may
// have bypassed NewRule (for example, a snapshot deserialized from storage).
// It returns an empty string when the rule is sound.
func (r Rule) integrityIssue() string {
	return ruleIssue(RuleParams{
		ID:          r.ID,
		ProductID:   r.ProductID,
		CategoryID:  r.CategoryID,
		Type:        r.Type,
		Value:       r.Value,
		MinQuantity: r.MinQuantity,
		MaxQuantity: r.MaxQuantity,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Tiers:       r.Tiers,
	})
}

func ruleIssue(params RuleParams) string {
	if !params.Type.IsValid() {
		return fmt.Sprintf("unrecognized rule type %q", params.Type)
	}
	if params.Value.IsNegative() {
		return "rule value must not be negative"
	}
	if params.Type.IsPercentage() && params.Value.GreaterThan(hundred) {
		return "percentage value must not exceed 100"
	}
	if params.ProductID != nil && params.CategoryID != nil {
		return "rule may target a product or a category, not both"
	}
	if params.MinQuantity != nil && params.MaxQuantity != nil && *params.MinQuantity > *params.MaxQuantity {
		return "min quantity exceeds max quantity"
	}
	if params.StartDate != nil && params.EndDate != nil && params.StartDate.After(*params.EndDate) {
		return "start date is after end date"
	}
	for _, tier := range params.Tiers {
		if tier.ThresholdQuantity < 1 {
			return "tier threshold quantity must be at least 1"
		}
		if tier.DiscountPercentage.IsNegative() || tier.DiscountPercentage.GreaterThan(hundred) {
			return "tier discount percentage must be between 0 and 100"
		}
	}
	return ""
}

// Warning records a rule excluded from evaluation for integrity reasons.
type Warning struct {
	RuleID uuid.UUID `json:"rule_id"`
	Reason string    `json:"reason"`
}
