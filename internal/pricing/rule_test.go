package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradewind-labs/pricing-service/pkg/enums"
	pkgerrors "github.com/tradewind-labs/pricing-service/pkg/errors"
)

func validParams(mutate func(*RuleParams)) RuleParams {
	params := RuleParams{
		ID:         uuid.New(),
		TenantID:   uuid.New(),
		LocationID: uuid.New(),
		Type:       enums.RuleTypePercentageDiscount,
		Value:      decimal.NewFromInt(10),
		Status:     enums.RuleStatusActive,
		IsActive:   true,
	}
	if mutate != nil {
		mutate(&params)
	}
	return params
}

func TestNewRuleValid(t *testing.T) {
	t.Parallel()

	rule, err := NewRule(validParams(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issue := rule.integrityIssue(); issue != "" {
		t.Fatalf("constructed rule reported integrity issue %q", issue)
	}
}

func TestNewRuleRejectsInvariantViolations(t *testing.T) {
	t.Parallel()

	five, three := 5, 3
	productID, categoryID := uuid.New(), uuid.New()

	tests := []struct {
		name   string
		mutate func(*RuleParams)
	}{
		{"unknown type", func(p *RuleParams) { p.Type = "happy_hour" }},
		{"negative value", func(p *RuleParams) { p.Value = decimal.NewFromInt(-1) }},
		{"percentage over 100", func(p *RuleParams) { p.Value = decimal.NewFromInt(101) }},
		{"both targets set", func(p *RuleParams) {
			p.ProductID = &productID
			p.CategoryID = &categoryID
		}},
		{"min quantity above max", func(p *RuleParams) {
			p.MinQuantity = &five
			p.MaxQuantity = &three
		}},
		{"tier threshold below one", func(p *RuleParams) {
			p.Type = enums.RuleTypeBulkDiscount
			p.Tiers = []Tier{{ThresholdQuantity: 0, DiscountPercentage: decimal.NewFromInt(5)}}
		}},
		{"tier percentage over 100", func(p *RuleParams) {
			p.Type = enums.RuleTypeBulkDiscount
			p.Tiers = []Tier{{ThresholdQuantity: 5, DiscountPercentage: decimal.NewFromInt(120)}}
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewRule(validParams(tt.mutate))
			if err == nil {
				t.Fatal("expected construction to fail")
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestNewRuleAllowsFixedPriceAboveHundred(t *testing.T) {
	t.Parallel()

	params := validParams(func(p *RuleParams) {
		p.Type = enums.RuleTypeFixedPrice
		p.Value = decimal.NewFromInt(2500)
	})
	if _, err := NewRule(params); err != nil {
		t.Fatalf("fixed price is an absolute amount, not a percentage: %v", err)
	}
}

func TestNewRuleSortsTiers(t *testing.T) {
	t.Parallel()

	params := validParams(func(p *RuleParams) {
		p.Type = enums.RuleTypeBulkDiscount
		p.Tiers = []Tier{
			{ThresholdQuantity: 50, DiscountPercentage: decimal.NewFromInt(30)},
			{ThresholdQuantity: 10, DiscountPercentage: decimal.NewFromInt(10)},
			{ThresholdQuantity: 25, DiscountPercentage: decimal.NewFromInt(20)},
		}
	})
	rule, err := NewRule(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(rule.Tiers); i++ {
		if rule.Tiers[i-1].ThresholdQuantity > rule.Tiers[i].ThresholdQuantity {
			t.Fatalf("tiers not sorted ascending: %+v", rule.Tiers)
		}
	}
}

func TestIntegrityIssueOnUnvalidatedSnapshot(t *testing.T) {
	t.Parallel()

	rule := baseRule(func(r *Rule) { r.Value = decimal.NewFromInt(150) })
	if issue := rule.integrityIssue(); issue == "" {
		t.Fatal("expected integrity issue for out-of-range percentage")
	}
}
