package pricing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradewind-labs/pricing-service/pkg/enums"
	pkgerrors "github.com/tradewind-labs/pricing-service/pkg/errors"
)

func TestEvaluateNoCandidates(t *testing.T) {
	t.Parallel()

	engine := NewEngine()
	result, err := engine.Evaluate(baseRequest(nil), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decEqual(t, result.FinalPrice, "100")
	decEqual(t, result.DiscountAmount, "0")
	if result.AppliedRuleID != nil {
		t.Fatalf("expected no applied rule, got %s", result.AppliedRuleID)
	}
	if len(result.ConsideredRuleIDs) != 0 {
		t.Fatalf("expected no considered rules, got %v", result.ConsideredRuleIDs)
	}
}

func TestEvaluateRejectsInvalidRequest(t *testing.T) {
	t.Parallel()

	engine := NewEngine()

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"negative base price", func(r *Request) { r.BasePrice = decimal.NewFromInt(-1) }},
		{"zero quantity", func(r *Request) { r.Quantity = 0 }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := engine.Evaluate(baseRequest(tt.mutate), nil)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestEvaluateCollectsEveryViolation(t *testing.T) {
	t.Parallel()

	engine := NewEngine()
	_, err := engine.Evaluate(baseRequest(func(r *Request) {
		r.BasePrice = decimal.NewFromInt(-5)
		r.Quantity = 0
	}), nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "base price") || !strings.Contains(msg, "quantity") {
		t.Fatalf("expected both violations reported, got %q", msg)
	}
}

func TestEvaluatePriorityPrecedence(t *testing.T) {
	t.Parallel()

	low := baseRule(func(r *Rule) {
		r.Priority = 5
		r.Value = decimal.NewFromInt(10)
	})
	high := baseRule(func(r *Rule) {
		r.Priority = 10
		r.Value = decimal.NewFromInt(20)
	})

	engine := NewEngine()
	result, err := engine.Evaluate(baseRequest(nil), []Rule{low, high})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AppliedRuleID == nil || *result.AppliedRuleID != high.ID {
		t.Fatalf("expected priority 10 rule %s to win, got %v", high.ID, result.AppliedRuleID)
	}
	decEqual(t, result.FinalPrice, "80")
	decEqual(t, result.DiscountAmount, "20")
	if len(result.ConsideredRuleIDs) != 2 {
		t.Fatalf("both rules were applicable, got considered %v", result.ConsideredRuleIDs)
	}
}

func TestEvaluateExpiredWindowFallsBackToBase(t *testing.T) {
	t.Parallel()

	ended := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	rule := baseRule(func(r *Rule) { r.EndDate = &ended })

	engine := NewEngine()
	result, err := engine.Evaluate(baseRequest(nil), []Rule{rule})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AppliedRuleID != nil {
		t.Fatalf("rule window ended before the request moment, got applied %s", result.AppliedRuleID)
	}
	decEqual(t, result.FinalPrice, "100")
	decEqual(t, result.DiscountAmount, "0")
	if len(result.ConsideredRuleIDs) != 0 {
		t.Fatalf("expired rule must not be considered, got %v", result.ConsideredRuleIDs)
	}
}

func TestEvaluateExcludesMalformedRuleWithWarning(t *testing.T) {
	t.Parallel()

	malformed := baseRule(func(r *Rule) { r.Value = decimal.NewFromInt(150) })
	sound := baseRule(func(r *Rule) { r.Value = decimal.NewFromInt(10) })

	engine := NewEngine()
	result, err := engine.Evaluate(baseRequest(nil), []Rule{malformed, sound})
	if err != nil {
		t.Fatalf("one malformed rule must not abort evaluation: %v", err)
	}
	if result.AppliedRuleID == nil || *result.AppliedRuleID != sound.ID {
		t.Fatalf("expected the sound rule to apply, got %v", result.AppliedRuleID)
	}
	decEqual(t, result.FinalPrice, "90")
	if len(result.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", result.Warnings)
	}
	if result.Warnings[0].RuleID != malformed.ID {
		t.Fatalf("warning names the wrong rule: %+v", result.Warnings[0])
	}
	for _, id := range result.ConsideredRuleIDs {
		if id == malformed.ID {
			t.Fatal("malformed rule leaked into considered set")
		}
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	t.Parallel()

	rules := []Rule{
		baseRule(func(r *Rule) { r.Priority = 3 }),
		baseRule(func(r *Rule) {
			r.Type = enums.RuleTypeMarkup
			r.Value = decimal.NewFromInt(15)
			r.Priority = 7
		}),
	}
	req := baseRequest(func(r *Request) { r.Quantity = 4 })

	engine := NewEngine()
	first, err := engine.Evaluate(req, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := engine.Evaluate(req, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.FinalPrice.Equal(second.FinalPrice) || !first.DiscountAmount.Equal(second.DiscountAmount) {
		t.Fatalf("identical inputs priced differently: %v vs %v", first, second)
	}
	if (first.AppliedRuleID == nil) != (second.AppliedRuleID == nil) {
		t.Fatalf("applied rule diverged: %v vs %v", first.AppliedRuleID, second.AppliedRuleID)
	}
	if first.AppliedRuleID != nil && *first.AppliedRuleID != *second.AppliedRuleID {
		t.Fatalf("applied rule diverged: %s vs %s", first.AppliedRuleID, second.AppliedRuleID)
	}
}

func TestEvaluateBulkTierEndToEnd(t *testing.T) {
	t.Parallel()

	rule := baseRule(func(r *Rule) {
		r.Type = enums.RuleTypeBulkDiscount
		r.Value = decimal.NewFromInt(5)
		r.Tiers = []Tier{
			{ThresholdQuantity: 10, DiscountPercentage: decimal.NewFromInt(10)},
			{ThresholdQuantity: 25, DiscountPercentage: decimal.NewFromInt(20)},
		}
	})
	req := baseRequest(func(r *Request) {
		r.Quantity = 25
		r.BasePrice = decimal.NewFromInt(200)
	})

	engine := NewEngine()
	result, err := engine.Evaluate(req, []Rule{rule})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decEqual(t, result.FinalPrice, "160")
	decEqual(t, result.DiscountAmount, "40")
}

func TestEvaluateConditionGatesRule(t *testing.T) {
	t.Parallel()

	rule := baseRule(func(r *Rule) {
		r.Conditions = []Condition{
			{Field: "customer_segment", Operator: enums.OperatorEquals, Value: "wholesale"},
		}
	})

	engine := NewEngine()

	miss, err := engine.Evaluate(baseRequest(nil), []Rule{rule})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if miss.AppliedRuleID != nil {
		t.Fatal("condition field absent from request, rule must not apply")
	}

	hit, err := engine.Evaluate(baseRequest(func(r *Request) {
		r.Context = map[string]any{"customer_segment": "wholesale"}
	}), []Rule{rule})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hit.AppliedRuleID == nil || *hit.AppliedRuleID != rule.ID {
		t.Fatalf("expected rule to apply for wholesale segment, got %v", hit.AppliedRuleID)
	}
}

func TestEvaluateBatchPositionalResults(t *testing.T) {
	t.Parallel()

	rule := baseRule(nil)
	requests := []Request{
		baseRequest(nil),
		baseRequest(func(r *Request) { r.BasePrice = decimal.NewFromInt(50) }),
		baseRequest(func(r *Request) { r.Quantity = 0 }),
	}
	candidates := [][]Rule{{rule}, {rule}, {rule}}

	engine := NewEngine(WithBatchConcurrency(2))
	items, err := engine.EvaluateBatch(context.Background(), requests, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(items))
	}

	if items[0].Err != nil {
		t.Fatalf("slot 0 failed: %v", items[0].Err)
	}
	decEqual(t, items[0].Result.FinalPrice, "90")

	if items[1].Err != nil {
		t.Fatalf("slot 1 failed: %v", items[1].Err)
	}
	decEqual(t, items[1].Result.FinalPrice, "45")

	if items[2].Err == nil {
		t.Fatal("slot 2 carried an invalid request and must fail alone")
	}
	if items[2].Result != nil {
		t.Fatal("failed slot must not also carry a result")
	}
}

func TestEvaluateBatchLengthMismatch(t *testing.T) {
	t.Parallel()

	engine := NewEngine()
	_, err := engine.EvaluateBatch(context.Background(), []Request{baseRequest(nil)}, nil)
	if err == nil {
		t.Fatal("expected length mismatch to fail the whole batch")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestEvaluateBatchMatchesSequential(t *testing.T) {
	t.Parallel()

	rules := []Rule{
		baseRule(func(r *Rule) { r.Priority = 1 }),
		baseRule(func(r *Rule) {
			r.Type = enums.RuleTypeFixedPrice
			r.Value = decimal.NewFromInt(42)
			r.Priority = 9
		}),
	}

	const n = 32
	requests := make([]Request, n)
	candidates := make([][]Rule, n)
	for i := range requests {
		requests[i] = baseRequest(func(r *Request) {
			r.BasePrice = decimal.NewFromInt(int64(60 + i))
		})
		candidates[i] = rules
	}

	engine := NewEngine(WithBatchConcurrency(4))
	items, err := engine.EvaluateBatch(context.Background(), requests, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, item := range items {
		if item.Err != nil {
			t.Fatalf("slot %d failed: %v", i, item.Err)
		}
		sequential, err := engine.Evaluate(requests[i], candidates[i])
		if err != nil {
			t.Fatalf("sequential evaluation of slot %d failed: %v", i, err)
		}
		if !item.Result.FinalPrice.Equal(sequential.FinalPrice) {
			t.Fatalf("slot %d diverged from sequential evaluation: %v vs %v", i, item.Result.FinalPrice, sequential.FinalPrice)
		}
	}
}

func TestEvaluateBatchCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine()
	items, err := engine.EvaluateBatch(ctx, []Request{baseRequest(nil)}, [][]Rule{nil})
	if err != nil {
		t.Fatalf("cancellation surfaces per slot, not as a batch error: %v", err)
	}
	if items[0].Err == nil {
		t.Fatal("expected canceled slot to carry an error")
	}
}
