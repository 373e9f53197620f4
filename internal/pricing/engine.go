package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/tradewind-labs/pricing-service/pkg/errors"
	"github.com/tradewind-labs/pricing-service/pkg/metrics"
)

// Request is the tuple a caller prices: a target at a location, a quantity,
// a base price, and the moment the evaluation is anchored to. Context carries
// caller-supplied extension fields (customer segment, channel) visible to
// rule conditions alongside the request's own fields.
type Request struct {
	TenantID   uuid.UUID
	LocationID uuid.UUID
	ProductID  *uuid.UUID
	CategoryID *uuid.UUID
	Quantity   int
	BasePrice  decimal.Decimal
	AsOf       time.Time
	Context    map[string]any
}

// Result is the auditable outcome of one evaluation. It is produced fresh
// per call; the engine keeps no reference to it afterward.
type Result struct {
	FinalPrice        decimal.Decimal `json:"final_price"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	AppliedRuleID     *uuid.UUID      `json:"applied_rule_id,omitempty"`
	ConsideredRuleIDs []uuid.UUID     `json:"considered_rule_ids"`
	Warnings          []Warning       `json:"warnings,omitempty"`
}

// BatchItem is one positional slot of a batch evaluation. Exactly one of
// Result and Err is set.
type BatchItem struct {
	Result *Result
	Err    error
}

// RuleQuery identifies the candidate-rule snapshot an evaluation needs.
type RuleQuery struct {
	TenantID   uuid.UUID
	LocationID uuid.UUID
	ProductID  *uuid.UUID
	CategoryID *uuid.UUID
	AsOf       time.Time
}

// RuleProvider supplies the candidate rules for a query. Implementations
// must return every rule structurally relevant to the tenant, location, and
// target; overbroad results are filtered here, but an under-inclusive
// provider silently loses discounts.
type RuleProvider interface {
	GetCandidateRules(ctx context.Context, query RuleQuery) ([]Rule, error)
}

// Engine evaluates pricing rules. It is stateless and free of side effects,
// so a single instance is safe under unbounded concurrent use.
type Engine struct {
	metrics          *metrics.EvaluationMetrics
	batchConcurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics attaches evaluation metrics.
func WithMetrics(m *metrics.EvaluationMetrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithBatchConcurrency bounds how many batch slots evaluate at once.
func WithBatchConcurrency(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.batchConcurrency = limit
		}
	}
}

const defaultBatchConcurrency = 8

// NewEngine builds an evaluation engine.
func NewEngine(opts ...Option) *Engine {
	engine := &Engine{batchConcurrency: defaultBatchConcurrency}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Evaluate computes the effective price for one request against the supplied
// candidate snapshot. Rules failing structural integrity are excluded and
// surfaced as warnings; one malformed rule never aborts the evaluation.
func (e *Engine) Evaluate(req Request, candidates []Rule) (*Result, error) {
	started := time.Now()

	if err := validateRequest(req); err != nil {
		e.metrics.IncRejected()
		return nil, err
	}

	fields := conditionFields(req)

	var (
		applicable []Rule
		warnings   []Warning
	)
	for _, rule := range candidates {
		if issue := rule.integrityIssue(); issue != "" {
			warnings = append(warnings, Warning{RuleID: rule.ID, Reason: issue})
			continue
		}
		if isApplicable(rule, req, fields) {
			applicable = append(applicable, rule)
		}
	}

	winner := selectRule(applicable)

	finalPrice, discount, ok := computePrice(winner, req.BasePrice, req.Quantity)
	if !ok {
		// Unreachable for rules that passed the integrity gate, but a
		// corrupted snapshot must degrade to the base price, flagged.
		warnings = append(warnings, Warning{RuleID: winner.ID, Reason: "unrecognized rule type at calculation"})
		winner = nil
		finalPrice, discount, _ = computePrice(nil, req.BasePrice, req.Quantity)
	}

	result := &Result{
		FinalPrice:        finalPrice,
		DiscountAmount:    discount,
		ConsideredRuleIDs: consideredIDs(applicable),
		Warnings:          warnings,
	}
	if winner != nil {
		id := winner.ID
		result.AppliedRuleID = &id
		e.metrics.IncApplied(winner.Type.String())
	} else {
		e.metrics.IncNoRule()
	}
	e.metrics.AddWarnings(len(warnings))
	e.metrics.ObserveDuration("single", time.Since(started))

	return result, nil
}

// EvaluateBatch evaluates each request independently against its positional
// candidate snapshot. Results correspond positionally to the inputs; a
// faulty request fails only its own slot. Slots evaluate concurrently, which
// cannot change any individual outcome since each reads only its own inputs.
func (e *Engine) EvaluateBatch(ctx context.Context, requests []Request, candidates [][]Rule) ([]BatchItem, error) {
	if len(requests) != len(candidates) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requests and candidate snapshots must align").WithDetails(map[string]any{
			"requests":  len(requests),
			"snapshots": len(candidates),
		})
	}

	started := time.Now()
	items := make([]BatchItem, len(requests))

	var g errgroup.Group
	g.SetLimit(e.batchLimit())
	for i := range requests {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				items[i] = BatchItem{Err: pkgerrors.Wrap(pkgerrors.CodeDependency, err, "batch canceled")}
				return nil
			}
			result, err := e.Evaluate(requests[i], candidates[i])
			items[i] = BatchItem{Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	e.metrics.ObserveDuration("batch", time.Since(started))
	return items, nil
}

func (e *Engine) batchLimit() int {
	if e.batchConcurrency > 0 {
		return e.batchConcurrency
	}
	return defaultBatchConcurrency
}

// validateRequest enforces the caller contract, collecting every violation
// rather than stopping at the first.
func validateRequest(req Request) error {
	var violations error
	if req.BasePrice.IsNegative() {
		violations = multierr.Append(violations, pkgerrors.New(pkgerrors.CodeValidation, "base price must not be negative"))
	}
	if req.Quantity < 1 {
		violations = multierr.Append(violations, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1"))
	}
	return violations
}

// conditionFields assembles the context rule conditions evaluate against:
// the request's own fields plus caller extensions. Request fields win on
// collision.
func conditionFields(req Request) map[string]any {
	fields := make(map[string]any, len(req.Context)+7)
	for key, value := range req.Context {
		fields[key] = value
	}
	fields["tenant_id"] = req.TenantID.String()
	fields["location_id"] = req.LocationID.String()
	if req.ProductID != nil {
		fields["product_id"] = req.ProductID.String()
	}
	if req.CategoryID != nil {
		fields["category_id"] = req.CategoryID.String()
	}
	fields["quantity"] = req.Quantity
	fields["base_price"] = req.BasePrice
	fields["as_of"] = req.AsOf
	return fields
}

func consideredIDs(rules []Rule) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rules))
	for _, rule := range rules {
		ids = append(ids, rule.ID)
	}
	return ids
}
