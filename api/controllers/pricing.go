package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradewind-labs/pricing-service/api/responses"
	"github.com/tradewind-labs/pricing-service/api/validators"
	"github.com/tradewind-labs/pricing-service/internal/pricing"
	pkgerrors "github.com/tradewind-labs/pricing-service/pkg/errors"
	"github.com/tradewind-labs/pricing-service/pkg/logger"
	"github.com/tradewind-labs/pricing-service/pkg/types"
)

// Evaluator is the engine surface the pricing handlers need.
type Evaluator interface {
	Evaluate(req pricing.Request, candidates []pricing.Rule) (*pricing.Result, error)
	EvaluateBatch(ctx context.Context, requests []pricing.Request, candidates [][]pricing.Rule) ([]pricing.BatchItem, error)
}

type evaluateRequest struct {
	TenantID   uuid.UUID       `json:"tenant_id" validate:"required"`
	LocationID uuid.UUID       `json:"location_id" validate:"required"`
	ProductID  *uuid.UUID      `json:"product_id"`
	CategoryID *uuid.UUID      `json:"category_id"`
	Quantity   int             `json:"quantity" validate:"required,min=1"`
	BasePrice  decimal.Decimal `json:"base_price"`
	AsOf       *time.Time      `json:"as_of"`
	Context    map[string]any  `json:"context"`
}

func (r evaluateRequest) toRequest() pricing.Request {
	asOf := time.Now().UTC()
	if r.AsOf != nil {
		asOf = r.AsOf.UTC()
	}
	return pricing.Request{
		TenantID:   r.TenantID,
		LocationID: r.LocationID,
		ProductID:  r.ProductID,
		CategoryID: r.CategoryID,
		Quantity:   r.Quantity,
		BasePrice:  r.BasePrice,
		AsOf:       asOf,
		Context:    r.Context,
	}
}

func (r evaluateRequest) toQuery(asOf time.Time) pricing.RuleQuery {
	return pricing.RuleQuery{
		TenantID:   r.TenantID,
		LocationID: r.LocationID,
		ProductID:  r.ProductID,
		CategoryID: r.CategoryID,
		AsOf:       asOf,
	}
}

// PricingEvaluate handles single price evaluation.
func PricingEvaluate(engine Evaluator, provider pricing.RuleProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil || provider == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing engine unavailable"))
			return
		}

		var payload evaluateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req := payload.toRequest()
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithTenantID(ctx, req.TenantID.String())
			ctx = logg.WithLocationID(ctx, req.LocationID.String())
		}

		candidates, err := provider.GetCandidateRules(ctx, payload.toQuery(req.AsOf))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := engine.Evaluate(req, candidates)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type batchEvaluateRequest struct {
	Items []evaluateRequest `json:"items" validate:"required,min=1,dive"`
}

type batchSlotResponse struct {
	Result *pricing.Result `json:"result,omitempty"`
	Error  *types.APIError `json:"error,omitempty"`
}

// PricingEvaluateBatch handles positional batch evaluation. Slot failures are
// reported in place; the batch itself only fails on a malformed envelope or
// an oversized batch.
func PricingEvaluateBatch(engine Evaluator, provider pricing.RuleProvider, maxItems int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil || provider == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing engine unavailable"))
			return
		}

		var payload batchEvaluateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if maxItems > 0 && len(payload.Items) > maxItems {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "batch exceeds maximum size").WithDetails(map[string]any{
				"max_items": maxItems,
				"items":     len(payload.Items),
			}))
			return
		}

		ctx := r.Context()
		requests := make([]pricing.Request, len(payload.Items))
		candidates := make([][]pricing.Rule, len(payload.Items))
		for i, item := range payload.Items {
			requests[i] = item.toRequest()
			rules, err := provider.GetCandidateRules(ctx, item.toQuery(requests[i].AsOf))
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			candidates[i] = rules
		}

		items, err := engine.EvaluateBatch(ctx, requests, candidates)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		slots := make([]batchSlotResponse, len(items))
		for i, item := range items {
			slots[i] = newBatchSlotResponse(item)
		}
		responses.WriteSuccess(w, map[string]any{"items": slots})
	}
}

func newBatchSlotResponse(item pricing.BatchItem) batchSlotResponse {
	if item.Err == nil {
		return batchSlotResponse{Result: item.Result}
	}

	typed := pkgerrors.As(item.Err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, item.Err, "unexpected error")
	}
	apiErr := &types.APIError{
		Code:    string(typed.Code()),
		Message: typed.Message(),
	}
	if meta := pkgerrors.MetadataFor(typed.Code()); meta.DetailsAllowed {
		apiErr.Details = typed.Details()
	}
	return batchSlotResponse{Error: apiErr}
}
