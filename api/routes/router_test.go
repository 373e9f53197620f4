package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tradewind-labs/pricing-service/internal/pricing"
	"github.com/tradewind-labs/pricing-service/pkg/config"
)

func testRouter() http.Handler {
	cfg := &config.Config{
		App:     config.AppConfig{Env: "test", Port: "8080"},
		Pricing: config.PricingConfig{MaxBatchSize: 10},
	}
	engine := pricing.NewEngine()
	provider := emptyProvider{}
	return NewRouter(cfg, nil, nil, nil, engine, provider)
}

type emptyProvider struct{}

func (emptyProvider) GetCandidateRules(context.Context, pricing.RuleQuery) ([]pricing.Rule, error) {
	return nil, nil
}

func TestHealthLiveRoute(t *testing.T) {
	resp := httptest.NewRecorder()
	testRouter().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Pricing-Env"); got != "test" {
		t.Fatalf("unexpected env header %q", got)
	}
}

func TestMetricsRoute(t *testing.T) {
	resp := httptest.NewRecorder()
	testRouter().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestEvaluateRouteRegistered(t *testing.T) {
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/evaluate", strings.NewReader(`{}`))
	testRouter().ServeHTTP(resp, req)

	// Empty payload fails validation, proving the handler is wired.
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	resp := httptest.NewRecorder()
	testRouter().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
