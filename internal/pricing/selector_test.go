package pricing

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSelectRuleEmptyInput(t *testing.T) {
	t.Parallel()

	if winner := selectRule(nil); winner != nil {
		t.Fatalf("expected nil winner for empty input, got %+v", winner)
	}
}

func TestSelectRulePriorityWins(t *testing.T) {
	t.Parallel()

	low := baseRule(func(r *Rule) { r.Priority = 5 })
	high := baseRule(func(r *Rule) { r.Priority = 10 })

	for _, order := range [][]Rule{{low, high}, {high, low}} {
		winner := selectRule(order)
		if winner == nil || winner.ID != high.ID {
			t.Fatalf("expected higher priority rule regardless of order, got %+v", winner)
		}
	}
}

func TestSelectRuleSpecificityBreaksTies(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	categoryID := uuid.New()

	global := baseRule(nil)
	category := baseRule(func(r *Rule) { r.CategoryID = &categoryID })
	product := baseRule(func(r *Rule) { r.ProductID = &productID })

	winner := selectRule([]Rule{global, category, product})
	if winner == nil || winner.ID != product.ID {
		t.Fatalf("expected product-targeted rule to win, got %+v", winner)
	}

	winner = selectRule([]Rule{global, category})
	if winner == nil || winner.ID != category.ID {
		t.Fatalf("expected category rule to beat global, got %+v", winner)
	}
}

func TestSelectRuleOlderRuleBreaksTies(t *testing.T) {
	t.Parallel()

	older := baseRule(func(r *Rule) {
		r.CreatedAt = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	})
	newer := baseRule(func(r *Rule) {
		r.CreatedAt = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	})

	for _, order := range [][]Rule{{older, newer}, {newer, older}} {
		winner := selectRule(order)
		if winner == nil || winner.ID != older.ID {
			t.Fatalf("expected older rule to win the tie, got %+v", winner)
		}
	}
}

func TestSelectRuleDeterministicUnderShuffle(t *testing.T) {
	t.Parallel()

	// identical priority, specificity, and creation time: only the id
	// fallback separates them, so the pick must be stable across shuffles
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rules := make([]Rule, 6)
	for i := range rules {
		rules[i] = baseRule(func(r *Rule) { r.CreatedAt = created })
	}

	first := selectRule(rules)
	if first == nil {
		t.Fatal("expected a winner")
	}

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]Rule, len(rules))
		copy(shuffled, rules)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		winner := selectRule(shuffled)
		if winner == nil || winner.ID != first.ID {
			t.Fatalf("trial %d picked %v, expected %v", trial, winner.ID, first.ID)
		}
	}
}
