package rules

import (
	"context"

	"gorm.io/gorm"

	"github.com/tradewind-labs/pricing-service/internal/pricing"
	"github.com/tradewind-labs/pricing-service/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pricing-rule repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindCandidateRules returns every rule structurally relevant to the query:
// rules for the tenant and location whose target is the queried product, the
// queried category, or unset. Window and condition filtering stays with the
// evaluation engine.
func (r *repository) FindCandidateRules(ctx context.Context, query pricing.RuleQuery) ([]models.PricingRule, error) {
	q := r.db.WithContext(ctx).
		Preload("Tiers", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("threshold_quantity ASC")
		}).
		Preload("Conditions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Where("tenant_id = ?", query.TenantID).
		Where("location_id = ?", query.LocationID)

	target := r.db.Where("product_id IS NULL AND category_id IS NULL")
	if query.ProductID != nil {
		target = target.Or("product_id = ?", *query.ProductID)
	}
	if query.CategoryID != nil {
		target = target.Or("category_id = ?", *query.CategoryID)
	}
	q = q.Where(target)

	var rules []models.PricingRule
	if err := q.Order("created_at ASC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repository) FindRuleByID(ctx context.Context, query pricing.RuleQuery, id string) (*models.PricingRule, error) {
	var rule models.PricingRule
	err := r.db.WithContext(ctx).
		Preload("Tiers").
		Preload("Conditions").
		Where("tenant_id = ?", query.TenantID).
		Where("id = ?", id).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) CountRulesForTenant(ctx context.Context, query pricing.RuleQuery) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PricingRule{}).
		Where("tenant_id = ?", query.TenantID).
		Where("location_id = ?", query.LocationID).
		Count(&count).Error
	return count, err
}
