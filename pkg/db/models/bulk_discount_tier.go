package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BulkDiscountTier captures one quantity threshold of a bulk-discount rule.
type BulkDiscountTier struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RuleID             uuid.UUID       `gorm:"column:rule_id;type:uuid;not null"`
	ThresholdQuantity  int             `gorm:"column:threshold_quantity;not null"`
	DiscountPercentage decimal.Decimal `gorm:"column:discount_percentage;type:numeric(5,2);not null"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default gorm pluralization.
func (BulkDiscountTier) TableName() string {
	return "bulk_discount_tiers"
}
