package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradewind-labs/pricing-service/pkg/enums"
)

// PricingRule is the persisted form of a tenant-configured pricing adjustment.
// At most one of ProductID/CategoryID may be set; both nil means the rule is
// global for its tenant and location.
type PricingRule struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID   uuid.UUID  `gorm:"column:tenant_id;type:uuid;not null"`
	LocationID uuid.UUID  `gorm:"column:location_id;type:uuid;not null"`
	ProductID  *uuid.UUID `gorm:"column:product_id;type:uuid"`
	CategoryID *uuid.UUID `gorm:"column:category_id;type:uuid"`

	RuleType enums.RuleType  `gorm:"column:rule_type;type:rule_type;not null"`
	Value    decimal.Decimal `gorm:"column:value;type:numeric(12,4);not null"`

	MinQuantity *int       `gorm:"column:min_quantity"`
	MaxQuantity *int       `gorm:"column:max_quantity"`
	StartDate   *time.Time `gorm:"column:start_date"`
	EndDate     *time.Time `gorm:"column:end_date"`

	Priority int              `gorm:"column:priority;not null;default:0"`
	Status   enums.RuleStatus `gorm:"column:status;type:rule_status;not null;default:'active'"`
	IsActive bool             `gorm:"column:is_active;not null;default:true"`

	Tiers      []BulkDiscountTier `gorm:"foreignKey:RuleID;constraint:OnDelete:CASCADE"`
	Conditions []RuleCondition    `gorm:"foreignKey:RuleID;constraint:OnDelete:CASCADE"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid"`
	UpdatedBy uuid.UUID `gorm:"column:updated_by;type:uuid"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default gorm pluralization.
func (PricingRule) TableName() string {
	return "pricing_rules"
}
