package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradewind-labs/pricing-service/pkg/enums"
)

// RuleCondition is one auxiliary predicate attached to a pricing rule. Value
// holds the comparison operand JSON-encoded so scalars and membership lists
// share a column.
type RuleCondition struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RuleID    uuid.UUID               `gorm:"column:rule_id;type:uuid;not null"`
	Field     string                  `gorm:"column:field;not null"`
	Operator  enums.ConditionOperator `gorm:"column:operator;type:condition_operator;not null"`
	Value     string                  `gorm:"column:value;type:jsonb;not null"`
	Position  int                     `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default gorm pluralization.
func (RuleCondition) TableName() string {
	return "rule_conditions"
}
