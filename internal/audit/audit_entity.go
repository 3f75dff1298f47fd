package audit

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is the materialised trail of workflow events. Rows are written by
// the lifecycle consumer, never by the workflow itself, so audit persistence
// can lag or fail without touching a transition.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Action     string    `gorm:"type:varchar(60);not null;index:idx_audit_logs_action"`
	EntityType string    `gorm:"type:varchar(40);not null"`
	EntityID   string    `gorm:"type:varchar(40);not null;index:idx_audit_logs_entity"`
	ActorID    *string   `gorm:"type:varchar(40)"`
	Detail     string    `gorm:"type:text"`
	OccurredAt time.Time `gorm:"not null;index:idx_audit_logs_occurred_at"`
	CreatedAt  time.Time
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
