package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Entry is one projected record event. EventID keeps the projection
// idempotent across consumer retries.
type Entry struct {
	ID        uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	EventID   string            `json:"eventId" gorm:"uniqueIndex"`
	EventType string            `json:"eventType" gorm:"index"`
	ActorID   string            `json:"actorId" gorm:"index"`
	RecordID  string            `json:"recordId" gorm:"index"`
	Payload   datatypes.JSONMap `json:"payload" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"createdAt"`
}

func (Entry) TableName() string {
	return "audit_entries"
}
