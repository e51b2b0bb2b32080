package audit

import (
	"context"
	"fmt"

	"github.com/radiographapp/backend/pkg/common/logger"
	"github.com/radiographapp/backend/pkg/common/models"
	"github.com/radiographapp/backend/pkg/observability/metrics"
	"gorm.io/datatypes"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// HandleEvent projects one record event into the audit trail. Duplicate
// deliveries are dropped silently.
func (s *Service) HandleEvent(ctx context.Context, event models.Event) error {
	if event.ID == "" {
		return fmt.Errorf("event missing id")
	}

	entry := &Entry{
		EventID:   event.ID,
		EventType: event.Type,
		ActorID:   stringField(event.Data, "ownerId"),
		RecordID:  stringField(event.Data, "recordId"),
		Payload:   datatypes.JSONMap(event.Data),
	}

	written, err := s.repo.Create(ctx, entry)
	if err != nil {
		return fmt.Errorf("persisting audit entry: %w", err)
	}
	if !written {
		logger.Log.WithField("event_id", event.ID).Debug("duplicate event skipped")
		return nil
	}

	metrics.IncAuditEntries()
	return nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return s.repo.ListRecent(ctx, limit)
}

func stringField(data map[string]interface{}, key string) string {
	if data == nil {
		return ""
	}
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
