package radiograph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/radiographapp/backend/pkg/common/logger"
	"github.com/radiographapp/backend/pkg/observability/metrics"
)

const eventSource = "radiograph-service"

// EventPublisher is satisfied by kafka.Producer. A nil publisher disables
// event emission.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

// Service owns record creation and the original/follow-up relationship.
type Service struct {
	validator *Validator
	guard     *Guard
	cache     *DetailCache
	producer  EventPublisher
	dlq       EventPublisher
}

func NewService(validator *Validator, guard *Guard, cache *DetailCache, producer, dlq EventPublisher) *Service {
	return &Service{
		validator: validator,
		guard:     guard,
		cache:     cache,
		producer:  producer,
		dlq:       dlq,
	}
}

// CreatePrimary persists a new root record. isFollowUp is forced false and any
// supplied originalRecordId is ignored.
func (s *Service) CreatePrimary(ctx context.Context, ownerID uuid.UUID, input RecordInput) (*Record, error) {
	if err := s.validator.Validate(input); err != nil {
		metrics.IncValidationFailures()
		return nil, err
	}

	rec := buildRecord(input)
	scope := s.guard.Scope(ownerID)
	if err := scope.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("persisting record: %w", err)
	}

	metrics.IncRecordsCreated()
	s.publish(ctx, "record.created", eventData(rec))
	return rec, nil
}

// CreateFollowUp persists a follow-up linked to an existing root record owned
// by the same clinician. The original must not itself be a follow-up; the
// relationship tree stays two levels deep.
func (s *Service) CreateFollowUp(ctx context.Context, ownerID uuid.UUID, input RecordInput) (*Record, error) {
	if err := s.validator.Validate(input); err != nil {
		metrics.IncValidationFailures()
		return nil, err
	}
	if input.OriginalRecordID == "" {
		metrics.IncValidationFailures()
		return nil, invalidf("originalRecordId required")
	}
	originalID, err := uuid.Parse(input.OriginalRecordID)
	if err != nil {
		metrics.IncValidationFailures()
		return nil, invalidf("invalid original record")
	}

	scope := s.guard.Scope(ownerID)
	original, err := scope.Get(ctx, originalID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.IncValidationFailures()
			return nil, invalidf("invalid original record")
		}
		return nil, fmt.Errorf("resolving original record: %w", err)
	}
	if original.IsFollowUp {
		metrics.IncValidationFailures()
		return nil, invalidf("original record is itself a follow-up")
	}

	rec := buildRecord(input)
	rec.IsFollowUp = true
	rec.OriginalRecordID = &original.ID

	if err := scope.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("persisting follow-up: %w", err)
	}

	s.cache.Invalidate(ctx, ownerID, original.ID)
	metrics.IncFollowUpsCreated()
	s.publish(ctx, "followup.created", eventData(rec))
	return rec, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*Record, error) {
	return s.guard.Scope(ownerID).Get(ctx, id)
}

// GetWithFollowUps resolves a record and its follow-up set in one call. The
// children list is a query over original_record_id, so it is always consistent
// with what was actually created.
func (s *Service) GetWithFollowUps(ctx context.Context, ownerID, id uuid.UUID) (*Record, error) {
	if rec, ok := s.cache.Get(ctx, ownerID, id); ok {
		return rec, nil
	}

	scope := s.guard.Scope(ownerID)
	rec, err := scope.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rec.IsFollowUp {
		followUps, err := scope.FollowUpsOf(ctx, rec.ID)
		if err != nil {
			return nil, fmt.Errorf("resolving follow-ups: %w", err)
		}
		rec.FollowUps = followUps
	}

	s.cache.Set(ctx, ownerID, rec)
	return rec, nil
}

func (s *Service) ListPrimary(ctx context.Context, ownerID uuid.UUID) ([]Record, error) {
	return s.guard.Scope(ownerID).List(ctx, false)
}

func (s *Service) ListFollowUps(ctx context.Context, ownerID uuid.UUID) ([]Record, error) {
	return s.guard.Scope(ownerID).List(ctx, true)
}

// AppendImage attaches an image reference; uploadedAt is stamped server-side.
func (s *Service) AppendImage(ctx context.Context, ownerID, id uuid.UUID, image ImageRef) (*Record, error) {
	if image.URL == "" {
		metrics.IncValidationFailures()
		return nil, invalidf("image url required")
	}
	if image.Filename == "" {
		metrics.IncValidationFailures()
		return nil, invalidf("image filename required")
	}
	image.UploadedAt = time.Now().UTC()

	rec, err := s.guard.Scope(ownerID).AppendImage(ctx, id, image)
	if err != nil {
		return nil, err
	}

	invalidate := []uuid.UUID{rec.ID}
	if rec.OriginalRecordID != nil {
		invalidate = append(invalidate, *rec.OriginalRecordID)
	}
	s.cache.Invalidate(ctx, ownerID, invalidate...)

	metrics.IncImagesAppended()
	s.publish(ctx, "image.appended", map[string]interface{}{
		"recordId": rec.ID.String(),
		"ownerId":  rec.OwnerID.String(),
		"url":      image.URL,
		"filename": image.Filename,
	})
	return rec, nil
}

func buildRecord(input RecordInput) *Record {
	age := 0
	if input.Age != nil {
		age = *input.Age
	}
	return &Record{
		ID:             uuid.New(),
		PatientName:    input.PatientName,
		Age:            age,
		Sex:            input.Sex,
		Pathomechanism: input.Pathomechanism,
		XrayType:       input.XrayType,
		XrayPattern:    input.XrayPattern,
		Site:           input.Site,
		InjuryType:     input.InjuryType,
		InjuryCount:    input.InjuryCount,
		Notes:          input.Notes,

		PatientRef:    input.PatientRef,
		Diagnosis:     input.Diagnosis,
		ProcedureType: input.ProcedureType,

		AnesthesiaType:            input.AnesthesiaType,
		TourniquetUse:             input.TourniquetUse,
		AntibioticUse:             input.AntibioticUse,
		PreopComorbidities:        input.PreopComorbidities,
		EstimatedBloodLoss:        input.EstimatedBloodLoss,
		IntraopBloodTransfusion:   input.IntraopBloodTransfusion,
		DurationOfSurgery:         input.DurationOfSurgery,
		ComplicationIntraop:       input.ComplicationIntraop,
		DurationOfHospitalStay:    input.DurationOfHospitalStay,
		DischargeAmbulatoryStatus: input.DischargeAmbulatoryStatus,

		NonOperativeType: input.NonOperativeType,
		CastType:         input.CastType,
		BraceType:        input.BraceType,
		AnalgesicGrade:   input.AnalgesicGrade,

		PendingReason:    input.PendingReason,
		PlannedProcedure: input.PlannedProcedure,

		Images: []ImageRef{},
	}
}

func eventData(rec *Record) map[string]interface{} {
	data := map[string]interface{}{
		"recordId":   rec.ID.String(),
		"ownerId":    rec.OwnerID.String(),
		"xrayType":   rec.XrayType,
		"isFollowUp": rec.IsFollowUp,
	}
	if rec.OriginalRecordID != nil {
		data["originalRecordId"] = rec.OriginalRecordID.String()
	}
	return data
}

// publish is best-effort: the record is already committed and the audit trail
// is a downstream projection.
func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishEvent(ctx, eventType, eventSource, data); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Error("failed to publish record event")
		if s.dlq != nil {
			_ = s.dlq.PublishEvent(ctx, eventType, eventSource, data)
		}
	}
}
