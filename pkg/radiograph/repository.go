package radiograph

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound covers both a nonexistent record and a record owned by another
// clinician; callers cannot tell the two apart.
var ErrNotFound = errors.New("radiograph record not found")

// Store is the owner-scoped persistence contract. Every operation takes the
// owner id and must never return data belonging to anyone else.
type Store interface {
	Create(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id, ownerID uuid.UUID) (*Record, error)
	List(ctx context.Context, ownerID uuid.UUID, isFollowUp bool) ([]Record, error)
	FollowUpsOf(ctx context.Context, ownerID, originalID uuid.UUID) ([]Record, error)
	AppendImage(ctx context.Context, id, ownerID uuid.UUID, image ImageRef) (*Record, error)
}

type Repository struct {
	db *gorm.DB
}

var _ Store = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Record{})
}

func (r *Repository) Create(ctx context.Context, rec *Record) error {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if rec.Images == nil {
		rec.Images = []ImageRef{}
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *Repository) Get(ctx context.Context, id, ownerID uuid.UUID) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) List(ctx context.Context, ownerID uuid.UUID, isFollowUp bool) ([]Record, error) {
	recs := []Record{}
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_follow_up = ?", ownerID, isFollowUp).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *Repository) FollowUpsOf(ctx context.Context, ownerID, originalID uuid.UUID) ([]Record, error) {
	recs := []Record{}
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND original_record_id = ?", ownerID, originalID).
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// AppendImage takes a row lock so concurrent appends against the same record
// cannot lose entries.
func (r *Repository) AppendImage(ctx context.Context, id, ownerID uuid.UUID, image ImageRef) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND owner_id = ?", id, ownerID).
			First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		rec.Images = append(rec.Images, image)
		rec.UpdatedAt = time.Now().UTC()
		return tx.Model(&Record{}).
			Where("id = ?", rec.ID).
			Updates(map[string]interface{}{
				"images":     rec.Images,
				"updated_at": rec.UpdatedAt,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
