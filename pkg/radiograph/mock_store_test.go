package radiograph

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Compile-time check to ensure memStore satisfies the Store contract.
var _ Store = (*memStore)(nil)

// memStore is an in-memory Store used by service and handler tests. It
// mirrors the repository's owner scoping and ordering behaviour.
type memStore struct {
	mu   sync.Mutex
	recs map[uuid.UUID]Record
	base time.Time
	seq  int
}

func newMemStore() *memStore {
	return &memStore{
		recs: make(map[uuid.UUID]Record),
		base: time.Now().UTC(),
	}
}

func (m *memStore) Create(ctx context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	rec.CreatedAt = m.base.Add(time.Duration(m.seq) * time.Millisecond)
	rec.UpdatedAt = rec.CreatedAt
	if rec.Images == nil {
		rec.Images = []ImageRef{}
	}
	m.recs[rec.ID] = *rec
	return nil
}

func (m *memStore) Get(ctx context.Context, id, ownerID uuid.UUID) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.recs[id]
	if !ok || rec.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	copied := rec
	return &copied, nil
}

func (m *memStore) List(ctx context.Context, ownerID uuid.UUID, isFollowUp bool) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Record{}
	for _, rec := range m.recs {
		if rec.OwnerID == ownerID && rec.IsFollowUp == isFollowUp {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memStore) FollowUpsOf(ctx context.Context, ownerID, originalID uuid.UUID) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Record{}
	for _, rec := range m.recs {
		if rec.OwnerID == ownerID && rec.OriginalRecordID != nil && *rec.OriginalRecordID == originalID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memStore) AppendImage(ctx context.Context, id, ownerID uuid.UUID, image ImageRef) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.recs[id]
	if !ok || rec.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	rec.Images = append(rec.Images, image)
	rec.UpdatedAt = time.Now().UTC()
	m.recs[id] = rec
	copied := rec
	return &copied, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs)
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	Type string
	Data map[string]interface{}
}

func (p *capturePublisher) PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{Type: eventType, Data: data})
	return nil
}

func (p *capturePublisher) captured() []capturedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]capturedEvent, len(p.events))
	copy(out, p.events)
	return out
}

func intPtr(v int) *int {
	return &v
}

func validInput() RecordInput {
	return RecordInput{
		PatientName:    "Jane Doe",
		Age:            intPtr(34),
		Sex:            "female",
		Pathomechanism: "fall",
		XrayType:       "wrist",
		XrayPattern:    "transverse",
		InjuryType:     "close",
		InjuryCount:    "isolated",
	}
}
