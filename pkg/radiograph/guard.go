package radiograph

import (
	"context"

	"github.com/google/uuid"
)

// Guard is the tenant isolation boundary. All access to the Store goes through
// a Scoped handle bound to one authenticated clinician; no other code path may
// pass an owner id into the store.
type Guard struct {
	store Store
}

func NewGuard(store Store) *Guard {
	return &Guard{store: store}
}

func (g *Guard) Scope(ownerID uuid.UUID) Scoped {
	return Scoped{store: g.store, ownerID: ownerID}
}

// Scoped mirrors the Store operations with the owner id already attached.
type Scoped struct {
	store   Store
	ownerID uuid.UUID
}

func (s Scoped) OwnerID() uuid.UUID {
	return s.ownerID
}

// Create force-sets the owner; whatever the record carried before is
// discarded.
func (s Scoped) Create(ctx context.Context, rec *Record) error {
	rec.OwnerID = s.ownerID
	return s.store.Create(ctx, rec)
}

func (s Scoped) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.store.Get(ctx, id, s.ownerID)
}

func (s Scoped) List(ctx context.Context, isFollowUp bool) ([]Record, error) {
	return s.store.List(ctx, s.ownerID, isFollowUp)
}

func (s Scoped) FollowUpsOf(ctx context.Context, originalID uuid.UUID) ([]Record, error) {
	return s.store.FollowUpsOf(ctx, s.ownerID, originalID)
}

func (s Scoped) AppendImage(ctx context.Context, id uuid.UUID, image ImageRef) (*Record, error) {
	return s.store.AppendImage(ctx, id, s.ownerID, image)
}
