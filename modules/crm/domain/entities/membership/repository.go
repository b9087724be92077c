package membership

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Add inserts the pair; inserting an existing pair is a no-op and
	// reports false.
	Add(ctx context.Context, groupID, contactID uuid.UUID) (added bool, err error)
	// Remove deletes the pair if present and reports whether a row went away.
	Remove(ctx context.Context, groupID, contactID uuid.UUID) (removed bool, err error)
	// AddMany inserts every pair not already present and returns how many
	// rows were actually created.
	AddMany(ctx context.Context, groupID uuid.UUID, contactIDs []uuid.UUID) (added int64, err error)
	// RemoveMany deletes all matching pairs in one statement and returns the
	// number of rows removed.
	RemoveMany(ctx context.Context, groupID uuid.UUID, contactIDs []uuid.UUID) (removed int64, err error)
	// FilterMembers returns the subset of contactIDs already in the group.
	FilterMembers(ctx context.Context, groupID uuid.UUID, contactIDs []uuid.UUID) (map[uuid.UUID]struct{}, error)
	Exists(ctx context.Context, groupID, contactID uuid.UUID) (bool, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]Membership, error)
	ListByContact(ctx context.Context, contactID uuid.UUID) ([]Membership, error)
	CountByGroup(ctx context.Context, groupID uuid.UUID) (int64, error)
}
