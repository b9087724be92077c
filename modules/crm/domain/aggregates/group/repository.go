package group

import (
	"context"

	"github.com/google/uuid"

	"github.com/sproutcrm/sprout-sdk/pkg/serrors"
)

var ErrNotFound = serrors.NewError(serrors.CodeInvalidReference, "group not found")

type FindParams struct {
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Group, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Group, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, g Group) (Group, error)
	Update(ctx context.Context, g Group) (Group, error)
	// Delete removes the group; memberships cascade at the store level.
	Delete(ctx context.Context, id uuid.UUID) error
}
