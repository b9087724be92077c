package contact

import (
	"context"

	"github.com/google/uuid"

	"github.com/sproutcrm/sprout-sdk/pkg/serrors"
)

var (
	ErrNotFound   = serrors.NewError(serrors.CodeInvalidReference, "contact not found")
	ErrEmailTaken = serrors.NewError(serrors.CodeDuplicateConflict, "a contact with this email already exists")
)

type FindParams struct {
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Contact, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Contact, error)
	GetByEmail(ctx context.Context, email string) (Contact, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistAll(ctx context.Context, ids []uuid.UUID) (bool, error)
	Create(ctx context.Context, c Contact) (Contact, error)
	Update(ctx context.Context, c Contact) (Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
