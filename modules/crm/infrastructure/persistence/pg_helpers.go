package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sproutcrm/sprout-sdk/pkg/composables"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// tenantScope resolves the authenticated tenant and the query surface for
// the current context. Every repository method starts here so no query can
// run unscoped.
func tenantScope(ctx context.Context) (uuid.UUID, composables.DBTx, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to get tenant from context: %w", err)
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return tenantID, tx, nil
}
