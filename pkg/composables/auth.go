package composables

import (
	"context"

	"github.com/google/uuid"

	"github.com/sproutcrm/sprout-sdk/pkg/constants"
	"github.com/sproutcrm/sprout-sdk/pkg/serrors"
)

// Tenant is the owning scope of every Contact, Group and Membership row.
type Tenant struct {
	ID   uuid.UUID
	Name string
}

// WithTenantID returns a new context carrying the authenticated tenant.
func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.TenantIDKey, tenantID)
}

// UseTenantID resolves the authenticated tenant for the current operation.
// Every store query must be filtered by the returned id. A missing or nil
// tenant fails with UNAUTHENTICATED before any storage is touched.
func UseTenantID(ctx context.Context) (uuid.UUID, error) {
	v := ctx.Value(constants.TenantIDKey)
	if v == nil {
		return uuid.Nil, serrors.ErrUnauthenticated
	}
	tenantID, ok := v.(uuid.UUID)
	if !ok || tenantID == uuid.Nil {
		return uuid.Nil, serrors.ErrUnauthenticated
	}
	return tenantID, nil
}
