package membership

import (
	"time"

	"github.com/google/uuid"
)

// Membership is the join row linking one Contact to one Group. A given
// (groupID, contactID) pair exists at most once per tenant.
type Membership struct {
	tenantID  uuid.UUID
	groupID   uuid.UUID
	contactID uuid.UUID
	createdAt time.Time
}

func New(tenantID, groupID, contactID uuid.UUID) Membership {
	return Membership{
		tenantID:  tenantID,
		groupID:   groupID,
		contactID: contactID,
	}
}

func Hydrate(tenantID, groupID, contactID uuid.UUID, createdAt time.Time) Membership {
	return Membership{
		tenantID:  tenantID,
		groupID:   groupID,
		contactID: contactID,
		createdAt: createdAt,
	}
}

func (m Membership) TenantID() uuid.UUID  { return m.tenantID }
func (m Membership) GroupID() uuid.UUID   { return m.groupID }
func (m Membership) ContactID() uuid.UUID { return m.contactID }
func (m Membership) CreatedAt() time.Time { return m.createdAt }
