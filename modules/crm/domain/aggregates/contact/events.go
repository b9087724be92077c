package contact

import "github.com/google/uuid"

type CreatedEvent struct {
	Result Contact
}

type UpdatedEvent struct {
	Result Contact
}

type DeletedEvent struct {
	TenantID  uuid.UUID
	ContactID uuid.UUID
}

func NewCreatedEvent(result Contact) *CreatedEvent {
	return &CreatedEvent{Result: result}
}

func NewUpdatedEvent(result Contact) *UpdatedEvent {
	return &UpdatedEvent{Result: result}
}

func NewDeletedEvent(tenantID, contactID uuid.UUID) *DeletedEvent {
	return &DeletedEvent{TenantID: tenantID, ContactID: contactID}
}
