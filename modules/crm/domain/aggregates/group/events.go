package group

import "github.com/google/uuid"

type CreatedEvent struct {
	Result Group
}

type UpdatedEvent struct {
	Result Group
}

type DeletedEvent struct {
	TenantID uuid.UUID
	GroupID  uuid.UUID
}

// MembersChangedEvent covers single and bulk membership mutations.
type MembersChangedEvent struct {
	TenantID uuid.UUID
	GroupID  uuid.UUID
	Added    int
	Removed  int
}

func NewCreatedEvent(result Group) *CreatedEvent {
	return &CreatedEvent{Result: result}
}

func NewUpdatedEvent(result Group) *UpdatedEvent {
	return &UpdatedEvent{Result: result}
}

func NewDeletedEvent(tenantID, groupID uuid.UUID) *DeletedEvent {
	return &DeletedEvent{TenantID: tenantID, GroupID: groupID}
}

func NewMembersChangedEvent(tenantID, groupID uuid.UUID, added, removed int) *MembersChangedEvent {
	return &MembersChangedEvent{TenantID: tenantID, GroupID: groupID, Added: added, Removed: removed}
}
