package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/aggregates/contact"
	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/aggregates/group"
	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/entities/membership"
	"github.com/sproutcrm/sprout-sdk/pkg/composables"
	"github.com/sproutcrm/sprout-sdk/pkg/eventbus"
	"github.com/sproutcrm/sprout-sdk/pkg/metrics"
	"github.com/sproutcrm/sprout-sdk/pkg/serrors"
)

type BulkAddResult struct {
	AddedCount     int `json:"addedCount"`
	SkippedCount   int `json:"skippedCount"`
	TotalRequested int `json:"totalRequested"`
}

type BulkRemoveResult struct {
	RemovedCount   int `json:"removedCount"`
	TotalRequested int `json:"totalRequested"`
}

// MembershipService synchronizes the contact-group relation. All operations
// are idempotent with respect to the membership state they establish: adding
// an existing member or removing an absent one is success, not an error.
type MembershipService struct {
	memberships membership.Repository
	groups      group.Repository
	contacts    contact.Repository
	publisher   eventbus.EventBus
}

func NewMembershipService(
	memberships membership.Repository,
	groups group.Repository,
	contacts contact.Repository,
	publisher eventbus.EventBus,
) *MembershipService {
	return &MembershipService{
		memberships: memberships,
		groups:      groups,
		contacts:    contacts,
		publisher:   publisher,
	}
}

// requireGroup verifies the group exists within the caller's tenant.
func (s *MembershipService) requireGroup(ctx context.Context, groupID uuid.UUID) error {
	exists, err := s.groups.Exists(ctx, groupID)
	if err != nil {
		return err
	}
	if !exists {
		return group.ErrNotFound
	}
	return nil
}

// AddMember links a contact to a group. Both must belong to the caller's
// tenant. Adding an existing member succeeds without creating a duplicate.
func (s *MembershipService) AddMember(ctx context.Context, groupID, contactID uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	if err := s.requireGroup(ctx, groupID); err != nil {
		return err
	}
	ok, err := s.contacts.ExistAll(ctx, []uuid.UUID{contactID})
	if err != nil {
		return err
	}
	if !ok {
		return contact.ErrNotFound
	}

	added, err := s.memberships.Add(ctx, groupID, contactID)
	if err != nil {
		return err
	}

	metrics.MembershipOpsTotal.WithLabelValues("add").Inc()
	if added {
		s.publisher.Publish(group.NewMembersChangedEvent(tenantID, groupID, 1, 0))
	}
	return nil
}

// RemoveMember unlinks a contact from a group. Absence of the membership is
// not an error.
func (s *MembershipService) RemoveMember(ctx context.Context, groupID, contactID uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	if err := s.requireGroup(ctx, groupID); err != nil {
		return err
	}

	removed, err := s.memberships.Remove(ctx, groupID, contactID)
	if err != nil {
		return err
	}

	metrics.MembershipOpsTotal.WithLabelValues("remove").Inc()
	if removed {
		s.publisher.Publish(group.NewMembersChangedEvent(tenantID, groupID, 0, 1))
	}
	return nil
}

// BulkAddMembers links many contacts to one group. The whole id set is
// validated against the tenant's contacts before any write: one foreign or
// missing id rejects the entire call and leaves the store unchanged. Ids
// already in the group are counted as skipped, not re-inserted.
func (s *MembershipService) BulkAddMembers(ctx context.Context, groupID uuid.UUID, contactIDs []uuid.UUID) (BulkAddResult, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return BulkAddResult{}, err
	}
	if len(contactIDs) == 0 {
		return BulkAddResult{}, serrors.NewError(serrors.CodeValidation, "contact_ids must not be empty")
	}
	if err := s.requireGroup(ctx, groupID); err != nil {
		return BulkAddResult{}, err
	}

	result, err := composables.InTxResult(ctx, func(txCtx context.Context) (BulkAddResult, error) {
		ok, err := s.contacts.ExistAll(txCtx, contactIDs)
		if err != nil {
			return BulkAddResult{}, err
		}
		if !ok {
			return BulkAddResult{}, serrors.NewError(serrors.CodeInvalidReference, "one or more contacts do not exist")
		}

		existing, err := s.memberships.FilterMembers(txCtx, groupID, contactIDs)
		if err != nil {
			return BulkAddResult{}, err
		}

		toAdd := make([]uuid.UUID, 0, len(contactIDs))
		seen := make(map[uuid.UUID]struct{}, len(contactIDs))
		for _, id := range contactIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if _, member := existing[id]; member {
				continue
			}
			toAdd = append(toAdd, id)
		}

		added, err := s.memberships.AddMany(txCtx, groupID, toAdd)
		if err != nil {
			return BulkAddResult{}, err
		}

		return BulkAddResult{
			AddedCount:     int(added),
			SkippedCount:   len(contactIDs) - int(added),
			TotalRequested: len(contactIDs),
		}, nil
	})
	if err != nil {
		return BulkAddResult{}, err
	}

	metrics.MembershipOpsTotal.WithLabelValues("bulk_add").Inc()
	if result.AddedCount > 0 {
		s.publisher.Publish(group.NewMembersChangedEvent(tenantID, groupID, result.AddedCount, 0))
	}
	return result, nil
}

// BulkRemoveMembers unlinks many contacts in one batch. Ids that were never
// members are silent no-ops; RemovedCount reflects the rows actually
// deleted.
func (s *MembershipService) BulkRemoveMembers(ctx context.Context, groupID uuid.UUID, contactIDs []uuid.UUID) (BulkRemoveResult, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return BulkRemoveResult{}, err
	}
	if len(contactIDs) == 0 {
		return BulkRemoveResult{}, serrors.NewError(serrors.CodeValidation, "contact_ids must not be empty")
	}
	if err := s.requireGroup(ctx, groupID); err != nil {
		return BulkRemoveResult{}, err
	}

	removed, err := composables.InTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.memberships.RemoveMany(txCtx, groupID, contactIDs)
	})
	if err != nil {
		return BulkRemoveResult{}, err
	}

	metrics.MembershipOpsTotal.WithLabelValues("bulk_remove").Inc()
	if removed > 0 {
		s.publisher.Publish(group.NewMembersChangedEvent(tenantID, groupID, 0, int(removed)))
	}
	return BulkRemoveResult{
		RemovedCount:   int(removed),
		TotalRequested: len(contactIDs),
	}, nil
}

// ListMembersOfGroup returns the group's memberships in insertion order.
func (s *MembershipService) ListMembersOfGroup(ctx context.Context, groupID uuid.UUID) ([]membership.Membership, error) {
	if err := s.requireGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.memberships.ListByGroup(ctx, groupID)
}

// ListGroupsOfContact returns the contact's memberships in insertion order.
func (s *MembershipService) ListGroupsOfContact(ctx context.Context, contactID uuid.UUID) ([]membership.Membership, error) {
	ok, err := s.contacts.ExistAll(ctx, []uuid.UUID{contactID})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, contact.ErrNotFound
	}
	return s.memberships.ListByContact(ctx, contactID)
}

// CountMembers returns the number of contacts currently in the group.
func (s *MembershipService) CountMembers(ctx context.Context, groupID uuid.UUID) (int64, error) {
	if err := s.requireGroup(ctx, groupID); err != nil {
		return 0, err
	}
	return s.memberships.CountByGroup(ctx, groupID)
}
