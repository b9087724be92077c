package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/aggregates/contact"
	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/aggregates/group"
	"github.com/sproutcrm/sprout-sdk/modules/crm/services"
	"github.com/sproutcrm/sprout-sdk/pkg/eventbus"
	"github.com/sproutcrm/sprout-sdk/pkg/itf"
)

func TestContactService_CreateAssignsIdentityAndPublishes(t *testing.T) {
	repo := newMemContactRepo()
	publisher := eventbus.NewEventPublisher(nil)
	var events []*contact.CreatedEvent
	publisher.Subscribe(func(e *contact.CreatedEvent) { events = append(events, e) })
	svc := services.NewContactService(repo, publisher)

	env, ctx := itf.NewTestContext().Build(t)

	created, err := svc.Create(ctx, contact.New(env.TenantID, "Jane Doe", contact.WithEmail("jane@example.com")))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID())
	assert.False(t, created.CreatedAt().IsZero())
	require.Len(t, events, 1)
}

func TestContactService_CreateDuplicateEmail(t *testing.T) {
	repo := newMemContactRepo()
	publisher := eventbus.NewEventPublisher(nil)
	publisher.Subscribe(func(_ *contact.CreatedEvent) {})
	svc := services.NewContactService(repo, publisher)

	env, ctx := itf.NewTestContext().Build(t)

	_, err := svc.Create(ctx, contact.New(env.TenantID, "Jane", contact.WithEmail("jane@example.com")))
	require.NoError(t, err)

	_, err = svc.Create(ctx, contact.New(env.TenantID, "Janet", contact.WithEmail("jane@example.com")))
	require.ErrorIs(t, err, contact.ErrEmailTaken)
}

func TestContactService_SameEmailDifferentTenants(t *testing.T) {
	repo := newMemContactRepo()
	publisher := eventbus.NewEventPublisher(nil)
	publisher.Subscribe(func(_ *contact.CreatedEvent) {})
	svc := services.NewContactService(repo, publisher)

	envA, ctxA := itf.NewTestContext().Build(t)
	envB, ctxB := itf.NewTestContext().Build(t)

	_, err := svc.Create(ctxA, contact.New(envA.TenantID, "Jane", contact.WithEmail("jane@example.com")))
	require.NoError(t, err)
	_, err = svc.Create(ctxB, contact.New(envB.TenantID, "Jane", contact.WithEmail("jane@example.com")))
	require.NoError(t, err)
}

func TestContactService_DeleteReturnsRemovedEntity(t *testing.T) {
	repo := newMemContactRepo()
	publisher := eventbus.NewEventPublisher(nil)
	publisher.Subscribe(func(_ *contact.CreatedEvent) {})
	var deleted []*contact.DeletedEvent
	publisher.Subscribe(func(e *contact.DeletedEvent) { deleted = append(deleted, e) })
	svc := services.NewContactService(repo, publisher)

	env, ctx := itf.NewTestContext().Build(t)

	created, err := svc.Create(ctx, contact.New(env.TenantID, "Jane Doe"))
	require.NoError(t, err)

	got, err := svc.Delete(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, created.ID(), got.ID())
	require.Len(t, deleted, 1)

	_, err = svc.GetByID(ctx, created.ID())
	require.ErrorIs(t, err, contact.ErrNotFound)
}

func TestContactService_DeleteUnknown(t *testing.T) {
	repo := newMemContactRepo()
	svc := services.NewContactService(repo, eventbus.NewEventPublisher(nil))

	_, ctx := itf.NewTestContext().Build(t)
	_, err := svc.Delete(ctx, uuid.New())
	require.ErrorIs(t, err, contact.ErrNotFound)
}

func TestGroupService_DeleteCascadesMemberships(t *testing.T) {
	contacts := newMemContactRepo()
	groups := newMemGroupRepo()
	memberships := newMemMembershipRepo()
	publisher := eventbus.NewEventPublisher(nil)
	publisher.Subscribe(func(_ *group.CreatedEvent) {})
	publisher.Subscribe(func(_ *group.DeletedEvent) {})
	publisher.Subscribe(func(_ *group.MembersChangedEvent) {})

	groupSvc := services.NewGroupService(groups, publisher)
	memberSvc := services.NewMembershipService(memberships, groups, contacts, publisher)

	env, ctx := itf.NewTestContext().Build(t)

	g, err := groupSvc.Create(ctx, group.New(env.TenantID, "VIP"))
	require.NoError(t, err)
	c, err := contacts.Create(ctx, contact.New(env.TenantID, "Jane"))
	require.NoError(t, err)
	require.NoError(t, memberSvc.AddMember(ctx, g.ID(), c.ID()))

	_, err = groupSvc.Delete(ctx, g.ID())
	require.NoError(t, err)

	// The contact survives its group.
	_, err = contacts.GetByID(ctx, c.ID())
	require.NoError(t, err)

	_, err = memberSvc.ListMembersOfGroup(ctx, g.ID())
	require.ErrorIs(t, err, group.ErrNotFound)
}
