package services_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/aggregates/contact"
	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/aggregates/group"
	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/entities/membership"
	"github.com/sproutcrm/sprout-sdk/pkg/composables"
)

// The fakes below mirror the Postgres repositories: every read and write is
// scoped to the tenant in the context, duplicate emails fail with
// ErrEmailTaken, and membership pairs are unique. They are safe for
// concurrent use because import commits rows from multiple goroutines.

type memContactRepo struct {
	mu        sync.Mutex
	contacts  map[uuid.UUID]contact.Contact
	order     []uuid.UUID
	createErr error // when set, Create fails with this error
}

func newMemContactRepo() *memContactRepo {
	return &memContactRepo{contacts: map[uuid.UUID]contact.Contact{}}
}

func (r *memContactRepo) GetPaginated(ctx context.Context, params *contact.FindParams) ([]contact.Contact, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]contact.Contact, 0, len(r.order))
	for _, id := range r.order {
		c := r.contacts[id]
		if c.TenantID() != tenantID {
			continue
		}
		if params != nil && params.Search != "" &&
			!strings.Contains(strings.ToLower(c.FullName()), strings.ToLower(params.Search)) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *memContactRepo) Count(ctx context.Context, params *contact.FindParams) (int64, error) {
	all, err := r.GetPaginated(ctx, params)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

func (r *memContactRepo) GetByID(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return contact.Contact{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok || c.TenantID() != tenantID {
		return contact.Contact{}, contact.ErrNotFound
	}
	return c, nil
}

func (r *memContactRepo) GetByEmail(ctx context.Context, email string) (contact.Contact, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return contact.Contact{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contacts {
		if c.TenantID() == tenantID && c.Email() != "" && c.Email() == strings.ToLower(email) {
			return c, nil
		}
	}
	return contact.Contact{}, contact.ErrNotFound
}

func (r *memContactRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if err == contact.ErrNotFound {
		return false, nil
	}
	return false, err
}

func (r *memContactRepo) ExistAll(ctx context.Context, ids []uuid.UUID) (bool, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		c, ok := r.contacts[id]
		if !ok || c.TenantID() != tenantID {
			return false, nil
		}
	}
	return true, nil
}

func (r *memContactRepo) Create(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return contact.Contact{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return contact.Contact{}, r.createErr
	}
	if c.Email() != "" {
		for _, existing := range r.contacts {
			if existing.TenantID() == tenantID && existing.Email() == c.Email() {
				return contact.Contact{}, contact.ErrEmailTaken
			}
		}
	}
	now := time.Now()
	created := contact.Hydrate(uuid.New(), tenantID, c.FullName(), now, now,
		contact.WithEmail(c.Email()),
		contact.WithPhone(c.Phone(), c.PhoneCountryCode()),
		contact.WithCompany(c.Company()),
		contact.WithJobTitle(c.JobTitle()),
		contact.WithWebsite(c.Website()),
		contact.WithNotes(c.Notes()),
		contact.WithTags(c.Tags()),
		contact.WithSocialHandles(c.SocialHandles()),
		contact.WithAddress(c.Address()),
	)
	r.contacts[created.ID()] = created
	r.order = append(r.order, created.ID())
	return created, nil
}

func (r *memContactRepo) Update(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return contact.Contact{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.contacts[c.ID()]
	if !ok || existing.TenantID() != tenantID {
		return contact.Contact{}, contact.ErrNotFound
	}
	if c.Email() != "" {
		for id, other := range r.contacts {
			if id != c.ID() && other.TenantID() == tenantID && other.Email() == c.Email() {
				return contact.Contact{}, contact.ErrEmailTaken
			}
		}
	}
	updated := contact.Hydrate(c.ID(), tenantID, c.FullName(), existing.CreatedAt(), time.Now(),
		contact.WithEmail(c.Email()),
		contact.WithPhone(c.Phone(), c.PhoneCountryCode()),
		contact.WithCompany(c.Company()),
		contact.WithJobTitle(c.JobTitle()),
		contact.WithWebsite(c.Website()),
		contact.WithNotes(c.Notes()),
		contact.WithTags(c.Tags()),
		contact.WithSocialHandles(c.SocialHandles()),
		contact.WithAddress(c.Address()),
	)
	r.contacts[c.ID()] = updated
	return updated, nil
}

func (r *memContactRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok || c.TenantID() != tenantID {
		return contact.ErrNotFound
	}
	delete(r.contacts, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type memGroupRepo struct {
	mu     sync.Mutex
	groups map[uuid.UUID]group.Group
	order  []uuid.UUID
}

func newMemGroupRepo() *memGroupRepo {
	return &memGroupRepo{groups: map[uuid.UUID]group.Group{}}
}

func (r *memGroupRepo) GetPaginated(ctx context.Context, params *group.FindParams) ([]group.Group, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]group.Group, 0, len(r.order))
	for _, id := range r.order {
		g := r.groups[id]
		if g.TenantID() != tenantID {
			continue
		}
		if params != nil && params.Search != "" &&
			!strings.Contains(strings.ToLower(g.Name()), strings.ToLower(params.Search)) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (r *memGroupRepo) Count(ctx context.Context, params *group.FindParams) (int64, error) {
	all, err := r.GetPaginated(ctx, params)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

func (r *memGroupRepo) GetByID(ctx context.Context, id uuid.UUID) (group.Group, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return group.Group{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok || g.TenantID() != tenantID {
		return group.Group{}, group.ErrNotFound
	}
	return g, nil
}

func (r *memGroupRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := r.GetByID(ctx, id)
	if err == nil {
		return true, nil
	}
	if err == group.ErrNotFound {
		return false, nil
	}
	return false, err
}

func (r *memGroupRepo) Create(ctx context.Context, g group.Group) (group.Group, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return group.Group{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	created := group.Hydrate(uuid.New(), tenantID, g.Name(), now, now,
		group.WithDescription(g.Description()),
		group.WithColor(g.Color()),
		group.WithEmoji(g.Emoji()),
	)
	r.groups[created.ID()] = created
	r.order = append(r.order, created.ID())
	return created, nil
}

func (r *memGroupRepo) Update(ctx context.Context, g group.Group) (group.Group, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return group.Group{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.groups[g.ID()]
	if !ok || existing.TenantID() != tenantID {
		return group.Group{}, group.ErrNotFound
	}
	updated := group.Hydrate(g.ID(), tenantID, g.Name(), existing.CreatedAt(), time.Now(),
		group.WithDescription(g.Description()),
		group.WithColor(g.Color()),
		group.WithEmoji(g.Emoji()),
	)
	r.groups[g.ID()] = updated
	return updated, nil
}

func (r *memGroupRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok || g.TenantID() != tenantID {
		return group.ErrNotFound
	}
	delete(r.groups, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type pairKey struct {
	groupID   uuid.UUID
	contactID uuid.UUID
}

type memMembershipRepo struct {
	mu      sync.Mutex
	members map[pairKey]membership.Membership
	order   []pairKey
}

func newMemMembershipRepo() *memMembershipRepo {
	return &memMembershipRepo{members: map[pairKey]membership.Membership{}}
}

func (r *memMembershipRepo) Add(ctx context.Context, groupID, contactID uuid.UUID) (bool, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{groupID, contactID}
	if _, ok := r.members[key]; ok {
		return false, nil
	}
	r.members[key] = membership.Hydrate(tenantID, groupID, contactID, time.Now())
	r.order = append(r.order, key)
	return true, nil
}

func (r *memMembershipRepo) Remove(ctx context.Context, groupID, contactID uuid.UUID) (bool, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{groupID, contactID}
	if _, ok := r.members[key]; !ok {
		return false, nil
	}
	r.remove(key)
	return true, nil
}

func (r *memMembershipRepo) remove(key pairKey) {
	delete(r.members, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

func (r *memMembershipRepo) AddMany(ctx context.Context, groupID uuid.UUID, contactIDs []uuid.UUID) (int64, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var added int64
	for _, contactID := range contactIDs {
		key := pairKey{groupID, contactID}
		if _, ok := r.members[key]; ok {
			continue
		}
		r.members[key] = membership.Hydrate(tenantID, groupID, contactID, time.Now())
		r.order = append(r.order, key)
		added++
	}
	return added, nil
}

func (r *memMembershipRepo) RemoveMany(ctx context.Context, groupID uuid.UUID, contactIDs []uuid.UUID) (int64, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for _, contactID := range contactIDs {
		key := pairKey{groupID, contactID}
		if _, ok := r.members[key]; !ok {
			continue
		}
		r.remove(key)
		removed++
	}
	return removed, nil
}

func (r *memMembershipRepo) FilterMembers(ctx context.Context, groupID uuid.UUID, contactIDs []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[uuid.UUID]struct{}{}
	for _, contactID := range contactIDs {
		if _, ok := r.members[pairKey{groupID, contactID}]; ok {
			out[contactID] = struct{}{}
		}
	}
	return out, nil
}

func (r *memMembershipRepo) Exists(ctx context.Context, groupID, contactID uuid.UUID) (bool, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.members[pairKey{groupID, contactID}]
	return ok, nil
}

func (r *memMembershipRepo) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]membership.Membership, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]membership.Membership, 0)
	for _, key := range r.order {
		if key.groupID == groupID {
			out = append(out, r.members[key])
		}
	}
	return out, nil
}

func (r *memMembershipRepo) ListByContact(ctx context.Context, contactID uuid.UUID) ([]membership.Membership, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]membership.Membership, 0)
	for _, key := range r.order {
		if key.contactID == contactID {
			out = append(out, r.members[key])
		}
	}
	return out, nil
}

func (r *memMembershipRepo) CountByGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	all, err := r.ListByGroup(ctx, groupID)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}
