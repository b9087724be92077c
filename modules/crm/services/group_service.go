package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/aggregates/group"
	"github.com/sproutcrm/sprout-sdk/pkg/composables"
	"github.com/sproutcrm/sprout-sdk/pkg/eventbus"
)

type GroupService struct {
	repo      group.Repository
	publisher eventbus.EventBus
}

func NewGroupService(repo group.Repository, publisher eventbus.EventBus) *GroupService {
	return &GroupService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *GroupService) GetByID(ctx context.Context, id uuid.UUID) (group.Group, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *GroupService) GetPaginated(ctx context.Context, params *group.FindParams) ([]group.Group, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *GroupService) Count(ctx context.Context, params *group.FindParams) (int64, error) {
	return s.repo.Count(ctx, params)
}

func (s *GroupService) Create(ctx context.Context, entity group.Group) (group.Group, error) {
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (group.Group, error) {
		return s.repo.Create(txCtx, entity)
	})
	if err != nil {
		return group.Group{}, err
	}
	s.publisher.Publish(group.NewCreatedEvent(created))
	return created, nil
}

func (s *GroupService) Update(ctx context.Context, entity group.Group) (group.Group, error) {
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (group.Group, error) {
		return s.repo.Update(txCtx, entity)
	})
	if err != nil {
		return group.Group{}, err
	}
	s.publisher.Publish(group.NewUpdatedEvent(updated))
	return updated, nil
}

// Delete removes the group and, through the store cascade, all of its
// memberships. The contacts themselves are untouched.
func (s *GroupService) Delete(ctx context.Context, id uuid.UUID) (group.Group, error) {
	deleted, err := composables.InTxResult(ctx, func(txCtx context.Context) (group.Group, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return group.Group{}, err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return group.Group{}, err
		}
		return entity, nil
	})
	if err != nil {
		return group.Group{}, err
	}
	s.publisher.Publish(group.NewDeletedEvent(deleted.TenantID(), deleted.ID()))
	return deleted, nil
}
