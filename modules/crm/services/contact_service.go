package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/aggregates/contact"
	"github.com/sproutcrm/sprout-sdk/pkg/composables"
	"github.com/sproutcrm/sprout-sdk/pkg/eventbus"
)

type ContactService struct {
	repo      contact.Repository
	publisher eventbus.EventBus
}

func NewContactService(repo contact.Repository, publisher eventbus.EventBus) *ContactService {
	return &ContactService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ContactService) GetPaginated(ctx context.Context, params *contact.FindParams) ([]contact.Contact, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *ContactService) Count(ctx context.Context, params *contact.FindParams) (int64, error) {
	return s.repo.Count(ctx, params)
}

func (s *ContactService) Create(ctx context.Context, entity contact.Contact) (contact.Contact, error) {
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (contact.Contact, error) {
		return s.repo.Create(txCtx, entity)
	})
	if err != nil {
		return contact.Contact{}, err
	}
	s.publisher.Publish(contact.NewCreatedEvent(created))
	return created, nil
}

func (s *ContactService) Update(ctx context.Context, entity contact.Contact) (contact.Contact, error) {
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (contact.Contact, error) {
		return s.repo.Update(txCtx, entity)
	})
	if err != nil {
		return contact.Contact{}, err
	}
	s.publisher.Publish(contact.NewUpdatedEvent(updated))
	return updated, nil
}

// Delete removes the contact; group memberships cascade at the store level.
func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	deleted, err := composables.InTxResult(ctx, func(txCtx context.Context) (contact.Contact, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return contact.Contact{}, err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return contact.Contact{}, err
		}
		return entity, nil
	})
	if err != nil {
		return contact.Contact{}, err
	}
	s.publisher.Publish(contact.NewDeletedEvent(deleted.TenantID(), deleted.ID()))
	return deleted, nil
}
