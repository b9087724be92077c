package persistence

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/entities/membership"
	"github.com/sproutcrm/sprout-sdk/pkg/composables"
)

const (
	// ON CONFLICT DO NOTHING makes concurrent inserts of the same pair
	// race-safe: the composite primary key guarantees at most one row and
	// the statement reports zero affected rows instead of failing.
	membershipInsertQuery = `
        INSERT INTO group_contacts (group_id, contact_id, tenant_id)
        VALUES ($1, $2, $3)
        ON CONFLICT (group_id, contact_id) DO NOTHING`

	membershipDeleteQuery = `
        DELETE FROM group_contacts
        WHERE group_id = $1 AND contact_id = $2 AND tenant_id = $3`

	membershipBulkInsertQuery = `
        INSERT INTO group_contacts (group_id, contact_id, tenant_id)
        SELECT $1, ids.id, $3
        FROM unnest($2::uuid[]) AS ids(id)
        ON CONFLICT (group_id, contact_id) DO NOTHING`

	membershipBulkDeleteQuery = `
        DELETE FROM group_contacts
        WHERE group_id = $1 AND contact_id = ANY($2) AND tenant_id = $3`

	membershipFilterQuery = `
        SELECT gc.contact_id
        FROM group_contacts gc
        WHERE gc.group_id = $1 AND gc.contact_id = ANY($2) AND gc.tenant_id = $3`

	membershipExistsQuery = `
        SELECT 1 FROM group_contacts gc
        WHERE gc.group_id = $1 AND gc.contact_id = $2 AND gc.tenant_id = $3`

	membershipListByGroupQuery = `
        SELECT gc.tenant_id, gc.group_id, gc.contact_id, gc.created_at
        FROM group_contacts gc
        WHERE gc.group_id = $1 AND gc.tenant_id = $2
        ORDER BY gc.created_at, gc.contact_id`

	membershipListByContactQuery = `
        SELECT gc.tenant_id, gc.group_id, gc.contact_id, gc.created_at
        FROM group_contacts gc
        WHERE gc.contact_id = $1 AND gc.tenant_id = $2
        ORDER BY gc.created_at, gc.group_id`

	membershipCountByGroupQuery = `
        SELECT COUNT(*) FROM group_contacts gc
        WHERE gc.group_id = $1 AND gc.tenant_id = $2`
)

type PgMembershipRepository struct{}

func NewMembershipRepository() membership.Repository {
	return &PgMembershipRepository{}
}

func (r *PgMembershipRepository) Add(ctx context.Context, groupID, contactID uuid.UUID) (bool, error) {
	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, membershipInsertQuery, groupID, contactID, tenantID)
	if err != nil {
		// A concurrent insert that slips past ON CONFLICT still means the
		// pair exists; being a member already is never an error.
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "failed to add member")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgMembershipRepository) Remove(ctx context.Context, groupID, contactID uuid.UUID) (bool, error) {
	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, membershipDeleteQuery, groupID, contactID, tenantID)
	if err != nil {
		return false, errors.Wrap(err, "failed to remove member")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgMembershipRepository) AddMany(ctx context.Context, groupID uuid.UUID, contactIDs []uuid.UUID) (int64, error) {
	if len(contactIDs) == 0 {
		return 0, nil
	}

	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, membershipBulkInsertQuery, groupID, contactIDs, tenantID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to bulk add members")
	}
	return tag.RowsAffected(), nil
}

func (r *PgMembershipRepository) RemoveMany(ctx context.Context, groupID uuid.UUID, contactIDs []uuid.UUID) (int64, error) {
	if len(contactIDs) == 0 {
		return 0, nil
	}

	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, membershipBulkDeleteQuery, groupID, contactIDs, tenantID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to bulk remove members")
	}
	return tag.RowsAffected(), nil
}

func (r *PgMembershipRepository) FilterMembers(ctx context.Context, groupID uuid.UUID, contactIDs []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	out := make(map[uuid.UUID]struct{})
	if len(contactIDs) == 0 {
		return out, nil
	}

	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, membershipFilterQuery, groupID, contactIDs, tenantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to filter members")
	}
	defer rows.Close()

	for rows.Next() {
		var contactID uuid.UUID
		if err := rows.Scan(&contactID); err != nil {
			return nil, err
		}
		out[contactID] = struct{}{}
	}
	return out, rows.Err()
}

func (r *PgMembershipRepository) Exists(ctx context.Context, groupID, contactID uuid.UUID) (bool, error) {
	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return false, err
	}

	var one int
	err = tx.QueryRow(ctx, membershipExistsQuery, groupID, contactID, tenantID).Scan(&one)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to check membership")
	}
	return true, nil
}

func (r *PgMembershipRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]membership.Membership, error) {
	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, tx, membershipListByGroupQuery, groupID, tenantID)
}

func (r *PgMembershipRepository) ListByContact(ctx context.Context, contactID uuid.UUID) ([]membership.Membership, error) {
	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, tx, membershipListByContactQuery, contactID, tenantID)
}

func (r *PgMembershipRepository) CountByGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := tx.QueryRow(ctx, membershipCountByGroupQuery, groupID, tenantID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count members")
	}
	return count, nil
}

func (r *PgMembershipRepository) list(ctx context.Context, tx composables.DBTx, query string, args ...any) ([]membership.Membership, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list memberships")
	}
	defer rows.Close()

	out := make([]membership.Membership, 0)
	for rows.Next() {
		var (
			tenantID, groupID, contactID uuid.UUID
			createdAt                    time.Time
		)
		if err := rows.Scan(&tenantID, &groupID, &contactID, &createdAt); err != nil {
			return nil, err
		}
		out = append(out, membership.Hydrate(tenantID, groupID, contactID, createdAt))
	}
	return out, rows.Err()
}
