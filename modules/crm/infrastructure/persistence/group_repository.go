package persistence

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/aggregates/group"
)

const (
	groupFindQuery = `
        SELECT
            g.id,
            g.tenant_id,
            g.name,
            g.description,
            g.color,
            g.emoji,
            g.created_at,
            g.updated_at
        FROM groups g`

	groupCountQuery = `SELECT COUNT(g.id) FROM groups g`

	groupExistsQuery = `SELECT 1 FROM groups g WHERE g.id = $1 AND g.tenant_id = $2`

	groupInsertQuery = `
        INSERT INTO groups (tenant_id, name, description, color, emoji)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	groupUpdateQuery = `
        UPDATE groups SET
            name = $3,
            description = $4,
            color = $5,
            emoji = $6,
            updated_at = now()
        WHERE id = $1 AND tenant_id = $2
        RETURNING updated_at`

	groupDeleteQuery = `DELETE FROM groups WHERE id = $1 AND tenant_id = $2`
)

type PgGroupRepository struct{}

func NewGroupRepository() group.Repository {
	return &PgGroupRepository{}
}

func (r *PgGroupRepository) GetPaginated(ctx context.Context, params *group.FindParams) ([]group.Group, error) {
	if params == nil {
		params = &group.FindParams{}
	}

	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	where := "WHERE g.tenant_id = $1"
	args := []any{tenantID}
	if params.Search != "" {
		where += " AND g.name ILIKE $2"
		args = append(args, "%"+params.Search+"%")
	}

	query := fmt.Sprintf(
		"%s %s ORDER BY g.created_at, g.id OFFSET $%d LIMIT $%d",
		groupFindQuery, where, len(args)+1, len(args)+2,
	)
	args = append(args, offset, limit)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list groups")
	}
	defer rows.Close()

	out := make([]group.Group, 0)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *PgGroupRepository) Count(ctx context.Context, params *group.FindParams) (int64, error) {
	if params == nil {
		params = &group.FindParams{}
	}

	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return 0, err
	}

	where := "WHERE g.tenant_id = $1"
	args := []any{tenantID}
	if params.Search != "" {
		where += " AND g.name ILIKE $2"
		args = append(args, "%"+params.Search+"%")
	}

	var count int64
	if err := tx.QueryRow(ctx, groupCountQuery+" "+where, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count groups")
	}
	return count, nil
}

func (r *PgGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (group.Group, error) {
	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return group.Group{}, err
	}

	row := tx.QueryRow(ctx, groupFindQuery+" WHERE g.id = $1 AND g.tenant_id = $2", id, tenantID)
	g, err := scanGroup(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return group.Group{}, group.ErrNotFound
		}
		return group.Group{}, err
	}
	return g, nil
}

func (r *PgGroupRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return false, err
	}

	var one int
	err = tx.QueryRow(ctx, groupExistsQuery, id, tenantID).Scan(&one)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to check group existence")
	}
	return true, nil
}

func (r *PgGroupRepository) Create(ctx context.Context, g group.Group) (group.Group, error) {
	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return group.Group{}, err
	}

	var (
		id        uuid.UUID
		createdAt time.Time
		updatedAt time.Time
	)
	err = tx.QueryRow(ctx, groupInsertQuery,
		tenantID,
		g.Name(),
		g.Description(),
		g.Color(),
		g.Emoji(),
	).Scan(&id, &createdAt, &updatedAt)
	if err != nil {
		return group.Group{}, errors.Wrap(err, "failed to create group")
	}

	return group.Hydrate(id, tenantID, g.Name(), createdAt, updatedAt,
		group.WithDescription(g.Description()),
		group.WithColor(g.Color()),
		group.WithEmoji(g.Emoji()),
	), nil
}

func (r *PgGroupRepository) Update(ctx context.Context, g group.Group) (group.Group, error) {
	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return group.Group{}, err
	}

	var updatedAt time.Time
	err = tx.QueryRow(ctx, groupUpdateQuery,
		g.ID(),
		tenantID,
		g.Name(),
		g.Description(),
		g.Color(),
		g.Emoji(),
	).Scan(&updatedAt)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return group.Group{}, group.ErrNotFound
		}
		return group.Group{}, errors.Wrap(err, "failed to update group")
	}

	return group.Hydrate(g.ID(), tenantID, g.Name(), g.CreatedAt(), updatedAt,
		group.WithDescription(g.Description()),
		group.WithColor(g.Color()),
		group.WithEmoji(g.Emoji()),
	), nil
}

func (r *PgGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, groupDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "failed to delete group")
	}
	if tag.RowsAffected() == 0 {
		return group.ErrNotFound
	}
	return nil
}

func scanGroup(row pgx.Row) (group.Group, error) {
	var (
		id, tenantID         uuid.UUID
		name, description    string
		color, emoji         string
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &tenantID, &name, &description, &color, &emoji, &createdAt, &updatedAt); err != nil {
		return group.Group{}, err
	}
	return group.Hydrate(id, tenantID, name, createdAt, updatedAt,
		group.WithDescription(description),
		group.WithColor(color),
		group.WithEmoji(emoji),
	), nil
}
