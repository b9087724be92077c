package persistence

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/aggregates/contact"
)

const (
	contactFindQuery = `
        SELECT
            c.id,
            c.tenant_id,
            c.full_name,
            c.email,
            c.phone,
            c.phone_country_code,
            c.company,
            c.job_title,
            c.website,
            c.notes,
            c.tags,
            c.social_handles,
            c.address_street,
            c.address_city,
            c.address_state,
            c.address_postal_code,
            c.address_country,
            c.created_at,
            c.updated_at
        FROM contacts c`

	contactCountQuery = `SELECT COUNT(c.id) FROM contacts c`

	contactExistsByEmailQuery = `SELECT 1 FROM contacts c WHERE c.tenant_id = $1 AND lower(c.email) = lower($2) AND c.email <> ''`

	contactCountByIDsQuery = `SELECT COUNT(c.id) FROM contacts c WHERE c.tenant_id = $1 AND c.id = ANY($2)`

	contactInsertQuery = `
        INSERT INTO contacts (
            tenant_id, full_name, email, phone, phone_country_code, company,
            job_title, website, notes, tags, social_handles,
            address_street, address_city, address_state, address_postal_code, address_country
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
        RETURNING id, created_at, updated_at`

	contactUpdateQuery = `
        UPDATE contacts SET
            full_name = $3,
            email = $4,
            phone = $5,
            phone_country_code = $6,
            company = $7,
            job_title = $8,
            website = $9,
            notes = $10,
            tags = $11,
            social_handles = $12,
            address_street = $13,
            address_city = $14,
            address_state = $15,
            address_postal_code = $16,
            address_country = $17,
            updated_at = now()
        WHERE id = $1 AND tenant_id = $2
        RETURNING updated_at`

	contactDeleteQuery = `DELETE FROM contacts WHERE id = $1 AND tenant_id = $2`
)

type PgContactRepository struct{}

func NewContactRepository() contact.Repository {
	return &PgContactRepository{}
}

func (r *PgContactRepository) GetPaginated(ctx context.Context, params *contact.FindParams) ([]contact.Contact, error) {
	if params == nil {
		params = &contact.FindParams{}
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

	where := "WHERE c.tenant_id = $1"
	args := []any{tenantID}
	if params.Search != "" {
		where += " AND (c.full_name ILIKE $2 OR c.email ILIKE $2 OR c.company ILIKE $2)"
		args = append(args, "%"+params.Search+"%")
	}

	query := fmt.Sprintf(
		"%s %s ORDER BY c.created_at, c.id OFFSET $%d LIMIT $%d",
		contactFindQuery, where, len(args)+1, len(args)+2,
	)
	args = append(args, offset, limit)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list contacts")
	}
	defer rows.Close()

	out := make([]contact.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PgContactRepository) Count(ctx context.Context, params *contact.FindParams) (int64, error) {
	if params == nil {
		params = &contact.FindParams{}
	}

	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return 0, err
	}

	where := "WHERE c.tenant_id = $1"
	args := []any{tenantID}
	if params.Search != "" {
		where += " AND (c.full_name ILIKE $2 OR c.email ILIKE $2 OR c.company ILIKE $2)"
		args = append(args, "%"+params.Search+"%")
	}

	var count int64
	if err := tx.QueryRow(ctx, contactCountQuery+" "+where, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count contacts")
	}
	return count, nil
}

func (r *PgContactRepository) GetByID(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return contact.Contact{}, err
	}

	row := tx.QueryRow(ctx, contactFindQuery+" WHERE c.id = $1 AND c.tenant_id = $2", id, tenantID)
	c, err := scanContact(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return contact.Contact{}, contact.ErrNotFound
		}
		return contact.Contact{}, err
	}
	return c, nil
}

func (r *PgContactRepository) GetByEmail(ctx context.Context, email string) (contact.Contact, error) {
	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return contact.Contact{}, err
	}

	row := tx.QueryRow(ctx, contactFindQuery+" WHERE c.tenant_id = $1 AND lower(c.email) = lower($2) AND c.email <> ''", tenantID, email)
	c, err := scanContact(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return contact.Contact{}, contact.ErrNotFound
		}
		return contact.Contact{}, err
	}
	return c, nil
}

func (r *PgContactRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}

	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return false, err
	}

	var one int
	err = tx.QueryRow(ctx, contactExistsByEmailQuery, tenantID, email).Scan(&one)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to check contact email")
	}
	return true, nil
}

// ExistAll reports whether every id belongs to the tenant's contacts.
func (r *PgContactRepository) ExistAll(ctx context.Context, ids []uuid.UUID) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}

	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return false, err
	}

	unique := make(map[uuid.UUID]struct{}, len(ids))
	deduped := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, seen := unique[id]; seen {
			continue
		}
		unique[id] = struct{}{}
		deduped = append(deduped, id)
	}

	var count int64
	if err := tx.QueryRow(ctx, contactCountByIDsQuery, tenantID, deduped).Scan(&count); err != nil {
		return false, errors.Wrap(err, "failed to verify contact ids")
	}
	return count == int64(len(deduped)), nil
}

func (r *PgContactRepository) Create(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return contact.Contact{}, err
	}

	var (
		id        uuid.UUID
		createdAt time.Time
		updatedAt time.Time
	)
	addr := c.Address()
	err = tx.QueryRow(ctx, contactInsertQuery,
		tenantID,
		c.FullName(),
		c.Email(),
		c.Phone(),
		c.PhoneCountryCode(),
		c.Company(),
		c.JobTitle(),
		c.Website(),
		c.Notes(),
		tagsOrEmpty(c.Tags()),
		tagsOrEmpty(c.SocialHandles()),
		addr.Street,
		addr.City,
		addr.State,
		addr.PostalCode,
		addr.Country,
	).Scan(&id, &createdAt, &updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return contact.Contact{}, contact.ErrEmailTaken
		}
		return contact.Contact{}, errors.Wrap(err, "failed to create contact")
	}

	return contact.Hydrate(id, tenantID, c.FullName(), createdAt, updatedAt,
		contactOptions(c)...), nil
}

func (r *PgContactRepository) Update(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return contact.Contact{}, err
	}

	var updatedAt time.Time
	addr := c.Address()
	err = tx.QueryRow(ctx, contactUpdateQuery,
		c.ID(),
		tenantID,
		c.FullName(),
		c.Email(),
		c.Phone(),
		c.PhoneCountryCode(),
		c.Company(),
		c.JobTitle(),
		c.Website(),
		c.Notes(),
		tagsOrEmpty(c.Tags()),
		tagsOrEmpty(c.SocialHandles()),
		addr.Street,
		addr.City,
		addr.State,
		addr.PostalCode,
		addr.Country,
	).Scan(&updatedAt)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return contact.Contact{}, contact.ErrNotFound
		}
		if isUniqueViolation(err) {
			return contact.Contact{}, contact.ErrEmailTaken
		}
		return contact.Contact{}, errors.Wrap(err, "failed to update contact")
	}

	return contact.Hydrate(c.ID(), tenantID, c.FullName(), c.CreatedAt(), updatedAt,
		contactOptions(c)...), nil
}

func (r *PgContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, tx, err := tenantScope(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, contactDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "failed to delete contact")
	}
	if tag.RowsAffected() == 0 {
		return contact.ErrNotFound
	}
	return nil
}

func contactOptions(c contact.Contact) []contact.Option {
	addr := c.Address()
	return []contact.Option{
		contact.WithEmail(c.Email()),
		contact.WithPhone(c.Phone(), c.PhoneCountryCode()),
		contact.WithCompany(c.Company()),
		contact.WithJobTitle(c.JobTitle()),
		contact.WithWebsite(c.Website()),
		contact.WithNotes(c.Notes()),
		contact.WithTags(c.Tags()),
		contact.WithSocialHandles(c.SocialHandles()),
		contact.WithAddress(addr),
	}
}

func tagsOrEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func scanContact(row pgx.Row) (contact.Contact, error) {
	var (
		id, tenantID                  uuid.UUID
		fullName, email               string
		phone, phoneCountryCode       string
		company, jobTitle, website    string
		notes                         string
		tags, socialHandles           []string
		street, city, state           string
		postalCode, country           string
		createdAt, updatedAt          time.Time
	)
	err := row.Scan(
		&id,
		&tenantID,
		&fullName,
		&email,
		&phone,
		&phoneCountryCode,
		&company,
		&jobTitle,
		&website,
		&notes,
		&tags,
		&socialHandles,
		&street,
		&city,
		&state,
		&postalCode,
		&country,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return contact.Contact{}, err
	}

	return contact.Hydrate(id, tenantID, fullName, createdAt, updatedAt,
		contact.WithEmail(email),
		contact.WithPhone(phone, phoneCountryCode),
		contact.WithCompany(company),
		contact.WithJobTitle(jobTitle),
		contact.WithWebsite(website),
		contact.WithNotes(notes),
		contact.WithTags(tags),
		contact.WithSocialHandles(socialHandles),
		contact.WithAddress(contact.Address{
			Street:     street,
			City:       city,
			State:      state,
			PostalCode: postalCode,
			Country:    country,
		}),
	), nil
}
