package contact

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sproutcrm/sprout-sdk/pkg/constants"
	"github.com/sproutcrm/sprout-sdk/pkg/serrors"
)

type CreateDTO struct {
	FullName         string   `json:"full_name" validate:"required,max=255"`
	Email            string   `json:"email" validate:"omitempty,email"`
	Phone            string   `json:"phone" validate:"omitempty,max=32"`
	PhoneCountryCode string   `json:"phone_country_code" validate:"omitempty,max=8"`
	Company          string   `json:"company" validate:"omitempty,max=255"`
	JobTitle         string   `json:"job_title" validate:"omitempty,max=255"`
	Website          string   `json:"website" validate:"omitempty,max=255"`
	Notes            string   `json:"notes" validate:"omitempty,max=5000"`
	Tags             []string `json:"tags"`
	SocialHandles    []string `json:"social_handles"`
	AddressStreet    string   `json:"address_street" validate:"omitempty,max=255"`
	AddressCity      string   `json:"address_city" validate:"omitempty,max=255"`
	AddressState     string   `json:"address_state" validate:"omitempty,max=255"`
	AddressPostal    string   `json:"address_postal_code" validate:"omitempty,max=32"`
	AddressCountry   string   `json:"address_country" validate:"omitempty,max=255"`
}

func (d *CreateDTO) Normalize() {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Phone = strings.TrimSpace(d.Phone)
	d.PhoneCountryCode = strings.TrimSpace(d.PhoneCountryCode)
	d.Company = strings.TrimSpace(d.Company)
	d.JobTitle = strings.TrimSpace(d.JobTitle)
	d.Website = strings.TrimSpace(d.Website)
	d.Notes = strings.TrimSpace(d.Notes)
}

// Ok validates the DTO and returns per-field messages when invalid.
func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()

	errs := constants.Validate.Struct(d)
	if errs == nil {
		return map[string]string{}, true
	}

	return serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors)), false
}

// ToEntity builds the aggregate for the given tenant.
func (d *CreateDTO) ToEntity(tenantID uuid.UUID) Contact {
	return New(tenantID, d.FullName,
		WithEmail(d.Email),
		WithPhone(d.Phone, d.PhoneCountryCode),
		WithCompany(d.Company),
		WithJobTitle(d.JobTitle),
		WithWebsite(d.Website),
		WithNotes(d.Notes),
		WithTags(d.Tags),
		WithSocialHandles(d.SocialHandles),
		WithAddress(Address{
			Street:     strings.TrimSpace(d.AddressStreet),
			City:       strings.TrimSpace(d.AddressCity),
			State:      strings.TrimSpace(d.AddressState),
			PostalCode: strings.TrimSpace(d.AddressPostal),
			Country:    strings.TrimSpace(d.AddressCountry),
		}),
	)
}

type UpdateDTO struct {
	CreateDTO
}

// ToEntityWithID rebuilds the aggregate preserving identity and timestamps
// supplied by the existing record.
func (d *UpdateDTO) ToEntityWithID(existing Contact) Contact {
	updated := d.ToEntity(existing.TenantID())
	updated.id = existing.ID()
	updated.createdAt = existing.CreatedAt()
	return updated
}
