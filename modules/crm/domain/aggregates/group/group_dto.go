package group

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sproutcrm/sprout-sdk/pkg/constants"
	"github.com/sproutcrm/sprout-sdk/pkg/serrors"
)

type CreateDTO struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Color       string `json:"color" validate:"omitempty,hexcolor6"`
	Emoji       string `json:"emoji"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.Color = strings.TrimSpace(d.Color)
	d.Emoji = strings.TrimSpace(d.Emoji)
}

// Ok validates the DTO and returns per-field messages when invalid.
func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()

	out := serrors.ValidationErrors{}
	if errs := constants.Validate.Struct(d); errs != nil {
		out = serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors))
	}
	// The emoji budget is two runes, not two bytes.
	if utf8.RuneCountInString(d.Emoji) > 2 {
		out["Emoji"] = "Emoji must be at most 2 characters"
	}

	if len(out) > 0 {
		return out, false
	}
	return map[string]string{}, true
}

func (d *CreateDTO) ToEntity(tenantID uuid.UUID) Group {
	return New(tenantID, d.Name,
		WithDescription(d.Description),
		WithColor(d.Color),
		WithEmoji(d.Emoji),
	)
}

type UpdateDTO struct {
	CreateDTO
}

func (d *UpdateDTO) ToEntityWithID(existing Group) Group {
	updated := d.ToEntity(existing.TenantID())
	updated.id = existing.ID()
	updated.createdAt = existing.CreatedAt()
	return updated
}
