package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/aggregates/contact"
	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/aggregates/group"
	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/entities/membership"
)

type AddressResponse struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

type ContactResponse struct {
	ID               uuid.UUID       `json:"id"`
	FullName         string          `json:"full_name"`
	Email            string          `json:"email,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	PhoneCountryCode string          `json:"phone_country_code,omitempty"`
	Company          string          `json:"company,omitempty"`
	JobTitle         string          `json:"job_title,omitempty"`
	Website          string          `json:"website,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	Tags             []string        `json:"tags,omitempty"`
	SocialHandles    []string        `json:"social_handles,omitempty"`
	Address          AddressResponse `json:"address"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func toContactResponse(c contact.Contact) ContactResponse {
	addr := c.Address()
	return ContactResponse{
		ID:               c.ID(),
		FullName:         c.FullName(),
		Email:            c.Email(),
		Phone:            c.Phone(),
		PhoneCountryCode: c.PhoneCountryCode(),
		Company:          c.Company(),
		JobTitle:         c.JobTitle(),
		Website:          c.Website(),
		Notes:            c.Notes(),
		Tags:             c.Tags(),
		SocialHandles:    c.SocialHandles(),
		Address: AddressResponse{
			Street:     addr.Street,
			City:       addr.City,
			State:      addr.State,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
		},
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}

type GroupResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	Emoji       string    `json:"emoji,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toGroupResponse(g group.Group) GroupResponse {
	color := g.Color()
	if color != "" {
		color = "#" + color
	}
	return GroupResponse{
		ID:          g.ID(),
		Name:        g.Name(),
		Description: g.Description(),
		Color:       color,
		Emoji:       g.Emoji(),
		CreatedAt:   g.CreatedAt(),
		UpdatedAt:   g.UpdatedAt(),
	}
}

type MembershipResponse struct {
	GroupID   uuid.UUID `json:"group_id"`
	ContactID uuid.UUID `json:"contact_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toMembershipResponses(in []membership.Membership) []MembershipResponse {
	out := make([]MembershipResponse, 0, len(in))
	for _, m := range in {
		out = append(out, MembershipResponse{
			GroupID:   m.GroupID(),
			ContactID: m.ContactID(),
			CreatedAt: m.CreatedAt(),
		})
	}
	return out
}

type ListResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}
