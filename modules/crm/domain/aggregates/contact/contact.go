package contact

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Address groups the postal fields of a contact. All fields are optional.
type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

func (a Address) IsZero() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.PostalCode == "" && a.Country == ""
}

// Contact is an identity record owned by exactly one tenant. Full name is
// the only required attribute; at most one contact per (tenant, email) may
// exist when email is set.
type Contact struct {
	id               uuid.UUID
	tenantID         uuid.UUID
	fullName         string
	email            string
	phone            string
	phoneCountryCode string
	company          string
	jobTitle         string
	website          string
	notes            string
	tags             []string
	socialHandles    []string
	address          Address
	createdAt        time.Time
	updatedAt        time.Time
}

type Option func(*Contact)

func WithEmail(email string) Option {
	return func(c *Contact) { c.email = normalizeEmail(email) }
}

func WithPhone(phone, countryCode string) Option {
	return func(c *Contact) {
		c.phone = strings.TrimSpace(phone)
		c.phoneCountryCode = strings.TrimSpace(countryCode)
	}
}

func WithCompany(company string) Option {
	return func(c *Contact) { c.company = strings.TrimSpace(company) }
}

func WithJobTitle(jobTitle string) Option {
	return func(c *Contact) { c.jobTitle = strings.TrimSpace(jobTitle) }
}

func WithWebsite(website string) Option {
	return func(c *Contact) { c.website = strings.TrimSpace(website) }
}

func WithNotes(notes string) Option {
	return func(c *Contact) { c.notes = strings.TrimSpace(notes) }
}

func WithTags(tags []string) Option {
	return func(c *Contact) { c.tags = normalizeList(tags) }
}

func WithSocialHandles(handles []string) Option {
	return func(c *Contact) { c.socialHandles = normalizeList(handles) }
}

func WithAddress(address Address) Option {
	return func(c *Contact) { c.address = address }
}

func New(tenantID uuid.UUID, fullName string, opts ...Option) Contact {
	c := Contact{
		tenantID: tenantID,
		fullName: strings.TrimSpace(fullName),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func Hydrate(
	id uuid.UUID,
	tenantID uuid.UUID,
	fullName string,
	createdAt time.Time,
	updatedAt time.Time,
	opts ...Option,
) Contact {
	c := New(tenantID, fullName, opts...)
	c.id = id
	c.createdAt = createdAt
	c.updatedAt = updatedAt
	return c
}

func (c Contact) ID() uuid.UUID            { return c.id }
func (c Contact) TenantID() uuid.UUID      { return c.tenantID }
func (c Contact) FullName() string         { return c.fullName }
func (c Contact) Email() string            { return c.email }
func (c Contact) Phone() string            { return c.phone }
func (c Contact) PhoneCountryCode() string { return c.phoneCountryCode }
func (c Contact) Company() string          { return c.company }
func (c Contact) JobTitle() string         { return c.jobTitle }
func (c Contact) Website() string          { return c.website }
func (c Contact) Notes() string            { return c.notes }
func (c Contact) Tags() []string           { return c.tags }
func (c Contact) SocialHandles() []string  { return c.socialHandles }
func (c Contact) Address() Address         { return c.address }
func (c Contact) CreatedAt() time.Time     { return c.createdAt }
func (c Contact) UpdatedAt() time.Time     { return c.updatedAt }
func (c Contact) IsZero() bool             { return c.id == uuid.Nil && c.fullName == "" }

func normalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
