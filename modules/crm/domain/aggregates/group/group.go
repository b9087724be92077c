package group

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Group is a named collection of contacts owned by exactly one tenant.
// Names are not unique within a tenant.
type Group struct {
	id          uuid.UUID
	tenantID    uuid.UUID
	name        string
	description string
	color       string
	emoji       string
	createdAt   time.Time
	updatedAt   time.Time
}

type Option func(*Group)

func WithDescription(description string) Option {
	return func(g *Group) { g.description = strings.TrimSpace(description) }
}

// WithColor stores the 6-hex-digit color without the leading '#'.
func WithColor(color string) Option {
	return func(g *Group) {
		g.color = strings.TrimPrefix(strings.TrimSpace(color), "#")
	}
}

func WithEmoji(emoji string) Option {
	return func(g *Group) { g.emoji = strings.TrimSpace(emoji) }
}

func New(tenantID uuid.UUID, name string, opts ...Option) Group {
	g := Group{
		tenantID: tenantID,
		name:     strings.TrimSpace(name),
	}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

func Hydrate(
	id uuid.UUID,
	tenantID uuid.UUID,
	name string,
	createdAt time.Time,
	updatedAt time.Time,
	opts ...Option,
) Group {
	g := New(tenantID, name, opts...)
	g.id = id
	g.createdAt = createdAt
	g.updatedAt = updatedAt
	return g
}

func (g Group) ID() uuid.UUID        { return g.id }
func (g Group) TenantID() uuid.UUID  { return g.tenantID }
func (g Group) Name() string         { return g.name }
func (g Group) Description() string  { return g.description }
func (g Group) Color() string        { return g.color }
func (g Group) Emoji() string        { return g.emoji }
func (g Group) CreatedAt() time.Time { return g.createdAt }
func (g Group) UpdatedAt() time.Time { return g.updatedAt }
func (g Group) IsZero() bool         { return g.id == uuid.Nil && g.name == "" }
