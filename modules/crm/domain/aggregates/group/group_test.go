package group_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sproutcrm/sprout-sdk/modules/crm/domain/aggregates/group"
)

func TestNew_ColorStoredWithoutHash(t *testing.T) {
	g := group.New(uuid.New(), "VIP", group.WithColor("#FFAA00"))
	assert.Equal(t, "FFAA00", g.Color())

	g = group.New(uuid.New(), "VIP", group.WithColor("ffaa00"))
	assert.Equal(t, "ffaa00", g.Color())
}

func TestCreateDTO_Ok(t *testing.T) {
	tests := []struct {
		name      string
		dto       group.CreateDTO
		wantOK    bool
		wantField string
	}{
		{
			name:   "valid minimal",
			dto:    group.CreateDTO{Name: "VIP"},
			wantOK: true,
		},
		{
			name:   "valid full",
			dto:    group.CreateDTO{Name: "VIP", Description: "Top customers", Color: "#aabbcc", Emoji: "⭐"},
			wantOK: true,
		},
		{
			name:   "color without hash",
			dto:    group.CreateDTO{Name: "VIP", Color: "aabbcc"},
			wantOK: true,
		},
		{
			name:      "missing name",
			dto:       group.CreateDTO{Color: "#aabbcc"},
			wantField: "Name",
		},
		{
			name:      "three digit color shorthand",
			dto:       group.CreateDTO{Name: "VIP", Color: "#abc"},
			wantField: "Color",
		},
		{
			name:      "color with bad characters",
			dto:       group.CreateDTO{Name: "VIP", Color: "#zzzzzz"},
			wantField: "Color",
		},
		{
			name:      "emoji too long",
			dto:       group.CreateDTO{Name: "VIP", Emoji: "⭐⭐⭐"},
			wantField: "Emoji",
		},
		{
			name:   "two rune emoji",
			dto:    group.CreateDTO{Name: "VIP", Emoji: "⭐⭐"},
			wantOK: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, ok := tt.dto.Ok()
			if tt.wantOK {
				require.True(t, ok, "unexpected errors: %v", fields)
				return
			}
			require.False(t, ok)
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestUpdateDTO_PreservesIdentity(t *testing.T) {
	existing := group.New(uuid.New(), "VIP")
	dto := &group.UpdateDTO{CreateDTO: group.CreateDTO{Name: "VIP Renamed"}}
	_, ok := dto.Ok()
	require.True(t, ok)

	updated := dto.ToEntityWithID(existing)
	assert.Equal(t, existing.ID(), updated.ID())
	assert.Equal(t, existing.TenantID(), updated.TenantID())
	assert.Equal(t, "VIP Renamed", updated.Name())
}
