package utils

import (
	"io"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUserDisplayName(t *testing.T) {
	tests := []struct {
		name, id, want string
	}{
		{"alice", "123", "alice#123"},
		{" alice ", "", "alice"},
		{"", "123", "ID:123"},
		{"", "", "-"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUserDisplayName(tt.name, tt.id))
		})
	}
}

func TestJoinArgs(t *testing.T) {
	assert.Equal(t, "New York", JoinArgs([]string{"New", "York"}))
	assert.Equal(t, "", JoinArgs(nil))
}

func TestImageFile(t *testing.T) {
	assert.Nil(t, ImageFile("map.png", "image/png", nil))

	f := ImageFile("map.png", "image/png", []byte{1, 2, 3})
	require.NotNil(t, f)
	assert.Equal(t, "map.png", f.Name)
	assert.Equal(t, "image/png", f.ContentType)
	data, err := io.ReadAll(f.Reader)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestInteractionUser(t *testing.T) {
	member := &discordgo.User{ID: "m"}
	direct := &discordgo.User{ID: "d"}

	guild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Member: &discordgo.Member{User: member}}}
	assert.Equal(t, member, InteractionUser(guild))

	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: direct}}
	assert.Equal(t, direct, InteractionUser(dm))

	assert.Nil(t, InteractionUser(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}))
}
