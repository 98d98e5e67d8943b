package handler

import (
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citymap_discord_bot/internal/atlas"
	"citymap_discord_bot/internal/bookmarks"
	"citymap_discord_bot/internal/catalog"
	"citymap_discord_bot/internal/commands"
	"citymap_discord_bot/internal/mapview"
	"citymap_discord_bot/internal/models"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	store, err := bookmarks.NewFileStore(filepath.Join(t.TempDir(), "bookmarks.json"), cat)
	require.NoError(t, err)
	r, err := mapview.New(mapview.Options{Width: 360})
	require.NoError(t, err)
	svc := atlas.New(cat, store, r, nil)
	return NewHandler("!", models.NewBotInfo("test", "file"), svc, nil)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantName string
		wantArgs []string
		wantOK   bool
	}{
		{"plain", "!ping", "ping", []string{}, true},
		{"args", "!show_city  New   York ", "show_city", []string{"New", "York"}, true},
		{"no prefix", "show_city Paris", "", nil, false},
		{"prefix only", "!   ", "", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args, ok := parseCommand("!", tt.content)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
			if tt.wantOK {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestNewHandlerRegistersCommands(t *testing.T) {
	h := newTestHandler(t)

	var names []string
	for _, cmd := range h.Registry().All() {
		names = append(names, cmd.Name())
	}
	assert.Equal(t, []string{
		"start", "help", "ping", "info",
		"show_city", "remember_city", "show_my_cities", "all_cities",
	}, names)

	cmd, ok := h.Registry().Get("help_me")
	require.True(t, ok)
	assert.Equal(t, "help", cmd.Name())

	for _, name := range []string{"show_city", "remember_city"} {
		cmd, ok := h.Registry().Get(name)
		require.True(t, ok)
		_, ok = cmd.(commands.Autocompleter)
		assert.True(t, ok, name)
	}
	assert.Len(t, h.Registry().GetSlashDefinitions(), 8)
}

func cityCommand(name, desc string, autocomplete bool) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        name,
		Description: desc,
		Options: []*discordgo.ApplicationCommandOption{{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "city",
			Description:  "City name",
			Required:     true,
			Autocomplete: autocomplete,
		}},
	}
}

func TestCommandsAreEqual(t *testing.T) {
	a := cityCommand("show_city", "Show a city", true)
	assert.True(t, commandsAreEqual(a, cityCommand("show_city", "Show a city", true)))
	assert.False(t, commandsAreEqual(a, cityCommand("show_city", "Show a city", false)))
	assert.False(t, commandsAreEqual(a, cityCommand("show_city", "Other", true)))

	noOpts := &discordgo.ApplicationCommand{Name: "show_city", Description: "Show a city"}
	assert.False(t, commandsAreEqual(a, noOpts))

	withChoices := func(names ...string) *discordgo.ApplicationCommand {
		c := cityCommand("x", "x", false)
		for _, n := range names {
			c.Options[0].Choices = append(c.Options[0].Choices, &discordgo.ApplicationCommandOptionChoice{Name: n, Value: n})
		}
		return c
	}
	assert.True(t, commandsAreEqual(withChoices("a", "b"), withChoices("b", "a")))
	assert.False(t, commandsAreEqual(withChoices("a", "b"), withChoices("a", "c")))
}

func TestPlanSync(t *testing.T) {
	local := []*discordgo.ApplicationCommand{
		{Name: "ping", Description: "Responds with Pong!"},
		cityCommand("show_city", "Show a city", true),
		{Name: "all_cities", Description: "List"},
	}
	remote := []*discordgo.ApplicationCommand{
		{ID: "1", Name: "ping", Description: "Responds with Pong!"},
		{ID: "2", Name: "show_city", Description: "Show a city"},
		{ID: "3", Name: "heatmap", Description: "old"},
	}

	plan := planSync(local, remote)
	require.Len(t, plan.create, 1)
	assert.Equal(t, "all_cities", plan.create[0].Name)
	require.Len(t, plan.update, 1)
	assert.Equal(t, "show_city", plan.update["2"].Name)
	require.Len(t, plan.remove, 1)
	assert.Equal(t, "3", plan.remove[0].ID)
}
