package commands

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citymap_discord_bot/internal/atlas"
	"citymap_discord_bot/internal/bookmarks"
	"citymap_discord_bot/internal/catalog"
	"citymap_discord_bot/internal/geo"
	"citymap_discord_bot/internal/mapview"
	"citymap_discord_bot/internal/models"
)

var (
	testMapRenderer    *mapview.Renderer
	testMapRendererErr error
	testMapRendererOne sync.Once
)

func newTestService(t *testing.T) *atlas.Service {
	t.Helper()
	var cities []geo.City
	for _, c := range []struct {
		name     string
		lat, lng float64
	}{
		{"Istanbul", 41.0082, 28.9784},
		{"Ankara", 39.9334, 32.8597},
		{"New York", 40.7128, -74.0060},
	} {
		city, err := geo.NewCity(0, c.name, c.lat, c.lng)
		require.NoError(t, err)
		cities = append(cities, city)
	}
	cat, err := catalog.NewMemoryCatalog(cities)
	require.NoError(t, err)
	store, err := bookmarks.NewFileStore(filepath.Join(t.TempDir(), "bookmarks.json"), cat)
	require.NoError(t, err)

	testMapRendererOne.Do(func() {
		testMapRenderer, testMapRendererErr = mapview.New(mapview.Options{Width: 360, MaxConcurrent: 2})
	})
	require.NoError(t, testMapRendererErr)
	return atlas.New(cat, store, testMapRenderer, nil)
}

// fakeCommand 登録順の確認用
type fakeCommand struct {
	name  string
	slash bool
}

func (f *fakeCommand) Name() string        { return f.name }
func (f *fakeCommand) Description() string { return f.name + " description" }
func (f *fakeCommand) ExecuteText(*discordgo.Session, *discordgo.MessageCreate, []string) error {
	return nil
}
func (f *fakeCommand) ExecuteSlash(*discordgo.Session, *discordgo.InteractionCreate) error {
	return nil
}
func (f *fakeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	if !f.slash {
		return nil
	}
	return &discordgo.ApplicationCommand{Name: f.name, Description: f.Description()}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeCommand{name: "start", slash: true})
	r.Register(&fakeCommand{name: "Help", slash: true})
	r.Register(&fakeCommand{name: "hidden"})
	r.Alias("help_me", "help")

	cmd, ok := r.Get("HELP")
	require.True(t, ok)
	assert.Equal(t, "Help", cmd.Name())

	cmd, ok = r.Get("help_me")
	require.True(t, ok)
	assert.Equal(t, "Help", cmd.Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)

	var names []string
	for _, c := range r.All() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"start", "Help", "hidden"}, names)

	defs := r.GetSlashDefinitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "start", defs[0].Name)
	assert.Equal(t, "Help", defs[1].Name)

	// 同名の再登録は順序を変えない
	r.Register(&fakeCommand{name: "start"})
	assert.Len(t, r.All(), 3)
	assert.Len(t, r.GetSlashDefinitions(), 1)
}

func TestMatchCities(t *testing.T) {
	names := []string{"Ankara", "Istanbul", "New York", "York", "Yokohama"}

	choices := matchCities(names, "yo")
	var got []string
	for _, c := range choices {
		got = append(got, c.Name)
		assert.Equal(t, c.Name, c.Value)
	}
	assert.Equal(t, []string{"York", "Yokohama", "New York"}, got)

	assert.Len(t, matchCities(names, ""), len(names))
	assert.Empty(t, matchCities(names, "paris"))

	var many []string
	for i := 0; i < 40; i++ {
		many = append(many, "City "+strings.Repeat("x", i))
	}
	assert.Len(t, matchCities(many, "city"), maxChoices)
}

func TestShowCityBuild(t *testing.T) {
	svc := newTestService(t)
	cmd := NewShowCityCommand(svc, "!")
	ctx := context.Background()

	r, err := cmd.build(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Usage: `!show_city <city>`", r.Content)

	r, err = cmd.build(ctx, "Atlantis")
	require.NoError(t, err)
	require.Len(t, r.Embeds, 1)
	assert.Equal(t, notFoundMessage("!"), r.Embeds[0].Description)
	assert.Empty(t, r.Files)

	// 大文字小文字は区別する
	r, err = cmd.build(ctx, "istanbul")
	require.NoError(t, err)
	assert.Empty(t, r.Files)

	r, err = cmd.build(ctx, "New York")
	require.NoError(t, err)
	require.Len(t, r.Embeds, 1)
	require.Len(t, r.Files, 1)
	assert.Equal(t, "🗺️ Single city: New York", r.Embeds[0].Title)
	assert.Equal(t, "attachment://"+r.Files[0].Name, r.Embeds[0].Image.URL)
	assert.Equal(t, "image/png", r.Files[0].ContentType)
}

func TestRememberCityBuild(t *testing.T) {
	svc := newTestService(t)
	cmd := NewRememberCityCommand(svc, "!")
	ctx := context.Background()

	r, err := cmd.build(ctx, "u1", "Ankara")
	require.NoError(t, err)
	assert.Equal(t, "Ankara saved!", r.Content)

	// 登録済みでも同じ応答
	r, err = cmd.build(ctx, "u1", "Ankara")
	require.NoError(t, err)
	assert.Equal(t, "Ankara saved!", r.Content)

	r, err = cmd.build(ctx, "u1", "Atlantis")
	require.NoError(t, err)
	require.Len(t, r.Embeds, 1)
	assert.Equal(t, notFoundMessage("!"), r.Embeds[0].Description)

	r, err = cmd.build(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, "Usage: `!remember_city <city>`", r.Content)

	names, err := svc.ListBookmarks(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ankara"}, names)
}

func TestShowMyCitiesBuild(t *testing.T) {
	svc := newTestService(t)
	cmd := NewShowMyCitiesCommand(svc, "!")
	ctx := context.Background()

	r, err := cmd.build(ctx, "u1", "alice")
	require.NoError(t, err)
	require.Len(t, r.Embeds, 1)
	assert.Contains(t, r.Embeds[0].Description, "You haven't saved any cities yet!")
	assert.Empty(t, r.Files)

	for _, name := range []string{"New York", "Istanbul"} {
		_, err := svc.AddBookmark(ctx, "u1", name)
		require.NoError(t, err)
	}

	r, err = cmd.build(ctx, "u1", "alice")
	require.NoError(t, err)
	require.Len(t, r.Embeds, 1)
	require.Len(t, r.Files, 1)
	assert.Equal(t, "🗺️ 2 cities", r.Embeds[0].Title)
	assert.Equal(t, "alice's cities:\nNew York\nIstanbul", r.Embeds[0].Description)

	// 他のユーザーには影響しない
	r, err = cmd.build(ctx, "u2", "bob")
	require.NoError(t, err)
	assert.Empty(t, r.Files)
}

func TestAllCitiesBuild(t *testing.T) {
	svc := newTestService(t)
	r, err := NewAllCitiesCommand(svc).build(context.Background())
	require.NoError(t, err)
	require.Len(t, r.Embeds, 1)
	assert.Equal(t, "Istanbul\nAnkara\nNew York", r.Embeds[0].Description)
	assert.Equal(t, "3 cities", r.Embeds[0].Footer.Text)
}

type emptyService struct{ CityService }

func (emptyService) ListCities(context.Context) ([]string, error) { return nil, nil }

func TestAllCitiesEmpty(t *testing.T) {
	r, err := NewAllCitiesCommand(emptyService{}).build(context.Background())
	require.NoError(t, err)
	require.Len(t, r.Embeds, 1)
	assert.Equal(t, "No cities found!", r.Embeds[0].Description)
}

type brokenService struct{ CityService }

func (brokenService) ListCities(context.Context) ([]string, error) {
	return nil, errors.New("database unavailable")
}

func (brokenService) ListBookmarks(context.Context, string) ([]string, error) {
	return nil, errors.New("database unavailable")
}

func TestBuildPropagatesErrors(t *testing.T) {
	_, err := NewAllCitiesCommand(brokenService{}).build(context.Background())
	assert.Error(t, err)

	_, err = NewShowMyCitiesCommand(brokenService{}, "!").build(context.Background(), "u1", "alice")
	assert.Error(t, err)

	_, err = NewInfoCommand(models.NewBotInfo("test", "file"), brokenService{}).buildEmbed(context.Background())
	assert.Error(t, err)
}

func TestInfoEmbed(t *testing.T) {
	svc := newTestService(t)
	embed, err := NewInfoCommand(models.NewBotInfo("9.9.9", "file"), svc).buildEmbed(context.Background())
	require.NoError(t, err)
	values := map[string]string{}
	for _, f := range embed.Fields {
		values[f.Name] = f.Value
	}
	assert.Equal(t, "9.9.9", values["Bot version"])
	assert.Equal(t, "3", values["Known cities"])
}

func TestHelpEmbed(t *testing.T) {
	svc := newTestService(t)
	r := NewRegistry()
	help := NewHelpCommand(r, "?")
	r.Register(NewStartCommand("?"))
	r.Register(help)
	r.Register(NewShowCityCommand(svc, "?"))

	embed := help.buildHelpEmbed()
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "🔹 ?start", embed.Fields[0].Name)
	assert.Equal(t, "🔹 ?help", embed.Fields[1].Name)
	assert.Equal(t, "🔹 ?show_city <city>", embed.Fields[2].Name)
	assert.Contains(t, embed.Footer.Text, "?")
}

func TestPongMessage(t *testing.T) {
	assert.Equal(t, "Pong!", pongMessage(0))
	assert.Equal(t, "Pong! (42ms)", pongMessage(42_000_000))
}

func TestCityCommandDefinition(t *testing.T) {
	def := NewRememberCityCommand(nil, "!").SlashDefinition()
	require.Len(t, def.Options, 1)
	assert.Equal(t, cityOption, def.Options[0].Name)
	assert.True(t, def.Options[0].Required)
	assert.True(t, def.Options[0].Autocomplete)
}
