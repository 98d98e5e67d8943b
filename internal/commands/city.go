package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"citymap_discord_bot/internal/embeds"
	"citymap_discord_bot/internal/mapview"
	"citymap_discord_bot/internal/utils"
)

// 地図の描画を含むコマンドのタイムアウト
const renderTimeout = 30 * time.Second

const cityOption = "city"

func notFoundMessage(prefix string) string {
	return fmt.Sprintf("City not found! Use `%sall_cities` to see the available cities.", prefix)
}

func usageMessage(prefix, name string) string {
	return fmt.Sprintf("Usage: `%s%s <city>`", prefix, name)
}

// cityCommandDefinition 都市名を1つ受け取るスラッシュコマンド
func cityCommandDefinition(name, description string) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        name,
		Description: description,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         cityOption,
				Description:  "City name (exact, case-sensitive)",
				Required:     true,
				Autocomplete: true,
			},
		},
	}
}

// ShowCityCommand 1都市を地図に表示
type ShowCityCommand struct {
	svc    CityService
	prefix string
}

func NewShowCityCommand(svc CityService, prefix string) *ShowCityCommand {
	return &ShowCityCommand{svc: svc, prefix: prefix}
}

func (c *ShowCityCommand) Name() string { return "show_city" }

func (c *ShowCityCommand) Description() string {
	return "Show a city on the world map"
}

func (c *ShowCityCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
	defer cancel()
	r, err := c.build(ctx, utils.JoinArgs(args))
	if err != nil {
		return err
	}
	return r.send(s, m.ChannelID)
}

func (c *ShowCityCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if err := respondDeferred(s, i); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
	defer cancel()
	r, err := c.build(ctx, strings.TrimSpace(stringOption(i, cityOption)))
	if err != nil {
		return err
	}
	return r.followup(s, i)
}

func (c *ShowCityCommand) Autocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return autocompleteCities(s, i, c.svc)
}

func (c *ShowCityCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return cityCommandDefinition(c.Name(), c.Description())
}

func (c *ShowCityCommand) build(ctx context.Context, name string) (reply, error) {
	if name == "" {
		return textReply(usageMessage(c.prefix, c.Name())), nil
	}
	m, err := c.svc.RenderCities(ctx, []string{name})
	if errors.Is(err, mapview.ErrNoPoints) {
		return noticeReply(notFoundMessage(c.prefix)), nil
	}
	if err != nil {
		return reply{}, err
	}
	return mapReply(m, fmt.Sprintf("%s on the map:", name)), nil
}

// RememberCityCommand 都市をブックマークに追加
type RememberCityCommand struct {
	svc    CityService
	prefix string
}

func NewRememberCityCommand(svc CityService, prefix string) *RememberCityCommand {
	return &RememberCityCommand{svc: svc, prefix: prefix}
}

func (c *RememberCityCommand) Name() string { return "remember_city" }

func (c *RememberCityCommand) Description() string {
	return "Save a city to your bookmarks"
}

func (c *RememberCityCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	r, err := c.build(context.Background(), m.Author.ID, utils.JoinArgs(args))
	if err != nil {
		return err
	}
	return r.send(s, m.ChannelID)
}

func (c *RememberCityCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	user := utils.InteractionUser(i)
	if user == nil {
		return errors.New("interaction without user")
	}
	r, err := c.build(context.Background(), user.ID, strings.TrimSpace(stringOption(i, cityOption)))
	if err != nil {
		return err
	}
	return r.respond(s, i)
}

func (c *RememberCityCommand) Autocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return autocompleteCities(s, i, c.svc)
}

func (c *RememberCityCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return cityCommandDefinition(c.Name(), c.Description())
}

func (c *RememberCityCommand) build(ctx context.Context, userID, name string) (reply, error) {
	if name == "" {
		return textReply(usageMessage(c.prefix, c.Name())), nil
	}
	res, err := c.svc.AddBookmark(ctx, userID, name)
	if err != nil {
		return reply{}, err
	}
	// 新規・登録済みは同じ応答
	if !res.OK() {
		return noticeReply(notFoundMessage(c.prefix)), nil
	}
	return textReply(fmt.Sprintf("%s saved!", name)), nil
}

// ShowMyCitiesCommand 自分のブックマークを地図に表示
type ShowMyCitiesCommand struct {
	svc    CityService
	prefix string
}

func NewShowMyCitiesCommand(svc CityService, prefix string) *ShowMyCitiesCommand {
	return &ShowMyCitiesCommand{svc: svc, prefix: prefix}
}

func (c *ShowMyCitiesCommand) Name() string { return "show_my_cities" }

func (c *ShowMyCitiesCommand) Description() string {
	return "Show your saved cities on the world map"
}

func (c *ShowMyCitiesCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
	defer cancel()
	r, err := c.build(ctx, m.Author.ID, m.Author.Username)
	if err != nil {
		return err
	}
	return r.send(s, m.ChannelID)
}

func (c *ShowMyCitiesCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	user := utils.InteractionUser(i)
	if user == nil {
		return errors.New("interaction without user")
	}
	if err := respondDeferred(s, i); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
	defer cancel()
	r, err := c.build(ctx, user.ID, user.Username)
	if err != nil {
		return err
	}
	return r.followup(s, i)
}

func (c *ShowMyCitiesCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *ShowMyCitiesCommand) build(ctx context.Context, userID, username string) (reply, error) {
	names, err := c.svc.ListBookmarks(ctx, userID)
	if err != nil {
		return reply{}, err
	}
	if len(names) == 0 {
		return noticeReply(fmt.Sprintf("You haven't saved any cities yet! Use `%sremember_city <city>` to save one.", c.prefix)), nil
	}
	m, err := c.svc.RenderCities(ctx, names)
	if errors.Is(err, mapview.ErrNoPoints) {
		return noticeReply("Could not create the map!"), nil
	}
	if err != nil {
		return reply{}, err
	}
	header := fmt.Sprintf("%s's cities:", utils.FormatUserDisplayName(username, ""))
	return mapReply(m, header+"\n"+embeds.JoinNames(names, 3500)), nil
}

// AllCitiesCommand カタログの全都市を一覧表示
type AllCitiesCommand struct {
	svc CityService
}

func NewAllCitiesCommand(svc CityService) *AllCitiesCommand {
	return &AllCitiesCommand{svc: svc}
}

func (c *AllCitiesCommand) Name() string { return "all_cities" }

func (c *AllCitiesCommand) Description() string {
	return "List every city the bot knows"
}

func (c *AllCitiesCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	r, err := c.build(context.Background())
	if err != nil {
		return err
	}
	return r.send(s, m.ChannelID)
}

func (c *AllCitiesCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	r, err := c.build(context.Background())
	if err != nil {
		return err
	}
	return r.respond(s, i)
}

func (c *AllCitiesCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *AllCitiesCommand) build(ctx context.Context) (reply, error) {
	names, err := c.svc.ListCities(ctx)
	if err != nil {
		return reply{}, err
	}
	if len(names) == 0 {
		return noticeReply("No cities found!"), nil
	}
	embed := embeds.BuildCityListEmbed("🌍 Available cities", names, fmt.Sprintf("%d cities", len(names)))
	return reply{Embeds: []*discordgo.MessageEmbed{embed}}, nil
}

// 入力候補の最大数（Discordの上限）
const maxChoices = 25

func autocompleteCities(s *discordgo.Session, i *discordgo.InteractionCreate, svc CityService) error {
	names, err := svc.ListCities(context.Background())
	if err != nil {
		return err
	}
	choices := matchCities(names, stringOption(i, cityOption))
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
}

// matchCities 前方一致を先に、次に部分一致（大文字小文字は無視）
func matchCities(names []string, typed string) []*discordgo.ApplicationCommandOptionChoice {
	typed = strings.ToLower(strings.TrimSpace(typed))
	var prefix, contains []string
	for _, name := range names {
		lower := strings.ToLower(name)
		switch {
		case strings.HasPrefix(lower, typed):
			prefix = append(prefix, name)
		case strings.Contains(lower, typed):
			contains = append(contains, name)
		}
	}
	matched := append(prefix, contains...)
	if len(matched) > maxChoices {
		matched = matched[:maxChoices]
	}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(matched))
	for _, name := range matched {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
	}
	return choices
}
