package commands

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"citymap_discord_bot/internal/embeds"
	"citymap_discord_bot/internal/models"
	"citymap_discord_bot/internal/version"
)

type InfoCommand struct {
	botInfo *models.BotInfo
	svc     CityService
}

func NewInfoCommand(botInfo *models.BotInfo, svc CityService) *InfoCommand {
	return &InfoCommand{botInfo: botInfo, svc: svc}
}

func (c *InfoCommand) Name() string {
	return "info"
}

func (c *InfoCommand) Description() string {
	return "Show information about the bot"
}

func (c *InfoCommand) buildEmbed(ctx context.Context) (*discordgo.MessageEmbed, error) {
	names, err := c.svc.ListCities(ctx)
	if err != nil {
		return nil, err
	}
	return embeds.BuildInfoEmbed(c.botInfo, len(names), version.ReleaseNotes), nil
}

func (c *InfoCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	embed, err := c.buildEmbed(context.Background())
	if err != nil {
		return err
	}
	_, err = s.ChannelMessageSendEmbed(m.ChannelID, embed)
	return err
}

func (c *InfoCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	embed, err := c.buildEmbed(context.Background())
	if err != nil {
		return err
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

func (c *InfoCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}
