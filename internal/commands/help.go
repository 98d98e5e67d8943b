package commands

import (
	"github.com/bwmarrin/discordgo"
)

type HelpCommand struct {
	registry *Registry
	prefix   string
}

func NewHelpCommand(registry *Registry, prefix string) *HelpCommand {
	return &HelpCommand{registry: registry, prefix: prefix}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "List the available commands"
}

func (c *HelpCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	embed := c.buildHelpEmbed()
	_, err := s.ChannelMessageSendEmbed(m.ChannelID, embed)
	return err
}

func (c *HelpCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	embed := c.buildHelpEmbed()
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *HelpCommand) buildHelpEmbed() *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "📋 Commands",
		Description: "City names are exact and case-sensitive, for example `New York`.",
		Color:       0x5865F2, // Discord Blurple
		Fields:      []*discordgo.MessageEmbedField{},
	}

	// コマンドを登録順に追加
	for _, cmd := range c.registry.All() {
		usage := c.prefix + cmd.Name()
		if def := cmd.SlashDefinition(); def != nil {
			for _, opt := range def.Options {
				usage += " <" + opt.Name + ">"
			}
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "🔹 " + usage,
			Value:  cmd.Description(),
			Inline: false,
		})
	}

	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: "Use the " + c.prefix + " prefix for text commands. Slash commands are available too.",
	}

	return embed
}
