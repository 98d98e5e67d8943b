package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type StartCommand struct {
	prefix string
}

func NewStartCommand(prefix string) *StartCommand {
	return &StartCommand{prefix: prefix}
}

func (c *StartCommand) Name() string {
	return "start"
}

func (c *StartCommand) Description() string {
	return "Check that the map bot is running"
}

func (c *StartCommand) message() string {
	return fmt.Sprintf("Map bot is active! Ready to explore cities! Try `%shelp` to see what I can do.", c.prefix)
}

func (c *StartCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	_, err := s.ChannelMessageSend(m.ChannelID, c.message())
	return err
}

func (c *StartCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return textReply(c.message()).respond(s, i)
}

func (c *StartCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}
