package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

type PingCommand struct{}

func (c *PingCommand) Name() string {
	return "ping"
}

func (c *PingCommand) Description() string {
	return "Responds with Pong!"
}

func pongMessage(latency time.Duration) string {
	if latency <= 0 {
		return "Pong!"
	}
	return fmt.Sprintf("Pong! (%dms)", latency.Milliseconds())
}

func (c *PingCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	_, err := s.ChannelMessageSend(m.ChannelID, pongMessage(s.HeartbeatLatency()))
	return err
}

func (c *PingCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return textReply(pongMessage(s.HeartbeatLatency())).respond(s, i)
}

func (c *PingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}
