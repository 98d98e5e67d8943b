package handler

import (
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const errorMessage = "An error occurred while executing the command."

// parseCommand プレフィックス付きのメッセージをコマンド名と引数に分ける
func parseCommand(prefix, content string) (string, []string, bool) {
	if !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	parts := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(parts) == 0 {
		return "", nil, false
	}
	return parts[0], parts[1:], true
}

func (h *Handler) OnMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Botメッセージを無視
	if m.Author == nil || m.Author.Bot {
		return
	}

	cmdName, args, ok := parseCommand(h.prefix, m.Content)
	if !ok {
		return
	}

	log.Printf("Parsed command: '%s', args: %v from %s", cmdName, args, m.Author.Username)

	// コマンド実行
	cmd, exists := h.registry.Get(cmdName)
	if !exists {
		log.Printf("Command '%s' not found in registry", cmdName)
		return
	}

	err := cmd.ExecuteText(s, m, args)
	h.metrics.ObserveCommand(cmd.Name(), err)
	if err != nil {
		log.Printf("Error executing command %s: %v", cmdName, err)
		if _, sendErr := s.ChannelMessageSend(m.ChannelID, errorMessage); sendErr != nil {
			log.Printf("Error sending error message: %v", sendErr)
		}
		return
	}
	log.Printf("Command %s completed successfully", cmdName)
}
