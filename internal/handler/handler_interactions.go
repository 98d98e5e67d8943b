package handler

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"citymap_discord_bot/internal/commands"
	"citymap_discord_bot/internal/utils"
)

// OnInteractionCreate スラッシュコマンド・入力補完ハンドラー
func (h *Handler) OnInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		// スラッシュコマンド
		h.handleSlashCommand(s, i)
	case discordgo.InteractionApplicationCommandAutocomplete:
		// 都市名の入力補完
		h.handleAutocomplete(s, i)
	default:
		log.Printf("Unknown interaction type: %d", i.Type)
	}
}

func (h *Handler) handleSlashCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cmdName := i.ApplicationCommandData().Name
	username := ""
	if user := utils.InteractionUser(i); user != nil {
		username = user.Username
	}
	log.Printf("Slash command: /%s from %s", cmdName, utils.FormatUserDisplayName(username, ""))

	cmd, exists := h.registry.Get(cmdName)
	if !exists {
		log.Printf("Unknown slash command: %s", cmdName)
		return
	}

	err := cmd.ExecuteSlash(s, i)
	h.metrics.ObserveCommand(cmd.Name(), err)
	if err != nil {
		log.Printf("Error executing slash command %s: %v", cmdName, err)
		respondEphemeral(s, i, errorMessage)
		return
	}
	log.Printf("Slash command %s completed", cmdName)
}

// respondEphemeral 応答済み（保留中）ならフォローアップで伝える
func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, msg string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err == nil {
		return
	}
	if _, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: msg,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		log.Printf("Error sending ephemeral message: %v", err)
	}
}

func (h *Handler) handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cmdName := i.ApplicationCommandData().Name
	cmd, exists := h.registry.Get(cmdName)
	if !exists {
		return
	}
	ac, ok := cmd.(commands.Autocompleter)
	if !ok {
		log.Printf("Command /%s does not support autocomplete", cmdName)
		return
	}
	if err := ac.Autocomplete(s, i); err != nil {
		log.Printf("Autocomplete for /%s failed: %v", cmdName, err)
	}
}
