package handler

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

func (h *Handler) OnReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Println("Bot is ready!")
	log.Printf("Logged in as: %s (version %s, bookmarks: %s)", s.State.User.Username, h.botInfo.Version, h.botInfo.BookmarkBackend)
	log.Printf("Connected to %d guild(s)", len(event.Guilds))

	// スラッシュコマンドを同期
	if err := h.SyncSlashCommands(s); err != nil {
		log.Printf("Error syncing slash commands: %v", err)
	}
}
