package handler

import (
	"citymap_discord_bot/internal/commands"
	"citymap_discord_bot/internal/metrics"
	"citymap_discord_bot/internal/models"
)

type Handler struct {
	registry *commands.Registry
	prefix   string
	botInfo  *models.BotInfo
	metrics  *metrics.Metrics
}

// NewHandler metrics は nil でもよい
func NewHandler(prefix string, botInfo *models.BotInfo, svc commands.CityService, m *metrics.Metrics) *Handler {
	registry := commands.NewRegistry()

	// すべてのコマンドを配列で一元管理（helpの表示順）
	commandsList := []commands.Command{
		commands.NewStartCommand(prefix),
		commands.NewHelpCommand(registry, prefix),
		&commands.PingCommand{},
		commands.NewInfoCommand(botInfo, svc),
		commands.NewShowCityCommand(svc, prefix),
		commands.NewRememberCityCommand(svc, prefix),
		commands.NewShowMyCitiesCommand(svc, prefix),
		commands.NewAllCitiesCommand(svc),
	}

	// 配列から一括登録
	for _, cmd := range commandsList {
		registry.Register(cmd)
	}
	registry.Alias("help_me", "help")

	return &Handler{
		registry: registry,
		prefix:   prefix,
		botInfo:  botInfo,
		metrics:  m,
	}
}

// Registry 登録済みコマンド
func (h *Handler) Registry() *commands.Registry {
	return h.registry
}
