package commands

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"

	"citymap_discord_bot/internal/bookmarks"
	"citymap_discord_bot/internal/geo"
	"citymap_discord_bot/internal/mapview"
)

// Command 統合コマンドインターフェース
type Command interface {
	Name() string
	Description() string
	// テキストコマンド実行
	ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error
	// スラッシュコマンド実行
	ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error
	// スラッシュコマンド定義（nilを返すとスラッシュコマンドとして登録されない）
	SlashDefinition() *discordgo.ApplicationCommand
}

// Autocompleter スラッシュコマンドの入力候補を返せるコマンド
type Autocompleter interface {
	Autocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) error
}

// CityService コマンドから使う都市・ブックマーク・地図のAPI
type CityService interface {
	LookupCity(ctx context.Context, name string) (geo.Coordinates, bool, error)
	ListCities(ctx context.Context) ([]string, error)
	AddBookmark(ctx context.Context, user, name string) (bookmarks.AddResult, error)
	ListBookmarks(ctx context.Context, user string) ([]string, error)
	RenderCities(ctx context.Context, names []string) (*mapview.Map, error)
}

// Registry コマンドの登録と管理
type Registry struct {
	commands map[string]Command
	aliases  map[string]string
	order    []string
}

// NewRegistry 新しいRegistryを作成
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		aliases:  make(map[string]string),
	}
}

// Register コマンドを登録
func (r *Registry) Register(cmd Command) {
	key := strings.ToLower(cmd.Name())
	if _, exists := r.commands[key]; !exists {
		r.order = append(r.order, key)
	}
	r.commands[key] = cmd
}

// Alias テキストコマンド用の別名
func (r *Registry) Alias(alias, name string) {
	r.aliases[strings.ToLower(alias)] = strings.ToLower(name)
}

// Get コマンドを取得（別名も解決）
func (r *Registry) Get(name string) (Command, bool) {
	key := strings.ToLower(name)
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	cmd, exists := r.commands[key]
	return cmd, exists
}

// All 登録順に全てのコマンドを取得
func (r *Registry) All() []Command {
	out := make([]Command, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.commands[key])
	}
	return out
}

// GetSlashDefinitions スラッシュコマンド定義を取得
func (r *Registry) GetSlashDefinitions() []*discordgo.ApplicationCommand {
	defs := make([]*discordgo.ApplicationCommand, 0)
	for _, cmd := range r.All() {
		if def := cmd.SlashDefinition(); def != nil {
			defs = append(defs, def)
		}
	}
	return defs
}
