package embeds

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"citymap_discord_bot/internal/geo"
	"citymap_discord_bot/internal/mapview"
	"citymap_discord_bot/internal/models"
)

const (
	colorInfo   = 0xFFD700 // Gold
	colorMap    = 0x2ECC71 // Green
	colorList   = 0x3498DB // Blue
	colorNotice = 0xE67E22 // Orange

	// Discordの説明文の上限は4096文字
	maxDescription = 4000
)

// BuildInfoEmbed info コマンド用の埋め込みを作成
func BuildInfoEmbed(botInfo *models.BotInfo, cityCount int, notes []string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🗺️ City Map Bot",
		Description: "Bookmark cities and see them on a world map.",
		Color:       colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Bot version",
				Value:  botInfo.Version,
				Inline: true,
			},
			{
				Name:   "Known cities",
				Value:  fmt.Sprintf("%d", cityCount),
				Inline: true,
			},
			{
				Name:   "Bookmark storage",
				Value:  botInfo.BookmarkBackend,
				Inline: true,
			},
			{
				Name:   "Started",
				Value:  botInfo.StartTime.Format("2006-01-02 15:04:05 MST"),
				Inline: false,
			},
			{
				Name:   "Uptime",
				Value:  formatUptime(botInfo.Uptime()),
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "City Map Bot - Go Edition",
		},
	}
	if len(notes) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "What's new",
			Value: "• " + strings.Join(notes, "\n• "),
		})
	}
	return embed
}

// BuildMapEmbed 描画した地図を添付画像として表示する
func BuildMapEmbed(m *mapview.Map, description string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🗺️ " + m.Title,
		Description: truncate(description, maxDescription),
		Color:       colorMap,
		Image: &discordgo.MessageEmbedImage{
			URL: "attachment://" + m.Filename,
		},
	}
	if len(m.Markers) == 1 {
		c := m.Markers[0].Coordinates
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "📍 Coordinates",
			Value: formatCoordinates(c),
		})
	}
	return embed
}

// BuildCityListEmbed 都市名の一覧
func BuildCityListEmbed(title string, names []string, footer string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: JoinNames(names, maxDescription),
		Color:       colorList,
	}
	if footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: footer}
	}
	return embed
}

// BuildNoticeEmbed 見つからない・空などの案内
func BuildNoticeEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: message,
		Color:       colorNotice,
	}
}

// JoinNames 改行区切りで連結し、上限を超える分は件数だけ示す
// limit はDiscordと同じく文字数（ルーン数）で数える
func JoinNames(names []string, limit int) string {
	var b strings.Builder
	used := 0
	for i, name := range names {
		line := name
		if i > 0 {
			line = "\n" + name
		}
		need := utf8.RuneCountInString(line)
		if rest := len(names) - i - 1; rest > 0 {
			need += utf8.RuneCountInString(moreSuffix(rest))
		}
		if used+need > limit {
			b.WriteString(moreSuffix(len(names) - i))
			break
		}
		b.WriteString(line)
		used += utf8.RuneCountInString(line)
	}
	return strings.TrimPrefix(b.String(), "\n")
}

func moreSuffix(n int) string {
	return fmt.Sprintf("\n…and %d more", n)
}

func formatCoordinates(c geo.Coordinates) string {
	lat := fmt.Sprintf("%.4f°N", c.Lat)
	if c.Lat < 0 {
		lat = fmt.Sprintf("%.4f°S", -c.Lat)
	}
	lng := fmt.Sprintf("%.4f°E", c.Lng)
	if c.Lng < 0 {
		lng = fmt.Sprintf("%.4f°W", -c.Lng)
	}
	return lat + ", " + lng
}

// truncate 文字数で切り詰める
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

// formatUptime 稼働時間を人間が読みやすい形式にフォーマット
func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	} else if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
