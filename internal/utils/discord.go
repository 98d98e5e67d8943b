package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// FormatUserDisplayName formats a user label as "name#id", "name", or "ID:id".
func FormatUserDisplayName(name, id string) string {
	name = strings.TrimSpace(name)
	id = strings.TrimSpace(id)
	switch {
	case name != "" && id != "":
		return fmt.Sprintf("%s#%s", name, id)
	case name != "":
		return name
	case id != "":
		return fmt.Sprintf("ID:%s", id)
	default:
		return "-"
	}
}

// JoinArgs コマンド引数を空白区切りで戻す（"New York" のような都市名用）
func JoinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// ImageFile メモリ上の画像をDiscordの添付ファイルにする
func ImageFile(name, contentType string, data []byte) *discordgo.File {
	if len(data) == 0 {
		return nil
	}
	return &discordgo.File{
		Name:        name,
		ContentType: contentType,
		Reader:      bytes.NewReader(data),
	}
}

// InteractionUser サーバー内ではMember、DMではUser
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
