package commands

import (
	"github.com/bwmarrin/discordgo"

	"citymap_discord_bot/internal/embeds"
	"citymap_discord_bot/internal/mapview"
	"citymap_discord_bot/internal/utils"
)

// reply 送信内容（テキスト/スラッシュ共通）
type reply struct {
	Content string
	Embeds  []*discordgo.MessageEmbed
	Files   []*discordgo.File
}

func textReply(msg string) reply {
	return reply{Content: msg}
}

func noticeReply(msg string) reply {
	return reply{Embeds: []*discordgo.MessageEmbed{embeds.BuildNoticeEmbed(msg)}}
}

func mapReply(m *mapview.Map, description string) reply {
	r := reply{Embeds: []*discordgo.MessageEmbed{embeds.BuildMapEmbed(m, description)}}
	if f := utils.ImageFile(m.Filename, m.ContentType, m.Data); f != nil {
		r.Files = []*discordgo.File{f}
	}
	return r
}

func (r reply) send(s *discordgo.Session, channelID string) error {
	_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: r.Content,
		Embeds:  r.Embeds,
		Files:   r.Files,
	})
	return err
}

func (r reply) respond(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: r.Content,
			Embeds:  r.Embeds,
			Files:   r.Files,
		},
	})
}

func (r reply) followup(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: r.Content,
		Embeds:  r.Embeds,
		Files:   r.Files,
	})
	return err
}

// respondDeferred 描画に時間がかかるコマンドは先に応答を保留する
func respondDeferred(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

// stringOption 指定した名前の文字列オプション
func stringOption(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}
