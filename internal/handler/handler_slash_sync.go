package handler

import (
	"fmt"
	"log"
	"reflect"
	"sort"

	"github.com/bwmarrin/discordgo"
)

// syncPlan ローカル定義に合わせるための作成・更新・削除
type syncPlan struct {
	create []*discordgo.ApplicationCommand
	update map[string]*discordgo.ApplicationCommand // リモートID → 新しい定義
	remove []*discordgo.ApplicationCommand
}

func planSync(local, remote []*discordgo.ApplicationCommand) syncPlan {
	plan := syncPlan{update: make(map[string]*discordgo.ApplicationCommand)}

	remoteByName := make(map[string]*discordgo.ApplicationCommand, len(remote))
	for _, cmd := range remote {
		remoteByName[cmd.Name] = cmd
	}

	for _, localCmd := range local {
		remoteCmd, exists := remoteByName[localCmd.Name]
		if !exists {
			plan.create = append(plan.create, localCmd)
			continue
		}
		if !commandsAreEqual(localCmd, remoteCmd) {
			plan.update[remoteCmd.ID] = localCmd
		}
		delete(remoteByName, localCmd.Name)
	}

	for _, cmd := range remote {
		if _, stale := remoteByName[cmd.Name]; stale {
			plan.remove = append(plan.remove, cmd)
		}
	}
	return plan
}

func (h *Handler) SyncSlashCommands(s *discordgo.Session) error {
	log.Println("Syncing slash commands...")

	appID := s.State.User.ID
	remoteCommands, err := s.ApplicationCommands(appID, "")
	if err != nil {
		return fmt.Errorf("could not fetch remote commands: %w", err)
	}
	plan := planSync(h.registry.GetSlashDefinitions(), remoteCommands)

	for _, cmd := range plan.create {
		log.Printf("Creating slash command: /%s", cmd.Name)
		if _, err := s.ApplicationCommandCreate(appID, "", cmd); err != nil {
			log.Printf("Failed to create command /%s: %v", cmd.Name, err)
		}
	}
	for id, cmd := range plan.update {
		log.Printf("Updating slash command: /%s", cmd.Name)
		if _, err := s.ApplicationCommandEdit(appID, "", id, cmd); err != nil {
			log.Printf("Failed to update command /%s: %v", cmd.Name, err)
		}
	}
	for _, cmd := range plan.remove {
		log.Printf("Deleting outdated slash command: /%s", cmd.Name)
		if err := s.ApplicationCommandDelete(appID, "", cmd.ID); err != nil {
			log.Printf("Failed to delete command /%s: %v", cmd.Name, err)
		}
	}

	log.Println("Slash command sync complete.")
	return nil
}

func commandsAreEqual(c1, c2 *discordgo.ApplicationCommand) bool {
	if c1.Name != c2.Name || c1.Description != c2.Description {
		return false
	}
	return optionListsAreEqual(c1.Options, c2.Options)
}

func optionListsAreEqual(a, b []*discordgo.ApplicationCommandOption) bool {
	if len(a) != len(b) {
		return false
	}
	a, b = sortedOptions(a), sortedOptions(b)
	for i := range a {
		if !optionsAreEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func optionsAreEqual(o1, o2 *discordgo.ApplicationCommandOption) bool {
	if o1.Type != o2.Type || o1.Name != o2.Name || o1.Description != o2.Description || o1.Required != o2.Required || o1.Autocomplete != o2.Autocomplete {
		return false
	}
	if len(o1.Choices) != len(o2.Choices) {
		return false
	}
	if len(o1.Choices) > 0 && !reflect.DeepEqual(sortedChoices(o1.Choices), sortedChoices(o2.Choices)) {
		return false
	}
	return optionListsAreEqual(o1.Options, o2.Options)
}

// 名前順のコピー（元の定義は並べ替えない）
func sortedOptions(opts []*discordgo.ApplicationCommandOption) []*discordgo.ApplicationCommandOption {
	out := make([]*discordgo.ApplicationCommandOption, len(opts))
	copy(out, opts)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedChoices(choices []*discordgo.ApplicationCommandOptionChoice) []*discordgo.ApplicationCommandOptionChoice {
	out := make([]*discordgo.ApplicationCommandOptionChoice, len(choices))
	copy(out, choices)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
