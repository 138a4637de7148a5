package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"daosim/core/log"
	"daosim/models"

	"github.com/bwmarrin/discordgo"
)

const (
	colorAye     = 0x00FF00
	colorNay     = 0xFF0000
	colorAbstain = 0xFFFF00

	// placeholderExtrinsicHash stands in for a submitted transaction; nothing reaches a chain.
	placeholderExtrinsicHash = "0x1234567890abcdef1234567890abcdef1234567890abcdef1234567890abcdef"
)

// Vote announces an on-chain vote cast by a representative. No chain state
// or tally changes; the announcement embed is the whole effect.
func Vote(ctx context.Context, interaction *models.Interaction, cfg Config) (Result, error) {
	log.Info("📋 Starting to handle vote command from %s", interaction.User.Name)

	if err := interaction.Defer(true); err != nil {
		return Result{}, fmt.Errorf("failed to defer vote response: %w", err)
	}

	options := make(map[string]string, 3)
	for _, name := range []string{"referendum", "conviction", "decision"} {
		value, ok := interaction.Option(name).Get()
		if !ok || value == "" {
			return followup(interaction, "Missing required option: "+name, true)
		}
		options[name] = value
	}

	if !interaction.User.HasRole(cfg.VoterRoleName) {
		log.Info("⚠️ %s lacks the %s role for voting", interaction.User.Name, cfg.VoterRoleName)
		return followup(interaction, fmt.Sprintf("You don't have permission to vote. Only users with the @%s role can vote.", cfg.VoterRoleName), true)
	}

	if _, err := followup(interaction, "Initializing extrinsic, please wait...", true); err != nil {
		return Result{}, err
	}

	referendum, conviction := options["referendum"], options["conviction"]
	decision := strings.ToUpper(options["decision"])
	embed := buildVoteEmbed(interaction.User, referendum, conviction, options["decision"], cfg.NetworkName)

	log.Info("✅ Vote %s on referendum #%s by %s", decision, referendum, interaction.User.Name)
	content := fmt.Sprintf("Vote %s with %s conviction on referendum #%s has been cast!", decision, conviction, referendum)
	if err := interaction.Followup(content, false, embed); err != nil {
		return Result{}, fmt.Errorf("failed to send vote confirmation: %w", err)
	}
	return ResultOf(interaction), nil
}

func followup(interaction *models.Interaction, content string, ephemeral bool) (Result, error) {
	if err := interaction.Followup(content, ephemeral); err != nil {
		return Result{}, fmt.Errorf("failed to send vote followup: %w", err)
	}
	return ResultOf(interaction), nil
}

func decisionStyle(decision string) (int, string) {
	switch decision {
	case "nay":
		return colorNay, "❌"
	case "abstain":
		return colorAbstain, "⚠️"
	default:
		return colorAye, "✅"
	}
}

// ShortHash renders a transaction hash as its first and last eight characters.
func ShortHash(hash string) string {
	if len(hash) <= 16 {
		return hash
	}
	return hash[:8] + "..." + hash[len(hash)-8:]
}

func buildVoteEmbed(voter *models.Member, referendum, conviction, decision, network string) *discordgo.MessageEmbed {
	color, emoji := decisionStyle(decision)
	upperDecision := strings.ToUpper(decision)
	link := fmt.Sprintf("https://%s.subscan.io/extrinsic/%s", network, placeholderExtrinsicHash)

	return &discordgo.MessageEmbed{
		Title:       "An on-chain vote has been cast",
		Description: fmt.Sprintf("%s %s on proposal **#%s**", emoji, upperDecision, referendum),
		Color:       color,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Extrinsic hash", Value: fmt.Sprintf("[%s](%s)", ShortHash(placeholderExtrinsicHash), link), Inline: true},
			{Name: "Executed by", Value: voter.Mention(), Inline: true},
			{Name: "\u200b", Value: "\u200b", Inline: false},
			{Name: "Decision", Value: upperDecision, Inline: true},
			{Name: "Conviction", Value: strings.ToUpper(conviction), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "This vote was made using /vote"},
	}
}
