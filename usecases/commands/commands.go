package commands

import (
	"daosim/models"
)

const (
	CommandFeedback = "feedback"
	CommandVote     = "vote"

	RepresentativeRoleName = "dao-team-representative"
	AdminRoleName          = "Admin"

	// anonymousAuthorName is the bot identity that relays feedback.
	anonymousAuthorName = "JAM-DAO-Bot"
)

// Config carries the deployment settings the commands depend on
type Config struct {
	ForumChannelID           int64
	ForumChannelName         string
	VoterRoleName            string
	NetworkName              string
	PublicDiscussionsChannel string
}

func DefaultConfig() Config {
	return Config{
		ForumChannelName:         "referendas",
		VoterRoleName:            RepresentativeRoleName,
		NetworkName:              "polkadot",
		PublicDiscussionsChannel: "public-discussions",
	}
}

// Result summarizes what the invoking user saw
type Result struct {
	ResponseSent    bool
	ResponseContent string
	Ephemeral       bool
}

// ResultOf reads the summary from the interaction's last reply.
func ResultOf(interaction *models.Interaction) Result {
	reply, ok := interaction.LastReply().Get()
	if !ok {
		return Result{}
	}
	return Result{
		ResponseSent:    true,
		ResponseContent: reply.Content,
		Ephemeral:       reply.Ephemeral(),
	}
}
