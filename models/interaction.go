package models

import (
	"errors"
	"sort"
	"slices"

	"daosim/core"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"
)

var (
	ErrInteractionAcknowledged    = errors.New("interaction has already been acknowledged")
	ErrInteractionNotAcknowledged = errors.New("interaction has not been acknowledged")
)

// Reply is one response or follow-up sent back to the invoking user.
type Reply struct {
	Content  string
	Embeds   []*discordgo.MessageEmbed
	Flags    discordgo.MessageFlags
	Followup bool
}

func (r Reply) Ephemeral() bool {
	return r.Flags&discordgo.MessageFlagsEphemeral != 0
}

// Interaction is a slash command invocation. Channel is either a *Channel or a *Thread.
type Interaction struct {
	ID      string
	User    *Member
	Guild   *Guild
	Channel Messageable
	Data    discordgo.ApplicationCommandInteractionData

	response          mo.Option[discordgo.InteractionResponseType]
	deferredEphemeral bool
	replies           []Reply
}

// NewInteraction builds an invocation of command with string options.
func NewInteraction(user *Member, channel Messageable, command string, options map[string]string) *Interaction {
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)

	dataOptions := make([]*discordgo.ApplicationCommandInteractionDataOption, 0, len(names))
	for _, name := range names {
		dataOptions = append(dataOptions, &discordgo.ApplicationCommandInteractionDataOption{
			Name:  name,
			Type:  discordgo.ApplicationCommandOptionString,
			Value: options[name],
		})
	}

	var guild *Guild
	if channel != nil {
		guild = channel.GetGuild()
	} else if user != nil {
		guild = user.Guild
	}

	return &Interaction{
		ID:      core.NewID("int"),
		User:    user,
		Guild:   guild,
		Channel: channel,
		Data: discordgo.ApplicationCommandInteractionData{
			Name:        command,
			CommandType: discordgo.ChatApplicationCommand,
			Options:     dataOptions,
		},
	}
}

func (i *Interaction) CommandName() string {
	return i.Data.Name
}

func (i *Interaction) Option(name string) mo.Option[string] {
	for _, opt := range i.Data.Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return mo.Some(opt.StringValue())
		}
	}
	return mo.None[string]()
}

// Thread returns the invoking channel when it is a thread.
func (i *Interaction) Thread() mo.Option[*Thread] {
	if thread, ok := i.Channel.(*Thread); ok {
		return mo.Some(thread)
	}
	return mo.None[*Thread]()
}

// Defer acknowledges the interaction without content; replies then go through Followup.
func (i *Interaction) Defer(ephemeral bool) error {
	if i.response.IsPresent() {
		return ErrInteractionAcknowledged
	}
	i.response = mo.Some(discordgo.InteractionResponseDeferredChannelMessageWithSource)
	i.deferredEphemeral = ephemeral
	return nil
}

// SendMessage sends the initial response.
func (i *Interaction) SendMessage(content string, ephemeral bool, embeds ...*discordgo.MessageEmbed) error {
	if i.response.IsPresent() {
		return ErrInteractionAcknowledged
	}
	i.response = mo.Some(discordgo.InteractionResponseChannelMessageWithSource)
	i.replies = append(i.replies, newReply(content, ephemeral, embeds, false))
	return nil
}

func (i *Interaction) Followup(content string, ephemeral bool, embeds ...*discordgo.MessageEmbed) error {
	if !i.response.IsPresent() {
		return ErrInteractionNotAcknowledged
	}
	i.replies = append(i.replies, newReply(content, ephemeral, embeds, true))
	return nil
}

func newReply(content string, ephemeral bool, embeds []*discordgo.MessageEmbed, followup bool) Reply {
	reply := Reply{Content: content, Embeds: embeds, Followup: followup}
	if ephemeral {
		reply.Flags = discordgo.MessageFlagsEphemeral
	}
	return reply
}

func (i *Interaction) ResponseType() mo.Option[discordgo.InteractionResponseType] {
	return i.response
}

// DeferredEphemeral reports whether the deferred acknowledgement was only visible to the invoker.
func (i *Interaction) DeferredEphemeral() bool {
	return i.deferredEphemeral
}

func (i *Interaction) Replies() []Reply {
	return slices.Clone(i.replies)
}

func (i *Interaction) LastReply() mo.Option[Reply] {
	if len(i.replies) == 0 {
		return mo.None[Reply]()
	}
	return mo.Some(i.replies[len(i.replies)-1])
}
