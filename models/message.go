package models

import (
	"fmt"
	"slices"
	"time"

	"daosim/core"

	"github.com/bwmarrin/discordgo"
)

type Message struct {
	ID          int64
	Content     string
	Author      *User
	Member      *Member
	Channel     Messageable
	Guild       *Guild
	Attachments []string
	Embeds      []*discordgo.MessageEmbed
	Reactions   []string
	CreatedAt   time.Time
	EditedAt    *time.Time
}

func (m *Message) AddReaction(emoji string) {
	m.Reactions = append(m.Reactions, emoji)
}

// RemoveReaction drops one occurrence of emoji. Unknown emoji are ignored.
func (m *Message) RemoveReaction(emoji string) {
	if idx := slices.Index(m.Reactions, emoji); idx >= 0 {
		m.Reactions = slices.Delete(m.Reactions, idx, idx+1)
	}
}

// Edit replaces the content when content is non-nil and the first embed when embed is non-nil.
func (m *Message) Edit(content *string, embed *discordgo.MessageEmbed) {
	if content != nil {
		m.Content = *content
	}
	if embed != nil {
		if len(m.Embeds) == 0 {
			m.Embeds = []*discordgo.MessageEmbed{embed}
		} else {
			m.Embeds[0] = embed
		}
	}
	now := time.Now()
	m.EditedAt = &now
}

// Delete removes the message from the channel or thread that holds it.
func (m *Message) Delete() error {
	if m.Channel == nil || !m.Channel.removeMessage(m) {
		return fmt.Errorf("message %d %w", m.ID, core.ErrNotFound)
	}
	return nil
}

// Messageable is anything that holds an ordered message log: text channels, forums and threads.
type Messageable interface {
	GetID() int64
	GetName() string
	GetGuild() *Guild
	Messages() []*Message
	Send(content string, opts ...SendOption) *Message
	History(limit int) []*Message
	removeMessage(msg *Message) bool
}

type sendParams struct {
	author      *User
	member      *Member
	embed       *discordgo.MessageEmbed
	attachments []string
}

type SendOption func(*sendParams)

// WithAuthor sets a bare user as the author, e.g. a synthesized bot identity.
func WithAuthor(author *User) SendOption {
	return func(p *sendParams) {
		p.author = author
		p.member = nil
	}
}

// WithMember sets a guild member as the author.
func WithMember(member *Member) SendOption {
	return func(p *sendParams) {
		p.author = member.User
		p.member = member
	}
}

func WithEmbed(embed *discordgo.MessageEmbed) SendOption {
	return func(p *sendParams) {
		p.embed = embed
	}
}

func WithAttachments(urls ...string) SendOption {
	return func(p *sendParams) {
		p.attachments = append(p.attachments, urls...)
	}
}

const defaultBotAuthorName = "Bot"

// messageLog assigns ids from a counter that never rewinds, so a deleted
// message's id is never handed out again.
type messageLog struct {
	messages []*Message
	lastID   int64
}

func (l *messageLog) post(owner Messageable, content string, opts []SendOption) *Message {
	params := &sendParams{}
	for _, opt := range opts {
		opt(params)
	}
	if params.author == nil {
		params.author = NewBotUser(defaultBotAuthorName)
	}

	l.lastID++
	msg := &Message{
		ID:          l.lastID,
		Content:     content,
		Author:      params.author,
		Member:      params.member,
		Channel:     owner,
		Guild:       owner.GetGuild(),
		Attachments: params.attachments,
		CreatedAt:   time.Now(),
	}
	if params.embed != nil {
		msg.Embeds = []*discordgo.MessageEmbed{params.embed}
	}
	l.messages = append(l.messages, msg)
	return msg
}

func (l *messageLog) Messages() []*Message {
	return slices.Clone(l.messages)
}

// History returns the most recent limit messages in posting order. A limit
// of zero or less returns everything.
func (l *messageLog) History(limit int) []*Message {
	if limit <= 0 || limit >= len(l.messages) {
		return slices.Clone(l.messages)
	}
	return slices.Clone(l.messages[len(l.messages)-limit:])
}

func (l *messageLog) removeMessage(msg *Message) bool {
	idx := slices.Index(l.messages, msg)
	if idx < 0 {
		return false
	}
	l.messages = slices.Delete(l.messages, idx, idx+1)
	return true
}
