package clients

import (
	"context"

	"daosim/models"

	"github.com/samber/mo"
)

// CommandHandler handles a prefix command. args are the whitespace tokens after the command name.
type CommandHandler func(ctx context.Context, msg *models.Message, args []string) error

// EventHandler handles a named gateway event such as "on_ready" or "on_message".
type EventHandler func(ctx context.Context, args ...any) error

// BotRuntime defines the interface of the in-process bot dispatcher
type BotRuntime interface {
	// Identity and guilds
	BotUser() *models.User
	SetBotUser(user *models.User)
	AddGuild(guild *models.Guild) *models.Guild
	GetGuild(guildID int64) mo.Option[*models.Guild]
	Guilds() []*models.Guild

	// Registration
	AddCommand(name string, handler CommandHandler)
	Event(name string, handler EventHandler)
	Listen(name string, handler EventHandler)

	// Dispatch
	ProcessCommand(ctx context.Context, msg *models.Message) error
	TriggerEvent(ctx context.Context, name string, args ...any) error
}
