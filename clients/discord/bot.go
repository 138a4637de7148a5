package discord

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"daosim/clients"
	"daosim/core/log"
	"daosim/models"

	"github.com/samber/mo"
)

const (
	EventReady   = "on_ready"
	EventMessage = "on_message"

	DefaultPrefix = "!"
)

// Bot implements the clients.BotRuntime interface without a gateway connection.
// Registration tables are guarded by a mutex; handlers run outside the lock.
type Bot struct {
	mu            sync.RWMutex
	user          *models.User
	prefix        string
	guilds        []*models.Guild
	commands      map[string]clients.CommandHandler
	eventHandlers map[string]clients.EventHandler
	listeners     map[string][]clients.EventHandler
}

// NewBot creates a bot whose identity is the id-0 "TestBot" user
func NewBot() *Bot {
	return &Bot{
		user:          models.NewUser(0, "TestBot", true),
		prefix:        DefaultPrefix,
		commands:      make(map[string]clients.CommandHandler),
		eventHandlers: make(map[string]clients.EventHandler),
		listeners:     make(map[string][]clients.EventHandler),
	}
}

func (b *Bot) BotUser() *models.User {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.user
}

func (b *Bot) SetBotUser(user *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.user = user
}

func (b *Bot) Prefix() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.prefix
}

func (b *Bot) SetPrefix(prefix string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prefix = prefix
}

// AddGuild registers a guild, replacing any guild with the same id
func (b *Bot) AddGuild(guild *models.Guild) *models.Guild {
	b.mu.Lock()
	defer b.mu.Unlock()

	if idx := slices.IndexFunc(b.guilds, func(g *models.Guild) bool { return g.ID == guild.ID }); idx >= 0 {
		b.guilds[idx] = guild
		return guild
	}
	b.guilds = append(b.guilds, guild)
	return guild
}

func (b *Bot) GetGuild(guildID int64) mo.Option[*models.Guild] {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, guild := range b.guilds {
		if guild.ID == guildID {
			return mo.Some(guild)
		}
	}
	return mo.None[*models.Guild]()
}

func (b *Bot) Guilds() []*models.Guild {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.guilds)
}

// AddCommand registers a prefix command. Registering a name twice replaces the handler.
func (b *Bot) AddCommand(name string, handler clients.CommandHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.commands[name] = handler
}

// Event sets the single handler for an event, replacing any previous one.
func (b *Bot) Event(name string, handler clients.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eventHandlers[name] = handler
}

// Listen appends a listener for an event. Listeners run after the single handler, in registration order.
func (b *Bot) Listen(name string, handler clients.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[name] = append(b.listeners[name], handler)
}

// ProcessCommand runs the command named by the first token after the prefix.
// Messages without the prefix, an empty command name, or an unknown name are ignored.
func (b *Bot) ProcessCommand(ctx context.Context, msg *models.Message) error {
	prefix := b.Prefix()
	if msg == nil || !strings.HasPrefix(msg.Content, prefix) {
		return nil
	}

	fields := strings.Fields(strings.TrimPrefix(msg.Content, prefix))
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]

	b.mu.RLock()
	handler, ok := b.commands[name]
	b.mu.RUnlock()
	if !ok {
		log.Debug("🤖 Ignoring unknown command %q", name)
		return nil
	}

	log.Debug("🤖 Dispatching command %q from %s", name, msg.Author)
	if err := handler(ctx, msg, args); err != nil {
		return fmt.Errorf("failed to run command %s: %w", name, err)
	}
	return nil
}

// TriggerEvent invokes the single handler and then each listener. The first error stops dispatch.
func (b *Bot) TriggerEvent(ctx context.Context, name string, args ...any) error {
	b.mu.RLock()
	var handlers []clients.EventHandler
	if handler, ok := b.eventHandlers[name]; ok {
		handlers = append(handlers, handler)
	}
	handlers = append(handlers, b.listeners[name]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		log.Debug("🤖 No handlers for event %s", name)
		return nil
	}

	for _, handler := range handlers {
		if err := handler(ctx, args...); err != nil {
			return fmt.Errorf("failed to handle event %s: %w", name, err)
		}
	}
	return nil
}
