package discord

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"daosim/clients"
	"daosim/models"
)

// MockBot implements the clients.BotRuntime interface for testing
type MockBot struct {
	mock.Mock
}

func (m *MockBot) BotUser() *models.User {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.User)
}

func (m *MockBot) SetBotUser(user *models.User) {
	m.Called(user)
}

func (m *MockBot) AddGuild(guild *models.Guild) *models.Guild {
	m.Called(guild)
	return guild
}

func (m *MockBot) GetGuild(guildID int64) mo.Option[*models.Guild] {
	args := m.Called(guildID)
	return args.Get(0).(mo.Option[*models.Guild])
}

func (m *MockBot) Guilds() []*models.Guild {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*models.Guild)
}

func (m *MockBot) AddCommand(name string, handler clients.CommandHandler) {
	m.Called(name, handler)
}

func (m *MockBot) Event(name string, handler clients.EventHandler) {
	m.Called(name, handler)
}

func (m *MockBot) Listen(name string, handler clients.EventHandler) {
	m.Called(name, handler)
}

func (m *MockBot) ProcessCommand(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockBot) TriggerEvent(ctx context.Context, name string, eventArgs ...any) error {
	args := m.Called(ctx, name, eventArgs)
	return args.Error(0)
}
