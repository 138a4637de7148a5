package environment

import (
	"context"
	"fmt"
	"slices"

	"daosim/clients"
	"daosim/clients/discord"
	"daosim/core"
	"daosim/core/log"
	"daosim/fixtures"
	"daosim/models"

	"github.com/samber/mo"
)

// Id offsets for entities created without an explicit id.
const (
	roleIDBase    = 10
	channelIDBase = 100
	forumIDBase   = 200
	userIDBase    = 300

	defaultGuildID   = 1
	defaultGuildName = "Test Server"
)

// Environment is an in-memory guild plus a bot, addressed by entity name.
// It is not safe for concurrent use; run mutations on a tasks.Scheduler.
type Environment struct {
	Guild *models.Guild
	Bot   clients.BotRuntime

	roles    map[string]*models.Role
	channels map[string]*models.Channel
	forums   map[string]*models.ForumChannel
	users    map[string]*models.Member

	lastRoleID    int64
	lastChannelID int64
	lastForumID   int64
	lastUserID    int64

	history []*models.Message
}

type Option func(*Environment)

func WithGuild(id int64, name string) Option {
	return func(e *Environment) {
		e.Guild = models.NewGuild(id, name)
	}
}

func WithBot(bot clients.BotRuntime) Option {
	return func(e *Environment) {
		e.Bot = bot
	}
}

func New(opts ...Option) *Environment {
	env := &Environment{
		roles:         make(map[string]*models.Role),
		channels:      make(map[string]*models.Channel),
		forums:        make(map[string]*models.ForumChannel),
		users:         make(map[string]*models.Member),
		lastRoleID:    roleIDBase,
		lastChannelID: channelIDBase,
		lastForumID:   forumIDBase,
		lastUserID:    userIDBase,
	}
	for _, opt := range opts {
		opt(env)
	}
	if env.Guild == nil {
		env.Guild = models.NewGuild(defaultGuildID, defaultGuildName)
	}
	if env.Bot == nil {
		env.Bot = discord.NewBot()
	}
	env.Bot.AddGuild(env.Guild)
	return env
}

type RoleOption func(*roleParams)

type roleParams struct {
	id int64
}

func WithRoleID(id int64) RoleOption {
	return func(p *roleParams) {
		p.id = id
	}
}

// AddRole creates a role. Re-adding a name points name lookups at the new
// role; the earlier one stays in the guild for members already holding it.
func (e *Environment) AddRole(name string, position int, opts ...RoleOption) *models.Role {
	params := &roleParams{}
	for _, opt := range opts {
		opt(params)
	}
	e.lastRoleID++
	id := e.lastRoleID
	if params.id != 0 {
		id = params.id
	}

	role := e.Guild.AddRole(models.NewRole(id, name, position))
	e.roles[name] = role
	log.Debug("✅ Added role %s (%d)", name, role.ID)
	return role
}

type channelParams struct {
	id           int64
	category     string
	restrictedTo []string
	tags         []*models.ForumTag
	access       models.ForumAccess
}

type ChannelOption func(*channelParams)

func WithChannelID(id int64) ChannelOption {
	return func(p *channelParams) {
		p.id = id
	}
}

func InCategory(category string) ChannelOption {
	return func(p *channelParams) {
		p.category = category
	}
}

// RestrictedTo limits the channel to members holding any of the named roles. Unknown names are dropped.
func RestrictedTo(roleNames ...string) ChannelOption {
	return func(p *channelParams) {
		p.restrictedTo = append(p.restrictedTo, roleNames...)
	}
}

// WithTags sets a forum's available tags. Ignored for text channels.
func WithTags(tags ...*models.ForumTag) ChannelOption {
	return func(p *channelParams) {
		p.tags = append(p.tags, tags...)
	}
}

// WithAccess sets a forum's read/write/vote role lists. Ignored for text channels.
func WithAccess(access models.ForumAccess) ChannelOption {
	return func(p *channelParams) {
		p.access = access
	}
}

func buildChannelParams(opts []ChannelOption) *channelParams {
	params := &channelParams{}
	for _, opt := range opts {
		opt(params)
	}
	return params
}

// AddChannel creates a text channel. Re-adding a name replaces the earlier channel.
func (e *Environment) AddChannel(name string, opts ...ChannelOption) *models.Channel {
	params := buildChannelParams(opts)
	e.lastChannelID++
	id := e.lastChannelID
	if params.id != 0 {
		id = params.id
	}

	channel := models.NewTextChannel(id, name, e.Guild)
	channel.Category = params.category
	channel.RestrictedTo = e.resolveRoles(params.restrictedTo)
	e.Guild.AddChannel(channel)
	e.channels[name] = channel
	log.Debug("✅ Added channel #%s (%d)", name, channel.ID)
	return channel
}

// AddForumChannel creates a forum channel. Re-adding a name replaces the earlier forum.
func (e *Environment) AddForumChannel(name string, opts ...ChannelOption) *models.ForumChannel {
	params := buildChannelParams(opts)
	e.lastForumID++
	id := e.lastForumID
	if params.id != 0 {
		id = params.id
	}

	forum := models.NewForumChannel(id, name, e.Guild, params.tags...)
	forum.Category = params.category
	forum.RestrictedTo = e.resolveRoles(params.restrictedTo)
	forum.Access = params.access
	e.Guild.AddForumChannel(forum)
	e.forums[name] = forum
	log.Debug("✅ Added forum #%s (%d) with %d tags", name, forum.ID, len(forum.AvailableTags))
	return forum
}

type userParams struct {
	id    int64
	roles []string
	bot   bool
}

type UserOption func(*userParams)

func WithUserID(id int64) UserOption {
	return func(p *userParams) {
		p.id = id
	}
}

// WithRoles grants the named roles. Unknown names are dropped.
func WithRoles(roleNames ...string) UserOption {
	return func(p *userParams) {
		p.roles = append(p.roles, roleNames...)
	}
}

func AsBot() UserOption {
	return func(p *userParams) {
		p.bot = true
	}
}

// AddUser creates a guild member. Re-adding a name replaces the earlier member.
func (e *Environment) AddUser(name string, opts ...UserOption) *models.Member {
	params := &userParams{}
	for _, opt := range opts {
		opt(params)
	}
	e.lastUserID++
	id := e.lastUserID
	if params.id != 0 {
		id = params.id
	}

	member := models.NewMember(models.NewUser(id, name, params.bot), e.Guild, e.resolveRoles(params.roles)...)
	e.Guild.AddMember(member)
	e.users[name] = member
	log.Debug("✅ Added user %s (%d) with roles %v", name, member.ID, member.RoleNames())
	return member
}

func (e *Environment) resolveRoles(names []string) []*models.Role {
	var roles []*models.Role
	for _, name := range names {
		role, ok := e.roles[name]
		if !ok {
			log.Warn("⚠️ Ignoring unknown role %s", name)
			continue
		}
		roles = append(roles, role)
	}
	return roles
}

func lookup[T any](items map[string]T, name string) mo.Option[T] {
	item, ok := items[name]
	if !ok {
		return mo.None[T]()
	}
	return mo.Some(item)
}

func (e *Environment) Role(name string) mo.Option[*models.Role] {
	return lookup(e.roles, name)
}

func (e *Environment) Channel(name string) mo.Option[*models.Channel] {
	return lookup(e.channels, name)
}

func (e *Environment) ForumChannel(name string) mo.Option[*models.ForumChannel] {
	return lookup(e.forums, name)
}

func (e *Environment) User(name string) mo.Option[*models.Member] {
	return lookup(e.users, name)
}

// RoleNames lists each role name once, in guild order.
func (e *Environment) RoleNames() []string {
	names := make([]string, 0, len(e.Guild.Roles))
	for _, role := range e.Guild.Roles {
		if !slices.Contains(names, role.Name) {
			names = append(names, role.Name)
		}
	}
	return names
}

func (e *Environment) ChannelNames() []string {
	var names []string
	for _, channel := range e.Guild.Channels {
		if !channel.IsForum() {
			names = append(names, channel.Name)
		}
	}
	return names
}

func (e *Environment) ForumChannelNames() []string {
	var names []string
	for _, forum := range e.Guild.Forums() {
		names = append(names, forum.Name)
	}
	return names
}

func (e *Environment) UserNames() []string {
	names := make([]string, 0, len(e.Guild.Members))
	for _, member := range e.Guild.Members {
		names = append(names, member.Name)
	}
	return names
}

func (e *Environment) requireUser(name string) (*models.Member, error) {
	member, ok := e.users[name]
	if !ok {
		return nil, fmt.Errorf("user %s %w", name, core.ErrNotFound)
	}
	return member, nil
}

func (e *Environment) requireForum(name string) (*models.ForumChannel, error) {
	forum, ok := e.forums[name]
	if !ok {
		return nil, fmt.Errorf("forum channel %s %w", name, core.ErrNotFound)
	}
	return forum, nil
}

// anyChannel resolves a text channel, falling back to a forum's channel.
func (e *Environment) anyChannel(name string) (*models.Channel, error) {
	if channel, ok := e.channels[name]; ok {
		return channel, nil
	}
	if forum, ok := e.forums[name]; ok {
		return forum.Channel, nil
	}
	return nil, fmt.Errorf("channel %s %w", name, core.ErrNotFound)
}

func (e *Environment) GetChannelThreads(channelName string) ([]*models.Thread, error) {
	channel, err := e.anyChannel(channelName)
	if err != nil {
		return nil, err
	}
	return channel.Threads, nil
}

// CreateForumPost resolves the forum, then the author, then checks the
// forum's restriction. Unknown tag names are dropped.
func (e *Environment) CreateForumPost(title, content, forumName, authorName string, tagNames ...string) (*models.Thread, error) {
	forum, err := e.requireForum(forumName)
	if err != nil {
		return nil, err
	}
	author, err := e.requireUser(authorName)
	if err != nil {
		return nil, err
	}
	if !forum.CanAccess(author) {
		return nil, core.NewPermissionError("User %s does not have permission to post in %s", authorName, forumName)
	}

	var tags []*models.ForumTag
	for _, name := range tagNames {
		tag, ok := forum.FindTag(models.TagByName(name)).Get()
		if !ok {
			log.Warn("⚠️ Ignoring unknown tag %s in forum %s", name, forumName)
			continue
		}
		tags = append(tags, tag)
	}

	thread := forum.CreatePost(title, content, author, tags)
	log.Info("✅ %s created post %q (%d) in #%s", authorName, title, thread.ID, forumName)
	return thread, nil
}

func (e *Environment) AddMessageToThread(thread *models.Thread, content, authorName string) (*models.Message, error) {
	author, err := e.requireUser(authorName)
	if err != nil {
		return nil, err
	}
	return thread.Send(content, models.WithMember(author)), nil
}

// AddMessageToForumThread posts into a forum thread addressed by id.
func (e *Environment) AddMessageToForumThread(threadID int64, forumName, content, authorName string) (*models.Message, error) {
	forum, err := e.requireForum(forumName)
	if err != nil {
		return nil, err
	}
	thread, ok := forum.GetThread(threadID).Get()
	if !ok {
		return nil, fmt.Errorf("thread %d in forum %s %w", threadID, forumName, core.ErrNotFound)
	}
	return e.AddMessageToThread(thread, content, authorName)
}

// SimulateMessage posts as authorName, fires on_message, then runs any prefix command.
func (e *Environment) SimulateMessage(ctx context.Context, channelName, content, authorName string) (*models.Message, error) {
	channel, err := e.anyChannel(channelName)
	if err != nil {
		return nil, err
	}
	author, err := e.requireUser(authorName)
	if err != nil {
		return nil, err
	}

	msg := channel.Send(content, models.WithMember(author))
	e.history = append(e.history, msg)

	if err := e.Bot.TriggerEvent(ctx, discord.EventMessage, msg); err != nil {
		return msg, fmt.Errorf("failed to dispatch message event: %w", err)
	}
	if err := e.Bot.ProcessCommand(ctx, msg); err != nil {
		return msg, fmt.Errorf("failed to process command: %w", err)
	}
	return msg, nil
}

// SimulateReaction reacts to a simulated message. Negative indexes count from the end.
func (e *Environment) SimulateReaction(emoji string, messageIndex int, userName string) (*models.Message, error) {
	if _, err := e.requireUser(userName); err != nil {
		return nil, err
	}
	idx := messageIndex
	if idx < 0 {
		idx += len(e.history)
	}
	if idx < 0 || idx >= len(e.history) {
		return nil, fmt.Errorf("message at index %d %w", messageIndex, core.ErrNotFound)
	}

	msg := e.history[idx]
	msg.AddReaction(emoji)
	return msg, nil
}

// MessageHistory lists every message sent through SimulateMessage.
func (e *Environment) MessageHistory() []*models.Message {
	return append([]*models.Message(nil), e.history...)
}

// GetMessagesInChannel returns the most recent limit messages, or all of them when limit <= 0.
func (e *Environment) GetMessagesInChannel(channelName string, limit int) ([]*models.Message, error) {
	channel, err := e.anyChannel(channelName)
	if err != nil {
		return nil, err
	}
	return channel.History(limit), nil
}

// TriggerReady fires on_ready, which is where bots start their tasks.
func (e *Environment) TriggerReady(ctx context.Context) error {
	return e.Bot.TriggerEvent(ctx, discord.EventReady)
}

// ApplyStructure seeds roles, channels, forums and then users.
func (e *Environment) ApplyStructure(structure *fixtures.Structure) {
	if structure.GuildName != "" {
		e.Guild.Name = structure.GuildName
	}
	for _, role := range structure.Roles {
		e.AddRole(role.Name, role.Position)
	}
	for _, channel := range structure.Channels {
		e.AddChannel(channel.Name, InCategory(channel.Category), RestrictedTo(channel.RestrictedTo...))
	}
	for _, forum := range structure.Forums {
		tags := make([]*models.ForumTag, 0, len(forum.Tags))
		for _, tag := range forum.Tags {
			tags = append(tags, models.NewForumTag(tag.ID, tag.Name))
		}
		e.AddForumChannel(forum.Name,
			InCategory(forum.Category),
			RestrictedTo(forum.RestrictedTo...),
			WithTags(tags...),
			WithAccess(models.ForumAccess{
				Read:  forum.ReadAccess,
				Write: forum.WriteAccess,
				Vote:  forum.VoteAccess,
			}),
		)
	}
	for _, user := range structure.Users {
		e.AddUser(user.Name, WithRoles(user.Roles...))
	}
	log.Info("✅ Seeded guild %s: %d roles, %d channels, %d forums, %d users",
		e.Guild.Name, len(structure.Roles), len(structure.Channels), len(structure.Forums), len(structure.Users))
}
