package fixtures

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/jam_dao.yaml
var jamDaoYAML []byte

type RoleConfig struct {
	Name     string `yaml:"name"`
	Position int    `yaml:"position"`
}

type ChannelConfig struct {
	Name         string   `yaml:"name"`
	Category     string   `yaml:"category"`
	RestrictedTo []string `yaml:"restricted_to"`
}

type TagConfig struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

type ForumConfig struct {
	Name         string      `yaml:"name"`
	Category     string      `yaml:"category"`
	Tags         []TagConfig `yaml:"tags"`
	RestrictedTo []string    `yaml:"restricted_to"`
	ReadAccess   []string    `yaml:"read_access"`
	WriteAccess  []string    `yaml:"write_access"`
	VoteAccess   []string    `yaml:"vote_access"`
}

type UserConfig struct {
	Name  string   `yaml:"name"`
	Roles []string `yaml:"roles"`
}

// Structure is a declarative guild layout: roles, channels, forums and users.
type Structure struct {
	GuildName string          `yaml:"guild_name"`
	Roles     []RoleConfig    `yaml:"roles"`
	Channels  []ChannelConfig `yaml:"channels"`
	Forums    []ForumConfig   `yaml:"forums"`
	Users     []UserConfig    `yaml:"users"`
}

// Load decodes a structure from YAML.
func Load(data []byte) (*Structure, error) {
	var structure Structure
	if err := yaml.Unmarshal(data, &structure); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	if err := structure.Validate(); err != nil {
		return nil, err
	}
	return &structure, nil
}

// LoadFile reads a structure from a YAML file.
func LoadFile(path string) (*Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture file: %w", err)
	}
	return Load(data)
}

// JamDao returns the JAM DAO guild layout.
func JamDao() (*Structure, error) {
	return Load(jamDaoYAML)
}

// Validate checks that every entry is named.
func (s *Structure) Validate() error {
	for i, role := range s.Roles {
		if role.Name == "" {
			return fmt.Errorf("role %d has no name", i)
		}
	}
	for i, channel := range s.Channels {
		if channel.Name == "" {
			return fmt.Errorf("channel %d has no name", i)
		}
	}
	for i, forum := range s.Forums {
		if forum.Name == "" {
			return fmt.Errorf("forum %d has no name", i)
		}
		for j, tag := range forum.Tags {
			if tag.Name == "" {
				return fmt.Errorf("forum %s tag %d has no name", forum.Name, j)
			}
		}
	}
	for i, user := range s.Users {
		if user.Name == "" {
			return fmt.Errorf("user %d has no name", i)
		}
	}
	return nil
}

// Forum returns the named forum layout, if present.
func (s *Structure) Forum(name string) (ForumConfig, bool) {
	for _, forum := range s.Forums {
		if forum.Name == name {
			return forum, true
		}
	}
	return ForumConfig{}, false
}
