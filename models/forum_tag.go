package models

import (
	"fmt"

	"github.com/samber/mo"
)

type ForumTag struct {
	ID        int64
	Name      string
	Emoji     string
	Moderated bool
}

func NewForumTag(id int64, name string) *ForumTag {
	return &ForumTag{ID: id, Name: name}
}

// TagKey selects a tag either by name or by id.
type TagKey struct {
	id   mo.Option[int64]
	name mo.Option[string]
}

func TagByName(name string) TagKey {
	return TagKey{name: mo.Some(name)}
}

func TagByID(id int64) TagKey {
	return TagKey{id: mo.Some(id)}
}

func (k TagKey) String() string {
	if id, ok := k.id.Get(); ok {
		return fmt.Sprintf("id=%d", id)
	}
	return "name=" + k.name.OrEmpty()
}

func (k TagKey) matches(tag *ForumTag) bool {
	if id, ok := k.id.Get(); ok {
		return tag.ID == id
	}
	if name, ok := k.name.Get(); ok {
		return tag.Name == name
	}
	return false
}

func FindTag(tags []*ForumTag, key TagKey) mo.Option[*ForumTag] {
	for _, tag := range tags {
		if key.matches(tag) {
			return mo.Some(tag)
		}
	}
	return mo.None[*ForumTag]()
}
