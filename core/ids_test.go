package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	t.Run("prefixes and lowercases", func(t *testing.T) {
		id := NewID("INT")
		assert.True(t, strings.HasPrefix(id, "int_"))
		assert.True(t, IsValidID(id))
	})

	t.Run("ids are unique", func(t *testing.T) {
		seen := map[string]bool{}
		for i := 0; i < 100; i++ {
			id := NewID("run")
			assert.False(t, seen[id])
			seen[id] = true
		}
	})

	t.Run("empty prefix panics", func(t *testing.T) {
		assert.Panics(t, func() { NewID("  ") })
	})
}

func TestIsValidID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"valid", "run_01G0EZ1XTM37C5X11SQTDNCTM1", true},
		{"empty", "", false},
		{"no separator", "01G0EZ1XTM37C5X11SQTDNCTM1", false},
		{"uppercase prefix", "RUN_01G0EZ1XTM37C5X11SQTDNCTM1", false},
		{"short ulid", "run_01G0EZ1XTM", false},
		{"invalid chars", "run_01G0EZ1XTM37C5X11SQTDNCTMU", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidID(tt.id))
		})
	}
}
