package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractReferendumNumber(t *testing.T) {
	tests := []struct {
		name       string
		threadName string
		want       string
		found      bool
	}{
		{"plain number", "123: Treasury Spend", "123", true},
		{"hash prefix", "#1234: Test Proposal", "1234", true},
		{"no colon", "123 Treasury Spend", "", false},
		{"number not leading", "Proposal 123: Spend", "", false},
		{"ref prefix", "Ref 123: Spend", "", false},
		{"empty", "", "", false},
		{"colon without number", ": Spend", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractReferendumNumber(tt.threadName)
			assert.Equal(t, tt.found, got.IsPresent())
			assert.Equal(t, tt.want, got.OrEmpty())
		})
	}
}

func TestIsCompanionThreadName(t *testing.T) {
	tests := []struct {
		name     string
		thread   string
		number   string
		expected bool
	}{
		{"matches", "Ref 1234: Hello World", "1234", true},
		{"matches with extra spaces", "Ref   1234: Hello", "1234", true},
		{"missing space", "Ref1234: Hi", "1234", false},
		{"different number", "Ref 1235: Hello", "1234", false},
		{"number prefix of another", "Ref 12345: Hello", "1234", false},
		{"referendum thread itself", "1234: Hello", "1234", false},
		{"empty number", "Ref 1234: Hello", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCompanionThreadName(tt.thread, tt.number))
		})
	}
}

func TestCompanionThreadPattern(t *testing.T) {
	pattern := CompanionThreadPattern("1.2")

	tests := []struct {
		thread   string
		expected bool
	}{
		{"Ref 1.2: Dotted", true},
		{"Ref 1x2: Dotted", false},
		{"Ref 1.23: Longer", false},
		{"1.2: Referendum", false},
	}
	for _, tt := range tests {
		t.Run(tt.thread, func(t *testing.T) {
			assert.Equal(t, tt.expected, pattern.MatchString(tt.thread))
			assert.Equal(t, tt.expected, IsCompanionThreadName(tt.thread, "1.2"))
		})
	}
}

func TestCompanionThreadName(t *testing.T) {
	assert.Equal(t, "Ref 123: Treasury Spend", CompanionThreadName("123: Treasury Spend"))
	assert.Equal(t, "Ref 42: Tip", CompanionThreadName("#42: Tip"))
	assert.True(t, IsCompanionThreadName(CompanionThreadName("123: Treasury Spend"), "123"))
	assert.True(t, IsCompanionThreadName(CompanionThreadName("#42: Tip"), "42"))
}

func TestAssertInvariant(t *testing.T) {
	assert.NotPanics(t, func() { AssertInvariant(true, "fine") })
	assert.PanicsWithValue(t, "invariant violated - parent required", func() {
		AssertInvariant(false, "parent required")
	})
}
