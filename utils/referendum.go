package utils

import (
	"regexp"
	"strings"

	"github.com/samber/mo"
)

var referendumNumberRegex = regexp.MustCompile(`^#?(\d+):`)

// ExtractReferendumNumber returns the leading referendum number of a thread
// name such as "123: Treasury Spend" or "#123: Treasury Spend".
func ExtractReferendumNumber(threadName string) mo.Option[string] {
	match := referendumNumberRegex.FindStringSubmatch(threadName)
	if match == nil {
		return mo.None[string]()
	}
	return mo.Some(match[1])
}

// CompanionThreadPattern matches public discussion thread names
// ("Ref 123: ...") for the given referendum number. Compile it once per
// lookup and reuse it across threads.
func CompanionThreadPattern(referendumNumber string) *regexp.Regexp {
	return regexp.MustCompile(`^Ref\s+` + regexp.QuoteMeta(referendumNumber) + `:`)
}

// IsCompanionThreadName reports whether name is the public discussion
// thread for the given referendum number.
func IsCompanionThreadName(name, referendumNumber string) bool {
	if referendumNumber == "" {
		return false
	}
	return CompanionThreadPattern(referendumNumber).MatchString(name)
}

// CompanionThreadName builds the public discussion thread name for a
// referendum thread. A leading "#" is dropped so the result still matches
// IsCompanionThreadName.
func CompanionThreadName(referendumThreadName string) string {
	return "Ref " + strings.TrimPrefix(referendumThreadName, "#")
}
