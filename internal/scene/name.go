// Package scene defines the host-facing model of the bridge: object
// identifiers, relative transforms, and the narrow interfaces an editor host
// must provide for the bridge to operate on its objects. Everything here is
// host-agnostic; the in-memory reference host in mem.go is the contract's
// executable description.
package scene

import (
	"math"
	"strconv"
	"strings"
)

// ForbiddenNameChars enumerates every character the host refuses inside an
// internal identifier. Display labels carry no such restriction.
const ForbiddenNameChars = "\"' ,/.:|&!~\n\r\t@#(){}[]=;^%$`"

// NoneString is how the host renders its "no name" sentinel.
const NoneString = "None"

// ObjectName is an internal object identifier: a base string plus an optional
// numeric suffix, rendered "Base" or "Base_N". The suffix is kept apart from
// the base so uniqueness probing can step the number without string surgery,
// the same way the host stores its own names.
//
// Hosts compare identifiers case-insensitively; ObjectName does too, while
// preserving the original casing for display. The zero value is the host's
// "no name" sentinel and renders as "None".
type ObjectName struct {
	base string
	// num is 0 when the name has no suffix, otherwise suffix+1. Storing the
	// shifted value keeps the zero value meaning "None".
	num int32
}

// NewName returns an identifier without a numeric suffix.
func NewName(base string) ObjectName {
	return ParseName(base)
}

// NewNumberedName returns base with an explicit suffix. Negative suffixes
// mean "no suffix".
func NewNumberedName(base string, suffix int32) ObjectName {
	n := ParseName(base)
	if suffix < 0 {
		return n
	}
	return ObjectName{base: n.base, num: suffix + 1}
}

// ParseName splits a rendered identifier into base and suffix. A trailing
// "_N" counts as a suffix only when N has no leading zero (except "0" itself),
// fits the host's number width, and leaves a non-empty base; otherwise the
// whole string is the base. "None" and "" parse to the none sentinel.
func ParseName(s string) ObjectName {
	if s == "" || strings.EqualFold(s, NoneString) {
		return ObjectName{}
	}
	i := strings.LastIndexByte(s, '_')
	if i <= 0 || i == len(s)-1 {
		return ObjectName{base: s}
	}
	digits := s[i+1:]
	if !plainDigits(digits) {
		return ObjectName{base: s}
	}
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil || n == math.MaxInt32 {
		return ObjectName{base: s}
	}
	return ObjectName{base: s[:i], num: int32(n) + 1}
}

// plainDigits reports whether s is a decimal number the host would have
// produced itself: non-empty, digits only, no leading zero unless it is "0".
func plainDigits(s string) bool {
	if s == "" {
		return false
	}
	if len(s) > 1 && s[0] == '0' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Base returns the identifier without its suffix.
func (n ObjectName) Base() string { return n.base }

// Suffix returns the numeric suffix and whether one is present.
func (n ObjectName) Suffix() (int32, bool) {
	if n.num == 0 {
		return 0, false
	}
	return n.num - 1, true
}

// IsNone reports whether n is the host's "no name" sentinel.
func (n ObjectName) IsNone() bool {
	if n.num != 0 {
		return false
	}
	return n.base == "" || strings.EqualFold(n.base, NoneString)
}

// Bump returns the next identifier in the host's numbering: a suffix-less
// name gains "_0", a suffixed one steps by one. Bumping the none sentinel
// returns it unchanged; callers substitute a real base first.
func (n ObjectName) Bump() ObjectName {
	if n.IsNone() {
		return n
	}
	return ObjectName{base: n.base, num: n.num + 1}
}

// Equal compares identifiers the way the host does: case-insensitively.
func (n ObjectName) Equal(o ObjectName) bool {
	return n.num == o.num && strings.EqualFold(n.base, o.base)
}

// Key returns the canonical lookup form of the identifier. Scope
// implementations index by Key so that lookups match host comparison rules.
func (n ObjectName) Key() string {
	return strings.ToLower(n.String())
}

func (n ObjectName) String() string {
	if n.IsNone() {
		return NoneString
	}
	if n.num == 0 {
		return n.base
	}
	return n.base + "_" + strconv.FormatInt(int64(n.num-1), 10)
}
