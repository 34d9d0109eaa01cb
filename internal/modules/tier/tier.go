// Package tier defines the vendor subscription tiers and the entitlements
// (field access, feature flags and count limits) each tier grants.
package tier

import "strings"

// Tier is a vendor subscription level. The zero value is Unknown, which
// carries the same, most restrictive, entitlements as Free.
type Tier int

const (
	Unknown Tier = iota
	Free
	Tier1
	Tier2
	Tier3
)

// All lists the known tiers in ascending rank.
var All = []Tier{Free, Tier1, Tier2, Tier3}

var tierNames = map[Tier]string{
	Unknown: "unknown",
	Free:    "free",
	Tier1:   "tier1",
	Tier2:   "tier2",
	Tier3:   "tier3",
}

// ParseTier maps a stored tier name to a Tier. Anything unrecognised is Unknown.
func ParseTier(s string) Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free":
		return Free
	case "tier1":
		return Tier1
	case "tier2":
		return Tier2
	case "tier3":
		return Tier3
	default:
		return Unknown
	}
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return tierNames[Unknown]
}

// IsKnown reports whether t is one of Free..Tier3.
func (t Tier) IsKnown() bool {
	return t >= Free && t <= Tier3
}

// Rank is the position of t in the tier hierarchy (0-3). Unknown ranks as Free.
func (t Tier) Rank() int {
	if !t.IsKnown() {
		return 0
	}
	return int(t - Free)
}

// IsAtLeast reports whether t grants at least the access of required.
func (t Tier) IsAtLeast(required Tier) bool {
	return t.Rank() >= required.Rank()
}

// Effective returns Free for Unknown and t otherwise.
func (t Tier) Effective() Tier {
	if !t.IsKnown() {
		return Free
	}
	return t
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText never fails: unrecognised names decode to Unknown.
func (t *Tier) UnmarshalText(text []byte) error {
	*t = ParseTier(string(text))
	return nil
}
