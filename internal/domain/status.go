package domain

import (
	"sort"
	"strings"
)

// Well known state names.
const (
	StateLive      = "Live"
	StatePending   = "Pending"
	StateQuickEdit = "QuickEdit"
	StateDraft     = "Draft"
	StateArchive   = "Archive"
	StateReview    = "Review"
)

// DefaultApprovedStates are the states that mean "publicly live".
func DefaultApprovedStates() []string {
	return []string{StateLive, StatePending}
}

// Canonicalizer maps workflow state names onto categories. The zero value
// uses the default approved states.
type Canonicalizer struct {
	approved map[string]struct{}
}

// NewCanonicalizer builds a canonicalizer for the supplied approved-state set.
// An empty set falls back to DefaultApprovedStates.
func NewCanonicalizer(approved ...string) Canonicalizer {
	if len(approved) == 0 {
		approved = DefaultApprovedStates()
	}
	set := make(map[string]struct{}, len(approved))
	for _, name := range approved {
		if key := stateKey(name); key != "" {
			set[key] = struct{}{}
		}
	}
	return Canonicalizer{approved: set}
}

// Canonicalize returns the category for a state name. Unknown and empty names
// are Custom.
func (c Canonicalizer) Canonicalize(state string) StateCategory {
	key := stateKey(state)
	if key == "" {
		return CategoryCustom
	}
	if c.IsApproved(state) {
		return CategoryLive
	}
	switch key {
	case stateKey(StateQuickEdit):
		return CategoryQuickEdit
	case stateKey(StateDraft):
		return CategoryDraft
	case stateKey(StateArchive):
		return CategoryArchive
	case stateKey(StateReview):
		return CategoryReview
	default:
		return CategoryCustom
	}
}

// IsApproved reports whether the state is in the approved set.
func (c Canonicalizer) IsApproved(state string) bool {
	key := stateKey(state)
	if key == "" {
		return false
	}
	if c.approved == nil {
		for _, name := range DefaultApprovedStates() {
			if stateKey(name) == key {
				return true
			}
		}
		return false
	}
	_, ok := c.approved[key]
	return ok
}

// ApprovedStates returns the approved set in sorted order.
func (c Canonicalizer) ApprovedStates() []string {
	if c.approved == nil {
		return DefaultApprovedStates()
	}
	out := make([]string, 0, len(c.approved))
	for key := range c.approved {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// SameState compares two state names the way canonicalization does.
func SameState(a, b string) bool {
	return stateKey(a) == stateKey(b)
}

func stateKey(state string) string {
	return strings.ToLower(strings.TrimSpace(state))
}
