package domain

import "strings"

// StateCategory is the canonical bucket a workflow state name falls into.
type StateCategory string

const (
	// CategoryLive covers every approved (publicly visible) state
	CategoryLive StateCategory = "Live"
	// CategoryQuickEdit identifies items open for in-place editing
	CategoryQuickEdit StateCategory = "QuickEdit"
	// CategoryDraft identifies content still under preparation
	CategoryDraft StateCategory = "Draft"
	// CategoryArchive marks retained content that is no longer visible
	CategoryArchive StateCategory = "Archive"
	// CategoryReview identifies content awaiting editorial review
	CategoryReview StateCategory = "Review"
	// CategoryCustom is the catch-all for designer defined states
	CategoryCustom StateCategory = "Custom"
)

// Categories lists every category in declaration order.
func Categories() []StateCategory {
	return []StateCategory{
		CategoryLive,
		CategoryQuickEdit,
		CategoryDraft,
		CategoryArchive,
		CategoryReview,
		CategoryCustom,
	}
}

// ParseCategory resolves a category label case-insensitively.
func ParseCategory(input string) (StateCategory, bool) {
	for _, category := range Categories() {
		if strings.EqualFold(strings.TrimSpace(input), string(category)) {
			return category, true
		}
	}
	return "", false
}

// Trigger names an action the priority table knows how to ask for.
type Trigger string

const (
	TriggerApprove  Trigger = "Approve"
	TriggerSubmit   Trigger = "Submit"
	TriggerEdit     Trigger = "Edit"
	TriggerResubmit Trigger = "Resubmit"
	TriggerReject   Trigger = "Reject"
	TriggerArchive  Trigger = "Archive"
)

// Triggers lists every known trigger.
func Triggers() []Trigger {
	return []Trigger{
		TriggerApprove,
		TriggerSubmit,
		TriggerEdit,
		TriggerResubmit,
		TriggerReject,
		TriggerArchive,
	}
}

// ParseTrigger resolves a trigger name case-insensitively.
func ParseTrigger(input string) (Trigger, bool) {
	for _, trigger := range Triggers() {
		if strings.EqualFold(strings.TrimSpace(input), string(trigger)) {
			return trigger, true
		}
	}
	return "", false
}

// Matches reports whether an open-set trigger name refers to this trigger.
func (t Trigger) Matches(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), string(t))
}
