package workflow

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-cms-workflow/internal/domain"
)

var (
	// ErrPriorityFallbackRequired indicates a table was built without a fallback list.
	ErrPriorityFallbackRequired = errors.New("workflow: priority fallback list required")
	// ErrPriorityDuplicateTrigger indicates a trigger appears twice in one list.
	ErrPriorityDuplicateTrigger = errors.New("workflow: duplicate trigger in priority list")
	// ErrPriorityCustomEntry indicates Custom was given a dedicated list; it always uses the fallback.
	ErrPriorityCustomEntry = errors.New("workflow: custom category uses the fallback list")
	// ErrPriorityUnknownCategory indicates a category outside the closed set.
	ErrPriorityUnknownCategory = errors.New("workflow: unknown priority category")
	// ErrPriorityUnknownTrigger indicates a trigger outside the closed set.
	ErrPriorityUnknownTrigger = errors.New("workflow: unknown priority trigger")
)

// PriorityTable maps a target category to the triggers worth trying, most
// preferred first. It is immutable once built.
type PriorityTable struct {
	entries  map[domain.StateCategory][]domain.Trigger
	fallback []domain.Trigger
}

// DefaultPriorityTable returns the editorial workflow preferences.
func DefaultPriorityTable() PriorityTable {
	table, err := NewPriorityTable(map[domain.StateCategory][]domain.Trigger{
		domain.CategoryLive:      {domain.TriggerApprove, domain.TriggerSubmit},
		domain.CategoryQuickEdit: {domain.TriggerEdit, domain.TriggerApprove, domain.TriggerSubmit},
		domain.CategoryDraft:     {domain.TriggerResubmit, domain.TriggerReject},
		domain.CategoryArchive:   {domain.TriggerArchive, domain.TriggerEdit, domain.TriggerApprove, domain.TriggerSubmit},
	}, []domain.Trigger{domain.TriggerResubmit, domain.TriggerSubmit, domain.TriggerApprove})
	if err != nil {
		panic(err)
	}
	return table
}

// NewPriorityTable validates and copies the supplied lists.
func NewPriorityTable(entries map[domain.StateCategory][]domain.Trigger, fallback []domain.Trigger) (PriorityTable, error) {
	if len(fallback) == 0 {
		return PriorityTable{}, ErrPriorityFallbackRequired
	}
	if err := validatePriorityList(fallback); err != nil {
		return PriorityTable{}, fmt.Errorf("fallback: %w", err)
	}

	table := PriorityTable{
		entries:  make(map[domain.StateCategory][]domain.Trigger, len(entries)),
		fallback: cloneTriggers(fallback),
	}
	for category, triggers := range entries {
		if parsed, ok := domain.ParseCategory(string(category)); !ok || parsed != category {
			return PriorityTable{}, fmt.Errorf("%w: %s", ErrPriorityUnknownCategory, category)
		}
		if category == domain.CategoryCustom {
			return PriorityTable{}, ErrPriorityCustomEntry
		}
		if len(triggers) == 0 {
			continue
		}
		if err := validatePriorityList(triggers); err != nil {
			return PriorityTable{}, fmt.Errorf("%s: %w", category, err)
		}
		table.entries[category] = cloneTriggers(triggers)
	}
	return table, nil
}

// PriorityTableFromConfig overlays string keyed overrides on the default table.
func PriorityTableFromConfig(priorities map[string][]string, fallback []string) (PriorityTable, error) {
	base := DefaultPriorityTable()
	if len(priorities) == 0 && len(fallback) == 0 {
		return base, nil
	}

	entries := make(map[domain.StateCategory][]domain.Trigger, len(base.entries)+len(priorities))
	for category, triggers := range base.entries {
		entries[category] = triggers
	}
	fallbackTriggers := base.fallback
	for rawCategory, rawTriggers := range priorities {
		category, ok := domain.ParseCategory(rawCategory)
		if !ok {
			return PriorityTable{}, fmt.Errorf("%w: %s", ErrPriorityUnknownCategory, rawCategory)
		}
		triggers, err := parseTriggers(rawTriggers)
		if err != nil {
			return PriorityTable{}, err
		}
		// a "custom" override is the fallback list under another name
		if category == domain.CategoryCustom {
			fallbackTriggers = triggers
			continue
		}
		entries[category] = triggers
	}

	if len(fallback) > 0 {
		parsed, err := parseTriggers(fallback)
		if err != nil {
			return PriorityTable{}, err
		}
		fallbackTriggers = parsed
	}
	return NewPriorityTable(entries, fallbackTriggers)
}

// TriggersFor returns the ordered candidates for the category. Custom and
// categories without a dedicated list share the fallback list.
func (t PriorityTable) TriggersFor(category domain.StateCategory) []domain.Trigger {
	if triggers, ok := t.entries[category]; ok {
		return cloneTriggers(triggers)
	}
	return cloneTriggers(t.fallback)
}

// Fallback returns the list used for Custom and unlisted categories.
func (t PriorityTable) Fallback() []domain.Trigger {
	return cloneTriggers(t.fallback)
}

func validatePriorityList(triggers []domain.Trigger) error {
	seen := make(map[domain.Trigger]struct{}, len(triggers))
	for _, trigger := range triggers {
		if parsed, ok := domain.ParseTrigger(string(trigger)); !ok || parsed != trigger {
			return fmt.Errorf("%w: %s", ErrPriorityUnknownTrigger, trigger)
		}
		if _, dup := seen[trigger]; dup {
			return fmt.Errorf("%w: %s", ErrPriorityDuplicateTrigger, trigger)
		}
		seen[trigger] = struct{}{}
	}
	return nil
}

func parseTriggers(raw []string) ([]domain.Trigger, error) {
	out := make([]domain.Trigger, 0, len(raw))
	for _, name := range raw {
		trigger, ok := domain.ParseTrigger(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPriorityUnknownTrigger, name)
		}
		out = append(out, trigger)
	}
	return out, nil
}

func cloneTriggers(triggers []domain.Trigger) []domain.Trigger {
	if len(triggers) == 0 {
		return nil
	}
	out := make([]domain.Trigger, len(triggers))
	copy(out, triggers)
	return out
}
