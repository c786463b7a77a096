package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-workflow/internal/domain"
	"github.com/google/uuid"
)

var (
	// ErrCycleDetected indicates the trigger priorities revisited a state before reaching the target.
	ErrCycleDetected = errors.New("workflow: transition cycle detected")
	// ErrNoLegalTrigger indicates none of the candidate triggers is legal from the current state.
	ErrNoLegalTrigger = errors.New("workflow: no legal trigger toward target state")
	// ErrFolderNotFound indicates a folder path could not be resolved.
	ErrFolderNotFound = errors.New("workflow: folder not found")
	// ErrNilItemID signals input validation failure.
	ErrNilItemID = errors.New("workflow: item id required")
	// ErrUnknownOutcome indicates a bulk outcome outside approve, archive and review.
	ErrUnknownOutcome = errors.New("workflow: unknown bulk outcome")
)

// CycleDetectedError reports the states visited before a repeat was found.
type CycleDetectedError struct {
	ItemID    uuid.UUID
	Requested string
	Current   string
	Visited   []string
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("%s: item %s revisited %q while moving to %q (visited: %s)",
		ErrCycleDetected.Error(), e.ItemID, e.Current, e.Requested, formatStates(e.Visited))
}

func (e *CycleDetectedError) Unwrap() error {
	return ErrCycleDetected
}

// NoLegalTriggerError reports the candidates tried against the triggers on offer.
type NoLegalTriggerError struct {
	ItemID     uuid.UUID
	Requested  string
	Current    string
	Candidates []domain.Trigger
	Available  []string
	Visited    []string
}

func (e *NoLegalTriggerError) Error() string {
	candidates := make([]string, len(e.Candidates))
	for i, trigger := range e.Candidates {
		candidates[i] = string(trigger)
	}
	return fmt.Sprintf("%s: item %s in %q cannot move to %q (candidates: %s; available: %s; visited: %s)",
		ErrNoLegalTrigger.Error(), e.ItemID, e.Current, e.Requested,
		formatList(candidates, ", "), formatList(e.Available, ", "), formatStates(e.Visited))
}

func (e *NoLegalTriggerError) Unwrap() error {
	return ErrNoLegalTrigger
}

func formatStates(values []string) string {
	return formatList(values, " -> ")
}

func formatList(values []string, sep string) string {
	return "[" + strings.Join(values, sep) + "]"
}
