package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-cms-workflow/internal/domain"
	"github.com/google/uuid"
)

var ErrStorageProviderUnknown = errors.New("workflow config: storage provider is invalid")
var ErrStorageDSNRequired = errors.New("workflow config: storage dsn is required for bun storage")
var ErrCacheTTLInvalid = errors.New("workflow config: cache ttl must be positive when cache is enabled")
var ErrLoggingProviderRequired = errors.New("workflow config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("workflow config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("workflow config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("workflow config: logging format is invalid")

// ErrPriorityCategoryUnknown indicates a priority override keyed on an unknown category.
var ErrPriorityCategoryUnknown = errors.New("workflow config: priority category is invalid")

// ErrPriorityTriggerUnknown indicates a priority list naming a trigger the engine cannot request.
var ErrPriorityTriggerUnknown = errors.New("workflow config: priority trigger is invalid")

// ErrApprovedStatesEmpty indicates the approved state set only held blank names.
var ErrApprovedStatesEmpty = errors.New("workflow config: approved states must contain at least one name")

// Config aggregates the settings used to assemble the workflow module.
type Config struct {
	Storage  StorageConfig
	Cache    CacheConfig
	Logging  LoggingConfig
	Workflow WorkflowConfig
	Features Features
}

// StorageConfig selects the content tree backend.
type StorageConfig struct {
	// Provider is "memory", "sqlite" or "postgres".
	Provider string
	DSN      string
}

// CacheConfig captures repository cache behaviour for bun storage.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// Features toggles optional module functionality.
type Features struct {
	Logger bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// WorkflowConfig drives canonicalization, trigger priorities and the state
// machines registered for each entity type.
type WorkflowConfig struct {
	// ApprovedStates are the state names treated as publicly live.
	ApprovedStates []string
	// Priorities overrides the trigger list for individual categories.
	Priorities map[string][]string
	// Fallback overrides the list used for Custom and unlisted categories.
	Fallback []string
	// Definitions replaces the built-in editorial workflow per entity type.
	Definitions []WorkflowDefinitionConfig
	// Actor identifies the current user for checkout bookkeeping.
	Actor uuid.UUID
}

// WorkflowDefinitionConfig declares a workflow for one entity type.
type WorkflowDefinitionConfig struct {
	Entity      string
	States      []WorkflowStateConfig
	Transitions []WorkflowTransitionConfig
}

// WorkflowStateConfig declares one state.
type WorkflowStateConfig struct {
	Name        string
	Description string
	Initial     bool
	Terminal    bool
}

// WorkflowTransitionConfig declares a trigger between two states.
type WorkflowTransitionConfig struct {
	Name        string
	Description string
	From        string
	To          string
}

// DefaultConfig returns in-memory storage with the built-in editorial workflow.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Workflow: WorkflowConfig{
			ApprovedStates: []string{"Live", "Pending"},
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	provider := normalizeProvider(cfg.Storage.Provider)
	switch provider {
	case "", "memory":
	case "sqlite", "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, provider)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if cfg.Cache.Enabled && cfg.Cache.DefaultTTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Features.Logger {
		logProvider := normalizeProvider(cfg.Logging.Provider)
		if logProvider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedLogProvider(logProvider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, logProvider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if logProvider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return cfg.Workflow.validate()
}

func (w WorkflowConfig) validate() error {
	if len(w.ApprovedStates) > 0 {
		found := false
		for _, name := range w.ApprovedStates {
			if strings.TrimSpace(name) != "" {
				found = true
				break
			}
		}
		if !found {
			return ErrApprovedStatesEmpty
		}
	}
	for category, triggers := range w.Priorities {
		if !isKnownCategory(category) {
			return fmt.Errorf("%w: %s", ErrPriorityCategoryUnknown, category)
		}
		if err := validateTriggers(triggers); err != nil {
			return fmt.Errorf("%w (category %s)", err, category)
		}
	}
	return validateTriggers(w.Fallback)
}

func validateTriggers(triggers []string) error {
	for _, trigger := range triggers {
		if !isKnownTrigger(trigger) {
			return fmt.Errorf("%w: %s", ErrPriorityTriggerUnknown, trigger)
		}
	}
	return nil
}

func isKnownCategory(name string) bool {
	_, ok := domain.ParseCategory(name)
	return ok
}

func isKnownTrigger(name string) bool {
	_, ok := domain.ParseTrigger(name)
	return ok
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedLogProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
