package bootstrap

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	cmsworkflow "github.com/goliatone/go-cms-workflow"
	"github.com/goliatone/go-cms-workflow/internal/commands"
	workflowcmd "github.com/goliatone/go-cms-workflow/internal/commands/workflow"
	"github.com/goliatone/go-cms-workflow/internal/folders"
	"github.com/goliatone/go-cms-workflow/internal/validation"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	"github.com/google/uuid"
)

// Options captures configuration for workflow CLI bootstraps.
type Options struct {
	Storage        string
	DSN            string
	LogLevel       string
	LogFormat      string
	Actor          uuid.UUID
	ApprovedStates []string
	SeedFile       string
	LoggerProvider interfaces.LoggerProvider
	CommandOptions []workflowcmd.Option
}

// Module wraps the workflow module and the command handlers the CLI runs.
type Module struct {
	Module   *cmsworkflow.Module
	Commands *workflowcmd.HandlerSet
	Logger   interfaces.Logger
}

// Close releases the module storage.
func (m *Module) Close() error {
	if m == nil || m.Module == nil {
		return nil
	}
	return m.Module.Close()
}

// BuildModule constructs a workflow module from CLI options and loads the
// seed tree when one is given.
func BuildModule(opts Options) (*Module, error) {
	cfg := cmsworkflow.DefaultConfig()
	if storage := strings.TrimSpace(opts.Storage); storage != "" {
		cfg.Storage.Provider = storage
	}
	cfg.Storage.DSN = strings.TrimSpace(opts.DSN)
	cfg.Features.Logger = true
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if format := strings.TrimSpace(opts.LogFormat); format != "" {
		cfg.Logging.Provider = "gologger"
		cfg.Logging.Format = format
	}
	if len(opts.ApprovedStates) > 0 {
		cfg.Workflow.ApprovedStates = opts.ApprovedStates
	}
	cfg.Workflow.Actor = opts.Actor

	moduleOpts := []cmsworkflow.Option{
		cmsworkflow.WithCommandOptions(opts.CommandOptions...),
	}
	if opts.LoggerProvider != nil {
		moduleOpts = append(moduleOpts, cmsworkflow.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := cmsworkflow.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise workflow module: %w", err)
	}

	if seed := strings.TrimSpace(opts.SeedFile); seed != "" {
		if err := LoadSeedFile(context.Background(), module.Folders(), seed); err != nil {
			_ = module.Close()
			return nil, err
		}
	}

	logger := commands.CommandLogger(module.Container().LoggerProvider(), "cli")
	return &Module{
		Module:   module,
		Commands: module.Commands(),
		Logger:   logger,
	}, nil
}

// Seed describes a content tree to load before running a command.
type Seed struct {
	Folders []string   `json:"folders"`
	Items   []SeedItem `json:"items"`
}

// SeedItem is one item of a seed tree. An empty state uses the workflow's
// initial state.
type SeedItem struct {
	Folder string `json:"folder"`
	Kind   string `json:"kind"`
	Title  string `json:"title"`
	State  string `json:"state,omitempty"`
}

//go:embed seed.schema.json
var seedSchemaJSON []byte

var seedSchema = validation.MustCompile("seed.schema.json", seedSchemaJSON)

// LoadSeedFile validates path against the seed schema, decodes it and loads
// it into svc.
func LoadSeedFile(ctx context.Context, svc *folders.Service, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed %s: %w", path, err)
	}
	if err := seedSchema.ValidateJSON(path, data); err != nil {
		return err
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("decode seed %s: %w", path, err)
	}
	return LoadSeed(ctx, svc, seed)
}

// LoadSeed creates every folder (parents first) and then every item.
func LoadSeed(ctx context.Context, svc *folders.Service, seed Seed) error {
	for _, path := range seed.Folders {
		if err := ensureFolder(ctx, svc, path); err != nil {
			return err
		}
	}
	for _, item := range seed.Items {
		_, err := svc.CreateItem(ctx, folders.CreateItemRequest{
			FolderPath: item.Folder,
			Kind:       interfaces.ItemKind(strings.ToLower(strings.TrimSpace(item.Kind))),
			Title:      item.Title,
			State:      item.State,
		})
		if err != nil {
			return fmt.Errorf("seed item %s: %w", item.Title, err)
		}
	}
	return nil
}

func ensureFolder(ctx context.Context, svc *folders.Service, path string) error {
	normalized, err := folders.NormalizePath(path)
	if err != nil {
		return fmt.Errorf("seed folder %q: %w", path, err)
	}
	parent := folders.RootPath
	for _, segment := range strings.Split(strings.TrimPrefix(normalized, "/"), "/") {
		if segment == "" {
			continue
		}
		_, err := svc.CreateFolder(ctx, folders.CreateFolderRequest{ParentPath: parent, Name: segment})
		if err != nil && !errors.Is(err, folders.ErrFolderExists) {
			return fmt.Errorf("seed folder %q: %w", path, err)
		}
		if parent == folders.RootPath {
			parent = "/" + segment
		} else {
			parent = parent + "/" + segment
		}
	}
	return nil
}

// SplitList parses a comma separated list into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParseUUID converts the supplied string into a UUID, returning uuid.Nil when the input is empty.
func ParseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(trimmed)
}
