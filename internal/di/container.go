package di

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goliatone/go-cms-workflow/internal/commands"
	workflowcmd "github.com/goliatone/go-cms-workflow/internal/commands/workflow"
	"github.com/goliatone/go-cms-workflow/internal/domain"
	"github.com/goliatone/go-cms-workflow/internal/folders"
	"github.com/goliatone/go-cms-workflow/internal/logging"
	"github.com/goliatone/go-cms-workflow/internal/logging/gologger"
	"github.com/goliatone/go-cms-workflow/internal/runtimeconfig"
	"github.com/goliatone/go-cms-workflow/internal/workflow"
	"github.com/goliatone/go-cms-workflow/internal/workflow/simple"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires the workflow module. Storage defaults to memory
// repositories; a bun DB (injected or opened from config) switches the
// content tree to SQL storage.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	sqlDB         *sql.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	folderRepo folders.FolderRepository
	itemRepo   folders.ItemRepository
	clock      func() time.Time

	canonicalizer domain.Canonicalizer
	priorities    workflow.PriorityTable
	engine        *simple.Engine

	folderSvc    *folders.Service
	transitioner *workflow.Transitioner
	bulk         *workflow.OutcomeTransitioner
	pageWalker   *workflow.Walker
	assetWalker  *workflow.Walker

	registry    commands.CommandRegistry
	commandOpts []workflowcmd.Option
	commandSet  *workflowcmd.HandlerSet
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB uses db for folder and item storage instead of opening one from
// the storage config. The caller keeps ownership of db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache used for bun storage.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithRepositories injects custom folder and item repositories.
func WithRepositories(folderRepo folders.FolderRepository, itemRepo folders.ItemRepository) Option {
	return func(c *Container) {
		c.folderRepo = folderRepo
		c.itemRepo = itemRepo
	}
}

// WithClock overrides the clock used to stamp folder and item records.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithCommandRegistry registers the workflow command handlers with reg.
func WithCommandRegistry(reg commands.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// WithCommandOptions forwards options to the workflow command registration.
func WithCommandOptions(opts ...workflowcmd.Option) Option {
	return func(c *Container) {
		c.commandOpts = append(c.commandOpts, opts...)
	}
}

// NewContainer validates cfg and assembles every workflow service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func() error{
		c.configureLogging,
		c.configureWorkflow,
		c.configureStorage,
		c.configureServices,
		c.configureCommands,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.FromLoggingConfig(c.Config.Logging))
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureWorkflow() error {
	wf := c.Config.Workflow

	c.canonicalizer = domain.NewCanonicalizer(wf.ApprovedStates...)

	priorities, err := workflow.PriorityTableFromConfig(wf.Priorities, wf.Fallback)
	if err != nil {
		return err
	}
	c.priorities = priorities

	definitions, err := workflow.CompileDefinitionConfigs(wf.Definitions)
	if err != nil {
		return err
	}
	engine, err := simple.New(simple.WithDefinitions(definitions...))
	if err != nil {
		return err
	}
	c.engine = engine
	return nil
}

func (c *Container) configureStorage() error {
	if c.folderRepo != nil && c.itemRepo != nil {
		return nil
	}

	if c.bunDB == nil {
		db, sqlDB, err := openBunDB(c.Config.Storage)
		if err != nil {
			return err
		}
		c.bunDB, c.sqlDB = db, sqlDB
	}

	if c.bunDB == nil {
		c.folderRepo = folders.NewMemoryFolderRepository()
		c.itemRepo = folders.NewMemoryItemRepository()
		return nil
	}

	if err := folders.CreateSchema(context.Background(), c.bunDB); err != nil {
		return fmt.Errorf("workflow storage: create schema: %w", err)
	}
	c.configureCacheDefaults()
	c.folderRepo = folders.NewBunFolderRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.itemRepo = folders.NewBunItemRepository(c.bunDB)
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		cfg.TTL = c.cacheTTL
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureServices() error {
	serviceOpts := []folders.ServiceOption{
		folders.WithActor(c.Config.Workflow.Actor),
		folders.WithCanonicalizer(c.canonicalizer),
		folders.WithLogger(logging.FoldersLogger(c.loggerProvider)),
	}
	if c.clock != nil {
		serviceOpts = append(serviceOpts, folders.WithClock(c.clock))
	}
	c.folderSvc = folders.NewService(c.folderRepo, c.itemRepo, c.engine, serviceOpts...)

	workflowLogger := logging.WorkflowLogger(c.loggerProvider)
	c.transitioner = workflow.NewTransitioner(c.folderSvc,
		workflow.WithPriorityTable(c.priorities),
		workflow.WithCanonicalizer(c.canonicalizer),
		workflow.WithLogger(workflowLogger),
	)
	c.bulk = workflow.NewOutcomeTransitioner(c.transitioner)
	c.pageWalker = workflow.NewWalker(interfaces.ItemKindPage, c.folderSvc, c.bulk, workflow.WithWalkerLogger(workflowLogger))
	c.assetWalker = workflow.NewWalker(interfaces.ItemKindAsset, c.folderSvc, c.bulk, workflow.WithWalkerLogger(workflowLogger))
	return nil
}

func (c *Container) configureCommands() error {
	set, err := workflowcmd.RegisterWorkflowCommands(
		c.registry,
		c.transitioner,
		[]workflowcmd.TreeWalker{c.pageWalker, c.assetWalker},
		c.loggerProvider,
		c.commandOpts...,
	)
	if err != nil {
		return err
	}
	c.commandSet = set
	return nil
}

// Close releases the database the container opened itself.
func (c *Container) Close() error {
	if c == nil || c.sqlDB == nil {
		return nil
	}
	err := c.sqlDB.Close()
	c.sqlDB = nil
	return err
}

// LoggerProvider returns the active logger provider, nil when logging is off.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// BunDB returns the bun database backing the content tree, if any.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// Canonicalizer returns the configured state canonicalizer.
func (c *Container) Canonicalizer() domain.Canonicalizer {
	return c.canonicalizer
}

// Priorities returns the trigger priority table.
func (c *Container) Priorities() workflow.PriorityTable {
	return c.priorities
}

// Engine returns the state machine registry.
func (c *Container) Engine() *simple.Engine {
	return c.engine
}

// FolderService returns the content tree service.
func (c *Container) FolderService() *folders.Service {
	return c.folderSvc
}

// Transitioner returns the single item engine.
func (c *Container) Transitioner() *workflow.Transitioner {
	return c.transitioner
}

// BulkTransitioner returns the outcome based bulk transitioner.
func (c *Container) BulkTransitioner() *workflow.OutcomeTransitioner {
	return c.bulk
}

// Walker returns the bulk walker for kind, or nil for kinds without one.
func (c *Container) Walker(kind interfaces.ItemKind) *workflow.Walker {
	switch kind {
	case interfaces.ItemKindPage:
		return c.pageWalker
	case interfaces.ItemKindAsset:
		return c.assetWalker
	default:
		return nil
	}
}

// Commands returns the workflow command handlers.
func (c *Container) Commands() *workflowcmd.HandlerSet {
	return c.commandSet
}
