package workflowcmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-cms-workflow/internal/commands"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// HandlerSet groups the workflow command handlers.
type HandlerSet struct {
	Transition *TransitionItemHandler
	Bulk       *BulkWorkflowHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	transitionHandlerOpts []commands.HandlerOption[TransitionItemCommand]
	bulkHandlerOpts       []commands.HandlerOption[BulkWorkflowCommand]
	transitionObserver    TransitionObserver
	walkObserver          WalkObserver
}

// WithTransitionHandlerOptions forwards options to the TransitionItemHandler constructor.
func WithTransitionHandlerOptions(opts ...commands.HandlerOption[TransitionItemCommand]) Option {
	return func(cfg *options) {
		cfg.transitionHandlerOpts = append(cfg.transitionHandlerOpts, opts...)
	}
}

// WithBulkHandlerOptions forwards options to the BulkWorkflowHandler constructor.
func WithBulkHandlerOptions(opts ...commands.HandlerOption[BulkWorkflowCommand]) Option {
	return func(cfg *options) {
		cfg.bulkHandlerOpts = append(cfg.bulkHandlerOpts, opts...)
	}
}

// WithTransitionObserver receives every successful transition result.
func WithTransitionObserver(observer TransitionObserver) Option {
	return func(cfg *options) {
		cfg.transitionObserver = observer
	}
}

// WithWalkObserver receives the processed count of every successful walk.
func WithWalkObserver(observer WalkObserver) Option {
	return func(cfg *options) {
		cfg.walkObserver = observer
	}
}

// RegisterWorkflowCommands builds the workflow handlers and registers them
// with reg when it is not nil.
func RegisterWorkflowCommands(reg commands.CommandRegistry, transitioner ItemTransitioner, walkers []TreeWalker, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if transitioner == nil {
		return nil, errors.New("workflow command registration: transitioner is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "workflow")
	set := &HandlerSet{
		Transition: NewTransitionItemHandler(transitioner, logger, cfg.transitionObserver, cfg.transitionHandlerOpts...),
		Bulk:       NewBulkWorkflowHandler(walkers, logger, cfg.walkObserver, cfg.bulkHandlerOpts...),
	}

	if reg != nil {
		if err := reg.RegisterCommand(set.Transition); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(set.Bulk); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// SubscribeWorkflowCommands attaches both handlers to a dispatcher. On failure
// the subscriptions already made are released.
func SubscribeWorkflowCommands(dispatcher commands.CommandDispatcher, set *HandlerSet) ([]commands.CommandSubscription, error) {
	if dispatcher == nil || set == nil {
		return nil, nil
	}
	subs := make([]commands.CommandSubscription, 0, 2)
	for _, handler := range []any{set.Transition, set.Bulk} {
		sub, err := dispatcher.RegisterCommand(handler)
		if err != nil {
			for _, s := range subs {
				s.Unsubscribe()
			}
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// RegisterBulkCron schedules msg through handler using the cron registrar.
// The walk runs with a background context.
func RegisterBulkCron(reg commands.CronRegistrar, handler *BulkWorkflowHandler, cfg command.HandlerConfig, msg BulkWorkflowCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
