package commands

import command "github.com/goliatone/go-command"

// CommandRegistry is the registration contract used when wiring handlers into
// a host command bus.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandSubscription is returned by dispatchers so callers can detach handlers.
type CommandSubscription interface {
	Unsubscribe()
}

// CommandDispatcher subscribes handlers to a dispatcher.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error
