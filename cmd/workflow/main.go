package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/goliatone/go-cms-workflow/cmd/workflow/internal/bootstrap"
	workflowcmd "github.com/goliatone/go-cms-workflow/internal/commands/workflow"
	"github.com/goliatone/go-cms-workflow/internal/workflow"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("workflow: %v", err)
	}
}

var errUsage = errors.New("usage: workflow <walk|transition> [flags]")

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "walk":
		return runWalk(args[1:], out)
	case "transition":
		return runTransition(args[1:], out)
	default:
		return errUsage
	}
}

type moduleFlags struct {
	storage   *string
	dsn       *string
	logLevel  *string
	logFormat *string
	actor     *string
	approved  *string
	seed      *string
}

func registerModuleFlags(fs *flag.FlagSet) moduleFlags {
	return moduleFlags{
		storage:   fs.String("storage", "memory", "Storage provider: memory, sqlite or postgres"),
		dsn:       fs.String("dsn", "", "Database DSN for sqlite or postgres storage"),
		logLevel:  fs.String("log-level", "info", "Log level"),
		logFormat: fs.String("log-format", "", "go-logger format (json, console, pretty); empty logs to the console"),
		actor:     fs.String("actor", "", "User ID treated as the current user for checkouts"),
		approved:  fs.String("approved-states", "", "Comma separated state names treated as live"),
		seed:      fs.String("seed", "", "JSON file with folders and items to load first"),
	}
}

func (f moduleFlags) build(cmdOpts ...workflowcmd.Option) (*bootstrap.Module, error) {
	actor, err := bootstrap.ParseUUID(*f.actor)
	if err != nil {
		return nil, fmt.Errorf("parse actor: %w", err)
	}
	module, err := moduleBuilder(bootstrap.Options{
		Storage:        *f.storage,
		DSN:            *f.dsn,
		LogLevel:       *f.logLevel,
		LogFormat:      *f.logFormat,
		Actor:          actor,
		ApprovedStates: bootstrap.SplitList(*f.approved),
		SeedFile:       *f.seed,
		CommandOptions: cmdOpts,
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Commands == nil {
		return nil, fmt.Errorf("workflow commands not configured")
	}
	return module, nil
}

func runWalk(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("workflow-walk", flag.ContinueOnError)
	moduleOpts := registerModuleFlags(fs)
	path := fs.String("path", "/", "Folder to walk")
	outcome := fs.String("outcome", "", "Outcome to apply: approve, archive or review")
	kind := fs.String("kind", "page", "Item kind: page or asset")
	if err := fs.Parse(args); err != nil {
		return err
	}

	processed := 0
	module, err := moduleOpts.build(workflowcmd.WithWalkObserver(
		func(_ context.Context, _ workflowcmd.BulkWorkflowCommand, count int) { processed = count },
	))
	if err != nil {
		return err
	}
	defer module.Close()

	cmd := workflowcmd.BulkWorkflowCommand{Path: *path, Outcome: *outcome, Kind: *kind}
	if err := module.Commands.Bulk.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute bulk command: %w", err)
	}
	fmt.Fprintf(out, "%s %s items under %s: %d processed\n", cmd.Outcome, cmd.Kind, cmd.Path, processed)
	return nil
}

func runTransition(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("workflow-transition", flag.ContinueOnError)
	moduleOpts := registerModuleFlags(fs)
	item := fs.String("item", "", "Item ID to transition")
	target := fs.String("target", "", "Target state")
	if err := fs.Parse(args); err != nil {
		return err
	}

	itemID, err := bootstrap.ParseUUID(*item)
	if err != nil {
		return fmt.Errorf("parse item: %w", err)
	}

	var result *workflow.TransitionResult
	module, err := moduleOpts.build(workflowcmd.WithTransitionObserver(
		func(_ context.Context, _ workflowcmd.TransitionItemCommand, r *workflow.TransitionResult) { result = r },
	))
	if err != nil {
		return err
	}
	defer module.Close()

	cmd := workflowcmd.TransitionItemCommand{ItemID: itemID, TargetState: *target}
	if err := module.Commands.Transition.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute transition command: %w", err)
	}
	fmt.Fprintf(out, "item %s: %s -> %s (%d hops)\n", itemID, result.FromState, result.ToState, result.Hops())
	return nil
}
