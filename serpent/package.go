// Package serpent provides a way to combine the wart container
// with github.com/spf13/cobra nicely, where the command runs a
// service resolved from the container.
package serpent

import (
	"context"
	"errors"
	"fmt"

	"github.com/aegistudio/wart"
	"github.com/aegistudio/wart/config"
	"github.com/aegistudio/wart/core"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type containerKey struct{}

// retrieveContainer attempts to retrieve container from the
// context. It returns the error when the command is not executed
// with serpent.ExecuteContext or serpent.Execute.
func retrieveContainer(cmd *cobra.Command) (*core.Container, error) {
	dstCtx := context.Background()
	if ctx := cmd.Context(); ctx != nil {
		dstCtx = ctx
	}
	c, ok := dstCtx.Value(containerKey{}).(*core.Container)
	if !ok {
		return nil, errors.New(
			"must execute command with serpent.Execute or serpent.ExecuteContext")
	}
	return c, nil
}

// ExecuteContext sets up the command context and executes the
// command with the container.
func ExecuteContext(
	ctx context.Context, cmd *cobra.Command, c *core.Container,
) error {
	ctx = context.WithValue(ctx, containerKey{}, c)
	return cmd.ExecuteContext(ctx)
}

// Execute sets up the command context and executes the command
// with the container.
func Execute(cmd *cobra.Command, c *core.Container) error {
	return ExecuteContext(context.Background(), cmd, c)
}

// Runner is a service that can be run as a command.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// CommandID is the identifier the executed command is bound to,
// so that constructors can receive the *cobra.Command.
//
// Executor.RunE unsets CommandID before binding the command, so
// any value bound to it beforehand is replaced on every run.
var CommandID = wart.TypeName(&cobra.Command{})

// Executor is the identifier of the Runner to execute. We usually
// attach the executor's corresponding methods to cobra.Command's
// RunE or PreRunE field.
//
// When PreRunE is attached, the runner is registered to the
// container without being constructed, so that subcommands may
// depend on it.
//
// When RunE is attached, the runner is resolved and run with the
// command arguments.
type Executor string

func (e Executor) PreRunE(cmd *cobra.Command, args []string) error {
	c, err := retrieveContainer(cmd)
	if err != nil {
		return err
	}
	if c.Has(string(e)) {
		return nil
	}
	return c.AutoRegister(string(e))
}

func (e Executor) RunE(cmd *cobra.Command, args []string) error {
	// XXX: see also Command.execute in cobra/command.go.
	//
	// Only the nearest PersistentPreRun function will be executed,
	// so we forward the pre-runs of the parents here before
	// resolving the runner.
	for p := cmd.Parent(); p != nil; p = p.Parent() {
		if f := p.PreRunE; f != nil {
			if err := f(cmd, args); err != nil {
				return err
			}
		} else if f := p.PreRun; f != nil {
			f(cmd, args)
		}
	}
	c, err := retrieveContainer(cmd)
	if err != nil {
		return err
	}
	c.Unset(CommandID)
	if err := c.Set(CommandID, cmd); err != nil {
		return err
	}
	value, err := c.Get(string(e))
	if err != nil {
		return err
	}
	runner, ok := value.(Runner)
	if !ok {
		return fmt.Errorf("identifier %q resolved to %T, not a runner", e, value)
	}
	return runner.Run(cmd.Context(), args)
}

// AddFlags registers the flags overriding the settings in cfg.
func AddFlags(fs *pflag.FlagSet, cfg *config.Config) {
	fs.StringSliceVar(&cfg.Namespaces, "namespace", cfg.Namespaces,
		"namespaces to search for classes, in order")
	fs.BoolVar(&cfg.AutoResolve, "auto-resolve", cfg.AutoResolve,
		"autowire identifiers that are not bound")
	fs.StringToStringVar(&cfg.Aliases, "alias", cfg.Aliases,
		"identifier aliases in the form alias=target")
}

// Configure returns a PreRunE applying cfg to the container,
// usually after cfg has been filled by AddFlags.
func Configure(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		c, err := retrieveContainer(cmd)
		if err != nil {
			return err
		}
		cfg.Apply(c)
		return nil
	}
}
