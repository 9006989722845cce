// Package commands implements the leapdocs subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/leapstack-labs/leapdocs/internal/artifact"
	"github.com/leapstack-labs/leapdocs/internal/cli/config"
	"github.com/leapstack-labs/leapdocs/internal/project"
	"github.com/spf13/cobra"
)

// AnnotationJSON is the command annotation describing its --output json shape.
const AnnotationJSON = "leapdocs/output-json"

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Out    io.Writer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	return &CommandContext{
		Cfg:    getConfig(),
		Logger: config.GetLogger(cmd.Context()),
		Out:    cmd.OutOrStdout(),
	}
}

// JSON reports whether output should be rendered as JSON.
func (c *CommandContext) JSON() bool {
	return c.Cfg.OutputFormat == config.OutputJSON
}

// Source returns the artifact source for the configured target.
func (c *CommandContext) Source() artifact.Source {
	return artifact.NewSource(c.Cfg.TargetPath, artifact.HTTPOptions{
		RetryMax: c.Cfg.HTTP.RetryMax,
		Timeout:  c.Cfg.HTTP.Timeout,
		Logger:   c.Logger,
	})
}

// LoadProject compiles the configured target into a fresh store.
func (c *CommandContext) LoadProject(ctx context.Context) (*project.Store, *project.CompiledProject, error) {
	store := project.NewStore(c.Logger)
	p, err := store.Load(ctx, c.Source())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile %s: %w", c.Cfg.TargetPath, err)
	}
	return store, p, nil
}

// getConfig returns the current configuration, or the defaults when none has
// been loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
