package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/leapdocs/internal/project"
	"github.com/leapstack-labs/leapdocs/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiled project over HTTP",
		Long: `Start the docs API server. The project is compiled in the background;
until it is ready the API answers 503.

With --watch a local target directory is watched and the project recompiled
whenever an artifact changes. Connected /api/events clients are notified.`,
		Example: `  # Serve on the default port
  leapdocs serve

  # Serve on a custom port and recompile on changes
  leapdocs serve --port 9000 --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	cfg := getConfig()
	cmd.Flags().Int("port", cfg.Server.Port, "Port to listen on")
	cmd.Flags().Bool("watch", cfg.Server.Watch, "Recompile when target artifacts change")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cc := NewCommandContext(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Store:  project.NewStore(cc.Logger),
		Source: cc.Source(),
		Port:   cc.Cfg.Server.Port,
		Watch:  cc.Cfg.Server.Watch,
		Logger: cc.Logger,
	})

	if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	cc.Logger.Info("docs server stopped")
	return nil
}
