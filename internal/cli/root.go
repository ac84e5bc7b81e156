package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"timebridge/internal/app"
	"timebridge/internal/config"
)

// NewRootCmd creates the top-level "timebridge" command and registers all
// subcommands.
func NewRootCmd() *cobra.Command {
	env := &Env{}
	root := &cobra.Command{
		Use:          "timebridge",
		Short:        "Sync time-tracking totals into work-item fields",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&env.cfgPath, "config", "c", "timebridge.yaml", "path to the config file")
	root.PersistentFlags().BoolVarP(&env.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSyncCmd(env),
		newServeCmd(env),
		newRelayCmd(env),
		newFieldsCmd(env),
		newReportCmd(env),
		newCredsCmd(env),
	)
	return root
}

// Env carries the persistent-flag state subcommands build their wiring from.
type Env struct {
	cfgPath string
	verbose bool
}

// Logger builds the process logger and installs it as the slog default.
func (e *Env) Logger() *slog.Logger {
	level := slog.LevelInfo
	if e.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// Load reads the config and wires the application.
func (e *Env) Load() (*app.App, config.Config, *slog.Logger, error) {
	log := e.Logger()
	mgr, err := config.NewManager(e.cfgPath, log)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	cfg := mgr.Current()
	a, err := app.New(log, cfg)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	return a, cfg, log, nil
}
