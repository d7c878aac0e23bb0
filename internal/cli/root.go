package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agentx-labs/agentcfg/internal/branding"
	"github.com/agentx-labs/agentcfg/internal/config"
	"github.com/agentx-labs/agentcfg/internal/logging"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagLogLevel string
	flagNoColor  bool

	appLog      *logging.Logger
	appSettings config.Settings
)

// errReported signals that the command already printed its failure and the
// process should exit non-zero without further output.
var errReported = errors.New("failure already reported")

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs AI coding assistant configuration (settings, rule documents,
MCP server definitions) from a configuration repository into each tool's
directory, as symbolic links by default so edits in the repository take
effect immediately.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		settings, err := config.Current()
		if err != nil {
			return err
		}
		appSettings = settings

		level := settings.LogLevel
		if cmd.Flags().Changed("log-level") {
			level = flagLogLevel
		}
		if _, err := logging.ParseLevel(level); err != nil {
			return err
		}
		appLog = logging.New(nil, level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", logging.DefaultLevel, "Diagnostic log level (trace, debug, info, warn, error, silent)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable coloured output")
}

// Execute runs the root command with build info injected via ldflags.
// SIGINT and SIGTERM cancel the command's context.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func logger() *logging.Logger {
	if appLog == nil {
		return logging.Nop()
	}
	return appLog
}
