package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentx-labs/agentcfg/internal/config"
	"github.com/agentx-labs/agentcfg/internal/installer"
	"github.com/agentx-labs/agentcfg/internal/manifest"
	"github.com/agentx-labs/agentcfg/internal/userdata"
	"github.com/spf13/cobra"
)

var (
	installRepo    string
	installCopy    bool
	installEnvFile string
	installTable   string
)

var installCmd = &cobra.Command{
	Use:   "install [agent...]",
	Short: "Install agent configuration from the repository",
	Long: `Install each agent's assets from the configuration repository into its
target directory, then run the agent's post-actions (MCP server merge, broken
link cleanup). With no arguments every agent in the table is installed.

Assets are linked by default; --copy places independent copies instead.`,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installRepo, "repo", "", "Configuration repository (default: repo_dir setting, then the working directory)")
	installCmd.Flags().BoolVar(&installCopy, "copy", false, "Copy assets instead of linking them")
	installCmd.Flags().StringVar(&installEnvFile, "env-file", "", "Env file for ${NAME} expansion (default: <repo>/.env)")
	installCmd.Flags().StringVar(&installTable, "table", "", "Asset table YAML file (default: built-in table)")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	out := reporter(cmd.OutOrStdout())

	s, err := loadSession(installRepo, installTable)
	if err != nil {
		out.Error("Unexpected error during installation: %v", err)
		return errReported
	}

	var mode manifest.Mode
	if installCopy {
		mode = manifest.ModeCopy
	} else if configured := config.Get(config.KeyMode); configured != "" {
		if err := config.Validate(config.KeyMode, configured); err != nil {
			return err
		}
		mode = manifest.Mode(configured)
	}
	envFile := installEnvFile
	if envFile == "" {
		envFile = config.Get(config.KeyEnvFile)
	}

	log := logger()
	log.Debug().
		Str("repo", s.repoRoot).
		Str("mode", string(mode)).
		Strs("agents", args).
		Msg("starting installation")

	inst := installer.New(s.table, installer.Options{
		RepoRoot: s.repoRoot,
		Mode:     mode,
		EnvFile:  userdata.ResolveEnvFile(s.repoRoot, envFile, s.home),
		Out:      out,
		Logger:   log,
	})

	names := args
	if len(names) == 0 {
		names = s.table.Names()
	}
	summary, err := inst.Install(cmd.Context(), names)
	switch {
	case errors.Is(err, installer.ErrInterrupted):
		out.Blank()
		out.Error("Installation interrupted by user.")
		return errReported
	case errors.Is(err, installer.ErrUnknownAgent):
		return fmt.Errorf("%w (available: %s)", err, strings.Join(s.table.Names(), ", "))
	case err != nil:
		out.Error("Unexpected error during installation: %v", err)
		return errReported
	}

	if !summary.OK() {
		log.Warn().Strs("failed", summary.Failed()).Msg("installation incomplete")
		return errReported
	}
	return nil
}
