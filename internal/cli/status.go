package cli

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/agentx-labs/agentcfg/internal/linker"
	"github.com/agentx-labs/agentcfg/internal/registry"
	"github.com/spf13/cobra"
)

var (
	statusRepo  string
	statusTable string
	statusJSON  bool
)

var statusCmd = &cobra.Command{
	Use:   "status [agent...]",
	Short: "Show how each asset is currently placed",
	Long: `Show the state of every asset's target path without changing anything:

  linked   link resolving to the repository source
  stale    link pointing elsewhere, or dangling
  copied   regular file or directory
  missing  nothing installed yet`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusRepo, "repo", "", "Configuration repository (default: repo_dir setting, then the working directory)")
	statusCmd.Flags().StringVar(&statusTable, "table", "", "Asset table YAML file (default: built-in table)")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(statusCmd)
}

type statusEntry struct {
	Agent        string           `json:"agent"`
	Source       string           `json:"source"`
	Target       string           `json:"target"`
	State        linker.LinkState `json:"state"`
	SourceExists bool             `json:"source_exists"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := loadSession(statusRepo, statusTable)
	if err != nil {
		return err
	}
	agents, err := s.selectAgents(args)
	if err != nil {
		return err
	}

	var entries []statusEntry
	for _, agent := range agents {
		for _, asset := range agent.Assets {
			target := filepath.Join(agent.TargetDir, asset.Target)
			entries = append(entries, statusEntry{
				Agent:        agent.Name,
				Source:       asset.Source,
				Target:       target,
				State:        linker.Inspect(filepath.Join(s.repoRoot, asset.Source), target),
				SourceExists: registry.Exists(s.repoRoot, asset.Source),
			})
		}
	}

	if statusJSON {
		return printJSON(cmd, entries)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "AGENT\tSTATE\tTARGET\tSOURCE")
	for _, e := range entries {
		source := e.Source
		if !e.SourceExists {
			source += " (not in repository)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Agent, e.State, e.Target, source)
	}
	return w.Flush()
}
