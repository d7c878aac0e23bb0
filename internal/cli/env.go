package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/agentx-labs/agentcfg/internal/config"
	"github.com/agentx-labs/agentcfg/internal/manifest"
	"github.com/agentx-labs/agentcfg/internal/mcpconfig"
	"github.com/agentx-labs/agentcfg/internal/userdata"
	"github.com/spf13/cobra"
)

var (
	envRepo     string
	envTable    string
	envFileFlag string
	envNoRedact bool
	envJSON     bool
)

var envCmd = &cobra.Command{
	Use:   "env [agent...]",
	Short: "Show the ${NAME} placeholders MCP merges will expand",
	Long: `List every ${NAME} placeholder referenced by the agents' MCP server
definitions and where its value would come from: the env file, the process
environment, or nowhere (left unexpanded at install time).`,
	RunE: runEnv,
}

func init() {
	envCmd.Flags().StringVar(&envRepo, "repo", "", "Configuration repository (default: repo_dir setting, then the working directory)")
	envCmd.Flags().StringVar(&envTable, "table", "", "Asset table YAML file (default: built-in table)")
	envCmd.Flags().StringVar(&envFileFlag, "env-file", "", "Env file for ${NAME} expansion (default: <repo>/.env)")
	envCmd.Flags().BoolVar(&envNoRedact, "no-redact", false, "Show values without redaction")
	envCmd.Flags().BoolVar(&envJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(envCmd)
}

// Where a placeholder's value is found.
const (
	fromEnvFile     = "env-file"
	fromEnvironment = "environment"
	fromNowhere     = "missing"
)

type envEntry struct {
	Agent  string `json:"agent"`
	Name   string `json:"name"`
	From   string `json:"from"`
	Value  string `json:"value,omitempty"`
	Source string `json:"source"`
}

func runEnv(cmd *cobra.Command, args []string) error {
	s, err := loadSession(envRepo, envTable)
	if err != nil {
		return err
	}
	agents, err := s.selectAgents(args)
	if err != nil {
		return err
	}

	name := envFileFlag
	if name == "" {
		name = config.Get(config.KeyEnvFile)
	}
	path := userdata.ResolveEnvFile(s.repoRoot, name, s.home)
	file, err := userdata.LoadEnvFile(path)
	if err != nil {
		return err
	}

	var entries []envEntry
	for _, agent := range agents {
		for _, action := range agent.PostActions {
			if action.Kind != manifest.ActionMergeMCPRegistry || !action.ExpandEnv {
				continue
			}
			names, err := mcpconfig.Placeholders(s.repoRoot, action.Source, action.Key)
			if err != nil {
				return err
			}
			for _, n := range names {
				entries = append(entries, resolvePlaceholder(agent.Name, action.Source, n, file))
			}
		}
	}

	if envJSON {
		return printJSON(cmd, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No placeholders found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "AGENT\tNAME\tFROM\tVALUE\tSOURCE")
	for _, e := range entries {
		value := e.Value
		if e.From == fromNowhere {
			value = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.Agent, e.Name, e.From, value, e.Source)
	}
	return w.Flush()
}

func resolvePlaceholder(agent, source, name string, file map[string]string) envEntry {
	e := envEntry{Agent: agent, Name: name, Source: source, From: fromNowhere}
	if v, ok := file[name]; ok {
		e.From, e.Value = fromEnvFile, v
	} else if v, ok := os.LookupEnv(name); ok {
		e.From, e.Value = fromEnvironment, v
	}
	if !envNoRedact && e.Value != "" {
		e.Value = userdata.RedactValue(name, e.Value)
	}
	return e
}
