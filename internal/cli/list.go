package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/agentx-labs/agentcfg/internal/userdata"
	"github.com/spf13/cobra"
)

var (
	listTable string
	listJSON  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents in the asset table",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listTable, "table", "", "Asset table YAML file (default: built-in table)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents an agent for display.
type listEntry struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	TargetDir   string `json:"target_dir"`
	Mode        string `json:"mode"`
	Assets      int    `json:"assets"`
	PostActions int    `json:"post_actions"`
}

func runList(cmd *cobra.Command, args []string) error {
	home, err := userdata.HomeDir()
	if err != nil {
		return err
	}
	table, err := loadTable(listTable, home)
	if err != nil {
		return err
	}

	entries := make([]listEntry, 0, len(table.Agents))
	for _, a := range table.Agents {
		mode := string(a.Mode)
		if mode == "" {
			mode = "symlink"
		}
		entries = append(entries, listEntry{
			Name:        a.Name,
			Label:       a.Label,
			TargetDir:   a.TargetDir,
			Mode:        mode,
			Assets:      len(a.Assets),
			PostActions: len(a.PostActions),
		})
	}

	if listJSON {
		return printJSON(cmd, entries)
	}
	return printListTable(cmd, entries)
}

func printListTable(cmd *cobra.Command, entries []listEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tLABEL\tTARGET\tMODE\tASSETS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", e.Name, e.Label, e.TargetDir, e.Mode, e.Assets)
	}
	return w.Flush()
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
