package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agentx-labs/agentcfg/internal/config"
	"github.com/agentx-labs/agentcfg/internal/installer"
	"github.com/agentx-labs/agentcfg/internal/manifest"
	"github.com/agentx-labs/agentcfg/internal/userdata"
)

// session is the machine-specific context shared by commands that read the
// asset table: where home is, which repository to install from, and the
// table bound to this machine's target directories.
type session struct {
	home     string
	repoRoot string
	table    *manifest.Table
}

// loadTable reads the asset table named by path (or the configured table),
// falling back to the built-in one, and binds it to home.
func loadTable(path, home string) (*manifest.Table, error) {
	if path == "" {
		path = config.Get(config.KeyTable)
	}

	var (
		table *manifest.Table
		err   error
	)
	if path == "" {
		table, err = manifest.Default()
	} else {
		table, err = manifest.Load(userdata.ExpandHome(path, home))
	}
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]string)
	for _, name := range table.Names() {
		if dir := config.TargetOverride(name); dir != "" {
			overrides[name] = dir
		}
	}
	return table.Bind(home, overrides), nil
}

// resolveRepoRoot picks the configuration repository: the flag, then the
// repo_dir setting, then the working directory.
func resolveRepoRoot(flag, home string) (string, error) {
	dir := flag
	if dir == "" {
		dir = config.Get(config.KeyRepoDir)
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		dir = wd
	}

	abs, err := filepath.Abs(userdata.ExpandHome(dir, home))
	if err != nil {
		return "", fmt.Errorf("resolving repository %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("repository %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("repository %s: not a directory", abs)
	}
	return abs, nil
}

func loadSession(repoFlag, tableFlag string) (*session, error) {
	home, err := userdata.HomeDir()
	if err != nil {
		return nil, err
	}
	repoRoot, err := resolveRepoRoot(repoFlag, home)
	if err != nil {
		return nil, err
	}
	table, err := loadTable(tableFlag, home)
	if err != nil {
		return nil, err
	}
	return &session{home: home, repoRoot: repoRoot, table: table}, nil
}

// selectAgents returns the named agents, or every agent when names is empty.
func (s *session) selectAgents(names []string) ([]*manifest.Agent, error) {
	if len(names) == 0 {
		names = s.table.Names()
	}
	agents := make([]*manifest.Agent, 0, len(names))
	for _, name := range names {
		agent, ok := s.table.Lookup(name)
		if !ok {
			return nil, &installer.InstallError{Agent: name, Err: installer.ErrUnknownAgent}
		}
		agents = append(agents, agent)
	}
	return agents, nil
}

// reporter returns a Reporter on w, coloured only for terminals when the
// color setting allows it and --no-color is not given.
func reporter(w io.Writer) *installer.Reporter {
	want := !flagNoColor && appSettings.Color
	f, _ := w.(*os.File)
	return installer.NewReporter(w, installer.ColorEnabled(f, want))
}
