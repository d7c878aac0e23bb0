// Package installer runs the asset table against the filesystem: for each
// agent it places every resolvable asset into the agent's target directory
// and then runs the agent's post-actions. A hard failure stops the current
// agent only; the remaining agents are still attempted.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/agentcfg/internal/branding"
	"github.com/agentx-labs/agentcfg/internal/linker"
	"github.com/agentx-labs/agentcfg/internal/logging"
	"github.com/agentx-labs/agentcfg/internal/manifest"
	"github.com/agentx-labs/agentcfg/internal/mcpconfig"
	"github.com/agentx-labs/agentcfg/internal/platform"
	"github.com/agentx-labs/agentcfg/internal/registry"
	"github.com/agentx-labs/agentcfg/internal/userdata"
)

// Options configures an Installer.
type Options struct {
	RepoRoot string
	Mode     manifest.Mode // overrides every agent's mode when set
	EnvFile  string        // .env for placeholder expansion; empty means RepoRoot/.env
	Out      *Reporter
	Logger   *logging.Logger
}

// Installer installs agents from a bound table. The table is shared and
// never modified.
type Installer struct {
	table *manifest.Table
	opts  Options
	out   *Reporter
	log   *logging.Logger

	canSymlink   func() bool
	warnedNoLink bool
}

// New returns an Installer for table. Target directories in table must
// already be absolute (see manifest.Table.Bind).
func New(table *manifest.Table, opts Options) *Installer {
	out := opts.Out
	if out == nil {
		out = NewReporter(nil, false)
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Installer{
		table:      table,
		opts:       opts,
		out:        out,
		log:        log.Sub("installer"),
		canSymlink: platform.IsSymlinkSupported,
	}
}

// InstallAgent installs a single agent. The returned error is non-nil only
// for names missing from the table; installation failures are reported in
// the result.
func (in *Installer) InstallAgent(name string) (AgentResult, error) {
	agent, ok := in.table.Lookup(name)
	if !ok {
		return AgentResult{Name: name, Status: StatusFailed}, &InstallError{Agent: name, Err: ErrUnknownAgent}
	}
	return in.installAgent(agent), nil
}

// InstallAll installs every agent in table order.
func (in *Installer) InstallAll(ctx context.Context) (Summary, error) {
	return in.Install(ctx, in.table.Names())
}

// Install installs the named agents in the given order, printing a header
// and a final verdict. All names are checked before anything is installed.
// Cancelling ctx stops before the next agent and returns ErrInterrupted
// with the results gathered so far.
func (in *Installer) Install(ctx context.Context, names []string) (Summary, error) {
	agents := make([]*manifest.Agent, 0, len(names))
	for _, name := range names {
		agent, ok := in.table.Lookup(name)
		if !ok {
			return Summary{}, &InstallError{Agent: name, Err: ErrUnknownAgent}
		}
		agents = append(agents, agent)
	}

	in.out.Header(branding.DisplayName() + " Configuration Installation")

	var summary Summary
	for _, agent := range agents {
		if ctx.Err() != nil {
			return summary, ErrInterrupted
		}
		summary.Results = append(summary.Results, in.installAgent(agent))
	}

	in.log.Info().
		Int("agents", len(summary.Results)).
		Strs("failed", summary.Failed()).
		Msg("installation finished")

	in.out.Blank()
	if summary.OK() {
		in.out.Success("✅ Installation complete!")
		for _, agent := range agents {
			in.out.Line("%s configuration is available in %s", agent.Label, agent.TargetDir)
		}
	} else {
		in.out.Error("⚠️ Installation completed with some errors. Check the output above for details.")
	}
	return summary, nil
}

func (in *Installer) installAgent(agent *manifest.Agent) AgentResult {
	res := AgentResult{Name: agent.Name, Label: agent.Label, Status: StatusOK}
	log := in.log.With("agent", agent.Name)

	in.out.Line("Installing %s configuration...", agent.Label)

	err := in.placeAssets(agent, &res, log)
	if err == nil {
		err = in.runPostActions(agent, &res, log)
	}
	if err != nil {
		in.out.Error("Error installing %s: %v", agent.Label, err)
		log.Error().Err(err).Msg("agent failed")
		res.Status = StatusFailed
		res.Err = err
	}
	return res
}

func (in *Installer) placeAssets(agent *manifest.Agent, res *AgentResult, log *logging.Logger) error {
	mode := in.modeFor(agent)

	if err := os.MkdirAll(agent.TargetDir, userdata.DirPermNormal); err != nil {
		return fmt.Errorf("creating %s: %w", agent.TargetDir, err)
	}

	for _, asset := range agent.Assets {
		resolved, ok := registry.Resolve(in.opts.RepoRoot, asset.Source, asset.Kind, in.out)
		if !ok {
			res.Skipped = append(res.Skipped, asset.Source)
			continue
		}

		target := filepath.Join(agent.TargetDir, asset.Target)
		log.Debug().
			Str("source", resolved.Path).
			Str("target", target).
			Str("mode", string(mode)).
			Msg("placing asset")

		if mode == manifest.ModeCopy {
			in.out.Line("Copying %s to %s...", asset.Source, target)
		} else {
			in.out.Line("Linking %s to %s...", asset.Source, target)
		}
		if err := linker.Place(resolved.Path, target, mode); err != nil {
			return err
		}
		if mode == manifest.ModeCopy {
			in.out.Success("✓ Copied %s", asset.Target)
		} else {
			in.out.Success("✓ Linked %s", asset.Target)
		}
		res.Placed = append(res.Placed, asset.Target)
	}
	return nil
}

// modeFor picks the placement mode for agent, falling back to copies when
// the platform cannot create links.
func (in *Installer) modeFor(agent *manifest.Agent) manifest.Mode {
	mode := in.opts.Mode
	if mode == "" {
		mode, _ = manifest.ParseMode(string(agent.Mode))
	}
	if mode == manifest.ModeSymlink && !in.canSymlink() {
		if !in.warnedNoLink {
			in.out.Warn("Warning: symbolic links are not available, copying files instead...")
			in.warnedNoLink = true
		}
		return manifest.ModeCopy
	}
	return mode
}

func (in *Installer) runPostActions(agent *manifest.Agent, res *AgentResult, log *logging.Logger) error {
	for _, action := range agent.PostActions {
		switch action.Kind {
		case manifest.ActionMergeMCPRegistry:
			if err := in.mergeRegistry(agent, action, res, log); err != nil {
				return err
			}
		case manifest.ActionPruneBrokenLinks:
			if err := in.pruneLinks(agent, log); err != nil {
				return err
			}
		default:
			in.out.Warn(fmt.Sprintf("Warning: Unknown post-action '%s' for %s", action.Kind, agent.Name))
		}
	}
	return nil
}

func (in *Installer) mergeRegistry(agent *manifest.Agent, action manifest.PostAction, res *AgentResult, log *logging.Logger) error {
	format, ok := mcpconfig.ParseFormat(strings.ToLower(action.Format))
	if !ok {
		return fmt.Errorf("unknown format %q for %s", action.Format, action.Target)
	}
	if registry.Exists(in.opts.RepoRoot, action.Source) {
		in.out.Line("Updating %s MCP configuration...", agent.Label)
	}

	outcome, err := mcpconfig.Merge(mcpconfig.Request{
		RepoRoot:  in.opts.RepoRoot,
		Source:    action.Source,
		Target:    action.Target,
		Key:       action.Key,
		Format:    format,
		ExpandEnv: action.ExpandEnv,
		EnvFile:   in.opts.EnvFile,
		Reporter:  in.out,
		Logger:    log.Sub("mcpconfig"),
	})
	if err != nil {
		return err
	}
	if outcome == mcpconfig.Skipped {
		res.Skipped = append(res.Skipped, action.Source)
		return nil
	}
	in.out.Success("✓ MCP configuration updated successfully")
	return nil
}

func (in *Installer) pruneLinks(agent *manifest.Agent, log *logging.Logger) error {
	removed, err := linker.PruneBrokenLinks(agent.TargetDir, in.opts.RepoRoot)
	if err != nil {
		return fmt.Errorf("pruning broken links in %s: %w", agent.TargetDir, err)
	}
	for _, name := range removed {
		in.out.Line("Removed broken symlink: %s", name)
	}
	log.Debug().Int("removed", len(removed)).Msg("pruned broken links")
	return nil
}
