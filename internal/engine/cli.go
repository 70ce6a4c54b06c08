// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pdiddy/graphchat/internal/artifact"
	"github.com/pdiddy/graphchat/internal/workspace"
	"github.com/pdiddy/graphchat/pkg/types"
)

const defaultBinary = "graphrag"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) (stdout string, err error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	if err := cmd.Run(); err != nil {
		return out.String(), fmt.Errorf("%s %s: %w: %s",
			name, strings.Join(args, " "), err, strings.TrimSpace(errOut.String()))
	}
	return out.String(), nil
}

// CLIEngine drives the retrieval engine through its command-line
// interface. The binary owns config loading, model calls, and artifact
// schemas; this adapter only shells out and shapes the results.
type CLIEngine struct {
	bin  string
	exec executor
}

// NewCLIEngine returns an engine adapter for cfg.Binary (default
// "graphrag").
func NewCLIEngine(cfg types.EngineConfig) *CLIEngine {
	bin := cfg.Binary
	if bin == "" {
		bin = defaultBinary
	}
	return &CLIEngine{bin: bin, exec: &osExecutor{}}
}

// Available reports whether the engine binary exists on PATH.
func (e *CLIEngine) Available() bool {
	_, err := e.exec.LookPath(e.bin)
	return err == nil
}

// InitProject scaffolds the engine workspace at root.
func (e *CLIEngine) InitProject(ctx context.Context, root string) error {
	if _, err := e.exec.Run(ctx, e.bin, "init", "--root", root); err != nil {
		return fmt.Errorf("initializing engine project at %s: %w", root, err)
	}
	return nil
}

// LoadConfig delegates to LoadSettings.
func (e *CLIEngine) LoadConfig(ws workspace.Workspace) (*Config, error) {
	return LoadSettings(ws)
}

// BuildIndex runs the engine's index command over the workspace. The
// CLI surface cannot report per-workflow outcomes the way an in-process
// engine can, so a successful run yields a single aggregate result; a
// non-zero exit is the error the caller aborts on.
func (e *CLIEngine) BuildIndex(ctx context.Context, cfg *Config) ([]types.WorkflowResult, error) {
	args := []string{
		"index",
		"--root", cfg.Root,
		"--config", cfg.SettingsPath,
		"--output", cfg.StorageBaseDir,
	}

	out, err := e.exec.Run(ctx, e.bin, args...)
	if err != nil {
		return nil, fmt.Errorf("engine index build: %w", err)
	}

	result := types.WorkflowResult{Workflow: "index"}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(strings.ToLower(line), "error") {
			result.Errors = append(result.Errors, strings.TrimSpace(line))
		}
	}
	return []types.WorkflowResult{result}, nil
}

// LocalSearch runs the engine's local query method.
func (e *CLIEngine) LocalSearch(ctx context.Context, cfg *Config, set *artifact.Set, opts SearchOptions, query string) (types.Answer, error) {
	return e.search(ctx, cfg, set, opts, "local", query)
}

// GlobalSearch runs the engine's global query method. Dynamic community
// selection is passed through only when enabled; the engine defaults it
// off.
func (e *CLIEngine) GlobalSearch(ctx context.Context, cfg *Config, set *artifact.Set, opts SearchOptions, query string) (types.Answer, error) {
	return e.search(ctx, cfg, set, opts, "global", query)
}

func (e *CLIEngine) search(ctx context.Context, cfg *Config, set *artifact.Set, opts SearchOptions, method, query string) (types.Answer, error) {
	args := []string{
		"query",
		"--root", cfg.Root,
		"--config", cfg.SettingsPath,
		"--method", method,
		"--community-level", strconv.Itoa(opts.CommunityLevel),
		"--response-type", opts.ResponseType,
	}
	if method == "global" && opts.DynamicSelection {
		args = append(args, "--dynamic-community-selection")
	}
	args = append(args, "--query", query)

	out, err := e.exec.Run(ctx, e.bin, args...)
	if err != nil {
		return types.Answer{}, fmt.Errorf("engine %s search: %w", method, err)
	}

	return types.Answer{
		Text:    strings.TrimSpace(out),
		Context: set.Summary(),
	}, nil
}
