// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index owns the index lifecycle: deciding whether a workspace
// needs a fresh build, keeping the corpus current either way, and
// driving the engine's build step when one is required. The filesystem
// is the state store; the decision is made from artifact presence on
// every invocation.
package index

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdiddy/graphchat/internal/artifact"
	"github.com/pdiddy/graphchat/internal/convert"
	"github.com/pdiddy/graphchat/internal/corpus"
	"github.com/pdiddy/graphchat/internal/engine"
	"github.com/pdiddy/graphchat/internal/workspace"
	"github.com/pdiddy/graphchat/pkg/types"
)

// syncFunc matches corpus.Sync.
type syncFunc func(ctx context.Context, cfg types.SyncConfig, localPath string, w io.Writer) error

// convertFunc matches a bound convert.ConvertTree.
type convertFunc func(cfg types.ConversionConfig, inputDir, outputDir string, w io.Writer) (convert.BatchResult, error)

// Manager runs the bootstrap pipeline for one workspace: initialize if
// needed, sync, convert, then build or skip.
type Manager struct {
	ws     workspace.Workspace
	eng    engine.Engine
	cfg    types.Config
	logger *slog.Logger
	out    io.Writer

	sync    syncFunc
	convert convertFunc
}

// NewManager wires a Manager with the production sync and conversion
// stages. Progress lines go to out; structured events to logger.
func NewManager(ws workspace.Workspace, eng engine.Engine, cfg types.Config, logger *slog.Logger, out io.Writer) *Manager {
	conv := convert.NewMarkdownConverter()
	return &Manager{
		ws:     ws,
		eng:    eng,
		cfg:    cfg,
		logger: logger,
		out:    out,
		sync:   corpus.Sync,
		convert: func(ccfg types.ConversionConfig, inputDir, outputDir string, w io.Writer) (convert.BatchResult, error) {
			return convert.ConvertTree(conv, ccfg, inputDir, outputDir, w)
		},
	}
}

// Bootstrap runs one lifecycle invocation. Sync and conversion run
// unconditionally: keeping the corpus current is cheap next to a build.
// The build runs when force is set or the artifact set is incomplete,
// and is skipped otherwise. Any returned error aborts this invocation
// only; the caller decides whether the process lives on.
func (m *Manager) Bootstrap(ctx context.Context, force bool) error {
	if !m.ws.Initialized() {
		m.logger.Info("initializing workspace", "root", m.ws.Root)
		if err := m.eng.InitProject(ctx, m.ws.Root); err != nil {
			return fmt.Errorf("initializing project: %w", err)
		}
		if err := m.ws.Scaffold(m.cfg.Index.OverridesDir, m.out); err != nil {
			return fmt.Errorf("copying workspace overrides: %w", err)
		}
	} else {
		m.logger.Info("workspace already initialized", "root", m.ws.Root)
	}

	if err := m.sync(ctx, m.cfg.Sync, m.ws.CorpusDir(), m.out); err != nil {
		return fmt.Errorf("syncing corpus: %w", err)
	}

	result, err := m.convert(m.cfg.Conversion, m.ws.CorpusDir(), m.ws.InputDir(), m.out)
	if err != nil {
		return fmt.Errorf("converting corpus: %w", err)
	}
	m.logger.Info("corpus converted",
		"converted", result.Converted, "total", result.Total())

	if !force && !m.cfg.Index.Force && m.skipBuild() {
		m.logger.Info("index already built, skipping build", "output", m.ws.OutputDir())
		return nil
	}

	return m.build(ctx)
}

// skipBuild decides whether the existing artifact set is good enough to
// reuse. The engine's own completeness notion checks only three tables;
// querying needs all six, so a set that passes the build check but not
// the query check is treated as a failed build and rebuilt.
func (m *Manager) skipBuild() bool {
	out := m.ws.OutputDir()
	if artifact.QueryComplete(out) {
		return true
	}
	if artifact.BuildComplete(out) {
		m.logger.Warn("artifact set passes build check but is not queryable, rebuilding",
			"output", out)
	}
	return false
}

func (m *Manager) build(ctx context.Context) error {
	lock, err := m.ws.AcquireBuildLock()
	if err != nil {
		return err
	}
	defer func() {
		// A lock left behind blocks every later build.
		if err := lock.Release(); err != nil {
			m.logger.Warn("releasing build lock", "path", m.ws.LockPath(), "error", err)
		}
	}()

	engCfg, err := m.eng.LoadConfig(m.ws)
	if err != nil {
		return fmt.Errorf("loading engine config: %w", err)
	}

	m.logger.Info("building index", "root", m.ws.Root)
	results, err := m.eng.BuildIndex(ctx, engCfg)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	// Per-workflow errors are logged individually but do not fail the
	// run; only an error from the build call itself aborts.
	for _, r := range results {
		if len(r.Errors) > 0 {
			m.logger.Error("workflow reported errors",
				"workflow", r.Workflow, "errors", r.Errors)
		} else {
			m.logger.Info("workflow succeeded", "workflow", r.Workflow)
		}
	}

	m.logger.Info("index build finished", "state", m.ws.State().String())
	return nil
}
