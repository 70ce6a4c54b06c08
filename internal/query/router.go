// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query loads a workspace's artifact set and routes one
// question to the engine's local or global search.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pdiddy/graphchat/internal/artifact"
	"github.com/pdiddy/graphchat/internal/engine"
	"github.com/pdiddy/graphchat/internal/workspace"
	"github.com/pdiddy/graphchat/pkg/types"
)

// ErrUnsupportedMode reports a search mode outside local/global. It is
// returned before any artifact load or engine call.
var ErrUnsupportedMode = errors.New("unsupported search mode")

// EngineError wraps a failure from the engine's search call.
type EngineError struct {
	Mode types.SearchMode
	Err  error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine %s search failed: %v", e.Mode, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// Router dispatches questions against one workspace's built index.
type Router struct {
	ws     workspace.Workspace
	eng    engine.Engine
	cfg    types.QueryConfig
	logger *slog.Logger
}

// NewRouter returns a Router for ws.
func NewRouter(ws workspace.Workspace, eng engine.Engine, cfg types.QueryConfig, logger *slog.Logger) *Router {
	return &Router{ws: ws, eng: eng, cfg: cfg, logger: logger}
}

// options merges configured overrides onto the fixed defaults.
func (r *Router) options() engine.SearchOptions {
	opts := engine.DefaultSearchOptions()
	if r.cfg.CommunityLevel > 0 {
		opts.CommunityLevel = r.cfg.CommunityLevel
	}
	if r.cfg.ResponseType != "" {
		opts.ResponseType = r.cfg.ResponseType
	}
	return opts
}

// Query answers one question. It validates the mode, loads the six
// artifact tables (any load failure is an *artifact.Error; the caller
// must have built the index first), and dispatches to the matching
// search. Engine-side failures come back as *EngineError. No retries at
// this layer.
func (r *Router) Query(ctx context.Context, q types.Question) (types.Answer, error) {
	if q.Mode != types.SearchLocal && q.Mode != types.SearchGlobal {
		return types.Answer{}, fmt.Errorf("%w: %q", ErrUnsupportedMode, q.Mode)
	}

	cfg, err := r.eng.LoadConfig(r.ws)
	if err != nil {
		return types.Answer{}, fmt.Errorf("loading engine config: %w", err)
	}

	set, err := artifact.Load(r.ws.OutputDir())
	if err != nil {
		return types.Answer{}, err
	}

	opts := r.options()
	r.logger.Info("querying index", "mode", string(q.Mode), "tables", set.Summary())

	var answer types.Answer
	switch q.Mode {
	case types.SearchLocal:
		answer, err = r.eng.LocalSearch(ctx, cfg, set, opts, q.Text)
	case types.SearchGlobal:
		answer, err = r.eng.GlobalSearch(ctx, cfg, set, opts, q.Text)
	}
	if err != nil {
		return types.Answer{}, &EngineError{Mode: q.Mode, Err: err}
	}
	return answer, nil
}
