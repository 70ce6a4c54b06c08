// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine is the boundary to the external knowledge-graph
// retrieval engine. graphchat drives four of its operations: one-time
// project initialization, index building, and the two search modes.
// The graph construction and retrieval algorithms behind them are the
// engine's own business.
package engine

import (
	"context"

	"github.com/pdiddy/graphchat/internal/artifact"
	"github.com/pdiddy/graphchat/internal/workspace"
	"github.com/pdiddy/graphchat/pkg/types"
)

// SearchOptions carries the fixed retrieval parameters graphchat
// supplies on every query. Covariate data is never supplied; dynamic
// community re-selection applies to global search only.
type SearchOptions struct {
	CommunityLevel   int
	ResponseType     string
	DynamicSelection bool
}

// DefaultSearchOptions are the parameters used for both search modes
// unless configuration overrides them.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		CommunityLevel:   2,
		ResponseType:     "Multiple Paragraphs",
		DynamicSelection: false,
	}
}

// Engine is the set of operations graphchat consumes from the external
// retrieval engine. Implementations: CLIEngine (production), fakes in
// the index and query tests.
type Engine interface {
	// InitProject scaffolds the engine's expected workspace layout and
	// configuration at root.
	InitProject(ctx context.Context, root string) error

	// LoadConfig reads the workspace's engine settings and returns an
	// immutable Config with storage, reporting, and vector-store
	// locations rebased under the workspace.
	LoadConfig(ws workspace.Workspace) (*Config, error)

	// BuildIndex runs the engine's index build over the converted
	// document set. Each result carries a workflow name and any errors
	// the workflow swallowed; only the returned error aborts a run.
	BuildIndex(ctx context.Context, cfg *Config) ([]types.WorkflowResult, error)

	// LocalSearch answers a question scoped to entities and
	// relationships near its focal concepts.
	LocalSearch(ctx context.Context, cfg *Config, set *artifact.Set, opts SearchOptions, query string) (types.Answer, error)

	// GlobalSearch answers a question from corpus-wide community
	// summaries.
	GlobalSearch(ctx context.Context, cfg *Config, set *artifact.Set, opts SearchOptions, query string) (types.Answer, error)
}
