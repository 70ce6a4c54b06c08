// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared value types used across graphchat stages.
package types

import "time"

// SyncConfig holds settings for the corpus synchronization stage.
type SyncConfig struct {
	// RemoteURL is the address of the version-controlled corpus repository.
	RemoteURL string `json:"remote_url" yaml:"remote_url"`

	// Depth limits clone history; 0 means full history.
	Depth int `json:"depth" yaml:"depth"`
}

// ConversionConfig holds settings for the document conversion stage.
type ConversionConfig struct {
	// Extension is the markup extension discovered under the corpus
	// tree (default ".md").
	Extension string `json:"extension" yaml:"extension"`
}

// IndexConfig holds settings for the index lifecycle stage.
type IndexConfig struct {
	// Force rebuilds the index even when artifacts are already present.
	Force bool `json:"force" yaml:"force"`

	// OverridesDir is the directory holding operator-supplied
	// settings.yaml and .env copied into a freshly initialized
	// workspace. Empty means the current directory.
	OverridesDir string `json:"overrides_dir,omitempty" yaml:"overrides_dir,omitempty"`
}

// QueryConfig holds settings for the query routing stage.
type QueryConfig struct {
	// CommunityLevel is the community granularity supplied to both
	// search modes (default 2).
	CommunityLevel int `json:"community_level" yaml:"community_level"`

	// ResponseType is the response style requested from the engine
	// (default "Multiple Paragraphs").
	ResponseType string `json:"response_type" yaml:"response_type"`
}

// BotConfig holds settings for the chat front end.
type BotConfig struct {
	// Token is the chat-platform bot credential.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// MentionOnly restricts handling to messages that mention the bot.
	MentionOnly bool `json:"mention_only" yaml:"mention_only"`

	// PollTimeout is the long-poll timeout for inbound updates
	// (default 60s).
	PollTimeout time.Duration `json:"poll_timeout" yaml:"poll_timeout"`
}

// HistoryConfig holds settings for the interaction history store.
type HistoryConfig struct {
	// Enabled controls whether interactions are recorded.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// MaxResults is the default maximum number of rows returned by
	// history queries (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// EngineConfig holds settings for the external retrieval engine adapter.
type EngineConfig struct {
	// Binary is the engine executable name or path (default "graphrag").
	Binary string `json:"binary" yaml:"binary"`
}

// Config is the top-level graphchat configuration.
type Config struct {
	// Workspace is the root directory of the active project workspace.
	Workspace string `json:"workspace" yaml:"workspace"`

	Sync       SyncConfig       `json:"sync" yaml:"sync"`
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Index      IndexConfig      `json:"index" yaml:"index"`
	Query      QueryConfig      `json:"query" yaml:"query"`
	Bot        BotConfig        `json:"bot" yaml:"bot"`
	History    HistoryConfig    `json:"history" yaml:"history"`
	Engine     EngineConfig     `json:"engine" yaml:"engine"`
}

// DefaultWorkspace is the workspace root used when none is configured.
const DefaultWorkspace = "./ragtest"
