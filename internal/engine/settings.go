// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/graphchat/internal/workspace"
)

// derivedSettingsFile is the settings file engine invocations actually
// read: the operator's settings.yaml with the storage, reporting, and
// vector-store locations rewritten to their workspace-rebased values.
// The operator's file is never mutated.
const derivedSettingsFile = "settings.graphchat.yaml"

// Config is the engine configuration for one workspace. It is a value:
// assembled once from settings.yaml plus the workspace-derived path
// overrides, then passed around unchanged.
type Config struct {
	// Root is the workspace root the engine operates in.
	Root string

	// SettingsPath is the derived settings file the engine binary
	// reads, carrying the rebased paths below.
	SettingsPath string

	// StorageBaseDir is where artifact tables are written, rebased to
	// the workspace output directory.
	StorageBaseDir string

	// ReportingBaseDir is where engine logs are written, rebased to the
	// workspace logs directory.
	ReportingBaseDir string

	// VectorStoreURI is the vector store location, rebased under the
	// workspace output directory.
	VectorStoreURI string

	// Model is the language model named in settings.yaml, if any.
	// Informational only.
	Model string
}

// LoadSettings parses the workspace's settings.yaml and constructs the
// Config the engine operations need. The storage, reporting, and
// vector-store locations are always rebased under the workspace,
// regardless of what the settings file says: one workspace, one
// artifact tree. The rebased values are written into a derived
// settings file next to the operator's, and SettingsPath names that
// file, so every engine invocation sees all three overrides.
func LoadSettings(ws workspace.Workspace) (*Config, error) {
	data, err := os.ReadFile(ws.SettingsPath())
	if err != nil {
		return nil, fmt.Errorf("reading engine settings: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing engine settings %s: %w", ws.SettingsPath(), err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	cfg := &Config{
		Root:             ws.Root,
		StorageBaseDir:   ws.OutputDir(),
		ReportingBaseDir: ws.LogsDir(),
		VectorStoreURI:   ws.VectorStoreURI(),
		Model:            modelName(doc),
	}

	setNested(doc, cfg.StorageBaseDir, "storage", "base_dir")
	setNested(doc, cfg.ReportingBaseDir, "reporting", "base_dir")
	setNested(doc, cfg.VectorStoreURI, "embeddings", "vector_store", "db_uri")

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding derived engine settings: %w", err)
	}
	derived := filepath.Join(ws.Root, derivedSettingsFile)
	if err := os.WriteFile(derived, out, 0o644); err != nil {
		return nil, fmt.Errorf("writing derived engine settings: %w", err)
	}
	cfg.SettingsPath = derived
	return cfg, nil
}

// modelName digs the default chat model's name out of the parsed
// settings document.
func modelName(doc map[string]any) string {
	models, ok := doc["models"].(map[string]any)
	if !ok {
		return ""
	}
	def, ok := models["default_chat_model"].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := def["model"].(string)
	return name
}

// setNested writes value at the given key path, creating intermediate
// mappings as needed and replacing non-mapping values in the way.
func setNested(doc map[string]any, value string, path ...string) {
	m := doc
	for _, key := range path[:len(path)-1] {
		next, ok := m[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[key] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}
