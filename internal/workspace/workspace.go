// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workspace models the project workspace: the directory identity
// holding one corpus plus one index. All paths the pipeline touches are
// derived from the workspace root, so the rest of the system never
// hard-codes directory names.
package workspace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/graphchat/internal/artifact"
)

const (
	corpusDir    = "doc_repo"
	inputDir     = "input"
	outputDir    = "output"
	logsDir      = "logs"
	settingsFile = "settings.yaml"
	lockFile     = ".graphchat.lock"
	lancedbDir   = "lancedb"
)

// OverrideFiles are the operator-supplied files copied into a freshly
// initialized workspace, overwriting the engine's scaffolded defaults.
var OverrideFiles = []string{settingsFile, ".env"}

// Workspace is the directory identity for one corpus+index instance.
// It is a value: constructed once at startup and passed to every
// operation, never mutated.
type Workspace struct {
	Root string
}

// New returns a Workspace rooted at root.
func New(root string) Workspace {
	return Workspace{Root: root}
}

// CorpusDir is the local working copy of the document repository.
func (w Workspace) CorpusDir() string { return filepath.Join(w.Root, corpusDir) }

// InputDir holds the converted plain-text documents the engine ingests.
func (w Workspace) InputDir() string { return filepath.Join(w.Root, inputDir) }

// OutputDir holds the engine's artifact tables.
func (w Workspace) OutputDir() string { return filepath.Join(w.Root, outputDir) }

// LogsDir holds the engine's reporting output.
func (w Workspace) LogsDir() string { return filepath.Join(w.Root, logsDir) }

// SettingsPath is the engine configuration file inside the workspace.
func (w Workspace) SettingsPath() string { return filepath.Join(w.Root, settingsFile) }

// LockPath is the advisory build lock file.
func (w Workspace) LockPath() string { return filepath.Join(w.Root, lockFile) }

// VectorStoreURI is the vector store location, rebased under the
// workspace output directory.
func (w Workspace) VectorStoreURI() string {
	return filepath.Join(w.OutputDir(), lancedbDir)
}

// BuildState is the observed lifecycle state of a workspace's index.
type BuildState int

const (
	// Uninitialized means the engine configuration has never been
	// scaffolded: no settings file exists.
	Uninitialized BuildState = iota

	// NotBuilt means the workspace is initialized but the artifact set
	// is incomplete.
	NotBuilt

	// Built means every artifact table the query path needs exists.
	Built
)

func (s BuildState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case NotBuilt:
		return "not-built"
	case Built:
		return "built"
	}
	return fmt.Sprintf("BuildState(%d)", int(s))
}

// Initialized reports whether the engine configuration has been
// scaffolded into the workspace.
func (w Workspace) Initialized() bool {
	_, err := os.Stat(w.SettingsPath())
	return err == nil
}

// State inspects the filesystem and reports the workspace's lifecycle
// state. The filesystem is the state store: no separate record is kept.
func (w Workspace) State() BuildState {
	if !w.Initialized() {
		return Uninitialized
	}
	if artifact.QueryComplete(w.OutputDir()) {
		return Built
	}
	return NotBuilt
}

// Scaffold copies the operator override files from srcDir into the
// workspace root, overwriting whatever initialization produced. Missing
// override files are skipped with a note on out; the engine's
// scaffolded defaults remain in place for those.
func (w Workspace) Scaffold(srcDir string, out io.Writer) error {
	if srcDir == "" {
		srcDir = "."
	}
	if err := os.MkdirAll(w.Root, 0o755); err != nil {
		return fmt.Errorf("creating workspace root: %w", err)
	}

	for _, name := range OverrideFiles {
		src := filepath.Join(srcDir, name)
		data, err := os.ReadFile(src)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintf(out, "override %s not found, keeping scaffolded default\n", name)
				continue
			}
			return fmt.Errorf("reading override %s: %w", src, err)
		}
		dst := filepath.Join(w.Root, name)
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("writing override %s: %w", dst, err)
		}
		fmt.Fprintf(out, "copied %s into workspace\n", name)
	}
	return nil
}
