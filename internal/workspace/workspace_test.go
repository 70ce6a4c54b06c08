// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workspace

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/graphchat/internal/artifact"
)

// touchArtifacts creates empty files for the named tables under the
// workspace output dir. Presence checks only stat, so empty files do.
func touchArtifacts(t *testing.T, ws Workspace, tables ...string) {
	t.Helper()
	if err := os.MkdirAll(ws.OutputDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range tables {
		if err := os.WriteFile(artifact.Path(ws.OutputDir(), name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func allTables() []string {
	return []string{
		artifact.TableEntities, artifact.TableCommunities, artifact.TableCommunityReports,
		artifact.TableNodes, artifact.TableTextUnits, artifact.TableRelationships,
	}
}

func TestStateTransitions(t *testing.T) {
	ws := New(t.TempDir())

	if got := ws.State(); got != Uninitialized {
		t.Fatalf("fresh workspace: got %v, want Uninitialized", got)
	}

	if err := os.WriteFile(ws.SettingsPath(), []byte("models: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := ws.State(); got != NotBuilt {
		t.Fatalf("initialized workspace: got %v, want NotBuilt", got)
	}

	// Build-complete but not query-complete still reads as NotBuilt.
	touchArtifacts(t, ws, artifact.TableEntities, artifact.TableCommunities, artifact.TableCommunityReports)
	if got := ws.State(); got != NotBuilt {
		t.Fatalf("partial artifacts: got %v, want NotBuilt", got)
	}

	touchArtifacts(t, ws, allTables()...)
	if got := ws.State(); got != Built {
		t.Fatalf("full artifacts: got %v, want Built", got)
	}
}

func TestDerivedPaths(t *testing.T) {
	ws := New("/srv/ragtest")

	tests := []struct {
		got, want string
	}{
		{ws.CorpusDir(), "/srv/ragtest/doc_repo"},
		{ws.InputDir(), "/srv/ragtest/input"},
		{ws.OutputDir(), "/srv/ragtest/output"},
		{ws.LogsDir(), "/srv/ragtest/logs"},
		{ws.SettingsPath(), "/srv/ragtest/settings.yaml"},
		{ws.VectorStoreURI(), "/srv/ragtest/output/lancedb"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestScaffold(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "settings.yaml"), []byte("models: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ws := New(filepath.Join(t.TempDir(), "ragtest"))
	var buf bytes.Buffer
	if err := ws.Scaffold(src, &buf); err != nil {
		t.Fatal(err)
	}

	if !ws.Initialized() {
		t.Error("settings.yaml should have been copied into the workspace")
	}
	// .env was absent from the source; that is noted, not fatal.
	if !strings.Contains(buf.String(), ".env not found") {
		t.Errorf("missing override should be noted, got %q", buf.String())
	}
}

func TestBuildLock(t *testing.T) {
	ws := New(t.TempDir())

	lock, err := ws.AcquireBuildLock()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ws.AcquireBuildLock(); !errors.Is(err, ErrBuildLocked) {
		t.Fatalf("second acquire: got %v, want ErrBuildLocked", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatal(err)
	}
	if err := lock.Release(); err != nil {
		t.Errorf("double release should be harmless, got %v", err)
	}

	relock, err := ws.AcquireBuildLock()
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	relock.Release()
}
