// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/pdiddy/graphchat/pkg/types"
)

// initSourceRepo creates a git repository with one committed markdown
// file and returns its path.
func initSourceRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	writeAndCommit(t, repo, dir, "readme.md", "# hello")
	return dir
}

func writeAndCommit(t *testing.T, repo *git.Repository, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatal(err)
	}
	_, err = wt.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSyncMissingRemote(t *testing.T) {
	var buf bytes.Buffer
	err := Sync(context.Background(), types.SyncConfig{}, t.TempDir(), &buf)
	if !errors.Is(err, ErrRemoteMissing) {
		t.Fatalf("got %v, want ErrRemoteMissing", err)
	}
}

func TestSyncClonesThenPulls(t *testing.T) {
	src := initSourceRepo(t)
	dst := filepath.Join(t.TempDir(), "doc_repo")
	cfg := types.SyncConfig{RemoteURL: src}

	// First sync: full clone.
	var buf bytes.Buffer
	if err := Sync(context.Background(), cfg, dst, &buf); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dst, "readme.md")); err != nil {
		t.Fatalf("cloned file missing: %v", err)
	}

	// Second sync with no upstream changes: fast-forward no-op.
	buf.Reset()
	if err := Sync(context.Background(), cfg, dst, &buf); err != nil {
		t.Fatal(err)
	}

	// Upstream gains a commit; the next sync picks it up.
	srcRepo, err := git.PlainOpen(src)
	if err != nil {
		t.Fatal(err)
	}
	writeAndCommit(t, srcRepo, src, "guide.md", "# guide")

	buf.Reset()
	if err := Sync(context.Background(), cfg, dst, &buf); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dst, "guide.md")); err != nil {
		t.Fatalf("pulled file missing: %v", err)
	}
}

func TestSyncUnreachableRemote(t *testing.T) {
	var buf bytes.Buffer
	dst := filepath.Join(t.TempDir(), "doc_repo")
	err := Sync(context.Background(), types.SyncConfig{RemoteURL: filepath.Join(t.TempDir(), "nope")}, dst, &buf)
	if err == nil {
		t.Fatal("clone from a nonexistent remote should fail")
	}
}
