// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus keeps the local working copy of the document repository
// current using go-git: a full clone when the working copy is missing, a
// fast-forward pull when it exists.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-git/v5"

	"github.com/pdiddy/graphchat/pkg/types"
)

// ErrRemoteMissing reports that no remote repository address was
// configured for the sync.
var ErrRemoteMissing = errors.New("corpus remote URL is not set")

// Sync clones cfg.RemoteURL into localPath, or pulls when localPath is
// already a repository. A failure is fatal to the invocation; Sync does
// not retry. The working copy is the only state it mutates.
func Sync(ctx context.Context, cfg types.SyncConfig, localPath string, w io.Writer) error {
	if cfg.RemoteURL == "" {
		return ErrRemoteMissing
	}

	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		return clone(ctx, cfg, localPath, w)
	}
	return pull(ctx, localPath, w)
}

func clone(ctx context.Context, cfg types.SyncConfig, localPath string, w io.Writer) error {
	fmt.Fprintf(w, "cloning corpus %s\n", cfg.RemoteURL)

	_, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{
		URL:   cfg.RemoteURL,
		Depth: cfg.Depth,
	})
	if err != nil {
		return fmt.Errorf("cloning %s: %w", cfg.RemoteURL, err)
	}
	return nil
}

func pull(ctx context.Context, localPath string, w io.Writer) error {
	fmt.Fprintln(w, "corpus exists, pulling latest changes")

	repo, err := git.PlainOpen(localPath)
	if err != nil {
		return fmt.Errorf("opening corpus repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	err = wt.PullContext(ctx, &git.PullOptions{})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pulling corpus: %w", err)
	}
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		fmt.Fprintln(w, "corpus already up to date")
	}
	return nil
}
