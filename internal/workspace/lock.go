// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workspace

import (
	"errors"
	"fmt"
	"os"
)

// ErrBuildLocked reports that another build holds the workspace lock.
var ErrBuildLocked = errors.New("workspace build lock is held")

// BuildLock is an advisory single-host guard around the index build
// transition. It does not protect against concurrent builds from other
// hosts; that remains a deployment concern.
type BuildLock struct {
	path string
}

// AcquireBuildLock creates the lock file exclusively. It fails fast with
// ErrBuildLocked when the file already exists.
func (w Workspace) AcquireBuildLock() (*BuildLock, error) {
	if err := os.MkdirAll(w.Root, 0o755); err != nil {
		return nil, fmt.Errorf("creating workspace root: %w", err)
	}

	f, err := os.OpenFile(w.LockPath(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBuildLocked, w.LockPath())
		}
		return nil, fmt.Errorf("creating build lock: %w", err)
	}
	fmt.Fprintf(f, "pid %d\n", os.Getpid())
	f.Close()

	return &BuildLock{path: w.LockPath()}, nil
}

// Release removes the lock file. Releasing twice is harmless.
func (l *BuildLock) Release() error {
	err := os.Remove(l.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("releasing build lock: %w", err)
	}
	return nil
}
