package registry

import "swapd/internal/common/fsutil"

// FS is the filesystem surface the scanner and pruner depend on.
type FS interface {
	// ListDirs returns names of immediate child directories of parent
	// starting with prefix.
	ListDirs(parent, prefix string) ([]string, error)
	IsFile(path string) bool
	IsDir(path string) bool
	// RemoveAll deletes a directory tree.
	RemoveAll(path string) error
}

// OSFS is the local filesystem.
type OSFS struct{}

func (OSFS) ListDirs(parent, prefix string) ([]string, error) { return fsutil.ListDirs(parent, prefix) }
func (OSFS) IsFile(path string) bool                          { return fsutil.IsFile(path) }
func (OSFS) IsDir(path string) bool                           { return fsutil.IsDir(path) }
func (OSFS) RemoveAll(path string) error                      { return fsutil.RemoveAll(path) }
