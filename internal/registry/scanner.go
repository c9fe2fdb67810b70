package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"swapd/internal/common/fsutil"
	"swapd/pkg/types"
)

// StagingPrefix marks directories a publisher is still filling. Scan skips
// them whatever the version prefix is.
const StagingPrefix = ".staging-"

// ErrParentMissing is returned when the artifact parent directory does not exist.
var ErrParentMissing = errors.New("artifact parent directory missing")

// Listing is the result of one scan, each group sorted oldest first.
type Listing struct {
	Valid   []types.Version
	Invalid []types.Version
}

// Newest returns the greatest valid version.
func (l Listing) Newest() (types.Version, bool) {
	if len(l.Valid) == 0 {
		return types.Version{}, false
	}
	return l.Valid[len(l.Valid)-1], true
}

// Scanner discovers version directories under ParentDir.
type Scanner struct {
	FS        FS
	ParentDir string
	Prefix    string
	// Marker must exist inside a version directory for it to be valid.
	Marker string
	// SecondaryMarker, if set, must exist as well.
	SecondaryMarker string
}

// Scan lists subdirectories of ParentDir whose names start with Prefix and
// classifies them by marker presence. Staging directories are ignored.
func (s Scanner) Scan() (Listing, error) {
	fs := s.FS
	if fs == nil {
		fs = OSFS{}
	}
	base, err := fsutil.ExpandHome(s.ParentDir)
	if err != nil {
		return Listing{}, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return Listing{}, fmt.Errorf("abs path: %w", err)
	}
	if !fs.IsDir(abs) {
		return Listing{}, fmt.Errorf("%w: %s", ErrParentMissing, abs)
	}
	names, err := fs.ListDirs(abs, s.Prefix)
	if err != nil {
		return Listing{}, fmt.Errorf("list %s: %w", abs, err)
	}
	var out Listing
	for _, name := range names {
		if strings.HasPrefix(name, StagingPrefix) {
			continue
		}
		v := types.Version{ID: name, Path: filepath.Join(abs, name)}
		v.Valid = s.valid(fs, v.Path)
		if v.Valid {
			out.Valid = append(out.Valid, v)
		} else {
			out.Invalid = append(out.Invalid, v)
		}
	}
	sortVersions(out.Valid)
	sortVersions(out.Invalid)
	return out, nil
}

func (s Scanner) valid(fs FS, dir string) bool {
	if !fs.IsFile(filepath.Join(dir, s.Marker)) {
		return false
	}
	if s.SecondaryMarker != "" && !fs.IsFile(filepath.Join(dir, s.SecondaryMarker)) {
		return false
	}
	return true
}

func sortVersions(vs []types.Version) {
	sort.Slice(vs, func(i, j int) bool { return vs[i].ID < vs[j].ID })
}
