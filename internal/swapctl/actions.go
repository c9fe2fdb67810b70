package swapctl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"swapd/internal/common/fsutil"
	"swapd/internal/registry"
	"swapd/pkg/types"
)

// TimestampLayout names published versions; it is zero padded so that
// lexicographic order is chronological order.
const TimestampLayout = "20060102150405"

// Config is shared by all subcommands.
type Config struct {
	ParentDir       string
	Prefix          string
	Marker          string
	SecondaryMarker string
	LogLvl          string
}

func (c *Config) scanner() registry.Scanner {
	return registry.Scanner{ParentDir: c.ParentDir, Prefix: c.Prefix, Marker: c.Marker, SecondaryMarker: c.SecondaryMarker}
}

// fnPublish copies src (a file or a directory tree) into a staging
// directory, writes the marker files, then renames the staging directory to
// the version name. Scanners never see the staging directory, so a prune or
// reload running elsewhere cannot delete a publish in flight. A failed copy
// removes the staging directory.
func fnPublish(cfg *Config, src, id string, now time.Time) (types.Version, error) {
	if cfg.Marker == "" {
		return types.Version{}, errors.New("marker file name is required")
	}
	parent, err := fsutil.ExpandHome(cfg.ParentDir)
	if err != nil {
		return types.Version{}, err
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return types.Version{}, fmt.Errorf("create parent: %w", err)
	}
	if id == "" {
		id = cfg.Prefix + now.UTC().Format(TimestampLayout)
	}
	dest := filepath.Join(parent, id)
	if fsutil.PathExists(dest) {
		return types.Version{}, fmt.Errorf("version %s already exists", id)
	}
	staging := filepath.Join(parent, registry.StagingPrefix+id)
	if err := os.Mkdir(staging, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return types.Version{}, fmt.Errorf("publish of %s already in progress (%s)", id, staging)
		}
		return types.Version{}, fmt.Errorf("create staging dir: %w", err)
	}
	if err := stage(cfg, src, staging, now); err != nil {
		if rmErr := fsutil.RemoveAll(staging); rmErr != nil {
			warn("could not remove staging dir %s: %v", staging, rmErr)
		}
		return types.Version{}, err
	}
	if fsutil.PathExists(dest) {
		_ = fsutil.RemoveAll(staging)
		return types.Version{}, fmt.Errorf("version %s already exists", id)
	}
	if err := os.Rename(staging, dest); err != nil {
		if rmErr := fsutil.RemoveAll(staging); rmErr != nil {
			warn("could not remove staging dir %s: %v", staging, rmErr)
		}
		return types.Version{}, fmt.Errorf("commit version: %w", err)
	}
	info("published %s", id)
	return types.Version{ID: id, Path: dest, Valid: true}, nil
}

// stage fills dir with the artifacts and both markers.
func stage(cfg *Config, src, dir string, now time.Time) error {
	debug("copying %s -> %s", src, dir)
	if err := copyInto(src, dir); err != nil {
		return fmt.Errorf("copy artifacts: %w", err)
	}
	stamp := []byte(now.UTC().Format(time.RFC3339) + "\n")
	if cfg.SecondaryMarker != "" {
		if err := os.WriteFile(filepath.Join(dir, cfg.SecondaryMarker), stamp, 0o644); err != nil {
			return fmt.Errorf("write secondary marker: %w", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, cfg.Marker), stamp, 0o644); err != nil {
		return fmt.Errorf("write marker: %w", err)
	}
	return nil
}

func copyInto(src, dest string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return copyFile(src, filepath.Join(dest, filepath.Base(src)), fi.Mode().Perm())
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil || rel == "." {
			return err
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, target, fi.Mode().Perm())
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// listEntry is one row of `swapctl list --json`.
type listEntry struct {
	types.Version
	Newest bool `json:"newest"`
}

func fnList(cfg *Config, w io.Writer, asJSON bool) error {
	l, err := cfg.scanner().Scan()
	if err != nil {
		return err
	}
	newest, _ := l.Newest()
	var rows []listEntry
	for _, v := range l.Valid {
		rows = append(rows, listEntry{Version: v, Newest: v.ID == newest.ID})
	}
	for _, v := range l.Invalid {
		rows = append(rows, listEntry{Version: v})
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if rows == nil {
			rows = []listEntry{}
		}
		return enc.Encode(rows)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATUS\tPATH")
	for _, r := range rows {
		status := "invalid"
		if r.Valid {
			status = "valid"
		}
		if r.Newest {
			status += " (newest)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, status, r.Path)
	}
	return tw.Flush()
}

// dryRunFS reports removals without performing them.
type dryRunFS struct{ registry.OSFS }

func (dryRunFS) RemoveAll(string) error { return nil }

func fnPrune(cfg *Config, keep int, dryRun bool, w io.Writer) (registry.PruneResult, error) {
	if keep == 0 {
		return registry.PruneResult{}, errors.New("keep must be at least 1 (or negative to keep all valid versions)")
	}
	l, err := cfg.scanner().Scan()
	if err != nil {
		return registry.PruneResult{}, err
	}
	p := registry.Pruner{Logger: logger}
	verb := "removed"
	if dryRun {
		p.FS = dryRunFS{}
		p.Logger = zerolog.Nop()
		verb = "would remove"
	}
	res := p.Prune(l.Valid, l.Invalid, keep)
	for _, v := range res.Removed {
		fmt.Fprintf(w, "%s %s\n", verb, v.ID)
	}
	for id, err := range res.Failed {
		fmt.Fprintf(w, "failed %s: %v\n", id, err)
	}
	if len(res.Failed) > 0 {
		return res, fmt.Errorf("%d version(s) could not be removed", len(res.Failed))
	}
	return res, nil
}
