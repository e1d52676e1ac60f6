// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package staging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ravenlinux/mkinitramfs/internal/sys"
)

// binDirs are the tree directories scanned for executables to resolve.
var binDirs = []string{"bin", "sbin", "usr/bin"}

// Resolver makes every dynamically linked executable in the tree
// self-contained by copying its shared-object closure into the tree at the
// same absolute paths the objects occupy on the host.
//
// Resolution is idempotent: a library is copied at most once per destination,
// and a second run over a satisfied tree copies nothing.
type Resolver struct {
	Tree Tree

	// Lister answers the shared-object dependency queries.
	Lister sys.Lister

	// Strict aborts the run on the first unresolved dependency instead of
	// degrading the image.
	Strict bool

	// Jobs is the number of concurrent resolution workers. Values below 2
	// select the sequential mode.
	Jobs int

	// staticCheck and interp are fixed in production and replaced in tests.
	staticCheck func(string) (bool, error)
	interp      func() (string, error)

	mu     sync.Mutex
	copied map[string]struct{}
	stats  Stats
}

// Stats summarizes a resolver run.
type Stats struct {
	// Binaries is the number of dynamically linked executables resolved.
	Binaries int

	// Static is the number of statically linked executables skipped.
	Static int

	// Libraries is the number of shared objects newly copied into the tree.
	Libraries int

	// Degraded is the number of non-fatal defects accepted during the run.
	Degraded int
}

// Resolve resolves the shared-object closure of all regular executable
// non-symlink files in the tree's binary directories and copies the platform
// dynamic linker.
//
// Unless [Resolver.Strict] is set, any single failure degrades the image
// instead of aborting the build: the affected binary may not run at boot,
// but the archive is still produced.
func (r *Resolver) Resolve(ctx context.Context) (Stats, error) {
	if r.staticCheck == nil {
		r.staticCheck = sys.IsStaticELF
	}

	if r.interp == nil {
		r.interp = sys.InterpreterPath
	}

	r.copied = make(map[string]struct{})
	r.stats = Stats{}

	binaries, err := r.candidates()
	if err != nil {
		return r.stats, err
	}

	if r.Jobs > 1 {
		err = r.resolveParallel(ctx, binaries)
	} else {
		err = r.resolveSequential(ctx, binaries)
	}

	if err != nil {
		return r.stats, err
	}

	err = r.installInterpreter()
	if err != nil {
		return r.stats, err
	}

	return r.stats, nil
}

// candidates lists the regular, executable, non-symlink files in the binary
// directories. Symlinks are skipped: the only links the installer creates
// point at files inside the tree, which are resolved on their own.
func (r *Resolver) candidates() ([]string, error) {
	var paths []string

	for _, dir := range binDirs {
		entries, err := os.ReadDir(r.Tree.Join(dir))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}

			return nil, fmt.Errorf("read %s: %w", dir, err)
		}

		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}

			info, err := entry.Info()
			if err != nil || info.Mode().Perm()&0o111 == 0 {
				continue
			}

			paths = append(paths, r.Tree.Join(dir, entry.Name()))
		}
	}

	return paths, nil
}

func (r *Resolver) resolveSequential(ctx context.Context, binaries []string) error {
	for _, path := range binaries {
		err := r.resolveBinary(ctx, path)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *Resolver) resolveParallel(ctx context.Context, binaries []string) error {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(r.Jobs)

	for _, path := range binaries {
		path := path

		group.Go(func() error {
			return r.resolveBinary(ctx, path)
		})
	}

	return group.Wait()
}

func (r *Resolver) resolveBinary(ctx context.Context, path string) error {
	static, err := r.staticCheck(path)
	if err != nil {
		// Scripts and other non-ELF executables have nothing to resolve.
		if errors.Is(err, sys.ErrNotELFFile) {
			return nil
		}

		return r.degrade(path, err)
	}

	if static {
		r.count(func(s *Stats) { s.Static++ })
		return nil
	}

	deps, err := r.Lister.ListSharedObjects(ctx, path)
	if err != nil {
		return r.degrade(path, err)
	}

	r.count(func(s *Stats) { s.Binaries++ })

	for _, dep := range deps {
		_, err := os.Stat(dep)
		if err != nil {
			// Dependency does not exist on the host. Skip silently, same
			// best-effort policy as a failed copy.
			continue
		}

		err = r.installLib(dep)
		if err != nil {
			err = r.degrade(dep, err)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// installLib copies the shared object at the given host path into the tree
// at the same path, dereferencing symlinks. Already present destinations are
// left untouched.
func (r *Resolver) installLib(hostPath string) error {
	if !r.claim(hostPath) {
		return nil
	}

	dest := r.Tree.Join(hostPath)

	_, err := os.Lstat(dest)
	if err == nil {
		return nil
	}

	rel, err := filepath.Rel(r.Tree.Path(), dest)
	if err != nil {
		return fmt.Errorf("dest path: %w", err)
	}

	err = r.Tree.copyFile(hostPath, rel, binMode)
	if err != nil {
		return err
	}

	r.count(func(s *Stats) { s.Libraries++ })

	return nil
}

func (r *Resolver) installInterpreter() error {
	path, err := r.interp()
	if err != nil {
		return r.degrade("interpreter", err)
	}

	err = r.installLib(path)
	if err != nil {
		return r.degrade(path, err)
	}

	return nil
}

// claim marks the host path as handled. It returns false if another worker
// already claimed it, which keeps the copy-once invariant in parallel mode.
func (r *Resolver) claim(hostPath string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, done := r.copied[hostPath]; done {
		return false
	}

	r.copied[hostPath] = struct{}{}

	return true
}

func (r *Resolver) count(fn func(*Stats)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn(&r.stats)
}

// degrade records a non-fatal defect. In strict mode it is returned as a
// fatal error instead.
func (r *Resolver) degrade(path string, err error) error {
	degradedErr := &DegradedError{Path: path, Err: err}

	if r.Strict {
		return degradedErr
	}

	r.count(func(s *Stats) { s.Degraded++ })

	slog.Warn("Image degraded",
		slog.String("path", path),
		slog.Any("error", err))

	return nil
}
