// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package staging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	dirMode  = 0o755
	binMode  = 0o755
	fileMode = 0o644
)

// skeletonDirs are created on every reset, before any file is installed.
var skeletonDirs = []string{
	"bin",
	"sbin",
	"lib",
	"lib64",
	"usr/bin",
	"usr/lib",
	"etc",
	"dev",
	"dev/pts",
	"proc",
	"sys",
	"run",
	"tmp",
	"root",
	"mnt",
}

// Tree is the staging directory standing in for the future root filesystem
// during assembly.
type Tree struct {
	root string
}

// NewTree creates a [Tree] rooted at the given path. The path is made
// absolute so later chdir calls cannot change its meaning.
func NewTree(root string) (Tree, error) {
	if root == "" {
		return Tree{}, errors.New("tree root must not be empty")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return Tree{}, fmt.Errorf("absolute path: %w", err)
	}

	return Tree{root: abs}, nil
}

// Path returns the absolute root path of the tree.
func (t Tree) Path() string {
	return t.root
}

// Join returns the path of the given elements inside the tree.
func (t Tree) Join(elem ...string) string {
	return filepath.Join(append([]string{t.root}, elem...)...)
}

// Reset removes the tree completely and recreates the directory skeleton.
// There are no incremental builds. Every run starts from an empty tree.
func (t Tree) Reset() error {
	err := os.RemoveAll(t.root)
	if err != nil {
		return fmt.Errorf("remove %s: %w", t.root, err)
	}

	for _, dir := range skeletonDirs {
		err := os.MkdirAll(t.Join(dir), dirMode)
		if err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	return nil
}

// Verify checks the invariants the tree must satisfy before archiving: an
// init entrypoint, a console device and at least one shell.
func (t Tree) Verify() error {
	checks := []string{"init", "dev/console"}

	for _, path := range checks {
		_, err := os.Lstat(t.Join(path))
		if err != nil {
			return fmt.Errorf("%w: missing %s", ErrTreeIncomplete, path)
		}
	}

	shells := []string{"bin/bash", "bin/zsh", "bin/sh"}
	for _, shell := range shells {
		_, err := os.Lstat(t.Join(shell))
		if err == nil {
			return nil
		}
	}

	return fmt.Errorf("%w: no shell in bin", ErrTreeIncomplete)
}

// copyFile copies the regular file at src into the tree at dest,
// dereferencing symlinks. Parent directories are created as needed.
func (t Tree) copyFile(src, dest string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	destPath := t.Join(dest)

	err = os.MkdirAll(filepath.Dir(destPath), dirMode)
	if err != nil {
		return fmt.Errorf("mkdir for %s: %w", dest, err)
	}

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	_, err = io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s: %w", dest, err)
	}

	err = out.Close()
	if err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}

	// The open mode is subject to the process umask, so fix it up.
	err = os.Chmod(destPath, mode)
	if err != nil {
		return fmt.Errorf("chmod %s: %w", dest, err)
	}

	return nil
}
