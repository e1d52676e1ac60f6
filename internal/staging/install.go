// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package staging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// multicallName is the installed name of the required multicall coreutils
// binary. All utility names are symlinks pointing at it.
const multicallName = "coreutils"

// utilityNames are the logical utilities the multicall binary provides.
// Each one becomes a symlink in bin pointing at the multicall binary.
var utilityNames = []string{
	"base64", "basename", "cat", "chmod", "chown", "chroot", "cp", "cut",
	"date", "dd", "df", "dirname", "du", "echo", "env", "expr", "false",
	"head", "id", "ln", "ls", "md5sum", "mkdir", "mkfifo", "mktemp", "mv",
	"nproc", "od", "printf", "pwd", "readlink", "realpath", "rm", "rmdir",
	"seq", "sha256sum", "sleep", "sort", "stat", "sync", "tail", "tee",
	"test", "touch", "tr", "true", "truncate", "uname", "uniq", "wc",
	"whoami", "yes",
}

// hostTools are not available as multicall subcommands. They are copied from
// the host if present. Absence is fine, the image just lacks the tool.
var hostTools = []string{
	"awk", "clear", "dmesg", "find", "free", "grep", "halt", "kill",
	"killall", "less", "mount", "poweroff", "ps", "reboot", "sed", "su",
	"umount", "vi", "xargs",
}

// customBinaries are the static RavenLinux tools consumed from the build
// output. They are optional; a test image without them still boots.
var customBinaries = []string{
	"rvn",
	"raven-powerctl",
	"raven-wifi",
}

const (
	primaryShell   = "bash"
	secondaryShell = "zsh"
)

// Installer populates bin and usr/bin of a [Tree] with the multicall binary,
// its utility symlinks, host tools and the custom static binaries.
type Installer struct {
	Tree Tree

	// Multicall is the path of the required multicall binary. The build
	// fails fast if it is missing.
	Multicall string

	// CustomBinDir is the build output directory the custom static binaries
	// are copied from. May be empty.
	CustomBinDir string
}

// Install runs all installation steps.
//
// It fails only on the fatal preconditions: a missing multicall binary or a
// missing primary shell. Optional host tools and custom binaries are copied
// best effort. A tool that resolves on the search path but fails to copy is
// skipped as well, so the image still builds on a degraded host.
func (i *Installer) Install() error {
	err := i.installMulticall()
	if err != nil {
		return err
	}

	err = i.installShells()
	if err != nil {
		return err
	}

	i.installHostTools()
	i.installCustomBinaries()

	return nil
}

func (i *Installer) installMulticall() error {
	stat, err := os.Stat(i.Multicall)
	if err != nil || !stat.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrMulticallNotFound, i.Multicall)
	}

	dest := filepath.Join("bin", multicallName)

	err = i.Tree.copyFile(i.Multicall, dest, binMode)
	if err != nil {
		return fmt.Errorf("install multicall: %w", err)
	}

	for _, name := range utilityNames {
		link := i.Tree.Join("bin", name)

		err := os.Symlink(multicallName, link)
		if err != nil && !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("link %s: %w", name, err)
		}
	}

	return nil
}

func (i *Installer) installShells() error {
	path, err := exec.LookPath(primaryShell)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrShellNotFound, primaryShell)
	}

	err = i.Tree.copyFile(path, filepath.Join("bin", primaryShell), binMode)
	if err != nil {
		return fmt.Errorf("install %s: %w", primaryShell, err)
	}

	err = os.Symlink(primaryShell, i.Tree.Join("bin", "sh"))
	if err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("link sh: %w", err)
	}

	// The interactive shell is nice to have, not required.
	path, err = exec.LookPath(secondaryShell)
	if err == nil {
		err = i.Tree.copyFile(path, filepath.Join("bin", secondaryShell), binMode)
		if err != nil {
			slog.Warn("Skipping secondary shell",
				slog.String("shell", secondaryShell),
				slog.Any("error", err))
		}
	}

	return nil
}

func (i *Installer) installHostTools() {
	for _, name := range hostTools {
		path, err := exec.LookPath(name)
		if err != nil {
			slog.Debug("Host tool not found", slog.String("tool", name))
			continue
		}

		err = i.Tree.copyFile(path, filepath.Join("bin", name), binMode)
		if err != nil {
			slog.Debug("Host tool not copied",
				slog.String("tool", name),
				slog.Any("error", err))
		}
	}
}

func (i *Installer) installCustomBinaries() {
	if i.CustomBinDir == "" {
		return
	}

	for _, name := range customBinaries {
		src := filepath.Join(i.CustomBinDir, name)

		_, err := os.Stat(src)
		if err != nil {
			slog.Debug("Custom binary not found", slog.String("name", name))
			continue
		}

		err = i.Tree.copyFile(src, filepath.Join("usr/bin", name), binMode)
		if err != nil {
			slog.Warn("Custom binary not copied",
				slog.String("name", name),
				slog.Any("error", err))
		}
	}
}
