// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ravenlinux/mkinitramfs/internal/archive"
	"github.com/ravenlinux/mkinitramfs/internal/staging"
	"github.com/ravenlinux/mkinitramfs/internal/sys"
)

// build runs the whole pipeline against an empty staging tree and returns
// the size of the written artifact.
//
// The steps run strictly in order. On a fatal error the staging tree is left
// as is; the next run resets it anyway.
func build(ctx context.Context, parsedFlags *flags) (int64, error) {
	tree, err := staging.NewTree(parsedFlags.Staging)
	if err != nil {
		return 0, fmt.Errorf("staging tree: %w", err)
	}

	slog.Info("Resetting staging tree", slog.String("path", tree.Path()))

	err = tree.Reset()
	if err != nil {
		return 0, fmt.Errorf("reset tree: %w", err)
	}

	slog.Info("Installing binaries")

	installer := staging.Installer{
		Tree:         tree,
		Multicall:    parsedFlags.Multicall,
		CustomBinDir: parsedFlags.BinDir,
	}

	err = installer.Install()
	if err != nil {
		return 0, fmt.Errorf("install binaries: %w", err)
	}

	slog.Info("Resolving library dependencies")

	resolver := staging.Resolver{
		Tree:   tree,
		Lister: newLister(parsedFlags),
		Strict: parsedFlags.Strict,
		Jobs:   parsedFlags.Jobs,
	}

	stats, err := resolver.Resolve(ctx)
	if err != nil {
		return 0, fmt.Errorf("resolve libraries: %w", err)
	}

	slog.Debug("Library resolution done",
		slog.Int("binaries", stats.Binaries),
		slog.Int("static", stats.Static),
		slog.Int("libraries", stats.Libraries),
		slog.Int("degraded", stats.Degraded))

	slog.Info("Creating device nodes")

	err = tree.MakeDeviceNodes()
	if err != nil {
		return 0, fmt.Errorf("device nodes: %w", err)
	}

	slog.Info("Writing configuration")

	err = tree.WriteConfigs(parsedFlags.OSRelease)
	if err != nil {
		return 0, fmt.Errorf("write configs: %w", err)
	}

	err = tree.WriteInit()
	if err != nil {
		return 0, fmt.Errorf("write init: %w", err)
	}

	err = tree.Verify()
	if err != nil {
		return 0, err
	}

	slog.Info("Packing archive", slog.String("path", parsedFlags.Output))

	size, err := archive.Create(tree.Path(), parsedFlags.Output)
	if err != nil {
		return 0, fmt.Errorf("pack archive: %w", err)
	}

	return size, nil
}

//nolint:ireturn
func newLister(parsedFlags *flags) sys.Lister {
	if parsedFlags.Native {
		return &sys.ELFLister{}
	}

	return &sys.LddLister{Timeout: parsedFlags.Timeout}
}
