// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cli wires the image build pipeline behind the mkinitramfs command
// line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"

	"github.com/ravenlinux/mkinitramfs/internal/sys"
)

// flags is the declarative command line grammar. Every path the pipeline
// touches is configured here and passed down explicitly; no component reads
// a process-wide implicit location.
type flags struct {
	Staging   string `help:"Staging directory the tree is assembled in." default:"build/initramfs" type:"path"`
	Output    string `short:"o" help:"Output path of the compressed archive." default:"build/raven-initramfs.img.gz" type:"path"`
	Multicall string `help:"Path of the required multicall coreutils binary." default:"build/bin/coreutils" type:"path"`
	BinDir    string `help:"Directory with optional custom static binaries." default:"build/bin/static" type:"path"`
	OSRelease string `name:"os-release" help:"os-release file copied into the image verbatim." default:"build/os-release" type:"path"`

	Strict  bool          `help:"Abort on any unresolved library dependency."`
	Jobs    int           `short:"j" help:"Concurrent dependency resolution workers." default:"1"`
	Native  bool          `help:"Resolve dependencies with the built-in ELF reader instead of ldd."`
	Timeout time.Duration `help:"Per-binary dependency query timeout." default:"2s"`
	Verbose bool          `short:"v" help:"Enable debug logging."`
}

// IO provides input and output streams for the command.
type IO struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run is the main entry point for the CLI command. The given args must not
// include the program name.
func Run(ctx context.Context, args []string, cfg IO) int {
	var (
		parsedFlags flags
		helpShown   bool
	)

	parser, err := kong.New(&parsedFlags,
		kong.Name("mkinitramfs"),
		kong.Description(
			"Assembles the bootable RavenLinux test initramfs image.",
		),
		kong.Writers(cfg.Stdout, cfg.Stderr),
		kong.Exit(func(int) { helpShown = true }),
	)
	if err != nil {
		fmt.Fprintln(cfg.Stderr, "Error:", err)
		return 1
	}

	_, err = parser.Parse(args)
	if helpShown {
		return 0
	}

	if err != nil {
		fmt.Fprintln(cfg.Stderr, "Error:", err)
		return 1
	}

	setupLogging(cfg.Stderr, parsedFlags.Verbose)

	// Device node creation needs elevated privilege. Checked once, up
	// front, so nothing is written on an unprivileged host.
	err = sys.CheckPrivilege()
	if err != nil {
		fmt.Fprintln(cfg.Stderr, "Error:", err)
		return 1
	}

	size, err := build(ctx, &parsedFlags)
	if err != nil {
		fmt.Fprintln(cfg.Stderr, "Error:", err)
		return 1
	}

	fmt.Fprintf(cfg.Stdout, "initramfs written to %s (%s)\n",
		parsedFlags.Output, humanize.Bytes(uint64(size)))

	return 0
}
