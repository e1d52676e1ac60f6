// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ravenlinux/mkinitramfs/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancel()

	cfg := cli.IO{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	os.Exit(cli.Run(ctx, os.Args[1:], cfg))
}
