// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

func setupLogging(writer io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(tint.NewHandler(
		writer,
		&tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		},
	)))
}
