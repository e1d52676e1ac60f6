// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindInterpreter(t *testing.T) {
	tmpDir := t.TempDir()

	real := filepath.Join(tmpDir, "ld-linux-x86-64.so.2")
	require.NoError(t, os.WriteFile(real, []byte("elf"), 0o755))

	t.Run("first missing second found", func(t *testing.T) {
		path, err := findInterpreter([]string{
			filepath.Join(tmpDir, "nonexistent"),
			real,
		})
		require.NoError(t, err)
		assert.Equal(t, real, path)
	})

	t.Run("none found", func(t *testing.T) {
		_, err := findInterpreter([]string{
			filepath.Join(tmpDir, "nonexistent"),
		})
		assert.ErrorIs(t, err, ErrInterpreterNotFound)
	})

	t.Run("directory is skipped", func(t *testing.T) {
		_, err := findInterpreter([]string{tmpDir})
		assert.ErrorIs(t, err, ErrInterpreterNotFound)
	})
}

func TestFindLib(t *testing.T) {
	tmpDir := t.TempDir()

	lib := filepath.Join(tmpDir, "libc.so.6")
	require.NoError(t, os.WriteFile(lib, []byte("elf"), 0o644))

	t.Run("found", func(t *testing.T) {
		path, err := findLib([]string{"/nonexistent", tmpDir}, "libc.so.6")
		require.NoError(t, err)
		assert.Equal(t, lib, path)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := findLib([]string{tmpDir}, "libmissing.so.9")
		assert.ErrorIs(t, err, ErrLibNotFound)
	})
}
