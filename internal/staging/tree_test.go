// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package staging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravenlinux/mkinitramfs/internal/staging"
)

func newTestTree(t *testing.T) staging.Tree {
	t.Helper()

	tree, err := staging.NewTree(filepath.Join(t.TempDir(), "tree"))
	require.NoError(t, err)
	require.NoError(t, tree.Reset())

	return tree
}

func TestNewTreeEmptyRoot(t *testing.T) {
	_, err := staging.NewTree("")
	assert.Error(t, err)
}

func TestTreeReset(t *testing.T) {
	tree := newTestTree(t)

	for _, dir := range []string{
		"bin", "sbin", "lib", "etc", "dev", "dev/pts", "proc", "sys",
		"usr/bin", "root", "tmp",
	} {
		stat, err := os.Stat(tree.Join(dir))
		require.NoError(t, err, dir)
		assert.True(t, stat.IsDir(), dir)
	}
}

func TestTreeResetRemovesPreviousContent(t *testing.T) {
	tree := newTestTree(t)

	leftover := tree.Join("bin", "stale")
	require.NoError(t, os.WriteFile(leftover, []byte("old"), 0o755))

	require.NoError(t, tree.Reset())

	_, err := os.Stat(leftover)
	assert.ErrorIs(t, err, os.ErrNotExist)

	entries, err := os.ReadDir(tree.Join("bin"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTreeVerify(t *testing.T) {
	writeBootFiles := func(t *testing.T, tree staging.Tree, files ...string) {
		t.Helper()

		for _, file := range files {
			path := tree.Join(file)
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
			require.NoError(t, os.WriteFile(path, []byte("x"), 0o755))
		}
	}

	t.Run("complete", func(t *testing.T) {
		tree := newTestTree(t)
		writeBootFiles(t, tree, "init", "dev/console", "bin/bash")

		assert.NoError(t, tree.Verify())
	})

	t.Run("missing init", func(t *testing.T) {
		tree := newTestTree(t)
		writeBootFiles(t, tree, "dev/console", "bin/bash")

		assert.ErrorIs(t, tree.Verify(), staging.ErrTreeIncomplete)
	})

	t.Run("missing console", func(t *testing.T) {
		tree := newTestTree(t)
		writeBootFiles(t, tree, "init", "bin/bash")

		assert.ErrorIs(t, tree.Verify(), staging.ErrTreeIncomplete)
	})

	t.Run("missing shell", func(t *testing.T) {
		tree := newTestTree(t)
		writeBootFiles(t, tree, "init", "dev/console")

		assert.ErrorIs(t, tree.Verify(), staging.ErrTreeIncomplete)
	})
}
