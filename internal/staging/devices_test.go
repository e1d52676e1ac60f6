// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package staging_test

import (
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/ravenlinux/mkinitramfs/internal/staging"
)

func TestDeviceNodeTable(t *testing.T) {
	nodes := staging.DeviceNodes()

	require.Len(t, nodes, 9)

	seen := make(map[string]bool)
	for _, node := range nodes {
		assert.False(t, seen[node.Path], "duplicate path %s", node.Path)
		seen[node.Path] = true
	}

	expected := map[string]staging.DeviceNode{
		"dev/console": {Path: "dev/console", Major: 5, Minor: 1, Mode: 0o600},
		"dev/null":    {Path: "dev/null", Major: 1, Minor: 3, Mode: 0o666},
		"dev/zero":    {Path: "dev/zero", Major: 1, Minor: 5, Mode: 0o666},
		"dev/tty":     {Path: "dev/tty", Major: 5, Minor: 0, Mode: 0o666},
		"dev/tty0":    {Path: "dev/tty0", Major: 4, Minor: 0, Mode: 0o620},
		"dev/tty1":    {Path: "dev/tty1", Major: 4, Minor: 1, Mode: 0o620},
		"dev/random":  {Path: "dev/random", Major: 1, Minor: 8, Mode: 0o666},
		"dev/urandom": {Path: "dev/urandom", Major: 1, Minor: 9, Mode: 0o666},
		"dev/ptmx":    {Path: "dev/ptmx", Major: 5, Minor: 2, Mode: 0o666},
	}

	require.Len(t, expected, len(nodes), "expected table must cover all nodes")

	for path, want := range expected {
		assert.Contains(t, nodes, want, path)
	}
}

func TestMakeDeviceNodes(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("requires root")
	}

	tree := newTestTree(t)

	require.NoError(t, tree.MakeDeviceNodes())

	for _, node := range staging.DeviceNodes() {
		stat, err := os.Lstat(tree.Join(node.Path))
		require.NoError(t, err, node.Path)

		assert.NotZero(t, stat.Mode()&os.ModeCharDevice, node.Path)
		assert.Equal(t, node.Mode.Perm(), stat.Mode().Perm(), node.Path)

		sysStat, ok := stat.Sys().(*syscall.Stat_t)
		require.True(t, ok)

		rdev := uint64(sysStat.Rdev)
		assert.Equal(t, node.Major, unix.Major(rdev), node.Path)
		assert.Equal(t, node.Minor, unix.Minor(rdev), node.Path)
	}

	stat, err := os.Stat(tree.Join("dev", "pts"))
	require.NoError(t, err)
	assert.True(t, stat.IsDir())
}
