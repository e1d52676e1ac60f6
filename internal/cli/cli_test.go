// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cli_test

import (
	"bytes"
	"context"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravenlinux/mkinitramfs/internal/cli"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cfg := cli.IO{
		Stdout: &stdout,
		Stderr: &stderr,
	}

	rc := cli.Run(context.Background(), args, cfg)

	return rc, stdout.String(), stderr.String()
}

func TestRunUnknownFlag(t *testing.T) {
	rc, _, stderr := runCLI(t, "--nonexistent-flag")

	assert.NotZero(t, rc)
	assert.Contains(t, stderr, "Error")
}

func TestRunHelp(t *testing.T) {
	rc, stdout, _ := runCLI(t, "--help")

	assert.Zero(t, rc)
	assert.Contains(t, stdout, "mkinitramfs")
}

func TestRunUnprivileged(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("requires non-root")
	}

	rc, _, stderr := runCLI(t)

	assert.NotZero(t, rc)
	assert.Contains(t, stderr, "root")
}

// TestRunEndToEnd builds a complete image from a fake build output and the
// real host shell, then checks the artifact.
func TestRunEndToEnd(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("requires root")
	}

	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("requires bash on the host")
	}

	buildDir := t.TempDir()

	multicall := filepath.Join(buildDir, "coreutils")
	payload := make([]byte, 8*1024)
	_, err := rand.New(rand.NewSource(1)).Read(payload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(multicall, payload, 0o755))

	osRelease := filepath.Join(buildDir, "os-release")
	require.NoError(t, os.WriteFile(
		osRelease, []byte("NAME=\"RavenLinux\"\n"), 0o644,
	))

	staging := filepath.Join(buildDir, "initramfs")
	output := filepath.Join(buildDir, "raven-initramfs.img.gz")

	rc, stdout, stderr := runCLI(t,
		"--staging", staging,
		"--output", output,
		"--multicall", multicall,
		"--os-release", osRelease,
	)

	require.Zero(t, rc, "stderr: %s", stderr)
	assert.Contains(t, stdout, "initramfs written to")

	stat, err := os.Stat(output)
	require.NoError(t, err)
	assert.Greater(t, stat.Size(), int64(1000))

	// Spot checks on the tree the archive was built from.
	_, err = os.Stat(filepath.Join(staging, "init"))
	assert.NoError(t, err)

	target, err := os.Readlink(filepath.Join(staging, "bin", "sh"))
	require.NoError(t, err)
	assert.Equal(t, "bash", target)

	consoleStat, err := os.Lstat(filepath.Join(staging, "dev", "console"))
	require.NoError(t, err)
	assert.NotZero(t, consoleStat.Mode()&os.ModeCharDevice)
}
