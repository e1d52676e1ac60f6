// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package staging

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// DeviceNode describes a character special file of the image.
type DeviceNode struct {
	Path  string
	Major uint32
	Minor uint32
	Mode  os.FileMode
}

// deviceNodes is the fixed set of character devices a functioning console
// needs. All of them are created unconditionally on every build.
var deviceNodes = []DeviceNode{
	{Path: "dev/console", Major: 5, Minor: 1, Mode: 0o600},
	{Path: "dev/null", Major: 1, Minor: 3, Mode: 0o666},
	{Path: "dev/zero", Major: 1, Minor: 5, Mode: 0o666},
	{Path: "dev/tty", Major: 5, Minor: 0, Mode: 0o666},
	{Path: "dev/tty0", Major: 4, Minor: 0, Mode: 0o620},
	{Path: "dev/tty1", Major: 4, Minor: 1, Mode: 0o620},
	{Path: "dev/random", Major: 1, Minor: 8, Mode: 0o666},
	{Path: "dev/urandom", Major: 1, Minor: 9, Mode: 0o666},
	{Path: "dev/ptmx", Major: 5, Minor: 2, Mode: 0o666},
}

// DeviceNodes returns the fixed device node table of the image.
func DeviceNodes() []DeviceNode {
	nodes := make([]DeviceNode, len(deviceNodes))
	copy(nodes, deviceNodes)

	return nodes
}

// MakeDeviceNodes creates the character special files of the image plus the
// dev/pts mount point directory.
//
// It requires the privilege checked by [sys.CheckPrivilege]. Unlike the
// best-effort file copies, any single node failure is fatal since the image
// cannot provide a console without them.
func (t Tree) MakeDeviceNodes() error {
	for _, node := range deviceNodes {
		path := t.Join(node.Path)
		dev := unix.Mkdev(node.Major, node.Minor)
		mode := uint32(node.Mode.Perm()) | unix.S_IFCHR

		err := unix.Mknod(path, mode, int(dev))
		if err != nil {
			return fmt.Errorf("mknod %s: %w", node.Path, err)
		}

		// Mknod is subject to the process umask, the table is not.
		err = os.Chmod(path, node.Mode.Perm())
		if err != nil {
			return fmt.Errorf("chmod %s: %w", node.Path, err)
		}
	}

	err := os.MkdirAll(t.Join("dev", "pts"), dirMode)
	if err != nil {
		return fmt.Errorf("mkdir dev/pts: %w", err)
	}

	return nil
}
