// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// CheckPrivilege verifies that the process holds the privilege required to
// create device special files.
//
// It is checked once at process start, before any other work begins, so a
// run on an unprivileged host fails immediately without partial output.
func CheckPrivilege() error {
	euid := unix.Geteuid()
	if euid != 0 {
		return fmt.Errorf("%w: effective uid is %d", ErrNotPrivileged, euid)
	}

	return nil
}
