// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package staging

import (
	"fmt"
	"os"
)

// initScript is the first process of the booted image. It mounts the special
// filesystems, sets the host name and hands the console to an interactive
// shell. There is no service supervision, this is a test image.
//
// The devtmpfs mount may fail if the kernel mounted it already, which is an
// accepted outcome.
const initScript = `#!/bin/sh

mount -t proc proc /proc
mount -t sysfs sysfs /sys
mount -t devtmpfs devtmpfs /dev 2>/dev/null
mount -t devpts devpts /dev/pts

cat /etc/hostname > /proc/sys/kernel/hostname

echo
echo "  Welcome to ` + Hostname + `"
echo
[ -r /etc/os-release ] && cat /etc/os-release
echo

if [ -x /bin/zsh ]; then
	exec /bin/zsh -l
elif [ -x /bin/bash ]; then
	exec /bin/bash -l
fi
exec /bin/sh
`

// WriteInit emits the executable init entrypoint at the tree root.
func (t Tree) WriteInit() error {
	path := t.Join("init")

	err := os.WriteFile(path, []byte(initScript), binMode)
	if err != nil {
		return fmt.Errorf("write init: %w", err)
	}

	err = os.Chmod(path, binMode)
	if err != nil {
		return fmt.Errorf("chmod init: %w", err)
	}

	return nil
}
