// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package staging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Hostname is the fixed host name of the test image.
const Hostname = "raven-linux"

const shadowMode = 0o600

// configFile is a fixed-content text file of the image. No templating, the
// content is byte-for-byte what ends up in the tree.
type configFile struct {
	Path    string
	Mode    os.FileMode
	Content string
}

var configFiles = []configFile{
	{
		Path:    "etc/hostname",
		Mode:    fileMode,
		Content: Hostname + "\n",
	},
	{
		Path: "etc/passwd",
		Mode: fileMode,
		Content: "root:x:0:0:root:/root:/bin/zsh\n" +
			"daemon:x:1:1:daemon:/:/bin/false\n" +
			"nobody:x:65534:65534:nobody:/:/bin/false\n",
	},
	{
		Path: "etc/group",
		Mode: fileMode,
		Content: "root:x:0:\n" +
			"daemon:x:1:\n" +
			"tty:x:5:\n" +
			"nobody:x:65534:\n",
	},
	{
		Path: "etc/shadow",
		Mode: shadowMode,
		Content: "root::19700:0:99999:7:::\n" +
			"daemon:*:19700:0:99999:7:::\n" +
			"nobody:*:19700:0:99999:7:::\n",
	},
	{
		Path: "etc/shells",
		Mode: fileMode,
		Content: "/bin/sh\n" +
			"/bin/bash\n" +
			"/bin/zsh\n",
	},
	{
		Path: "etc/profile",
		Mode: fileMode,
		Content: "export PATH=/bin:/sbin:/usr/bin:/usr/sbin\n" +
			"export HOME=\"${HOME:-/root}\"\n" +
			"export PS1='[\\u@\\h \\W]\\$ '\n" +
			"umask 022\n",
	},
	{
		Path: "root/.zshrc",
		Mode: fileMode,
		Content: "PROMPT='%n@%m %1~ %# '\n" +
			"alias ll='ls -l'\n" +
			"alias la='ls -la'\n",
	},
}

// WriteConfigs materializes the static configuration files and copies the
// externally supplied os-release file verbatim.
//
// The shadow database ends up readable by the owner only. A missing
// os-release source degrades the image but does not fail the build.
func (t Tree) WriteConfigs(osReleasePath string) error {
	for _, file := range configFiles {
		path := t.Join(file.Path)

		err := os.MkdirAll(filepath.Dir(path), dirMode)
		if err != nil {
			return fmt.Errorf("mkdir for %s: %w", file.Path, err)
		}

		err = os.WriteFile(path, []byte(file.Content), file.Mode)
		if err != nil {
			return fmt.Errorf("write %s: %w", file.Path, err)
		}

		// WriteFile applies the umask on create, the table modes are exact.
		err = os.Chmod(path, file.Mode)
		if err != nil {
			return fmt.Errorf("chmod %s: %w", file.Path, err)
		}
	}

	if osReleasePath == "" {
		return nil
	}

	err := t.copyFile(osReleasePath, "etc/os-release", fileMode)
	if err != nil {
		slog.Warn("Image degraded",
			slog.String("path", "etc/os-release"),
			slog.Any("error", err))
	}

	return nil
}
