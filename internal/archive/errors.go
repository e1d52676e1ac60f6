// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import "errors"

var (
	// ErrArtifactTooSmall is returned if the compressed archive does not
	// exceed [MinSize]. A tiny artifact means the tree was empty or the
	// stream got truncated.
	ErrArtifactTooSmall = errors.New("archive below minimum size")

	// ErrNotRegularFile is returned if a source file for a regular archive
	// entry is not a regular file.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrUnsupportedFileType is returned for tree entries that cannot be
	// represented in the archive, like sockets.
	ErrUnsupportedFileType = errors.New("unsupported file type")
)
