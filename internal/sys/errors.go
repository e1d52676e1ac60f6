// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import "errors"

var (
	// ErrNotELFFile is returned if the file does not have an ELF magic number.
	ErrNotELFFile = errors.New("is not an ELF file")

	// ErrInterpreterNotFound is returned if the platform dynamic linker is
	// present at none of the canonical paths.
	ErrInterpreterNotFound = errors.New("dynamic linker not found")

	// ErrNotPrivileged is returned if the process lacks the privilege
	// required to create device special files.
	ErrNotPrivileged = errors.New("must be run as root")

	// ErrLibNotFound is returned if a shared object name cannot be resolved
	// in any of the library search paths.
	ErrLibNotFound = errors.New("shared object not found in search paths")
)
