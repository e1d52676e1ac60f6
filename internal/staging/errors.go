// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package staging

import (
	"errors"
	"fmt"
)

var (
	// ErrMulticallNotFound is returned if the required multicall binary is
	// absent from the build output.
	ErrMulticallNotFound = errors.New("multicall binary not found")

	// ErrShellNotFound is returned if the primary shell interpreter cannot
	// be located on the host.
	ErrShellNotFound = errors.New("no shell interpreter found")

	// ErrTreeIncomplete is returned by [Tree.Verify] if a file required for
	// booting is missing from the populated tree.
	ErrTreeIncomplete = errors.New("staging tree incomplete")
)

// DegradedError marks a non-fatal defect of the built image: the build
// continues, but the named file may not work at boot.
//
// Callers running in strict mode treat it as fatal instead.
type DegradedError struct {
	Path string
	Err  error
}

func (e *DegradedError) Error() string {
	return fmt.Sprintf("degraded: %s: %v", e.Path, e.Err)
}

func (e *DegradedError) Unwrap() error {
	return e.Err
}

func (e *DegradedError) Is(other error) bool {
	_, ok := other.(*DegradedError)
	return ok
}
