// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
	"os"
)

// interpreterPaths are the canonical locations of the platform dynamic
// linker, in lookup order.
var interpreterPaths = []string{
	"/lib64/ld-linux-x86-64.so.2",
	"/lib/ld-linux-x86-64.so.2",
}

// InterpreterPath returns the path of the platform dynamic linker.
//
// It returns [ErrInterpreterNotFound] if it is present at none of the
// canonical locations.
func InterpreterPath() (string, error) {
	return findInterpreter(interpreterPaths)
}

func findInterpreter(candidates []string) (string, error) {
	for _, path := range candidates {
		stat, err := os.Stat(path)
		if err != nil {
			continue
		}

		if !stat.Mode().IsRegular() {
			continue
		}

		return path, nil
	}

	return "", fmt.Errorf("%w: checked %v", ErrInterpreterNotFound, candidates)
}
