// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import "context"

// Lister lists the runtime shared-object dependencies of an executable.
//
// Implementations must return absolute host paths of the shared objects the
// executable needs at runtime. The pseudo entry vdso must not be included
// since it is provided by the kernel and is not a file.
type Lister interface {
	ListSharedObjects(ctx context.Context, path string) ([]string, error)
}
