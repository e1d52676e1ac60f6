// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package staging assembles the root filesystem tree the initramfs archive
// is built from.
//
// The tree is destroyed and rebuilt on every run. Population is strictly
// sequential: reset, binary installation, library closure resolution, device
// nodes, static configuration, init entrypoint. Only the closure resolution
// has an optional concurrent mode.
package staging
