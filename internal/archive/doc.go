// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package archive serializes a staging tree into a gzip-compressed CPIO
// archive the kernel can use as initramfs.
package archive
