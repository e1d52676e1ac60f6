// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sys provides host system queries the image builder depends on:
// shared-object dependency listing, ELF inspection, dynamic linker lookup
// and the privilege precondition check.
package sys
