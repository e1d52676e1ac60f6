// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLdInfosParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name: "glibc output",
			input: "\tlinux-vdso.so.1 (0x00007ffc97d9e000)\n" +
				"\tlibc.so.6 => /lib/x86_64-linux-gnu/libc.so.6 (0x00007f1)\n" +
				"\t/lib64/ld-linux-x86-64.so.2 (0x00007f2e1c000000)\n",
			expected: []string{
				"/lib/x86_64-linux-gnu/libc.so.6",
				"/lib64/ld-linux-x86-64.so.2",
			},
		},
		{
			name:     "vdso only",
			input:    "\tlinux-vdso.so.1 (0x00007ffc97d9e000)\n",
			expected: nil,
		},
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var infos ldInfos

			infos.parseFrom(strings.NewReader(tt.input))

			assert.Equal(t, tt.expected, infos.realPaths())
		})
	}
}
