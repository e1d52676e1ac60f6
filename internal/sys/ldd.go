// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"time"
)

// DefaultLddTimeout bounds a single dependency query. A query against a
// pathological binary must not hang the whole build.
const DefaultLddTimeout = 2 * time.Second

// LddLister implements [Lister] by invoking the "ldd" executable, which is
// expected to be present on the host.
//
// A query that exceeds Timeout is treated as "no dependencies found" and
// returns an empty result without error.
type LddLister struct {
	// Timeout is the per-query time limit. Zero means [DefaultLddTimeout].
	Timeout time.Duration
}

// ListSharedObjects implements [Lister].
//
// It returns an [LddError] in case "ldd" is not available or returned with a
// non-zero exit code. This might be the case if the binary is not dynamically
// linked.
func (l *LddLister) ListSharedObjects(
	ctx context.Context,
	path string,
) ([]string, error) {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultLddTimeout
	}

	ctx, stop := context.WithTimeout(ctx, timeout)
	defer stop()

	var lddOutput bytes.Buffer

	err := runLdd(ctx, path, &lddOutput)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil
		}

		return nil, err
	}

	var infos ldInfos

	infos.parseFrom(&lddOutput)

	return infos.realPaths(), nil
}

func runLdd(ctx context.Context, path string, outW io.Writer) error {
	var stderrBuf bytes.Buffer

	cmd := exec.CommandContext(ctx, "ldd", path)
	cmd.Stdout = outW
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	if err != nil {
		return &LddError{
			Err:    err,
			Stderr: stderrBuf.String(),
		}
	}

	return nil
}

// LddError wraps errors of the ldd subprocess together with its stderr
// output.
type LddError struct {
	Err    error
	Stderr string
}

func (e *LddError) Error() string {
	return fmt.Sprintf("ldd: %v: %s", e.Err, e.Stderr)
}

func (e *LddError) Unwrap() error {
	return e.Err
}

func (e *LddError) Is(other error) bool {
	_, ok := other.(*LddError)
	return ok
}

type ldInfos []ldInfo

// parseFrom takes a ldd output, processes each line and adds an [ldInfo] to
// the list.
func (l *ldInfos) parseFrom(lddOutput io.Reader) {
	scanner := bufio.NewScanner(lddOutput)
	for scanner.Scan() {
		var info ldInfo

		info.parseFrom(scanner.Text())

		*l = append(*l, info)
	}
}

// realPaths returns all shared objects that are a real file in the file
// system. So, everything except vdso.
func (l *ldInfos) realPaths() []string {
	var paths []string

	for _, i := range *l {
		switch {
		case filepath.IsAbs(i.name):
			paths = append(paths, i.name)
		case i.path != "":
			paths = append(paths, i.path)
		}
	}

	return paths
}

type ldInfo struct {
	name  string
	path  string
	start uint
}

// parseFrom extracts the resolved path to a shared object if the given line
// has one.
func (l *ldInfo) parseFrom(line string) {
	// Format for shared objects that reference an absolute path.
	// From glibc rtld.c: _dl_printf ("\t%s => %s (0x%0*zx)\n",
	_, err := fmt.Sscanf(line, "\t%s => %s (0x%x)", &l.name, &l.path, &l.start)
	if err == nil {
		return
	}
	// Format for shared objects that do not reference anything and might be
	// an absolute path already.
	// From glibc rtld.c: _dl_printf ("\t%s (0x%0*zx)\n"
	_, _ = fmt.Sscanf(line, "\t%s (0x%x)", &l.name, &l.start)
}
