// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sys/unix"
)

// MinSize is the size in bytes the compressed artifact must exceed. This is
// a coarse sanity check against a silently empty or truncated archive, not a
// content integrity check.
const MinSize = 1000

// Write walks the tree rooted at root in stable lexical order and serializes
// every entry into the given [Writer], preserving file modes and device
// numbers.
func Write(root string, writer Writer) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("rel path: %w", err)
		}

		if rel == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("info %s: %w", rel, err)
		}

		return writeEntry(writer, rel, path, info)
	})
}

func writeEntry(writer Writer, rel, path string, info fs.FileInfo) error {
	switch {
	case info.IsDir():
		return writer.WriteDirectory(rel, info.Mode())

	case info.Mode()&fs.ModeSymlink != 0:
		target, err := os.Readlink(path)
		if err != nil {
			return fmt.Errorf("readlink %s: %w", rel, err)
		}

		return writer.WriteLink(rel, target)

	case info.Mode()&fs.ModeCharDevice != 0:
		stat, ok := info.Sys().(*syscall.Stat_t)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnsupportedFileType, rel)
		}

		rdev := uint64(stat.Rdev)

		return writer.WriteDevice(
			rel,
			info.Mode(),
			unix.Major(rdev),
			unix.Minor(rdev),
		)

	case info.Mode().IsRegular():
		source, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", rel, err)
		}
		defer source.Close()

		return writer.WriteRegular(rel, source, info.Mode())

	default:
		return fmt.Errorf("%w: %s: %s", ErrUnsupportedFileType, rel, info.Mode())
	}
}

// Create serializes the tree rooted at root into a gzip-compressed CPIO
// archive at outPath, compressed at the maximum ratio.
//
// It returns the size of the written artifact. If the artifact does not
// exceed [MinSize] the build is considered failed and [ErrArtifactTooSmall]
// is returned.
func Create(root, outPath string) (int64, error) {
	err := os.MkdirAll(filepath.Dir(outPath), 0o755)
	if err != nil {
		return 0, fmt.Errorf("mkdir output dir: %w", err)
	}

	file, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", outPath, err)
	}
	defer file.Close()

	compressor, err := gzip.NewWriterLevel(file, gzip.BestCompression)
	if err != nil {
		return 0, fmt.Errorf("init compressor: %w", err)
	}

	writer := NewCPIOWriter(compressor)

	err = Write(root, writer)
	if err != nil {
		_ = writer.Close()
		_ = compressor.Close()
		_ = os.Remove(outPath)

		return 0, fmt.Errorf("serialize tree: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return 0, err
	}

	err = compressor.Close()
	if err != nil {
		return 0, fmt.Errorf("close compressor: %w", err)
	}

	err = file.Close()
	if err != nil {
		return 0, fmt.Errorf("close %s: %w", outPath, err)
	}

	stat, err := os.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", outPath, err)
	}

	if stat.Size() <= MinSize {
		return stat.Size(), fmt.Errorf(
			"%w: %d bytes", ErrArtifactTooSmall, stat.Size(),
		)
	}

	return stat.Size(), nil
}
