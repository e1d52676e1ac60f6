// SPDX-FileCopyrightText: 2025 The RavenLinux Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"context"
	"debug/elf"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// DefaultLibSearchPath defines the directories to look up shared objects in,
// in the order the dynamic linker consults them.
const DefaultLibSearchPath = "/lib64:/lib/x86_64-linux-gnu:/usr/lib64:/lib:/usr/lib"

// IsStaticELF reports whether the file is a statically linked ELF binary.
//
// It returns [ErrNotELFFile] if the file does not carry an ELF magic number,
// e.g. for shell scripts.
func IsStaticELF(path string) (bool, error) {
	elfFile, err := elf.Open(path)
	if err != nil {
		var formatErr *elf.FormatError
		if errors.As(err, &formatErr) {
			return false, ErrNotELFFile
		}

		return false, fmt.Errorf("open ELF: %w", err)
	}
	defer elfFile.Close()

	for _, prog := range elfFile.Progs {
		if prog.Type == elf.PT_INTERP {
			return false, nil
		}
	}

	return true, nil
}

// ELFLister implements [Lister] by reading the DT_NEEDED entries of the ELF
// file natively and resolving them recursively in the library search paths.
//
// It is the in-process alternative to [LddLister] and does not spawn any
// subprocess.
type ELFLister struct {
	// SearchPaths are the directories shared objects are looked up in. If
	// empty, [DefaultLibSearchPath] is used.
	SearchPaths []string
}

// ListSharedObjects implements [Lister].
func (l *ELFLister) ListSharedObjects(
	_ context.Context,
	path string,
) ([]string, error) {
	searchPaths := l.SearchPaths
	if len(searchPaths) == 0 {
		searchPaths = filepath.SplitList(DefaultLibSearchPath)
	}

	var libs []string

	err := resolveLinkedLibs(&libs, searchPaths, path)
	if err != nil {
		return nil, err
	}

	return libs, nil
}

func resolveLinkedLibs(libs *[]string, searchPaths []string, path string) error {
	names, err := linkedLibs(path)
	if err != nil {
		return err
	}

	for _, name := range names {
		libPath, err := findLib(searchPaths, name)
		if err != nil {
			return fmt.Errorf("[%s]: %w", name, err)
		}

		if slices.Contains(*libs, libPath) {
			continue
		}

		*libs = append(*libs, libPath)

		err = resolveLinkedLibs(libs, searchPaths, libPath)
		if err != nil {
			return err
		}
	}

	return nil
}

func findLib(searchPaths []string, name string) (string, error) {
	for _, searchPath := range searchPaths {
		path := filepath.Join(searchPath, name)

		_, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}

			return "", fmt.Errorf("stat: %w", err)
		}

		return path, nil
	}

	return "", ErrLibNotFound
}

// linkedLibs fetches the list of dynamically linked libraries from the ELF
// file.
func linkedLibs(path string) ([]string, error) {
	elfFile, err := elf.Open(path)
	if err != nil {
		var formatErr *elf.FormatError
		if errors.As(err, &formatErr) {
			return nil, ErrNotELFFile
		}

		return nil, fmt.Errorf("open ELF: %w", err)
	}
	defer elfFile.Close()

	libs, err := elfFile.ImportedLibraries()
	if err != nil {
		return nil, fmt.Errorf("read libs: %w", err)
	}

	return libs, nil
}
