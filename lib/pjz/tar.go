// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pjz

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// writeArchive streams the contents of sourceDir to w as a tar
// archive. Entries use slash-separated paths relative to sourceDir;
// the root directory itself gets no entry. Directories are emitted so
// empty subdirectories survive the round trip. Directories, regular
// files, and symlinks are carried with mode bits and modification
// times; sockets, devices, and FIFOs have no portable representation
// and are skipped.
func writeArchive(w io.Writer, sourceDir string) error {
	tarWriter := tar.NewWriter(w)

	err := filepath.WalkDir(sourceDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relative, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		if relative == "." {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("reading %s: %w", relative, err)
		}

		var link string
		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			link, err = os.Readlink(path)
			if err != nil {
				return fmt.Errorf("reading symlink %s: %w", relative, err)
			}
		case !info.Mode().IsRegular() && !info.IsDir():
			return nil
		}

		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return fmt.Errorf("building tar header for %s: %w", relative, err)
		}
		header.Name = filepath.ToSlash(relative)
		if info.IsDir() {
			header.Name += "/"
		}

		if err := tarWriter.WriteHeader(header); err != nil {
			return fmt.Errorf("writing tar header for %s: %w", relative, err)
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", relative, err)
		}
		defer file.Close()

		if _, err := io.Copy(tarWriter, file); err != nil {
			return fmt.Errorf("archiving %s: %w", relative, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return tarWriter.Close()
}

// extractArchive extracts a tar stream into outputDir, which must
// already exist. Entry names are cleaned and must resolve inside
// outputDir; an entry that escapes it fails the extraction. Entry
// types pack never writes (hard links, devices, FIFOs) are skipped.
func extractArchive(r io.Reader, outputDir string) error {
	tarReader := tar.NewReader(r)

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		target, err := securePath(outputDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, header.FileInfo().Mode().Perm()); err != nil {
				return fmt.Errorf("creating directory %s: %w", header.Name, err)
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("creating parent of %s: %w", header.Name, err)
			}
			if err := extractFile(target, tarReader, header); err != nil {
				return err
			}

		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("creating parent of %s: %w", header.Name, err)
			}
			// Re-extraction over an existing tree: replace the link.
			os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("creating symlink %s: %w", header.Name, err)
			}
		}
	}
}

// extractFile writes a single regular file entry with the mode and
// modification time from its header.
func extractFile(target string, r io.Reader, header *tar.Header) error {
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, header.FileInfo().Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", header.Name, err)
	}
	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", header.Name, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", header.Name, err)
	}

	if !header.ModTime.IsZero() {
		if err := os.Chtimes(target, header.ModTime, header.ModTime); err != nil {
			return fmt.Errorf("restoring times on %s: %w", header.Name, err)
		}
	}
	return nil
}

// securePath joins a tar entry name onto outputDir, rejecting names
// that resolve outside it.
func securePath(outputDir, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." ||
		strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("tar entry %q escapes the output directory", name)
	}
	return filepath.Join(outputDir, cleaned), nil
}
