// Package archive builds Walk abstraction on top of "archive/zip", so
// annotation sources can be pulled out of zip containers without
// extracting them first.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"go.uber.org/multierr"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk. The file argument is the zip.File structure for file in archive
// which satisfies match condition. If an error is returned, processing
// stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk walks the all files in the archive which satisfy match condition,
// calling walkFn for each item. Entries with path traversal components
// ("..") or absolute paths abort the walk to prevent Zip Slip attacks.
func Walk(archive, pattern string, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, pattern) {
			if err := walkFn(archive, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// ErrNoDocument is returned by OpenDocument when the archive has no entry
// with a suitable extension.
var ErrNoDocument = errors.New("no document entry in archive")

// entryReader keeps the archive open for as long as the entry is being
// read; closing it closes both.
type entryReader struct {
	io.ReadCloser
	archive io.Closer
}

func (r *entryReader) Close() error {
	return multierr.Append(r.ReadCloser.Close(), r.archive.Close())
}

// OpenDocument returns a reader over the first entry whose extension
// matches one of exts (compared case-insensitively, leading dot included).
// The caller owns the returned reader; the archive stays open until it is
// closed.
func OpenDocument(archive string, exts ...string) (io.ReadCloser, string, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return nil, "", err
	}

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			r.Close()
			return nil, "", fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		e := strings.ToLower(path.Ext(name))
		for _, want := range exts {
			if e != strings.ToLower(want) {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				r.Close()
				return nil, "", fmt.Errorf("unable to open zip entry %q: %w", name, err)
			}
			return &entryReader{ReadCloser: rc, archive: r}, name, nil
		}
	}

	r.Close()
	return nil, "", fmt.Errorf("%w: %s (looked for %s)", ErrNoDocument, archive, strings.Join(exts, ", "))
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
