// SPDX-License-Identifier: EPL-2.0

package header

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// rewrite writes a fresh header for spec to a temporary file next to path,
// copies copyBytes of sample data from the old data location unchanged and
// renames the result over path. The original is untouched on failure.
func rewrite(path string, d *Descriptor, spec WriteSpec, copyBytes int64) (err error) {
	src, err := os.Open(path)
	if err != nil {
		return wrapError(KindCantOpenFile, path, d.Type, err, "")
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return wrapError(KindReadError, path, d.Type, err, "stat")
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), ".sndkit-*.tmp")
	if err != nil {
		return wrapError(KindWriteError, path, spec.Type, err, "create temp file")
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()
			_ = os.Remove(tempPath)
		}
	}()

	_, sizeErr := Write(tempFile, spec)
	if sizeErr != nil && !errors.Is(sizeErr, ErrBadSize) {
		return withPath(sizeErr, path)
	}

	if avail := info.Size() - d.DataLocation; copyBytes > avail {
		copyBytes = avail
	}
	if copyBytes > 0 {
		if _, err := io.Copy(tempFile, io.NewSectionReader(src, d.DataLocation, copyBytes)); err != nil {
			return wrapError(KindWriteError, path, spec.Type, err, "copy sample data")
		}
	}

	if err := tempFile.Sync(); err != nil {
		return wrapError(KindWriteError, path, spec.Type, err, "sync temp file")
	}
	if err := tempFile.Close(); err != nil {
		return wrapError(KindWriteError, path, spec.Type, err, "close temp file")
	}
	if err := os.Chmod(tempPath, info.Mode().Perm()); err != nil {
		return wrapError(KindWriteError, path, spec.Type, err, "chmod temp file")
	}
	if err := os.Rename(tempPath, path); err != nil {
		return wrapError(KindWriteError, path, spec.Type, err, "rename temp to output")
	}
	success = true
	return withPath(sizeErr, path)
}

// withPath fills in the path of a header error raised before it was known.
func withPath(err error, path string) error {
	var he *Error
	if errors.As(err, &he) && he.Path == "" {
		he.Path = path
	}
	return err
}
