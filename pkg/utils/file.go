package utils

import (
	"path/filepath"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/afero"
)

// Exists reports whether path exists on fs. A stat failure other than
// "not exist" is returned together with true.
func Exists(fs afero.Fs, path string) (bool, error) {
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return true, oops.With("file_path", path).Wrapf(err, "stat error")
	}
	return ok, nil
}

// FileStem returns the base name of path without its final extension.
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadFile reads the whole file from fs.
func ReadFile(fs afero.Fs, path string) ([]byte, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, oops.With("file_path", path).Wrapf(err, "file read error")
	}
	return b, nil
}
