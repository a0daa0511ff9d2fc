// Package filex contains local file helpers used by the CLI for uploads
// and downloads.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// MaxUploadSize is the largest image the gallery accepts.
const MaxUploadSize = 10 << 20

var ErrTooLarge = errors.New("file too large")

// EnsureDir creates dir (relative paths resolve against the working
// directory) and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ReadUpload reads an image for upload, refusing regular files larger than
// limit bytes. It returns the content and the base file name.
func ReadUpload(path string, limit int64) ([]byte, string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if fi.IsDir() {
		return nil, "", fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > limit {
		return nil, "", fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, filepath.Base(path), fi.Size(), limit)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return data, filepath.Base(path), nil
}
