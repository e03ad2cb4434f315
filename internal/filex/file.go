// Package filex has small filesystem helpers for the client.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// MaxTextSize caps the size of a Markdown file loaded into a document.
const MaxTextSize = 4 << 20

var ErrNotText = errors.New("file is not UTF-8 text")

// EnsureDir creates dir, relative to the working directory unless it is
// absolute, and returns its absolute path.
func EnsureDir(dirName string) (string, error) {
	dir := dirName
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ReadText returns the contents of a UTF-8 text file no larger than
// MaxTextSize.
func ReadText(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > MaxTextSize {
		return "", fmt.Errorf("%s is larger than %d bytes", path, MaxTextSize)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%s: %w", path, ErrNotText)
	}
	return string(b), nil
}
