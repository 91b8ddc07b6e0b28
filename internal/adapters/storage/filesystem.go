// Package storage answers presence checks against the document store the
// renderer writes into.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	portssvc "github.com/invobook/invobook/internal/core/ports/services"
)

// FilesystemChecker implements the StorageChecker port against a local or
// mounted document directory.
type FilesystemChecker struct {
	root string
}

// NewFilesystemChecker creates a checker rooted at dir.
func NewFilesystemChecker(dir string) *FilesystemChecker {
	return &FilesystemChecker{root: dir}
}

var _ portssvc.StorageChecker = (*FilesystemChecker)(nil)

// Exists reports whether the referenced document is present. References are
// paths relative to the store root; anything escaping the root is rejected.
func (c *FilesystemChecker) Exists(ctx context.Context, ref string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	cleaned := filepath.Clean(ref)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
		return false, fmt.Errorf("document reference %q escapes the store root", ref)
	}

	info, err := os.Stat(filepath.Join(c.root, cleaned))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat document %s: %w", ref, err)
	}
	return info.Mode().IsRegular(), nil
}
