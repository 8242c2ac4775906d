// Package filesystem stores the project collection as a file on a billy
// filesystem. Writes go to a uniquely named sibling and are renamed over the
// target so an interrupted write never leaves a truncated collection behind.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
)

// Document is a single named file on a billy filesystem.
type Document struct {
	fs   billy.Filesystem
	name string
}

// NewDocument returns the document called name on fs.
func NewDocument(fs billy.Filesystem, name string) *Document {
	return &Document{fs: fs, name: filepath.ToSlash(filepath.Clean(name))}
}

// Open returns a Document for a path on the host filesystem. Missing parent
// directories are created on first write.
func Open(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}
	root := filepath.VolumeName(abs) + string(filepath.Separator)
	return NewDocument(osfs.New(root), strings.TrimPrefix(abs, root)), nil
}

// Name returns the document path relative to the filesystem root.
func (d *Document) Name() string {
	return d.name
}

// Exists reports whether the document file is present.
func (d *Document) Exists(_ context.Context) (bool, error) {
	_, err := d.fs.Stat(d.name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", d.name, err)
}

// Read returns the full file content.
func (d *Document) Read(_ context.Context) ([]byte, error) {
	data, err := util.ReadFile(d.fs, d.name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.name, err)
	}
	return data, nil
}

// Replace writes data to a temporary sibling and renames it over the document.
func (d *Document) Replace(_ context.Context, data []byte) error {
	if dir := filepath.Dir(d.name); dir != "." {
		if err := d.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	tmpName := fmt.Sprintf("%s.%s.tmp", d.name, uuid.NewString())
	tmp, err := d.fs.OpenFile(tmpName, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		d.fs.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if syncer, ok := tmp.(interface{ Sync() error }); ok {
		if err := syncer.Sync(); err != nil {
			tmp.Close()
			d.fs.Remove(tmpName)
			return fmt.Errorf("sync temp file: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		d.fs.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := d.fs.Rename(tmpName, d.name); err != nil {
		d.fs.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}
	return nil
}
