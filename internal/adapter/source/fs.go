package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Files opens tables from the local filesystem. Relative names resolve
// against Root when it is set.
type Files struct {
	Root string
}

// NewFiles returns a filesystem opener rooted at root.
func NewFiles(root string) *Files {
	return &Files{Root: root}
}

// Open opens the named file.
func (f *Files) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := name
	if f.Root != "" && !filepath.IsAbs(name) {
		path = filepath.Join(f.Root, name)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return decompress(path, file)
}
