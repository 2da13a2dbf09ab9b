// Package files backs the files resource with a directory listing.
package files

import (
	"os"
	"path/filepath"

	"codegate/pkg/protocol"
)

// Lister lists entries under a configured root directory
type Lister struct {
	root string
}

// New creates a Lister. An empty root yields empty listings.
func New(root string) *Lister {
	return &Lister{root: root}
}

// List returns the entries directly under the root. The listing always
// succeeds: an unset root or an unreadable directory produces an empty list.
func (l *Lister) List() []protocol.FileEntry {
	result := []protocol.FileEntry{}

	if l.root == "" {
		return result
	}

	entries, err := os.ReadDir(l.root)
	if err != nil {
		return result
	}

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		result = append(result, protocol.FileEntry{
			Name:    entry.Name(),
			Path:    filepath.Join(l.root, entry.Name()),
			Size:    info.Size(),
			Mode:    info.Mode().String(),
			ModTime: info.ModTime(),
			IsDir:   entry.IsDir(),
		})
	}

	return result
}
