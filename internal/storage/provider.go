// Package storage defines the wiki file-system abstraction.
package storage

// Entry is one item of a directory listing.
type Entry struct {
	Name  string
	IsDir bool
}

// Provider is the interface for wiki file operations. All paths are
// slash-separated and relative to the wiki root; "" and "." name the root.
type Provider interface {
	// ListPages returns every page file under dir, recursively, sorted by path.
	// Generated (underscore-prefixed) files and hidden directories are skipped.
	ListPages(dir string) ([]string, error)
	// ReadDir returns the entries directly inside dir, sorted by name.
	ReadDir(dir string) ([]Entry, error)
	// Exists reports whether path names an existing file or directory.
	Exists(path string) (bool, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, replacing any prior content.
	Write(path string, content []byte) error
	// CreateDir creates a single directory. It fails with apperr.ErrAlreadyExists
	// when path exists.
	CreateDir(path string) error
	// Delete removes the file at path.
	Delete(path string) error
	// RemoveDir removes an empty directory. It fails with
	// apperr.ErrDirectoryNotEmpty when entries remain.
	RemoveDir(path string) error
	// Move renames oldPath to newPath. It fails with apperr.ErrAlreadyExists
	// when newPath exists.
	Move(oldPath, newPath string) error
}
