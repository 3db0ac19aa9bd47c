// Package storage defines the library file-system abstraction.
package storage

import "time"

// ArchiveInfo is the listing record for one .story archive on disk.
type ArchiveInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Provider is the interface for library file operations.
type Provider interface {
	// List returns metadata for every .story archive under the library root.
	List() ([]ArchiveInfo, error)
	// Read returns the raw bytes of the archive at path (relative to the root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the root).
	Write(path string, content []byte) error
	// Delete removes the archive at path (relative to the root).
	Delete(path string) error
	// Move renames oldPath to newPath (both relative to the root).
	Move(oldPath, newPath string) error
	// Exists reports whether path (relative to the root) is present.
	Exists(path string) (bool, error)
}
