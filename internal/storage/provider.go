// Package storage reads and writes journal files and exposes a journal as a
// set of day sections.
package storage

// Provider stores journal files by name.
type Provider interface {
	// Read returns the contents of the named journal. A missing journal
	// yields an error wrapping fs.ErrNotExist.
	Read(name string) ([]byte, error)
	// Write replaces the named journal atomically.
	Write(name string, content []byte) error
	// Exists reports whether the named journal is a regular file.
	Exists(name string) bool
}
