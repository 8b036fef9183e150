package ports

// FileStore reads and writes whole files. Implementations decide the backing filesystem.
type FileStore interface {
	ReadFileAsString(path string) (string, error)
	WriteFileAsString(path, content string) error
	// CreateTemp creates a new uniquely named empty file whose name ends in suffix
	// and returns its absolute path. The file is not removed.
	CreateTemp(dir, suffix string) (string, error)
}
