package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

// FileReader reads model documents, keeping their contents until they change on disk
type FileReader struct {
	contents *FileCache[[]byte]
	reads    atomic.Int64
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{contents: NewFileCache[[]byte]()}
}

// ReadFile returns the contents of a file, from the cache when the file is unchanged
func (fr *FileReader) ReadFile(filePath string) ([]byte, error) {
	cleanPath, err := fr.cleanPath(filePath)
	if err != nil {
		return nil, err
	}

	if cached, ok := fr.contents.Get(cleanPath); ok {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
	}
	fr.reads.Add(1)

	// a file removed between read and stat is simply not cached
	_ = fr.contents.Set(cleanPath, content)
	return content, nil
}

// Reads returns how many times a file was read from disk rather than the cache
func (fr *FileReader) Reads() int64 {
	return fr.reads.Load()
}

// InvalidateFile removes a specific file from the cache
func (fr *FileReader) InvalidateFile(filePath string) {
	fr.contents.Delete(filepath.Clean(filePath))
}

// ClearCache clears all cached files
func (fr *FileReader) ClearCache() {
	fr.contents.Clear()
}

func (fr *FileReader) cleanPath(filePath string) (string, error) {
	if err := NotEmpty("filePath")(filePath); err != nil {
		return "", err
	}
	cleanPath := filepath.Clean(filePath)
	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", cleanPath)
	}
	return cleanPath, nil
}
