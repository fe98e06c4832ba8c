// Package storage archives the raw competitor text behind an analysis, so a
// stored analysis can be re-examined without re-fetching the pages. Backends:
// local filesystem or any S3-compatible object store.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Archive is the common interface of the content archive backends
type Archive interface {
	// SaveContent stores text under a name and returns the archive path
	SaveContent(content, name string) (string, error)
	// ReadContent loads previously archived text
	ReadContent(path string) (string, error)
	// DeleteContent removes archived text; missing paths are not an error
	DeleteContent(path string) error
}

// Config contains filesystem storage configuration
type Config struct {
	BasePath string // Base directory for all stored files
}

// DefaultConfig returns default storage configuration
func DefaultConfig() Config {
	return Config{
		BasePath: "./storage",
	}
}

// Storage handles filesystem storage operations
type Storage struct {
	config Config
}

// New creates a new Storage instance
func New(config Config) (*Storage, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory: %w", err)
	}

	return &Storage{
		config: config,
	}, nil
}

// SaveContent saves analyzed competitor text to the filesystem.
// Returns the relative file path from the base storage directory.
func (s *Storage) SaveContent(content, name string) (string, error) {
	// Generate directory structure: content/YYYY/MM/
	now := time.Now()
	year := fmt.Sprintf("%04d", now.Year())
	month := fmt.Sprintf("%02d", int(now.Month()))

	dirPath := filepath.Join(s.config.BasePath, "content", year, month)

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create content directory: %w", err)
	}

	// Generate filename: name.txt
	filename := name + ".txt"
	filePath := filepath.Join(dirPath, filename)

	// Check if file already exists and make unique if necessary
	counter := 1
	for fileExists(filePath) {
		filename = fmt.Sprintf("%s-%d.txt", name, counter)
		filePath = filepath.Join(dirPath, filename)
		counter++
	}

	// Write file
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write content file: %w", err)
	}

	// Return relative path from base storage directory
	relPath, err := filepath.Rel(s.config.BasePath, filePath)
	if err != nil {
		return "", fmt.Errorf("failed to get relative path: %w", err)
	}

	return relPath, nil
}

// ReadContent reads content from the filesystem
func (s *Storage) ReadContent(relPath string) (string, error) {
	fullPath := filepath.Join(s.config.BasePath, relPath)

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to read content file: %w", err)
	}

	return string(data), nil
}

// DeleteContent deletes content from the filesystem
func (s *Storage) DeleteContent(relPath string) error {
	fullPath := filepath.Join(s.config.BasePath, relPath)

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete content file: %w", err)
	}

	return nil
}

// GetFullPath returns the full filesystem path for a relative path
func (s *Storage) GetFullPath(relPath string) string {
	return filepath.Join(s.config.BasePath, relPath)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
