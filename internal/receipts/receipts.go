// Package receipts stores uploaded receipt images on disk and derives the
// public URL they are served under.
package receipts

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Store struct {
	dir     string
	baseURL string
}

// NewStore creates the receipts directory if needed. baseURL is the URL
// prefix the HTTP layer serves the directory under, e.g. "/receipts".
func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create receipts directory: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save writes the receipt content under a fresh name that keeps the original
// extension, and returns the URL it will be served from. FileURL and the
// stored name are always produced together.
func (s *Store) Save(fileName string, content io.Reader) (fileURL, storedName string, err error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	storedName = uuid.NewString() + ext

	f, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return "", "", fmt.Errorf("create receipt file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(f.Name())
		return "", "", fmt.Errorf("write receipt file: %w", err)
	}

	return path.Join(s.baseURL, storedName), storedName, nil
}
