package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	cfg "github.com/lexdesk/lexdesk/internal/config"
)

var (
	ErrExist       = errors.New("object already exists")
	ErrNotExist    = errors.New("object does not exist")
	ErrOutsideRoot = errors.New("path escapes storage root")
)

// Storage stores objects under slash-separated keys relative to the
// project root (e.g. "uploads/documents/a.html").
type Storage interface {
	// Save stores r at key, replacing any existing object
	Save(key string, r io.Reader) error

	// Create stores data at key and fails with ErrExist if key is taken
	Create(key string, data []byte) error

	// Open returns the object at key. Callers close the reader.
	Open(key string) (io.ReadCloser, error)

	// Delete removes the object at key
	Delete(key string) error

	// List returns every object whose key starts with prefix
	List(prefix string) ([]Object, error)

	// URL returns a URL for downloading the object
	URL(key string) string
}

// Object describes a stored object.
type Object struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// New creates the storage backend selected by STORAGE_DRIVER.
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case cfg.StorageS3:
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:               c.S3Region,
			Bucket:               c.S3Bucket,
			AccessKey:            c.S3AccessKey,
			SecretKey:            c.S3SecretKey,
			Endpoint:             c.S3Endpoint,
			PresignExpiryPrivate: c.S3PresignExpiryPrivate,
		})
	case cfg.StorageLocal, "":
		slog.Info("initializing local storage", "root", c.RootDir)
		return NewLocalStorage(c.RootDir, "/files")
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}

// CleanKey normalizes key to a relative slash path and rejects keys that
// are absolute or climb out of the root.
func CleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, `\`, "/")
	if key == "" || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, key)
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, key)
	}
	return clean, nil
}

// Within reports whether key, once cleaned, lies under dir.
func Within(key, dir string) bool {
	clean, err := CleanKey(key)
	if err != nil {
		return false
	}
	cleanDir, err := CleanKey(dir)
	if err != nil {
		return false
	}
	return strings.HasPrefix(clean, cleanDir+"/")
}
