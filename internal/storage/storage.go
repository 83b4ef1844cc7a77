package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/straye-as/chirps-api/internal/config"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no object exists under a key
var ErrNotFound = errors.New("object not found")

// ErrInvalidKey is returned for keys that would escape the storage root
var ErrInvalidKey = errors.New("invalid storage key")

// Storage stores opaque objects (user avatars) under caller chosen keys
type Storage interface {
	Put(ctx context.Context, key string, contentType string, data io.Reader) (int64, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewStorage creates a new storage instance based on configuration.
// For local mode, objects are stored on the local filesystem.
// For cloud/azure mode, objects are stored in Azure Blob Storage.
func NewStorage(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Mode {
	case "local", "":
		return NewLocalStorage(cfg.LocalBasePath)
	case "cloud", "azure":
		if cfg.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		return NewAzureBlobStorage(ctx, cfg.CloudConnectionString, cfg.CloudContainer, logger)
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Mode)
	}
}

// cleanKey normalises a slash separated key and rejects traversal
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(filepath.ToSlash(key), "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return "", ErrInvalidKey
		}
	}
	return key, nil
}

// LocalStorage implements Storage interface for local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

func (s *LocalStorage) path(key string) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(clean)), nil
}

// Put writes data under key, replacing any existing object
func (s *LocalStorage) Put(ctx context.Context, key string, contentType string, data io.Reader) (int64, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	// Write to a temp file first so readers never see a partial object
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	size, err := io.Copy(tmp, data)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf("failed to store file: %w", err)
	}

	return size, nil
}

// Get opens the object stored under key
func (s *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete removes the object; a missing object is not an error
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
