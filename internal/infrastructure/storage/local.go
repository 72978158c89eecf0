package storage

import (
	"context"
	"errors"
	"estate-brokerage/internal/domain/property"
	"estate-brokerage/internal/domain/user"
	appErrors "estate-brokerage/pkg/errors"
	"fmt"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const sniffLen = 3072

// LocalStore keeps images in a directory. All paths are confined to it.
type LocalStore struct {
	fs afero.Fs
}

func NewLocalStore(dir string) (*LocalStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return newLocalStore(afero.NewBasePathFs(osFs, dir)), nil
}

func newLocalStore(fs afero.Fs) *LocalStore {
	return &LocalStore{fs: fs}
}

var (
	_ user.ImageStore     = (*LocalStore)(nil)
	_ property.ImageStore = (*LocalStore)(nil)
)

func (s *LocalStore) Save(_ context.Context, data []byte, _, extension string) (string, error) {
	name := uuid.NewString() + extension
	if err := afero.WriteFile(s.fs, name, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return name, nil
}

func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, string, error) {
	file, err := s.fs.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", appErrors.ErrImageNotFound
		}
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(file, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		file.Close()
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, "", fmt.Errorf("failed to rewind image: %w", err)
	}

	return file, mimetype.Detect(header[:n]).String(), nil
}

func (s *LocalStore) Delete(_ context.Context, name string) error {
	if err := s.fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
