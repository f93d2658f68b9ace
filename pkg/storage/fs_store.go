package storage

import (
	"context"
	"fmt"
	"path"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FSStore keeps objects on a filesystem served under PublicBaseURL
type FSStore struct {
	fs   afero.Fs
	urls urlMapper
	log  *zap.Logger
}

// NewFSStore roots fs at root. Pass afero.NewOsFs() in production.
func NewFSStore(fs afero.Fs, root, publicBaseURL string, log *zap.Logger) *FSStore {
	return &FSStore{
		fs:   afero.NewBasePathFs(fs, root),
		urls: newURLMapper(publicBaseURL),
		log:  log.With(zap.String("storage", "fs")),
	}
}

func (s *FSStore) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key, err := objectName(data, folder)
	if err != nil {
		return "", err
	}

	if err := s.fs.MkdirAll(path.Dir(key), 0755); err != nil {
		return "", fmt.Errorf("create folder %s: %w", path.Dir(key), err)
	}
	if err := afero.WriteFile(s.fs, key, data, 0644); err != nil {
		return "", fmt.Errorf("write object %s: %w", key, err)
	}

	s.log.Debug("Object uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return s.urls.URL(key), nil
}

func (s *FSStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := s.urls.Key(url)
	if err != nil {
		return err
	}

	if err := s.fs.Remove(key); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}
