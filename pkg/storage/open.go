package storage

import (
	"fmt"
	"net/http"

	"band-market/pkg/utils"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Open builds the store selected by cfg.Driver. The returned close func is
// never nil.
func Open(cfg utils.StorageConfig, log *zap.Logger) (ObjectStore, func() error, error) {
	switch cfg.Driver {
	case "", "fs":
		return NewFSStore(afero.NewOsFs(), cfg.Root, cfg.PublicBaseURL, log), func() error { return nil }, nil
	case "sftp":
		store, err := NewSFTPStore(SFTPConfig{
			Addr:          cfg.SFTPAddr,
			User:          cfg.SFTPUser,
			Password:      cfg.SFTPPassword,
			Root:          cfg.Root,
			PublicBaseURL: cfg.PublicBaseURL,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// FileServer serves the stored objects by key, for deployments where the
// API process is also the media host.
func (s *FSStore) FileServer() http.Handler {
	return http.FileServer(afero.NewHttpFs(s.fs))
}
