package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrNotImage   = errors.New("uploaded file is not an image")
	ErrEmptyFile  = errors.New("uploaded file is empty")
	ErrUnknownURL = errors.New("url does not belong to this store")
)

// ObjectStore hosts product images. Both operations are best-effort from the
// catalog's point of view; callers log failures and continue.
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, folder string) (string, error)
	Delete(ctx context.Context, url string) error
}

// objectName validates the payload and returns folder/<uuid><ext>
func objectName(data []byte, folder string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mtype.String())
	}

	return path.Join(cleanFolder(folder), uuid.NewString()+mtype.Extension()), nil
}

func cleanFolder(folder string) string {
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" || folder == "." {
		return "misc"
	}
	return folder
}

// urlMapper translates between object keys and public URLs
type urlMapper struct {
	base string
}

func newURLMapper(base string) urlMapper {
	return urlMapper{base: strings.TrimRight(base, "/")}
}

func (m urlMapper) URL(key string) string {
	return m.base + "/" + key
}

func (m urlMapper) Key(url string) (string, error) {
	prefix := m.base + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("%w: %s", ErrUnknownURL, url)
	}

	key := path.Clean(strings.TrimPrefix(url, prefix))
	if key == "." || strings.HasPrefix(key, "../") || key == ".." {
		return "", fmt.Errorf("%w: %s", ErrUnknownURL, url)
	}
	return key, nil
}
