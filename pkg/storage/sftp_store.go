package storage

import (
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
)

type SFTPConfig struct {
	Addr          string
	User          string
	Password      string
	Root          string
	PublicBaseURL string
}

// SFTPStore writes objects to a media host that serves Root at PublicBaseURL.
// One SFTP session is shared; the sftp client is safe for concurrent use.
type SFTPStore struct {
	conn   *ssh.Client
	client *sftp.Client
	root   string
	urls   urlMapper
	log    *zap.Logger

	mu sync.Mutex // guards directory creation
}

func NewSFTPStore(cfg SFTPConfig, log *zap.Logger) (*SFTPStore, error) {
	// TODO: pin the media host key via STORAGE_SFTP_HOST_KEY instead of accepting any key
	sshConfig := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	conn, err := ssh.Dial("tcp", cfg.Addr, sshConfig)
	if err != nil {
		return nil, fmt.Errorf("dial sftp host %s: %w", cfg.Addr, err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open sftp session: %w", err)
	}

	return &SFTPStore{
		conn:   conn,
		client: client,
		root:   cfg.Root,
		urls:   newURLMapper(cfg.PublicBaseURL),
		log:    log.With(zap.String("storage", "sftp")),
	}, nil
}

func (s *SFTPStore) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key, err := objectName(data, folder)
	if err != nil {
		return "", err
	}
	remote := path.Join(s.root, key)

	s.mu.Lock()
	err = s.client.MkdirAll(path.Dir(remote))
	s.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("create remote folder %s: %w", path.Dir(remote), err)
	}

	f, err := s.client.Create(remote)
	if err != nil {
		return "", fmt.Errorf("create remote object %s: %w", remote, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("write remote object %s: %w", remote, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close remote object %s: %w", remote, err)
	}

	s.log.Debug("Object uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return s.urls.URL(key), nil
}

func (s *SFTPStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := s.urls.Key(url)
	if err != nil {
		return err
	}

	if err := s.client.Remove(path.Join(s.root, key)); err != nil {
		return fmt.Errorf("remove remote object %s: %w", key, err)
	}
	return nil
}

func (s *SFTPStore) Close() error {
	if err := s.client.Close(); err != nil {
		s.log.Warn("Failed to close sftp session", zap.Error(err))
	}
	return s.conn.Close()
}
