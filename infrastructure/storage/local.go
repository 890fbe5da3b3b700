package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore persists message attachments and returns the URL they will be
// served under. Attachments must be durable before the owning message record
// is created, so Save only returns once the bytes are on disk. Remove undoes
// a Save whose message never came to exist.
type FileStore interface {
	Save(file *multipart.FileHeader) (string, error)
	Remove(url string) error
}

// LocalStore writes attachments under <baseDir>/messages with random names,
// served back as <urlPrefix>/messages/<name>.
type LocalStore struct {
	baseDir   string
	urlPrefix string
}

func NewLocalStore(baseDir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, "messages"), 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{
		baseDir:   baseDir,
		urlPrefix: urlPrefix,
	}, nil
}

func (s *LocalStore) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.New().String() + filepath.Ext(file.Filename)
	path := filepath.Join(s.baseDir, "messages", name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", err
	}

	return s.urlPrefix + "/messages/" + name, nil
}

func (s *LocalStore) Remove(url string) error {
	name := strings.TrimPrefix(url, s.urlPrefix+"/messages/")
	if name == url || name == "" {
		return fmt.Errorf("not a stored attachment url: %s", url)
	}
	return os.Remove(filepath.Join(s.baseDir, "messages", filepath.Base(name)))
}
