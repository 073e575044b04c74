package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// LocalAttachmentStore writes uploads under a directory that the router
// serves at /uploads. Default backend for single-node deployments without
// object storage.
type LocalAttachmentStore struct {
	Dir string
}

func NewLocalAttachmentStore(dir string) *LocalAttachmentStore {
	if dir == "" {
		dir = "uploads"
	}
	return &LocalAttachmentStore{Dir: dir}
}

func (l *LocalAttachmentStore) Save(_ context.Context, fh *multipart.FileHeader, folder string) (string, error) {
	dir := filepath.Join(l.Dir, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: mkdir uploads dir: %v", ErrUploadFailed, err)
	}

	key := attachmentKey(folder, fh.Filename)
	fullpath := filepath.Join(l.Dir, filepath.FromSlash(key))

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open upload: %v", ErrUploadFailed, err)
	}
	defer src.Close()

	dst, err := os.Create(fullpath)
	if err != nil {
		return "", fmt.Errorf("%w: create file: %v", ErrUploadFailed, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("%w: write file: %v", ErrUploadFailed, err)
	}

	return "/uploads/" + key, nil
}
