package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/sumire/market/internal/domain"
)

// MaxUploadBytes is the size limit of a single uploaded file.
const MaxUploadBytes = 1 << 20

// ObjectStore stores uploaded bytes and returns their public URL.
type ObjectStore interface {
	Upload(ctx context.Context, folder, name string, data []byte) (string, error)
}

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Data     []byte
}

// UploadService validates images and pushes them to object storage.
type UploadService struct {
	store    ObjectStore
	folder   string
	maxBytes int
	logger   *slog.Logger
}

// NewUploadService creates a new UploadService. Files land under rootFolder.
func NewUploadService(store ObjectStore, rootFolder string, logger *slog.Logger) *UploadService {
	return &UploadService{
		store:    store,
		folder:   rootFolder,
		maxBytes: MaxUploadBytes,
		logger:   logger,
	}
}

// UploadImages checks every file before pushing any of them and returns
// the stored URLs in input order.
func (s *UploadService) UploadImages(ctx context.Context, folder string, files []Upload, maxFiles int) ([]string, error) {
	if len(files) == 0 {
		return nil, domain.Errorf(domain.ErrInvalidInput, "No image uploaded.")
	}
	if len(files) > maxFiles {
		return nil, domain.Errorf(domain.ErrInvalidInput, "At most %d images can be uploaded.", maxFiles)
	}
	for _, f := range files {
		if len(f.Data) > s.maxBytes {
			return nil, domain.Errorf(domain.ErrPayloadTooLarge, "File size must not exceed 1MB.")
		}
		if mt := mimetype.Detect(f.Data); !strings.HasPrefix(mt.String(), "image/") {
			return nil, domain.Errorf(domain.ErrInvalidInput, "%s is not an image (%s).", f.Filename, mt.String())
		}
	}
	if s.store == nil {
		return nil, errors.New("object storage is not configured")
	}

	target := s.folder + "/" + folder
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := s.store.Upload(ctx, target, uuid.NewString(), f.Data)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", f.Filename, err)
		}
		urls = append(urls, url)
	}

	s.logger.Info("images uploaded", "folder", target, "count", len(urls))
	return urls, nil
}
