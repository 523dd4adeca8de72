package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kova-store/internal/storage"
)

// MaxUploadSize bounds a single product image.
const MaxUploadSize = 10 << 20

var (
	ErrUploadTooLarge      = errors.New("file too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptyUpload         = errors.New("empty file")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadService stores product images and returns their public URL.
type UploadService struct {
	logger *zap.Logger
	store  storage.ObjectStore
	now    func() time.Time
	newID  func() string
}

func NewUploadService(logger *zap.Logger, store storage.ObjectStore) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{
		logger: logger,
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.NewString() },
	}
}

// UploadImage sniffs the content type from the data itself; the client's
// filename and header are not trusted.
func (s *UploadService) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyUpload
	}
	if len(data) > MaxUploadSize {
		return "", ErrUploadTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedFileType
	}

	key := s.objectKey(ext)
	url, err := s.store.Put(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		s.logger.Error("image upload failed", zap.String("key", key), zap.Error(err))
		return "", err
	}
	s.logger.Info("image uploaded",
		zap.String("key", key),
		zap.String("original_name", filepath.Base(filename)),
		zap.Int("bytes", len(data)),
	)
	return url, nil
}

func (s *UploadService) objectKey(ext string) string {
	now := s.now()
	return fmt.Sprintf("products/%04d/%02d/%s%s", now.Year(), int(now.Month()), strings.ReplaceAll(s.newID(), "-", ""), ext)
}
