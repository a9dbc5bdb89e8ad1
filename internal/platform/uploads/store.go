package uploads

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidFileType is returned for uploads outside the image allow-list.
var ErrInvalidFileType = errors.New("invalid file type")

// fileTypes maps accepted MIME types to the stored file extension.
var fileTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// Store writes uploaded product images to local disk. Files are served back
// under the public uploads route.
type Store struct {
	dir    string
	logger *slog.Logger
}

func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("upload dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save validates the part's MIME type against the image allow-list and
// writes it to disk, returning the stored file name.
func (s *Store) Save(header *multipart.FileHeader) (string, error) {
	extension, ok := fileTypes[strings.ToLower(header.Header.Get("Content-Type"))]
	if !ok {
		return "", ErrInvalidFileType
	}

	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	fileName := fmt.Sprintf("%s-%s.%s", sanitizeName(header.Filename), uuid.NewString(), extension)
	dst, err := os.Create(filepath.Join(s.dir, fileName))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	s.logger.Info("upload stored",
		"event", "upload_stored",
		"module", "internal/platform/uploads",
		"layer", "platform",
		"file", fileName,
		"size", header.Size,
	)
	return fileName, nil
}

// sanitizeName keeps only the base name with spaces replaced, stripping any
// path traversal and the original extension.
func sanitizeName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, " ", "-")
	if base == "" || base == "." {
		base = "upload"
	}
	return base
}
