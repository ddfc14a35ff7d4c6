package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/config"
)

// localStorage writes uploads under a base directory, one subdirectory
// per file kind. Stored IDs are paths relative to the base directory.
type localStorage struct {
	baseDir     string
	maxFileSize int64
	logger      *zap.Logger
}

func newLocalStorage(cfg *config.StorageConfig, logger *zap.Logger) (*localStorage, error) {
	for _, folder := range kindFolders {
		dir := filepath.Join(cfg.UploadDir, folder)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
		}
	}
	return &localStorage{
		baseDir:     cfg.UploadDir,
		maxFileSize: cfg.MaxFileSize,
		logger:      logger,
	}, nil
}

func (s *localStorage) UploadFile(ctx context.Context, file *multipart.FileHeader, kind FileKind) (*UploadResult, error) {
	folder, err := folderFor(kind)
	if err != nil {
		return nil, err
	}
	if err := validateFile(file, kind, s.maxFileSize); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnableToOpenFile, err)
	}
	defer src.Close()

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate file name: %w", err)
	}
	name := id.String() + strings.ToLower(filepath.Ext(file.Filename))
	relPath := filepath.Join(folder, name)

	dst, err := os.Create(filepath.Join(s.baseDir, relPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Info("File stored",
		zap.String("kind", string(kind)),
		zap.String("path", relPath),
		zap.Int64("size", written),
	)

	return &UploadResult{
		URL:  "/uploads/" + filepath.ToSlash(relPath),
		ID:   relPath,
		Size: written,
	}, nil
}

func (s *localStorage) DeleteFile(ctx context.Context, id string) error {
	// Reject IDs that would escape the base directory.
	cleaned := filepath.Clean(id)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return fmt.Errorf("invalid file id: %s", id)
	}

	err := os.Remove(filepath.Join(s.baseDir, cleaned))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
