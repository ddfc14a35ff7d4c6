package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/config"
)

// FileKind identifies the upload slot a file is destined for. Each kind
// maps to its own folder and allowed content types.
type FileKind string

const (
	KindResume         FileKind = "resume"
	KindProfilePicture FileKind = "profilePicture"
	KindCompanyLogo    FileKind = "companyLogo"
)

// UploadResult describes a stored file.
type UploadResult struct {
	URL  string
	ID   string
	Size int64
}

// FileStorage persists uploaded files.
type FileStorage interface {
	UploadFile(ctx context.Context, file *multipart.FileHeader, kind FileKind) (*UploadResult, error)
	DeleteFile(ctx context.Context, id string) error
}

var (
	ErrFileTooLarge       = errors.New("file size exceeds limit")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrUnableToOpenFile   = errors.New("unable to open file")
)

var kindFolders = map[FileKind]string{
	KindResume:         "resumes",
	KindProfilePicture: "profiles",
	KindCompanyLogo:    "logos",
}

var kindContentTypes = map[FileKind]map[string]bool{
	KindResume: {
		"application/pdf":    true,
		"application/msword": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	},
	KindProfilePicture: {
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	},
	KindCompanyLogo: {
		"image/jpeg":    true,
		"image/png":     true,
		"image/webp":    true,
		"image/svg+xml": true,
	},
}

// Extensions accepted when sniffing is inconclusive. Office documents
// are zip containers, so DOCX sniffs as application/zip.
var kindExtensions = map[FileKind]map[string]bool{
	KindResume:         {".pdf": true, ".doc": true, ".docx": true},
	KindProfilePicture: {".jpg": true, ".jpeg": true, ".png": true, ".webp": true},
	KindCompanyLogo:    {".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".svg": true},
}

// New builds the configured storage provider. Local disk is the
// default; Cloudinary is used when credentials are configured.
func New(cfg *config.StorageConfig, logger *zap.Logger) (FileStorage, error) {
	switch cfg.Provider {
	case "cloudinary":
		return newCloudinaryStorage(cfg, logger)
	case "", "local":
		return newLocalStorage(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}

func folderFor(kind FileKind) (string, error) {
	folder, ok := kindFolders[kind]
	if !ok {
		return "", fmt.Errorf("unknown file kind: %s", kind)
	}
	return folder, nil
}

// validateFile checks size and content type against the kind's rules.
func validateFile(file *multipart.FileHeader, kind FileKind, maxSize int64) error {
	if file.Size > maxSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, file.Size, maxSize)
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnableToOpenFile, err)
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%w: %v", ErrUnableToOpenFile, err)
	}

	contentType := http.DetectContentType(buffer[:n])
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}

	if kindContentTypes[kind][contentType] {
		return nil
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if kindExtensions[kind][ext] {
		return nil
	}

	return fmt.Errorf("%w: %s is not allowed for %s", ErrInvalidContentType, contentType, kind)
}
