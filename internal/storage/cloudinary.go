package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/githubscientist/jp-backend/internal/config"
)

const (
	uploadTimeout = 30 * time.Second
	deleteTimeout = 10 * time.Second
	maxRetries    = 3
)

// cloudinaryStorage uploads files to Cloudinary with retry on
// transient failures.
type cloudinaryStorage struct {
	client      *cloudinary.Cloudinary
	maxFileSize int64
	logger      *zap.Logger
}

func newCloudinaryStorage(cfg *config.StorageConfig, logger *zap.Logger) (*cloudinaryStorage, error) {
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are missing")
	}

	client, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	logger.Info("Cloudinary storage initialized", zap.String("cloud_name", cfg.CloudinaryCloudName))
	return &cloudinaryStorage{
		client:      client,
		maxFileSize: cfg.MaxFileSize,
		logger:      logger,
	}, nil
}

func ptrBool(b bool) *bool { return &b }

func (s *cloudinaryStorage) UploadFile(ctx context.Context, file *multipart.FileHeader, kind FileKind) (*UploadResult, error) {
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

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	params := uploader.UploadParams{
		Folder:         folder,
		UseFilename:    ptrBool(true),
		UniqueFilename: ptrBool(true),
		ResourceType:   "auto",
	}

	var result *uploader.UploadResult
	operation := func() error {
		var opErr error
		result, opErr = s.client.Upload.Upload(ctx, src, params)
		return opErr
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries)
	err = backoff.RetryNotify(operation, backoff.WithContext(policy, ctx),
		func(err error, d time.Duration) {
			s.logger.Warn("Upload attempt failed",
				zap.String("filename", file.Filename),
				zap.Error(err),
				zap.Duration("backoff", d),
			)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file after %d attempts: %w", maxRetries, err)
	}

	s.logger.Info("File uploaded",
		zap.String("kind", string(kind)),
		zap.String("public_id", result.PublicID),
		zap.Int("size", result.Bytes),
	)

	return &UploadResult{
		URL:  result.SecureURL,
		ID:   result.PublicID,
		Size: int64(result.Bytes),
	}, nil
}

func (s *cloudinaryStorage) DeleteFile(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()

	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	if err != nil {
		return fmt.Errorf("failed to delete file %s: %w", id, err)
	}
	return nil
}
