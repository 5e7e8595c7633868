// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/otakughor/backend/internal/config"
)

var (
	ErrFileTooLarge   = errors.New("file too large")
	ErrFileType       = errors.New("file type not allowed")
	ErrInvalidImage   = errors.New("invalid image file")
	allowedImageTypes = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
)

const productImageFolder = "products"

type StorageService struct {
	provider   string
	s3Client   *s3.S3
	cloudinary *cloudinary.Cloudinary
	config     config.StorageConfig
	now        func() time.Time
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

func NewStorageService(cfg config.StorageConfig) (*StorageService, error) {
	s := &StorageService{provider: cfg.Provider, config: cfg, now: time.Now}

	switch cfg.Provider {
	case "s3":
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(cfg.AWSRegion),
			Credentials: credentials.NewStaticCredentials(
				cfg.AWSAccessKeyID,
				cfg.AWSSecretKey,
				"",
			),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %w", err)
		}
		s.s3Client = s3.New(sess)
	case "cloudinary":
		cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
		}
		s.cloudinary = cld
	case "", "local":
		s.provider = "local"
		if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload dir: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_PROVIDER %q", cfg.Provider)
	}

	return s, nil
}

func (s *StorageService) maxImageSize() int64 {
	mb := s.config.MaxImageSizeMB
	if mb <= 0 {
		mb = 5
	}
	return int64(mb) << 20
}

// UploadProductImage validates an image upload and stores it with the
// configured provider.
func (s *StorageService) UploadProductImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	if header.Size > s.maxImageSize() {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, header.Size, s.maxImageSize())
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !contains(allowedImageTypes, ext) {
		return nil, fmt.Errorf("%w: %s", ErrFileType, ext)
	}

	data, err := io.ReadAll(io.LimitReader(file, s.maxImageSize()+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(data)) > s.maxImageSize() {
		return nil, ErrFileTooLarge
	}
	if !IsImage(data) {
		return nil, ErrInvalidImage
	}

	key := s.generateFileName(ext, productImageFolder)
	contentType := http.DetectContentType(data)

	switch s.provider {
	case "s3":
		return s.uploadToS3(ctx, data, key, contentType)
	case "cloudinary":
		return s.uploadToCloudinary(ctx, data, key, contentType)
	}
	return s.uploadToLocal(data, key, contentType)
}

func (s *StorageService) uploadToS3(ctx context.Context, data []byte, key, contentType string) (*UploadResult, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToCloudinary(ctx context.Context, data []byte, key, contentType string) (*UploadResult, error) {
	folder := s.config.CloudinaryDir
	if folder == "" {
		folder = "otakughor/" + productImageFolder
	}
	publicID := strings.TrimSuffix(filepath.Base(key), filepath.Ext(key))

	result, err := s.cloudinary.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:   folder,
		PublicID: publicID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}

	return &UploadResult{
		URL:      result.SecureURL,
		Key:      result.PublicID,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(data []byte, key, contentType string) (*UploadResult, error) {
	path := filepath.Join(s.config.UploadDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	logrus.WithField("path", path).Debug("Stored upload locally")

	return &UploadResult{
		URL:      fmt.Sprintf("%s/uploads/%s", strings.TrimRight(s.config.PublicBaseURL, "/"), key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) generateFileName(ext, folder string) string {
	timestamp := s.now().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, uuid.New().String()[:8], ext)

	if folder != "" {
		return fmt.Sprintf("%s/%s", folder, filename)
	}
	return filename
}

func (s *StorageService) getS3URL(key string) string {
	if s.config.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.CloudFrontURL, "/"), key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.S3Bucket, s.config.AWSRegion, key)
}

// IsImage checks the leading bytes for a JPEG, PNG, GIF or WebP signature.
func IsImage(buffer []byte) bool {
	// JPEG
	if len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF {
		return true
	}

	// PNG
	if len(buffer) >= 8 && bytes.Equal(buffer[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}) {
		return true
	}

	// GIF
	if len(buffer) >= 6 && (string(buffer[:6]) == "GIF87a" || string(buffer[:6]) == "GIF89a") {
		return true
	}

	// WebP
	if len(buffer) >= 12 && string(buffer[:4]) == "RIFF" && string(buffer[8:12]) == "WEBP" {
		return true
	}

	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
