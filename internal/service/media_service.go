package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/basetishop/shop_api/internal/config"
	"github.com/basetishop/shop_api/internal/utils"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds an S3 client for cfg. A custom endpoint (MinIO, R2)
// switches to path-style addressing.
func NewS3Client(ctx context.Context, cfg *config.MediaConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// MediaService stores product images in S3-compatible storage.
type MediaService struct {
	client   objectPutter
	bucket   string
	region   string
	endpoint string
	baseURL  string
	maxBytes int64
}

// NewMediaService creates a new MediaService. Without a bucket every upload
// fails with ErrStorageDisabled.
func NewMediaService(client objectPutter, cfg *config.MediaConfig) *MediaService {
	return &MediaService{
		client:   client,
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		baseURL:  strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		maxBytes: cfg.MaxUploadBytes,
	}
}

// Enabled reports whether a bucket is configured.
func (s *MediaService) Enabled() bool {
	return s.bucket != "" && s.client != nil
}

// MaxBytes is the largest accepted upload.
func (s *MediaService) MaxBytes() int64 {
	return s.maxBytes
}

// UploadProductImage stores an image under the tenant's prefix and returns its public URL.
func (s *MediaService) UploadProductImage(ctx context.Context, tenantID string, data []byte) (string, error) {
	if !s.Enabled() {
		return "", utils.ErrStorageDisabled
	}
	if len(data) == 0 || (s.maxBytes > 0 && int64(len(data)) > s.maxBytes) {
		return "", utils.ErrInvalidInput
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", utils.ErrUnsupportedMedia
	}

	key := path.Join("products", tenantID, uuid.New().String()+ext)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Str("key", key).Msg("product image upload failed")
		return "", fmt.Errorf("upload product image: %w", err)
	}

	log.Info().Str("tenant_id", tenantID).Str("key", key).Int("size", len(data)).Msg("product image uploaded")
	return s.ObjectURL(key), nil
}

// ObjectURL returns the public URL of an object key.
func (s *MediaService) ObjectURL(key string) string {
	switch {
	case s.baseURL != "":
		return s.baseURL + "/" + key
	case s.endpoint != "":
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	}
}
