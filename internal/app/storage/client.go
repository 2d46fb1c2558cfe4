package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"buzzportal/internal/pkg/logx"
	"buzzportal/internal/pkg/randx"
)

// coverKeyPrefix groups covers in the bucket.
const coverKeyPrefix = "covers"

// s3Client implements CoverStore against S3-compatible storage.
type s3Client struct {
	cfg      ServiceConfig
	s3Client *s3.Client
	uploader *manager.Uploader
	logger   zerolog.Logger
}

// newS3Client initializes the S3 client using a custom configuration that supports S3-compatible endpoints.
func newS3Client(cfg ServiceConfig) (*s3Client, error) {
	logger := logx.Component("storage")

	sdkCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load AWS SDK config.")
		return nil, errors.New("failed to initialize S3 client configuration")
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &s3Client{
		cfg:      cfg,
		s3Client: client,
		uploader: manager.NewUploader(client),
		logger:   logger,
	}, nil
}

// Upload streams a cover to the bucket under "covers/<uuid><ext>".
func (c *s3Client) Upload(ctx context.Context, cover Cover, body io.Reader) (Object, error) {
	key := randx.ObjectKey(coverKeyPrefix, cover.Ext())

	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.cfg.S3BucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(cover.MimeType),
	})
	if err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("Cover upload failed.")
		return Object{}, fmt.Errorf("upload cover %s: %w", key, err)
	}

	c.logger.Info().Str("key", key).Int64("size", cover.Size).Msg("Cover uploaded.")
	return Object{Key: key, URL: PublicURL(c.cfg.S3PublicURL, key)}, nil
}

// Delete removes the cover specified by the given key from the bucket.
func (c *s3Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.cfg.S3BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("Cover delete failed.")
		return fmt.Errorf("delete cover %s: %w", key, err)
	}
	return nil
}

// PublicURL joins the public base URL and an object key.
func PublicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
