package media

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/clipstream/accounts/internal/filex"
	"github.com/clipstream/accounts/internal/logging"
	sc "github.com/clipstream/accounts/internal/server/config"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

// ErrNoFile is returned when Upload is called without a staged file.
var ErrNoFile = errors.New("no file to upload")

// S3Uploader stores media on an S3-compatible backend (MinIO in development)
// and serves it via public object URLs.
type S3Uploader struct {
	config *sc.Config
	logger logging.Logger
}

// NewS3Uploader constructs an uploader from service configuration.
func NewS3Uploader(config *sc.Config, logger logging.Logger) *S3Uploader {
	return &S3Uploader{
		config: config,
		logger: logger.With("module", "media"),
	}
}

func storageKey(ext string) string {
	d := time.Now()
	return fmt.Sprintf("media/%d/%d/%d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

func (u *S3Uploader) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(u.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.config.S3RootUser,     // MINIO_ROOT_USER
			u.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(u.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Upload pushes the staged file at localPath to the bucket and returns its
// public URL. The staged file is removed whether the push succeeds or not.
func (u *S3Uploader) Upload(ctx context.Context, localPath string) (string, error) {
	if localPath == "" {
		return "", ErrNoFile
	}

	defer func() {
		if err := filex.RemoveIfExists(localPath); err != nil {
			u.logger.Warn(ctx, "failed to remove staged file", "path", localPath, "error", err.Error())
		}
	}()

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open staged file: %w", err)
	}
	defer f.Close()

	client, err := u.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 client: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	bucket := u.config.S3Bucket
	key := storageKey(filepath.Ext(localPath))

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        f,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return u.objectURL(key), nil
}

func (u *S3Uploader) objectURL(key string) string {
	return strings.TrimSuffix(u.config.S3BaseEndpoint, "/") + "/" + u.config.S3Bucket + "/" + key
}
