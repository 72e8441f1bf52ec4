package modelstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/models"
)

// S3Store stores model artifacts in an S3 bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	logger *logrus.Logger
}

// NewS3Store creates a store backed by the named bucket.
func NewS3Store(ctx context.Context, bucket, region string, logger *logrus.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
		logger: logger,
	}, nil
}

// Save writes an artifact to the bucket
func (s *S3Store) Save(ctx context.Context, filename string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(filename),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to upload model %s: %w", filename, err)
	}

	s.logger.WithFields(logrus.Fields{
		"bucket":   s.bucket,
		"filename": filename,
		"bytes":    len(data),
	}).Info("Model artifact uploaded")
	return nil
}

// Load reads an artifact from the bucket
func (s *S3Store) Load(ctx context.Context, filename string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(filename),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: %s", models.ErrModelNotFound, filename)
		}
		return nil, fmt.Errorf("failed to download model %s: %w", filename, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", filename, err)
	}
	return data, nil
}
