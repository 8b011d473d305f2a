package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"ossvat/internal/config"
	"ossvat/internal/port"
)

type reportArchive struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
}

// NewReportArchive creates an S3-backed ReportArchive writing to cfg.Bucket.
// A custom endpoint switches to path-style addressing for MinIO and LocalStack.
func NewReportArchive(ctx context.Context, cfg *config.S3Config) (port.ReportArchive, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3.NewReportArchive: bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return &reportArchive{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
	}, nil
}

func (a *reportArchive) Put(ctx context.Context, key string, body io.Reader, contentType string) (*port.ArchivedReport, error) {
	result, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 put %s: %w", key, err)
	}

	return &port.ArchivedReport{
		Key:      key,
		Location: result.Location,
		ETag:     aws.ToString(result.ETag),
	}, nil
}

func (a *reportArchive) Remove(ctx context.Context, key string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 remove %s: %w", key, err)
	}
	return nil
}
