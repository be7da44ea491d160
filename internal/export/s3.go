package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitnesstracking/internal/telemetry/tracing"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Params struct {
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
	AccessKey string
	SecretKey string
}

// S3Exporter uploads exported feature sets to a single bucket.
type S3Exporter struct {
	client putObjectAPI
	bucket string
}

func NewS3Exporter(ctx context.Context, params S3Params) (*S3Exporter, error) {
	if params.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket not set")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(params.Region),
	}
	if params.AccessKey != "" && params.SecretKey != "" {
		// static credentials for minio or explicit keys, default chain otherwise
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(params.AccessKey, params.SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if params.Endpoint != "" {
			o.BaseEndpoint = aws.String(params.Endpoint)
		}
		o.UsePathStyle = params.PathStyle
	})

	return &S3Exporter{
		client: client,
		bucket: params.Bucket,
	}, nil
}

func (e *S3Exporter) Bucket() string {
	return e.bucket
}

func (e *S3Exporter) PutObject(ctx context.Context, key string, body io.Reader, contentType string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "export.s3.put_object")
	span.SetAttributes(
		attribute.String("s3.bucket", e.bucket),
		attribute.String("s3.key", key),
	)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read export body: %w", err)
	}
	span.SetAttributes(attribute.Int("content.size", len(data)))

	hash := sha256.Sum256(data)
	if _, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"checksum-sha256": hex.EncodeToString(hash[:]),
		},
	}); err != nil {
		return fmt.Errorf("upload %s to s3: %w", key, err)
	}
	return nil
}
