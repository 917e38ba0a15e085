package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"tally/config"
	"tally/infras/otel"
)

const (
	otelScopeName    = "s3"
	otelAttrKey      = "object_key"
	otelAttrBucket   = "bucket"
	contentTypeJSON  = "application/json"
)

// S3 is the object store used to archive automation run reports.
type S3 interface {
	PutObject(ctx context.Context, bucket, directory, objectName, contentType string, data []byte) error
}

type s3Impl struct {
	Client *s3.Client
	Config *config.Config
	otel   otel.Otel
}

func (svc *s3Impl) PutObject(ctx context.Context, bucket, directory, objectName, contentType string, data []byte) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, otelScopeName, otelScopeName+".PutObject")
	defer scope.End()
	defer scope.TraceIfError(err)

	if bucket == "" {
		bucket = svc.Config.Archive.S3.Bucket
	}

	if contentType == "" {
		contentType = contentTypeJSON
	}

	objectKey := path.Join(directory, objectName)

	scope.SetAttributes(map[string]any{
		otelAttrKey:    objectKey,
		otelAttrBucket: bucket,
	})

	reader := bytes.NewReader(data)

	_, err = svc.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(objectKey),
		Body:          reader,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(reader.Size()),
	})
	if err != nil {
		return fmt.Errorf("failed to put object to S3: %w", err)
	}

	return nil
}

func New(config *config.Config, otel otel.Otel) S3 {
	staticProvider := credentials.NewStaticCredentialsProvider(
		config.Archive.S3.AccessKey,
		config.Archive.S3.SecretKey,
		"",
	)

	cfg, err := awsConfig.LoadDefaultConfig(
		context.TODO(),
		awsConfig.WithCredentialsProvider(staticProvider),
	)
	if err != nil {
		log.Err(err).Msg("Error loading AWS configuration")
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if config.Archive.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Archive.S3.Endpoint)
			o.UsePathStyle = true
		}

		o.Region = config.Archive.S3.Region
	})

	return &s3Impl{
		Client: s3Client,
		Config: config,
		otel:   otel,
	}
}
