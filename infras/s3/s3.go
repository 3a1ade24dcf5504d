package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"tourdesk/config"
	"tourdesk/infras/otel"
	"tourdesk/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const s3Region = "auto"

const (
	otelAttrFileName = "file_name"
	otelAttrBucket   = "bucket"
	otelAttrSize     = "size"
)

type S3 interface {
	UploadFile(ctx context.Context, bucketName, directory string, file multipart.File, fileHeader *multipart.FileHeader, fileName string) (url string, err error)
	UploadFileBytes(ctx context.Context, bucketName, directory, fileName, contentType string, fileData []byte) (url string, err error)
	DeleteFile(ctx context.Context, bucketName, directory, objectName string) error
	GetObjectNameFromURL(bucketName, url string) (objectName string)
}

type s3Impl struct {
	Client *s3.Client
	Config *config.Config
	otel   otel.Otel
}

// bucket falls back to the configured bucket when name is empty.
func (svc *s3Impl) bucket(name string) string {
	if name == constant.Empty {
		return svc.Config.External.S3.BucketName
	}

	return name
}

func (svc *s3Impl) publicURL(objectKey string) string {
	return strings.TrimSuffix(svc.Config.External.S3.PublicDomain, "/") + "/" + objectKey
}

// UploadFile streams a multipart upload, typed by the part's Content-Type.
func (svc *s3Impl) UploadFile(ctx context.Context, bucketName, directory string, file multipart.File, fileHeader *multipart.FileHeader, fileName string) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadFile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	data, err := io.ReadAll(file)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to read file: %w", err)
	}

	return svc.UploadFileBytes(ctx, bucketName, directory, fileName, fileHeader.Header.Get(constant.RequestHeaderContentType), data)
}

// UploadFileBytes stores fileData under directory/fileName and returns its
// public URL.
func (svc *s3Impl) UploadFileBytes(ctx context.Context, bucketName, directory, fileName, contentType string, fileData []byte) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadFileBytes")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bucketName = svc.bucket(bucketName)
	objectKey := path.Join(directory, fileName)

	scope.SetAttributes(map[string]any{
		otelAttrFileName: objectKey,
		otelAttrBucket:   bucketName,
		otelAttrSize:     len(fileData),
	})

	_, err = svc.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucketName),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(fileData),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileData))),
	})
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to upload file to S3")

		return constant.Empty, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return svc.publicURL(objectKey), nil
}

func (svc *s3Impl) DeleteFile(ctx context.Context, bucketName, directory, objectName string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".DeleteFile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bucketName = svc.bucket(bucketName)
	objectKey := path.Join(directory, objectName)

	scope.SetAttributes(map[string]any{
		otelAttrFileName: objectKey,
		otelAttrBucket:   bucketName,
	})

	_, err = svc.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to delete file from S3")

		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

// GetObjectNameFromURL returns the object key of a URL produced by upload,
// or an empty string when the URL does not belong to the bucket.
func (svc *s3Impl) GetObjectNameFromURL(bucketName, url string) (objectName string) {
	publicDomain := strings.TrimSuffix(svc.Config.External.S3.PublicDomain, "/")
	if objectName, found := strings.CutPrefix(url, publicDomain+"/"); found && publicDomain != constant.Empty {
		return objectName
	}

	apiEndpoint := strings.TrimSuffix(svc.Config.External.S3.APIEndpoint, "/")
	if objectName, found := strings.CutPrefix(url, fmt.Sprintf("%s/%s/", apiEndpoint, svc.bucket(bucketName))); found {
		return objectName
	}

	return constant.Empty
}

// New builds a path-style client for an S3 compatible store (R2, MinIO)
// using static credentials from config.
func New(config *config.Config, otel otel.Otel) S3 {
	s3Config := config.External.S3

	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s3Config.AccessKeyID, s3Config.SecretAccessKey, "")),
	)
	if err != nil {
		log.Err(err).Msg("Error loading AWS configuration")
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s3Config.APIEndpoint)
		o.UsePathStyle = true
		o.Region = s3Region
	})

	return &s3Impl{
		Client: s3Client,
		Config: config,
		otel:   otel,
	}
}
