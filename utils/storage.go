package utils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appConfig "github.com/styleit-app/styleit-backend/config"
)

var (
	S3Client      *s3.Client
	PresignClient *s3.PresignClient
)

// InitS3 initializes the S3 client.
func InitS3() error {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(appConfig.AWSRegion),
	)
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}

	S3Client = s3.NewFromConfig(cfg)
	PresignClient = s3.NewPresignClient(S3Client)
	Log.Info("S3 client initialized", zap.String("bucket", appConfig.AWSBucketName))
	return nil
}

// UploadFileToS3 uploads a file to S3 and returns the object key.
func UploadFileToS3(ctx context.Context, file io.Reader, objectKey string, contentType string) (string, error) {
	if S3Client == nil {
		if err := InitS3(); err != nil {
			return "", err
		}
	}

	_, err := S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(appConfig.AWSBucketName),
		Key:         aws.String(objectKey),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return objectKey, nil
}

// GetPresignedURL generates a short-lived download URL for an object key.
func GetPresignedURL(ctx context.Context, objectKey string) (string, error) {
	if PresignClient == nil {
		if err := InitS3(); err != nil {
			return "", err
		}
	}

	request, err := PresignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(appConfig.AWSBucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(1*time.Hour))
	if err != nil {
		return "", fmt.Errorf("failed to sign request: %w", err)
	}
	return request.URL, nil
}

// PresignImageURL resolves a stored image reference to something a browser
// can load. Absolute URLs and local upload paths pass through untouched;
// bare S3 keys get presigned, falling back to the key itself on failure.
func PresignImageURL(ctx context.Context, image string) string {
	if image == "" || strings.HasPrefix(image, "http") || strings.HasPrefix(image, "/uploads/") {
		return image
	}
	url, err := GetPresignedURL(ctx, image)
	if err != nil {
		Log.Warn("presigning image", zap.String("key", image), zap.Error(err))
		return image
	}
	return url
}

// SaveUpload stores an uploaded image and returns the reference to persist on
// the item. With a bucket configured it returns an S3 object key; otherwise
// the file lands in the local upload directory and the returned path is
// served statically under /uploads.
func SaveUpload(ctx context.Context, file io.Reader, originalName, contentType string) (string, error) {
	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.NewString() + ext

	if appConfig.AWSBucketName != "" {
		return UploadFileToS3(ctx, file, "uploads/"+name, contentType)
	}

	if err := os.MkdirAll(appConfig.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload dir: %w", err)
	}
	dst, err := os.Create(filepath.Join(appConfig.UploadDir, name))
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return "/uploads/" + name, nil
}
