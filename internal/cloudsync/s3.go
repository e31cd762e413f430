package cloudsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/bsobat/inventra/internal/common"
)

// S3Config holds the connection settings for an S3-compatible backend
// (AWS, MinIO, etc.).
type S3Config struct {
	Region    string
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	// Prefix is prepended to every object name, so several stores can share
	// one bucket.
	Prefix string
}

// S3Provider implements CloudStorageProvider over an S3 bucket.
type S3Provider struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Provider builds a provider from cfg. Static credentials are used when
// given, otherwise the SDK's default chain applies.
func NewS3Provider(ctx context.Context, cfg S3Config) (*S3Provider, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Provider{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (p *S3Provider) key(remoteName string) string {
	if p.prefix == "" {
		return remoteName
	}
	return path.Join(p.prefix, remoteName)
}

func (p *S3Provider) UploadFile(ctx context.Context, localPath, remoteName string) error {
	in, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer in.Close()

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.key(remoteName)),
		Body:   in,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", remoteName, err)
	}
	return nil
}

func (p *S3Provider) DownloadFile(ctx context.Context, remoteName, localPath string) error {
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.key(remoteName)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return fmt.Errorf("%w: %s", common.ErrorRemoteMissing, remoteName)
		}
		return fmt.Errorf("failed to download %s: %w", remoteName, err)
	}
	defer out.Body.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	if _, err := io.Copy(f, out.Body); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", localPath, err)
	}
	return f.Close()
}

func (p *S3Provider) GetFileMetadata(ctx context.Context, remoteName string) (*RemoteFileInfo, error) {
	head, err := p.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.key(remoteName)),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", common.ErrorRemoteMissing, remoteName)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", remoteName, err)
	}

	info := &RemoteFileInfo{Name: remoteName}
	if head.ContentLength != nil {
		info.Size = *head.ContentLength
	}
	if head.LastModified != nil {
		info.LastModified = *head.LastModified
	}
	return info, nil
}

func (p *S3Provider) FileExists(ctx context.Context, remoteName string) (bool, error) {
	_, err := p.GetFileMetadata(ctx, remoteName)
	if errors.Is(err, common.ErrorRemoteMissing) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
