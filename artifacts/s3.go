// Package artifacts stages model files from an S3-compatible bucket to the
// local filesystem at startup. Deployments that ship models in the image can
// skip this entirely by leaving the bucket unset.
package artifacts

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// Opts configures the artifact store. Endpoint is optional and used for
// MinIO-style S3-compatible servers.
type Opts struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
}

type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store downloads model artifacts from a bucket.
type Store struct {
	client s3API
	bucket string
	prefix string
}

// New builds an artifact store from Opts.
func New(ctx context.Context, opts Opts) (*Store, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{client: client, bucket: opts.Bucket, prefix: opts.Prefix}, nil
}

// Fetch downloads the object at prefix+key to destPath unless the file is
// already present locally. Partial downloads never land on destPath: the
// object is written to a temp file first and renamed into place.
func (s *Store) Fetch(ctx context.Context, key, destPath string) error {
	if _, err := os.Stat(destPath); err == nil {
		log.Debug().Str("path", destPath).Msg("artifact already present, skipping download")
		return nil
	}

	fullKey := path.Join(s.prefix, key)
	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fullKey),
	})
	if err != nil {
		return fmt.Errorf("get s3://%s/%s: %w", s.bucket, fullKey, err)
	}
	defer obj.Body.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".artifact-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, obj.Body)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("download s3://%s/%s: %w", s.bucket, fullKey, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("flush artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), destPath); err != nil {
		return fmt.Errorf("move artifact into place: %w", err)
	}

	log.Info().
		Str("bucket", s.bucket).
		Str("key", fullKey).
		Str("path", destPath).
		Int64("bytes", n).
		Msg("downloaded model artifact")
	return nil
}
