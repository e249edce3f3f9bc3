// Package publish copies generated report files to S3.
package publish

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const DefaultRegion = "ap-south-1"

// Config selects the destination bucket. Publishing is off when Bucket is empty.
type Config struct {
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

func (c Config) Enabled() bool {
	return c.Bucket != ""
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads files to s3://{bucket}/{prefix}/{file name}.
type S3Publisher struct {
	client putObjectAPI
	bucket string
	prefix string
}

// LoadConfig resolves AWS credentials from the default chain, optionally
// narrowed to a shared config profile.
func LoadConfig(ctx context.Context, cfg Config) (awssdk.Config, error) {
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}
	opts := []func(*config.LoadOptions) error{config.WithDefaultRegion(region)}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return awsCfg, nil
}

func NewS3Publisher(awsCfg awssdk.Config, cfg Config) *S3Publisher {
	return newS3Publisher(s3.NewFromConfig(awsCfg), cfg)
}

func newS3Publisher(client putObjectAPI, cfg Config) *S3Publisher {
	return &S3Publisher{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}
}

// Key is the object key a local file is published under.
func (p *S3Publisher) Key(file string) string {
	return path.Join(p.prefix, filepath.Base(file))
}

// Publish uploads file and returns its s3:// location.
func (p *S3Publisher) Publish(ctx context.Context, file string) (string, error) {
	logger := zerolog.Ctx(ctx)

	f, err := os.Open(file)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", file, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn().Err(err).Str("file", file).Msg("failed to close published file")
		}
	}()

	key := p.Key(file)
	input := &s3.PutObjectInput{
		Bucket: awssdk.String(p.bucket),
		Key:    awssdk.String(key),
		Body:   f,
	}
	if ct := mime.TypeByExtension(filepath.Ext(file)); ct != "" {
		input.ContentType = awssdk.String(ct)
	}

	if _, err := p.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", key, p.bucket, err)
	}
	return fmt.Sprintf("s3://%s/%s", p.bucket, key), nil
}
