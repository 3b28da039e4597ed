package contentstore

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the bucket and credentials for S3Store. Endpoint is optional
// and selects a non-AWS, S3-compatible service such as MinIO.
type S3Config struct {
	Bucket     string `json:"bucket"`
	Region     string `json:"region"`
	Endpoint   string `json:"endpoint"`
	AccessKey  string `json:"access_key"`
	SecretKey  string `json:"secret_key"`
	PublicBase string `json:"public_base"`
}

// putObjectAPI is the subset of *s3.Client used by S3Store.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store stores content as objects keyed by their CID.
type S3Store struct {
	api        putObjectAPI
	bucket     string
	publicBase string
}

// Compile-time interface check.
var _ Store = (*S3Store)(nil)

// Package-level seams over the SDK constructors.
var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
)

// NewS3Store builds an S3 client from cfg.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: s3 bucket is required", ErrNotConfigured)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: s3 region is required", ErrNotConfigured)
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("contentstore: load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, cfg), nil
}

func newS3Store(api putObjectAPI, cfg S3Config) *S3Store {
	base := cfg.PublicBase
	if base == "" {
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.Region)
		}
		base = strings.TrimSuffix(endpoint, "/") + "/" + cfg.Bucket
	}
	return &S3Store{
		api:        api,
		bucket:     cfg.Bucket,
		publicBase: strings.TrimSuffix(base, "/"),
	}
}

// Put uploads data under its CID and returns the CID.
func (s *S3Store) Put(ctx context.Context, name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyContent
	}
	cid := ComputeCID(data)

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(cid),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType(name, data)),
	}
	if name != "" {
		input.Metadata = map[string]string{"name": name}
	}
	if _, err := s.api.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("%w: put object %s: %w", ErrStoreFailed, cid, err)
	}
	return cid, nil
}

// Locate returns <public-base>/<cid>.
func (s *S3Store) Locate(cid string) string {
	return s.publicBase + "/" + cid
}

// contentType picks a MIME type from the file extension, falling back to
// sniffing the first bytes.
func contentType(name string, data []byte) string {
	if ext := filepath.Ext(name); ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
	}
	return http.DetectContentType(data)
}
