package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures access to an S3-compatible bucket (AWS or MinIO).
type S3Options struct {
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

type objectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3Client = func(cfg aws.Config, optFns ...func(*s3.Options)) objectGetter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// Load resolves a catalog source:
//
//	"" or "embedded"   the catalog compiled into the binary
//	"s3://bucket/key"  an object in an S3-compatible store
//	anything else      a local JSON file
func Load(ctx context.Context, source string, opts S3Options) (*Catalog, error) {
	switch {
	case source == "" || source == "embedded":
		return Default(), nil
	case strings.HasPrefix(source, "s3://"):
		bucket, key, err := splitS3URL(source)
		if err != nil {
			return nil, err
		}
		return loadS3(ctx, bucket, key, opts)
	default:
		return loadFile(source)
	}
}

func loadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func splitS3URL(u string) (string, string, error) {
	rest := strings.TrimPrefix(u, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 catalog location %q, want s3://bucket/key", u)
	}
	return bucket, key, nil
}

func loadS3(ctx context.Context, bucket, key string, opts S3Options) (*Catalog, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3Client(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			// MinIO serves buckets by path, not by virtual host.
			o.UsePathStyle = true
		}
	})

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get catalog s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	return Parse(io.LimitReader(out.Body, maxCatalogSize))
}

// maxCatalogSize caps how much of an S3 object is read.
const maxCatalogSize = 8 << 20
