// Package s3src reads team lists stored as S3 objects (AWS S3 or any
// S3-compatible store such as MinIO). Locations use the s3://bucket/key form.
package s3src

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-faster/errors"
)

// Config holds client construction parameters. Empty credentials fall back
// to the default AWS credential chain.
type Config struct {
	Region          string
	Endpoint        string // optional, for S3-compatible stores
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string

	// Transport replaces the HTTP transport of the SDK client when set.
	Transport http.RoundTripper
}

// GetObjectAPI is the part of *s3.Client an Object needs.
type GetObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewClient builds an S3 client from cfg. The region defaults to us-east-1.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "s3: load aws config")
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.Transport != nil {
			o.HTTPClient = &http.Client{Transport: cfg.Transport}
		}
	}), nil
}

// ParseURL splits s3://bucket/key into its parts.
func ParseURL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", errors.Wrapf(err, "s3: parse %q", raw)
	}
	if u.Scheme != "s3" {
		return "", "", errors.Errorf("s3: %q is not an s3:// URL", raw)
	}
	bucket, key = u.Host, strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", errors.Errorf("s3: %q needs both bucket and key", raw)
	}
	return bucket, key, nil
}

// Object is a datasource for a single S3 object.
type Object struct {
	api    GetObjectAPI
	bucket string
	key    string
}

// NewObject returns the Object named by an s3://bucket/key URL.
func NewObject(api GetObjectAPI, rawURL string) (*Object, error) {
	bucket, key, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &Object{api: api, bucket: bucket, key: key}, nil
}

func (o *Object) Bucket() string { return o.bucket }
func (o *Object) Key() string    { return o.key }

// Open fetches the object and returns its body.
func (o *Object) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := o.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "s3: get s3://%s/%s", o.bucket, o.key)
	}
	return out.Body, nil
}
