package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const S3Prefix = "s3://"

// PutObjectAPI is the slice of the S3 client the backend uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 stores objects under s3://bucket/key locations. Objects are buffered in
// memory and uploaded when the write callback returns.
type S3 struct {
	client PutObjectAPI
}

// NewS3 builds a client from the default AWS credential chain
// (environment, shared config, instance role).
func NewS3(ctx context.Context) (*S3, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewS3WithClient(s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})), nil
}

func NewS3WithClient(client PutObjectAPI) *S3 {
	return &S3{client: client}
}

func (s *S3) Join(elem ...string) string {
	if len(elem) == 0 {
		return ""
	}
	root := strings.TrimPrefix(elem[0], S3Prefix)
	return S3Prefix + path.Join(append([]string{root}, elem[1:]...)...)
}

// MakeDirs is a no-op: S3 has no directories.
func (s *S3) MakeDirs(context.Context, string) error {
	return nil
}

func (s *S3) WriteFile(ctx context.Context, location string, write func(w io.Writer) error) error {
	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(buf.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", location, err)
	}
	return nil
}

// ParseS3Location splits s3://bucket/key.
func ParseS3Location(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, S3Prefix)
	if !ok {
		return "", "", fmt.Errorf("not an s3 location: %q", location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 location needs a bucket and a key: %q", location)
	}
	return bucket, key, nil
}
