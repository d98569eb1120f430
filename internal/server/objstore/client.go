// Package objstore wraps an S3-compatible object store behind the small set
// of operations the upload pipeline needs: put, presign, list and delete
// against a single configured bucket.
package objstore

import (
	"bytes"
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/knowhyco/knowyfile/internal/server/config"
)

// Indirections over AWS SDK constructors so tests can stub them out.
var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
	newS3PresignClient    = func(c *s3.Client) *s3.PresignClient { return s3.NewPresignClient(c) }
)

// ObjectInfo describes one stored object as returned by List.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Client is an object store client bound to a single bucket.
type Client struct {
	s3      *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// New builds a Client from the server configuration. Static credentials and
// a custom base endpoint keep it working against MinIO and other
// S3-compatible backends as well as AWS itself.
func New(ctx context.Context, cfg *sc.Config) (*Client, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, newStoreError("new", "", classify(err))
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &Client{
		s3:      client,
		presign: newS3PresignClient(client),
		bucket:  cfg.S3Bucket,
	}, nil
}

// Put durably stores body under key. An existing object under the same key
// is overwritten silently; key generation is expected to make that
// impossible in practice.
func (c *Client) Put(ctx context.Context, key string, body []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := c.s3.PutObject(ctx, input); err != nil {
		return newStoreError("put", key, classify(err))
	}
	return nil
}

// PresignGet returns a time-limited retrieval URL for key. The link is
// re-derivable at any time from a valid key and is never cached here.
func (c *Client) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", newStoreError("presignGet", key, classify(err))
	}
	return req.URL, nil
}

// PresignPut returns a time-limited URL that allows uploading directly to
// key from a client. The object does not have to exist yet.
func (c *Client) PresignPut(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := c.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", newStoreError("presignPut", key, classify(err))
	}
	return req.URL, nil
}

// List enumerates all objects under prefix, following pagination until the
// store reports no further pages. An empty result is an empty slice, not an
// error. Order is whatever the store returns.
func (c *Client) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	var continuationToken *string

	for {
		input := &s3.ListObjectsV2Input{
			Bucket: aws.String(c.bucket),
			Prefix: aws.String(prefix),
		}
		if continuationToken != nil {
			input.ContinuationToken = continuationToken
		}

		result, err := c.s3.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, newStoreError("list", prefix, classify(err))
		}

		for _, obj := range result.Contents {
			objects = append(objects, ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}

		if !aws.ToBool(result.IsTruncated) {
			break
		}
		continuationToken = result.NextContinuationToken
	}

	if objects == nil {
		objects = []ObjectInfo{}
	}
	return objects, nil
}

// Delete removes the object stored under key. Not used on the upload
// critical path; kept for retention tooling.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return newStoreError("delete", key, classify(err))
	}
	return nil
}
