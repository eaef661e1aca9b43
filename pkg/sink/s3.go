package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultContentType is the content type of uploaded documents.
const DefaultContentType = "text/html; charset=utf-8"

// PutObjectAPI is the subset of *s3.Client used by S3Object.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ErrTooLarge is returned when a document exceeds the configured size limit.
var ErrTooLarge = errors.New("sink: object exceeds size limit")

// S3Object buffers a rendered document and uploads it on Close.
//
// Example usage:
//
//	obj := sink.NewS3Object(ctx, s3.New(opts), "pages", "html/", "index.html")
//	b := stream.New(obj)
//	// ... drive b ...
//	if err := obj.Close(); err != nil {
//	    return err
//	}
type S3Object struct {
	ctx         context.Context
	client      PutObjectAPI
	bucket      string
	key         string
	contentType string
	maxSize     int64
	now         func() time.Time

	buf    bytes.Buffer
	closed bool
}

// NewS3Object creates a sink that uploads to bucket under prefix+name.
func NewS3Object(ctx context.Context, client PutObjectAPI, bucket, prefix, name string) *S3Object {
	return &S3Object{
		ctx:         ctx,
		client:      client,
		bucket:      bucket,
		key:         prefix + name,
		contentType: DefaultContentType,
		now:         time.Now,
	}
}

// WithContentType overrides the uploaded content type.
func (o *S3Object) WithContentType(ct string) *S3Object {
	o.contentType = ct
	return o
}

// WithMaxSize limits the buffered document size (0 = no limit).
func (o *S3Object) WithMaxSize(n int64) *S3Object {
	o.maxSize = n
	return o
}

// Key returns the object key.
func (o *S3Object) Key() string {
	return o.key
}

// Len returns the number of bytes buffered so far.
func (o *S3Object) Len() int {
	return o.buf.Len()
}

// Write implements io.Writer.
func (o *S3Object) Write(p []byte) (int, error) {
	if o.closed {
		return 0, ErrClosed
	}
	if o.maxSize > 0 && int64(o.buf.Len()+len(p)) > o.maxSize {
		return 0, ErrTooLarge
	}
	return o.buf.Write(p)
}

// Close uploads the buffered document. Calling Close again is a no-op.
func (o *S3Object) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	_, err := o.client.PutObject(o.ctx, &s3.PutObjectInput{
		Bucket:        aws.String(o.bucket),
		Key:           aws.String(o.key),
		Body:          bytes.NewReader(o.buf.Bytes()),
		ContentType:   aws.String(o.contentType),
		ContentLength: aws.Int64(int64(o.buf.Len())),
		Metadata: map[string]string{
			"render-time": o.now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("sink: put s3://%s/%s: %w", o.bucket, o.key, err)
	}
	return nil
}
