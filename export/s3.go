package export

import (
	"bytes"
	"context"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Sink publishes result files as S3 objects. An object only appears once
// its full body has been uploaded, so S3 gives the same publish-on-success
// behavior LocalSink provides via rename.
type S3Sink struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Sink creates an S3 sink writing to the given bucket. prefix is
// prepended to all object keys (e.g. "runs/tower-k20/").
func NewS3Sink(client *s3.Client, bucket, prefix string) *S3Sink {
	return &S3Sink{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// NewS3SinkFromDefaultConfig creates an S3 sink using the ambient AWS
// configuration (environment, shared config files, instance role).
func NewS3SinkFromDefaultConfig(ctx context.Context, bucket, prefix string) (*S3Sink, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewS3Sink(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// Create implements Sink. The object body is buffered in memory and uploaded
// on Close; coreset results are small (hundreds of entries), so buffering is
// cheap.
func (s *S3Sink) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	return &s3Object{
		ctx:    ctx,
		client: s.client,
		bucket: s.bucket,
		key:    path.Join(s.prefix, name),
	}, nil
}

type s3Object struct {
	ctx    context.Context
	client *s3.Client
	bucket string
	key    string
	buf    bytes.Buffer
	closed bool
}

func (o *s3Object) Write(p []byte) (int, error) {
	return o.buf.Write(p)
}

// Close uploads the buffered body.
func (o *s3Object) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	_, err := o.client.PutObject(o.ctx, &s3.PutObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
		Body:   bytes.NewReader(o.buf.Bytes()),
	})
	return err
}

// Abort discards the buffered body without uploading.
func (o *s3Object) Abort() error {
	o.closed = true
	o.buf.Reset()
	return nil
}
