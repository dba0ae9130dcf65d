// Package s3 writes the per-cycle status document to an S3 object so
// external consumers can observe service health without cluster access.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/skillcoder/kuberoute/internal/logic/reconciler"
)

type reporter struct {
	logger *slog.Logger
	svc    s3iface
	bucket string
	key    string
}

// s3iface is the subset of the S3 client the reporter uses.
type s3iface interface {
	PutObjectWithContext(
		ctx aws.Context,
		input *s3.PutObjectInput,
		opts ...request.Option,
	) (*s3.PutObjectOutput, error)
}

// New creates an S3 status reporter writing to bucket/key in the given
// region, using the default AWS credential chain.
func New(logger *slog.Logger, region, bucket, key string) (reconciler.StatusReporter, error) {
	sess, err := session.NewSession(aws.NewConfig().WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	return &reporter{
		logger: logger,
		svc:    s3.New(sess),
		bucket: bucket,
		key:    key,
	}, nil
}

var _ reconciler.StatusReporter = (*reporter)(nil)

func (r *reporter) WriteCommand(ctx context.Context, document []byte) error {
	_, err := r.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.key),
		Body:        bytes.NewReader(document),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put status object s3://%s/%s: %w", r.bucket, r.key, err)
	}

	r.logger.DebugContext(ctx, "status report written",
		"bucket", r.bucket,
		"key", r.key,
		"bytes", len(document),
	)

	return nil
}
