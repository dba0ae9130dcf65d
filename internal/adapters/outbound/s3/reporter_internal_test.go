package s3

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	puts   []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObjectWithContext(
	_ aws.Context,
	input *s3.PutObjectInput,
	_ ...request.Option,
) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}

	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}

	f.puts = append(f.puts, input)
	f.bodies = append(f.bodies, body)

	return &s3.PutObjectOutput{}, nil
}

func TestWriteCommand(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{}
	r := &reporter{
		logger: slog.Default(),
		svc:    fake,
		bucket: "status-bucket",
		key:    "kuberoute-status.json",
	}

	document := []byte(`{"records":[]}`)

	require.NoError(t, r.WriteCommand(t.Context(), document))
	require.Len(t, fake.puts, 1)

	put := fake.puts[0]
	require.Equal(t, "status-bucket", aws.StringValue(put.Bucket))
	require.Equal(t, "kuberoute-status.json", aws.StringValue(put.Key))
	require.Equal(t, "application/json", aws.StringValue(put.ContentType))
	require.Equal(t, document, fake.bodies[0])
}

func TestWriteCommand_Error(t *testing.T) {
	t.Parallel()

	apiErr := errors.New("access denied")
	r := &reporter{
		logger: slog.Default(),
		svc:    &fakeS3{err: apiErr},
		bucket: "status-bucket",
		key:    "kuberoute-status.json",
	}

	require.ErrorIs(t, r.WriteCommand(t.Context(), []byte("{}")), apiErr)
}
