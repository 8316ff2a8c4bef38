package artifacts

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	calls   int
	objects map[string][]byte
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.calls++
	body, ok := f.objects[*params.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func TestFetchDownloads(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{
		"models/price_model.json": []byte(`{"currency":"IDR"}`),
	}}
	store := &Store{client: fake, bucket: "ebs-models", prefix: "models"}

	dest := filepath.Join(t.TempDir(), "price_model.json")
	require.NoError(t, store.Fetch(context.Background(), "price_model.json", dest))

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, `{"currency":"IDR"}`, string(b))
	assert.Equal(t, 1, fake.calls)
}

func TestFetchSkipsExistingFile(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	store := &Store{client: fake, bucket: "ebs-models"}

	dest := filepath.Join(t.TempDir(), "weights.pt")
	require.NoError(t, os.WriteFile(dest, []byte("local copy"), 0644))

	require.NoError(t, store.Fetch(context.Background(), "weights.pt", dest))
	assert.Zero(t, fake.calls)

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "local copy", string(b))
}

func TestFetchMissingObject(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	store := &Store{client: fake, bucket: "ebs-models"}

	dest := filepath.Join(t.TempDir(), "missing.json")
	err := store.Fetch(context.Background(), "missing.json", dest)
	assert.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "failed download must not leave a file behind")
}
