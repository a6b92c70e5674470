package util

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockS3Server(t *testing.T, bucket string) (*minio.Client, string) {
	t.Helper()
	backend := s3mem.New()
	server := gofakes3.New(backend)
	ts := httptest.NewServer(server.Server())
	t.Cleanup(ts.Close)

	t.Setenv("AWS_ACCESS_KEY_ID", "test-access-key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test-secret-key")
	t.Setenv("AWS_REGION", "us-east-1")

	dst := "s3+http://" + ts.Listener.Addr().String() + "/" + bucket
	mc, err := GetS3Client(GetS3URL(dst))
	require.NoError(t, err)
	require.NoError(t, mc.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}))
	return mc, dst
}

func TestParseS3Location(t *testing.T) {
	tests := map[string]struct {
		dst    string
		bucket string
		prefix string
		secure bool
		err    bool
	}{
		"bucket only": {dst: "s3+http://localhost:9000/archive", bucket: "archive"},
		"with prefix": {dst: "s3+https://s3.example.org/archive/2024/run1/", bucket: "archive", prefix: "2024/run1", secure: true},
		"no bucket":   {dst: "s3+http://localhost:9000/", err: true},
		"plain s3":    {dst: "s3://bucket/key", err: true},
		"local path":  {dst: "/tmp/out", err: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			loc, err := ParseS3Location(tc.dst)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.bucket, loc.Bucket)
			assert.Equal(t, tc.prefix, loc.Prefix)
			assert.Equal(t, tc.secure, loc.URL.Scheme == "s3+https")
		})
	}
}

func TestS3LocationKey(t *testing.T) {
	assert.Equal(t, "docs/a.txt", S3Location{Bucket: "b"}.Key("docs/a.txt"))
	assert.Equal(t, "run1/docs/a.txt", S3Location{Bucket: "b", Prefix: "run1"}.Key("docs/a.txt"))
}

func TestGetS3ClientMissingCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	_, err := GetS3Client(GetS3URL("s3+http://localhost:9000/b"))
	assert.ErrorContains(t, err, "AWS_ACCESS_KEY_ID")
}

func TestPutFileAndObjectSize(t *testing.T) {
	ctx := context.Background()
	mc, _ := setupMockS3Server(t, "test-bucket")

	_, found, err := ObjectSize(ctx, mc, "test-bucket", "notes.txt")
	require.NoError(t, err)
	assert.False(t, found)

	local := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(local, []byte("hello"), 0o644))

	n, err := PutFile(ctx, mc, "test-bucket", "run/notes.txt", local, "5d41402abc4b2a76b9719d911017c592")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	size, found, err := ObjectSize(ctx, mc, "test-bucket", "run/notes.txt")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(5), size)

	obj, err := mc.GetObject(ctx, "test-bucket", "run/notes.txt", minio.GetObjectOptions{})
	require.NoError(t, err)
	defer obj.Close()
	data, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestCheckBucket(t *testing.T) {
	ctx := context.Background()
	mc, _ := setupMockS3Server(t, "test-bucket")

	assert.NoError(t, CheckBucket(ctx, mc, "test-bucket"))
	assert.ErrorContains(t, CheckBucket(ctx, mc, "no-such-bucket"), "does not exist")
}
