package util

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Location is a bucket plus key prefix parsed from an s3+http(s) URL.
type S3Location struct {
	URL    *url.URL
	Bucket string
	Prefix string
}

// Key joins the prefix with a slash separated relative path.
func (l S3Location) Key(rel string) string {
	if l.Prefix == "" {
		return rel
	}
	return path.Join(l.Prefix, rel)
}

func GetS3Client(u *url.URL) (*minio.Client, error) {

	useSSL := false
	if u.Scheme == "s3+https" {
		useSSL = true
	}

	accessKeyID := os.Getenv("AWS_ACCESS_KEY_ID")
	if accessKeyID == "" {
		return nil, fmt.Errorf("AWS_ACCESS_KEY_ID not set")
	}
	secretAccessKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if secretAccessKey == "" {
		return nil, fmt.Errorf("AWS_SECRET_ACCESS_KEY not set")
	}
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	mc, err := minio.New(u.Host, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	return mc, err
}

func GetS3URL(path string) *url.URL {
	if strings.HasPrefix(path, "s3+http://") || strings.HasPrefix(path, "s3+https://") {
		u, err := url.Parse(path)
		if err != nil {
			return nil
		}
		return u
	}
	return nil
}

// ParseS3Location splits an s3+http(s)://host/bucket/prefix URL.
func ParseS3Location(dst string) (S3Location, error) {
	u := GetS3URL(dst)
	if u == nil {
		return S3Location{}, fmt.Errorf("not an s3+http(s) URL: %s", dst)
	}
	tmp := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if tmp[0] == "" {
		return S3Location{}, fmt.Errorf("missing bucket name in %s", dst)
	}
	loc := S3Location{URL: u, Bucket: tmp[0]}
	if len(tmp) > 1 {
		loc.Prefix = strings.Trim(tmp[1], "/")
	}
	return loc, nil
}

// ObjectSize returns the size of an object, or found=false when the key
// does not exist.
func ObjectSize(ctx context.Context, mc *minio.Client, bucket, key string) (size int64, found bool, err error) {
	stats, err := mc.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		errResponse := minio.ToErrorResponse(err)
		if errResponse.Code == "NoSuchKey" {
			return 0, false, nil
		}
		return 0, false, err
	}
	return stats.Size, true, nil
}

// CheckBucket fails when the bucket does not exist or cannot be reached.
// minio reports a HEAD on an object in a missing bucket as NoSuchKey, so
// ObjectSize alone cannot tell the two apart.
func CheckBucket(ctx context.Context, mc *minio.Client, bucket string) error {
	ok, err := mc.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", bucket, err)
	}
	if !ok {
		return fmt.Errorf("bucket %s does not exist", bucket)
	}
	return nil
}

// PutFile uploads a local file, attaching the given checksum as object
// metadata when it is not empty.
func PutFile(ctx context.Context, mc *minio.Client, bucket, key, localPath, checksum string) (int64, error) {
	opts := minio.PutObjectOptions{
		SendContentMd5:       true,
		DisableContentSha256: true,
	}
	if checksum != "" {
		opts.UserMetadata = map[string]string{"Checksum": checksum}
	}
	info, err := mc.FPutObject(ctx, bucket, key, localPath, opts)
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}
