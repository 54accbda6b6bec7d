package s3

import (
	"context"
	"errors"
	"strings"
	"testing"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelpms/internal/port"
)

type fakeUploader struct {
	got *s3.PutObjectInput
	err error
}

func (f *fakeUploader) Upload(_ context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	etag := `"abc"`
	return &manager.UploadOutput{Location: "https://bucket/" + *in.Key, ETag: &etag}, nil
}

type fakeDeleter struct{ key string }

func (f *fakeDeleter) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.key = *in.Key
	return &s3.DeleteObjectOutput{}, nil
}

type fakePresigner struct{}

func (fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://signed/" + *in.Key}, nil
}

func TestS3Client_Upload(t *testing.T) {
	up := &fakeUploader{}
	c := &s3Client{uploader: up}

	out, err := c.Upload(context.Background(), port.UploadInput{
		Bucket: "feeds", Key: "t/i/feed.csv", Body: strings.NewReader("a,b"), ContentType: "text/csv", Size: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, out.ETag)
	assert.Equal(t, "https://bucket/t/i/feed.csv", out.Location)
	assert.Equal(t, int64(3), *up.got.ContentLength)
	assert.Equal(t, "text/csv", *up.got.ContentType)
}

func TestS3Client_UploadError(t *testing.T) {
	c := &s3Client{uploader: &fakeUploader{err: errors.New("denied")}}
	_, err := c.Upload(context.Background(), port.UploadInput{Bucket: "b", Key: "k", Body: strings.NewReader("")})
	assert.ErrorContains(t, err, "s3 upload")
}

func TestS3Client_DeleteAndPresign(t *testing.T) {
	del := &fakeDeleter{}
	c := &s3Client{client: del, presigner: fakePresigner{}}

	require.NoError(t, c.Delete(context.Background(), "feeds", "k1"))
	assert.Equal(t, "k1", del.key)

	url, err := c.GetPresignedURL(context.Background(), "feeds", "k2", 60)
	require.NoError(t, err)
	assert.Equal(t, "https://signed/k2", url)
}
