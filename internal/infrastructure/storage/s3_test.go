package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"

	repo "github.com/oksasatya/photo-gallery/internal/domain/repository"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	failPut error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = b
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	st := NewS3(fake, "bucket")

	png := []byte("\x89PNG\r\n\x1a\n0000")
	require.NoError(t, st.Write(ctx, "photos/x.png", png))
	require.Equal(t, "image/png", fake.types["photos/x.png"])

	ok, err := st.Exists(ctx, "photos/x.png")
	require.NoError(t, err)
	require.True(t, ok)

	b, err := st.Read(ctx, "photos/x.png")
	require.NoError(t, err)
	require.Equal(t, png, b)

	require.NoError(t, st.Delete(ctx, "photos/x.png"))
	ok, err = st.Exists(ctx, "photos/x.png")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = st.Read(ctx, "photos/x.png")
	require.ErrorIs(t, err, repo.ErrBlobNotFound)
}

func TestS3_WriteFailureIsWrapped(t *testing.T) {
	fake := newFakeS3()
	fake.failPut = errors.New("boom")
	err := NewS3(fake, "bucket").Write(context.Background(), "photos/y.jpg", []byte("x"))
	require.ErrorContains(t, err, "boom")
	require.NotErrorIs(t, err, repo.ErrBlobNotFound)
}

func TestIsS3NotFound(t *testing.T) {
	require.False(t, isS3NotFound(nil))
	require.False(t, isS3NotFound(errors.New("x")))
	require.True(t, isS3NotFound(&types.NoSuchKey{}))
	require.True(t, isS3NotFound(&types.NotFound{}))
	require.True(t, isS3NotFound(&smithy.GenericAPIError{Code: "NoSuchKey"}))
}
