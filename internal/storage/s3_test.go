package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitness-sync/internal/logger"
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
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = body
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func newTestStore(client s3API) *s3Storage {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &s3Storage{
		client:     client,
		bucketName: "snaps",
		log:        logger.Nop(),
		now:        func() time.Time { return fixed },
	}
}

func TestS3Storage_PutGetDelete(t *testing.T) {
	fake := newFakeS3()
	store := newTestStore(fake)
	ctx := context.Background()
	key := SnapshotKey("session", "s1", "batch-1")

	snap, err := store.PutSnapshot(ctx, key, []byte(`[{"id":"e1"}]`), "")
	require.NoError(t, err)
	assert.Equal(t, "session/s1/batch-1.json", snap.ObjectKey)
	assert.Equal(t, ContentTypeJSON, snap.ContentType)
	assert.Equal(t, int64(13), snap.Size)
	assert.Equal(t, 2026, snap.UploadedAt.Year())
	assert.Equal(t, ContentTypeJSON, fake.types[key])

	body, err := store.GetSnapshot(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"e1"}]`, string(body))

	require.NoError(t, store.DeleteSnapshot(ctx, key))
	_, err = store.GetSnapshot(ctx, key)
	require.ErrorIs(t, err, ErrObjectNotFound)
}

func TestS3Storage_PutFailure(t *testing.T) {
	fake := newFakeS3()
	fake.failPut = errors.New("access denied")

	_, err := newTestStore(fake).PutSnapshot(context.Background(), "k", []byte("{}"), ContentTypeJSON)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestS3Storage_PresignedDownloadURL(t *testing.T) {
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		BaseEndpoint: aws.String("http://localhost:9000"),
		UsePathStyle: true,
	})
	store := newTestStore(newFakeS3())
	store.presign = s3.NewPresignClient(client)

	url, err := store.PresignedDownloadURL(context.Background(), "plan/p1/b1.json", 0)

	require.NoError(t, err)
	assert.Contains(t, url, "localhost:9000/snaps/plan/p1/b1.json")
	assert.Contains(t, url, "X-Amz-Expires=900")
}

func TestS3Storage_PresignWithoutClient(t *testing.T) {
	_, err := newTestStore(newFakeS3()).PresignedDownloadURL(context.Background(), "k", time.Minute)
	require.Error(t, err)
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "", endpointURL("", true))
	assert.Equal(t, "https://minio:9000", endpointURL("minio:9000", true))
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "http://already:1", endpointURL("http://already:1", true))
}
