package snapshot

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tether-news-scraper/internal/observability"
)

// memoryS3 хранит объекты по ключу "bucket/key"
type memoryS3 struct {
	objects      map[string][]byte
	contentTypes map[string]string
	putErr       error
	copyErr      error
	calls        []string
}

func newMemoryS3() *memoryS3 {
	return &memoryS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *memoryS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.calls = append(m.calls, "put")
	if m.putErr != nil {
		return nil, m.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	m.objects[key] = body
	m.contentTypes[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (m *memoryS3) CopyObject(ctx context.Context, in *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	m.calls = append(m.calls, "copy")
	if m.copyErr != nil {
		return nil, m.copyErr
	}
	src, ok := m.objects[aws.ToString(in.CopySource)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "The specified key does not exist."}
	}
	m.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = append([]byte(nil), src...)
	return &s3.CopyObjectOutput{}, nil
}

func newTestStore(client ObjectAPI) *Store {
	return NewStore(client, "bucket", "prefix/latest-articles.json", "prefix/backup-articles.json", observability.NewNopLogger())
}

func TestBackupWithoutSourceIsSkipped(t *testing.T) {
	mem := newMemoryS3()
	store := newTestStore(mem)

	res := store.Backup(context.Background())
	assert.True(t, res.IsSkipped(), "got %s", res)

	// следующий Put не блокируется
	require.NoError(t, store.Put(context.Background(), []byte(`[]`)))
	assert.Equal(t, []string{"copy", "put"}, mem.calls)
}

func TestBackupCopiesPreviousSnapshot(t *testing.T) {
	mem := newMemoryS3()
	store := newTestStore(mem)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, []byte(`["old"]`)))
	res := store.Backup(ctx)
	require.True(t, res.IsOK(), "got %s", res)
	require.NoError(t, store.Put(ctx, []byte(`["new"]`)))

	assert.Equal(t, `["old"]`, string(mem.objects["bucket/prefix/backup-articles.json"]))
	assert.Equal(t, `["new"]`, string(mem.objects["bucket/prefix/latest-articles.json"]))
	assert.Equal(t, "application/json", mem.contentTypes["bucket/prefix/latest-articles.json"])
}

func TestBackupOtherErrorIsFailed(t *testing.T) {
	mem := newMemoryS3()
	mem.copyErr = &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}

	res := newTestStore(mem).Backup(context.Background())
	assert.True(t, res.IsFailed())
	assert.Contains(t, res.Err.Error(), "AccessDenied")
}

func TestPutError(t *testing.T) {
	mem := newMemoryS3()
	mem.putErr = errors.New("connection reset")

	err := newTestStore(mem).Put(context.Background(), []byte(`[]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefix/latest-articles.json")
}

func TestUnavailableFailsPut(t *testing.T) {
	store := Unavailable{Err: ErrBucketNotConfigured}

	res := store.Backup(context.Background())
	assert.True(t, res.IsSkipped())
	assert.Equal(t, "s3 bucket not configured", res.Reason)

	err := store.Put(context.Background(), []byte(`[]`))
	assert.ErrorIs(t, err, ErrBucketNotConfigured)
}
