package publish

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/regiongrid/internal/testutil"
)

type fakeStore struct {
	mu        sync.Mutex
	exists    bool
	existsErr error
	made      []string
	objects   map[string]string
	types     map[string]string
}

func (f *fakeStore) BucketExists(context.Context, string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeStore) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.made = append(f.made, bucket)
	return nil
}

func (f *fakeStore) PutObject(_ context.Context, _ string, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string]string{}
		f.types = map[string]string{}
	}
	f.objects[key] = string(b)
	f.types[key] = opts.ContentType
	return minio.UploadInfo{Key: key, Size: size}, nil
}

func TestPublish_UploadsTreeUnderPrefix(t *testing.T) {
	t.Parallel()

	site := filepath.Join(t.TempDir(), "site")
	testutil.WriteFiles(t, site, map[string]string{
		"index.html":           "<html>",
		"reference-areas.json": "[]",
		"004/index.html":       "afghanistan",
		"004/assets/site.css":  "body{}",
	})

	store := &fakeStore{}
	p := newPublisher(store, "sdg", "/preview/", "us-east-1")
	ctx, _ := testutil.Context(t)

	n, err := p.Publish(ctx, site)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []string{"sdg"}, store.made)

	keys := make([]string, 0, len(store.objects))
	for k := range store.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{
		"preview/004/assets/site.css",
		"preview/004/index.html",
		"preview/index.html",
		"preview/reference-areas.json",
	}, keys)
	assert.Equal(t, "afghanistan", store.objects["preview/004/index.html"])
	assert.True(t, strings.HasPrefix(store.types["preview/index.html"], "text/html"))
	assert.Equal(t, "application/json", store.types["preview/reference-areas.json"])
}

func TestPublish_ExtraTreeUnderSubPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	site := filepath.Join(root, "site")
	data := filepath.Join(root, "data")
	testutil.WriteFiles(t, site, map[string]string{"004/index.html": "afghanistan"})
	testutil.WriteFiles(t, data, map[string]string{
		"004/data/indicator_1-1-1.csv": "Year,Value",
		"004/meta/1-1-1.json":          "{}",
	})

	store := &fakeStore{}
	ctx, _ := testutil.Context(t)
	n, err := newPublisher(store, "sdg", "preview", "").Publish(ctx, site, Tree{Dir: data, Under: "/data/"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "Year,Value", store.objects["preview/data/004/data/indicator_1-1-1.csv"])
	assert.Contains(t, store.objects, "preview/data/004/meta/1-1-1.json")
	assert.Equal(t, "afghanistan", store.objects["preview/004/index.html"])
}

func TestPublish_ExistingBucketNotCreated(t *testing.T) {
	t.Parallel()

	site := t.TempDir()
	testutil.WriteFiles(t, site, map[string]string{"a.txt": "a"})
	store := &fakeStore{exists: true}
	ctx, _ := testutil.Context(t)

	_, err := newPublisher(store, "sdg", "", "").Publish(ctx, site)
	require.NoError(t, err)
	assert.Empty(t, store.made)
	assert.Contains(t, store.objects, "a.txt")
}

func TestPublish_BucketCheckFails(t *testing.T) {
	t.Parallel()

	store := &fakeStore{existsErr: errors.New("denied")}
	ctx, _ := testutil.Context(t)
	_, err := newPublisher(store, "sdg", "", "").Publish(ctx, t.TempDir())
	assert.ErrorContains(t, err, "denied")
}

func TestNewS3Publisher_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "no endpoint", cfg: Config{Bucket: "b", AccessKey: "a", SecretKey: "s"}, wantErr: "endpoint"},
		{name: "no keys", cfg: Config{Endpoint: "localhost:9000", Bucket: "b"}, wantErr: "access key"},
		{name: "no bucket", cfg: Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}, wantErr: "bucket"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewS3Publisher(tc.cfg)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}

	p, err := NewS3Publisher(Config{Endpoint: "localhost:9000", Bucket: "b", AccessKey: "a", SecretKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", p.region)
}
