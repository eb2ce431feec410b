package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/todophotos/internal/common"
)

type fakeObjects struct {
	putIn     *s3.PutObjectInput
	putBody   []byte
	deleteIn  *s3.DeleteObjectInput
	putErr    error
	deleteErr error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putIn = in
	if in.Body != nil {
		f.putBody, _ = io.ReadAll(in.Body)
	}
	return &s3.PutObjectOutput{}, f.putErr
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleteIn = in
	return &s3.DeleteObjectOutput{}, f.deleteErr
}

type fakePresign struct {
	in      *s3.GetObjectInput
	expires time.Duration
	err     error
}

func (f *fakePresign) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.in = in
	var po s3.PresignOptions
	for _, fn := range optFns {
		fn(&po)
	}
	f.expires = po.Expires
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: "https://signed.example/" + *in.Key}, nil
}

func TestS3Store_Put(t *testing.T) {
	objs := &fakeObjects{}
	s := newS3Store("photos", objs, &fakePresign{})

	require.NoError(t, s.Put(context.Background(), "todos/1/5.jpg", []byte("jpeg"), "image/jpeg"))

	require.NotNil(t, objs.putIn)
	assert.Equal(t, "photos", *objs.putIn.Bucket)
	assert.Equal(t, "todos/1/5.jpg", *objs.putIn.Key)
	assert.Equal(t, "image/jpeg", *objs.putIn.ContentType)
	assert.Equal(t, int64(4), *objs.putIn.ContentLength)
	assert.Equal(t, []byte("jpeg"), objs.putBody)
	assert.True(t, s.IsConfigured())
}

func TestS3Store_Put_Error(t *testing.T) {
	s := newS3Store("photos", &fakeObjects{putErr: errors.New("boom")}, &fakePresign{})

	err := s.Put(context.Background(), "k", nil, "image/jpeg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrStorage))
	assert.Contains(t, err.Error(), "boom")
}

func TestS3Store_Delete(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "ok"},
		{name: "missing key tolerated", err: &smithy.GenericAPIError{Code: "NoSuchKey"}},
		{name: "not found tolerated", err: &smithy.GenericAPIError{Code: "NotFound"}},
		{name: "access denied surfaces", err: &smithy.GenericAPIError{Code: "AccessDenied"}, wantErr: true},
		{name: "transport error surfaces", err: errors.New("dial tcp: refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objs := &fakeObjects{deleteErr: tt.err}
			s := newS3Store("photos", objs, &fakePresign{})

			err := s.Delete(context.Background(), "todos/1/5.jpg")
			if tt.wantErr {
				assert.True(t, errors.Is(err, common.ErrStorage))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "todos/1/5.jpg", *objs.deleteIn.Key)
			assert.Equal(t, "photos", *objs.deleteIn.Bucket)
		})
	}
}

func TestS3Store_SignedReadURL(t *testing.T) {
	pre := &fakePresign{}
	s := newS3Store("photos", &fakeObjects{}, pre)

	u, err := s.SignedReadURL(context.Background(), "todos/1/5.jpg", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/todos/1/5.jpg", u)
	assert.Equal(t, 10*time.Minute, pre.expires)
	assert.Equal(t, "photos", *pre.in.Bucket)

	_, err = s.SignedReadURL(context.Background(), "k", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultURLTTL, pre.expires)

	pre.err = errors.New("no creds")
	_, err = s.SignedReadURL(context.Background(), "k", time.Minute)
	assert.True(t, errors.Is(err, common.ErrStorage))
}

func TestNewS3Store_AppliesOptions(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-west-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		return aws.Config{Region: lo.Region, Credentials: lo.Credentials}, nil
	}

	var captured s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&captured)
		}
		return s3.NewFromConfig(cfg, optFns...)
	}

	s, err := NewS3Store(context.Background(), S3Options{
		Bucket:       "photos",
		Region:       "eu-west-1",
		AccessKey:    "ak",
		SecretKey:    "sk",
		BaseEndpoint: "http://127.0.0.1:9000",
	})
	require.NoError(t, err)
	require.NotNil(t, s)
	require.NotNil(t, captured.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *captured.BaseEndpoint)
	assert.True(t, captured.UsePathStyle)
}

func TestNewS3Store_Errors(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Options{})
	assert.True(t, errors.Is(err, common.ErrNotConfigured))

	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err = NewS3Store(context.Background(), S3Options{Bucket: "b"})
	require.Error(t, err)
	assert.Equal(t, "load-fail", err.Error())
}

func TestNew(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{Region: "us-east-1"}, nil
	}

	tests := []struct {
		name       string
		opts       S3Options
		configured bool
	}{
		{name: "no bucket", opts: S3Options{Region: "us-east-1"}, configured: false},
		{name: "credentials without bucket", opts: S3Options{AccessKey: "ak", SecretKey: "sk"}, configured: false},
		{name: "bucket set", opts: S3Options{Bucket: "photos", Region: "us-east-1"}, configured: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.configured, s.IsConfigured())
			if !tt.configured {
				assert.IsType(t, Unconfigured{}, s)
			} else {
				assert.IsType(t, &S3Store{}, s)
			}
		})
	}
}

// fakeS3 is a minimal path-style S3 endpoint recording what the SDK sends.
type fakeS3 struct {
	mu       sync.Mutex
	requests []string
	objects  map[string]string
	deny     bool
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	if f.deny {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`)
		return
	}

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = r.Header.Get("Content-Type") + ":" + string(body)
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newStoreAgainst(t *testing.T, srv *httptest.Server) *S3Store {
	t.Helper()
	s, err := NewS3Store(context.Background(), S3Options{
		Bucket:       "photos",
		Region:       "us-east-1",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		BaseEndpoint: srv.URL,
	})
	require.NoError(t, err)
	return s
}

func TestS3Store_AgainstHTTPEndpoint(t *testing.T) {
	backend := &fakeS3{objects: map[string]string{}}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	s := newStoreAgainst(t, srv)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "todos/3/1700000000000.jpg", []byte("pixels"), "image/jpeg"))
	assert.Equal(t, "image/jpeg:pixels", backend.objects["/photos/todos/3/1700000000000.jpg"])

	require.NoError(t, s.Delete(ctx, "todos/3/1700000000000.jpg"))
	assert.Empty(t, backend.objects)

	// deleting again is still fine
	require.NoError(t, s.Delete(ctx, "todos/3/1700000000000.jpg"))

	assert.Equal(t, []string{
		"PUT /photos/todos/3/1700000000000.jpg",
		"DELETE /photos/todos/3/1700000000000.jpg",
		"DELETE /photos/todos/3/1700000000000.jpg",
	}, backend.requests)
}

func TestS3Store_AgainstHTTPEndpoint_Denied(t *testing.T) {
	backend := &fakeS3{objects: map[string]string{}, deny: true}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	s := newStoreAgainst(t, srv)

	err := s.Put(context.Background(), "todos/1/1.jpg", []byte("x"), "image/jpeg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrStorage))

	err = s.Delete(context.Background(), "todos/1/1.jpg")
	assert.True(t, errors.Is(err, common.ErrStorage))
}

func TestS3Store_SignedReadURL_RealPresigner(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	s := newStoreAgainst(t, srv)

	raw, err := s.SignedReadURL(context.Background(), "todos/9/42.jpg", time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, srv.URL))
	assert.Equal(t, "/photos/todos/9/42.jpg", u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}
