package contentstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// CID tests
// ---------------------------------------------------------------------------

func TestComputeCID(t *testing.T) {
	a := ComputeCID([]byte("report contents"))
	b := ComputeCID([]byte("report contents"))
	c := ComputeCID([]byte("other contents"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	// raw codec + sha2-256 CIDv1 always renders with this prefix.
	assert.True(t, strings.HasPrefix(a, "bafkrei"), a)
	assert.Len(t, a, 59)
	assert.Equal(t, strings.ToLower(a), a)
}

func TestValidateCID(t *testing.T) {
	assert.NoError(t, validateCID("bafkreiabc"))
	assert.ErrorIs(t, validateCID(""), ErrInvalidCID)
	assert.ErrorIs(t, validateCID("x"), ErrInvalidCID)
	assert.ErrorIs(t, validateCID("../etc"), ErrInvalidCID)
	assert.ErrorIs(t, validateCID("a/b"), ErrInvalidCID)
}

// ---------------------------------------------------------------------------
// PinataClient tests
// ---------------------------------------------------------------------------

func newTestPinata(t *testing.T, handler http.HandlerFunc) *PinataClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := NewPinataClient(PinataConfig{
		APIKey:    "key",
		APISecret: "secret",
		Endpoint:  server.URL + "/pinning/pinFileToIPFS",
		Gateway:   "https://example.mypinata.cloud/ipfs/",
	})
	require.NoError(t, err)
	return c
}

func TestPinataPut(t *testing.T) {
	c := newTestPinata(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pinning/pinFileToIPFS", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("pinata_api_key"))
		assert.Equal(t, "secret", r.Header.Get("pinata_secret_api_key"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		body, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "report.pdf", hdr.Filename)
		assert.Equal(t, "%PDF-1.7", string(body))

		var meta pinMetadata
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("pinataMetadata")), &meta))
		assert.Equal(t, "report.pdf", meta.Name)

		_ = json.NewEncoder(w).Encode(pinResponse{IpfsHash: "Qm123", PinSize: 8, Timestamp: "2024-01-01T00:00:00Z"})
	})

	cid, err := c.Put(context.Background(), "report.pdf", []byte("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, "Qm123", cid)
	assert.Equal(t, "https://example.mypinata.cloud/ipfs/Qm123", c.Locate(cid))
}

func TestPinataPutErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"invalid key"}`, ErrAuthFailed},
		{"forbidden", http.StatusForbidden, `{}`, ErrAuthFailed},
		{"quota", http.StatusTooManyRequests, `rate limited`, ErrStoreFailed},
		{"server_error", http.StatusInternalServerError, `boom`, ErrStoreFailed},
		{"bad_json", http.StatusOK, `not json`, ErrInvalidResponse},
		{"missing_hash", http.StatusOK, `{"PinSize":3}`, ErrInvalidResponse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestPinata(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := c.Put(context.Background(), "a.txt", []byte("abc"))
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestPinataPutErrorQuotesBody(t *testing.T) {
	c := newTestPinata(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	})
	_, err := c.Put(context.Background(), "a.txt", []byte("abc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestPinataPutConnectionError(t *testing.T) {
	c, err := NewPinataClient(PinataConfig{APIKey: "k", APISecret: "s", Endpoint: "http://localhost:1/pin"})
	require.NoError(t, err)
	_, err = c.Put(context.Background(), "a.txt", []byte("abc"))
	assert.ErrorIs(t, err, ErrStoreFailed)
}

func TestPinataPutEmpty(t *testing.T) {
	c := newTestPinata(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := c.Put(context.Background(), "a.txt", nil)
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestNewPinataClientDefaults(t *testing.T) {
	_, err := NewPinataClient(PinataConfig{APIKey: "k"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	c, err := NewPinataClient(PinataConfig{APIKey: "k", APISecret: "s"})
	require.NoError(t, err)
	assert.Equal(t, DefaultPinataEndpoint, c.endpoint)
	assert.Equal(t, DefaultPinataGateway+"Qm1", c.Locate("Qm1"))
}

// ---------------------------------------------------------------------------
// LocalStore tests
// ---------------------------------------------------------------------------

func TestLocalStorePutOpen(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)
	ctx := context.Background()

	cid, err := s.Put(ctx, "notes.txt", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, ComputeCID([]byte("hello")), cid)

	got, err := s.Open(ctx, cid)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	again, err := s.Put(ctx, "copy.txt", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, cid, again)
}

func TestLocalStoreLayout(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root, "")
	require.NoError(t, err)

	cid, err := s.Put(context.Background(), "a", []byte("layout"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, cid[len(cid)-2:], cid))
	assert.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(root, "tmp"))
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files should be renamed away")
}

func TestLocalStoreErrors(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Put(ctx, "a", nil)
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = s.Open(ctx, ComputeCID([]byte("missing")))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Open(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidCID)

	_, err = NewLocalStore(" ", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLocalStoreLocate(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root, "")
	require.NoError(t, err)
	cid := ComputeCID([]byte("x"))
	loc := s.Locate(cid)
	assert.True(t, strings.HasPrefix(loc, "file://"), loc)
	assert.True(t, strings.HasSuffix(loc, "/"+cid), loc)
	assert.Equal(t, "", s.Locate("x"))

	gw, err := NewLocalStore(root, "http://127.0.0.1:8080/ipfs/")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080/ipfs/"+cid, gw.Locate(cid))
}

// ---------------------------------------------------------------------------
// S3Store tests
// ---------------------------------------------------------------------------

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, params)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3StorePut(t *testing.T) {
	api := &fakeS3{}
	s := newS3Store(api, S3Config{Bucket: "shares", Region: "us-east-1", Endpoint: "http://127.0.0.1:9000"})

	cid, err := s.Put(context.Background(), "report.pdf", []byte("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, ComputeCID([]byte("%PDF-1.7")), cid)

	require.Len(t, api.inputs, 1)
	in := api.inputs[0]
	assert.Equal(t, "shares", aws.ToString(in.Bucket))
	assert.Equal(t, cid, aws.ToString(in.Key))
	assert.Equal(t, "application/pdf", aws.ToString(in.ContentType))
	assert.Equal(t, int64(8), aws.ToInt64(in.ContentLength))
	assert.Equal(t, "report.pdf", in.Metadata["name"])
	assert.Equal(t, []byte("%PDF-1.7"), api.bodies[0])

	assert.Equal(t, "http://127.0.0.1:9000/shares/"+cid, s.Locate(cid))
}

func TestS3StorePutFailure(t *testing.T) {
	s := newS3Store(&fakeS3{err: errors.New("access denied")}, S3Config{Bucket: "b", Region: "eu-west-1"})
	_, err := s.Put(context.Background(), "a.bin", []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrStoreFailed)
	assert.Contains(t, err.Error(), "access denied")

	_, err = s.Put(context.Background(), "a.bin", nil)
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestS3StoreLocateDefaults(t *testing.T) {
	s := newS3Store(&fakeS3{}, S3Config{Bucket: "b", Region: "eu-west-1"})
	assert.Equal(t, "https://s3.eu-west-1.amazonaws.com/b/cid", s.Locate("cid"))

	s = newS3Store(&fakeS3{}, S3Config{Bucket: "b", Region: "eu-west-1", PublicBase: "https://cdn.example.com/"})
	assert.Equal(t, "https://cdn.example.com/cid", s.Locate("cid"))
}

func TestNewS3Store(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		assert.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}
	var captured s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&captured)
		}
		return &s3.Client{}
	}

	s, err := NewS3Store(context.Background(), S3Config{
		Bucket:    "shares",
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)
	require.NotNil(t, captured.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *captured.BaseEndpoint)
	assert.True(t, captured.UsePathStyle)
	assert.Equal(t, "shares", s.bucket)
}

func TestNewS3StoreValidation(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{Region: "us-east-1"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = NewS3Store(context.Background(), S3Config{Bucket: "b"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", contentType("x.pdf", nil))
	assert.True(t, strings.HasPrefix(contentType("noext", []byte("plain text")), "text/plain"))
}

// ---------------------------------------------------------------------------
// MockStore tests
// ---------------------------------------------------------------------------

func TestMockStore(t *testing.T) {
	m := &MockStore{PutFn: func(ctx context.Context, name string, data []byte) (string, error) {
		return "Qm" + name, nil
	}}
	cid, err := m.Put(context.Background(), "1", nil)
	require.NoError(t, err)
	assert.Equal(t, "Qm1", cid)
	assert.Equal(t, "mock://Qm1", m.Locate(cid))
}
