package contentstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultPinataEndpoint is the Pinata pin-file API.
	DefaultPinataEndpoint = "https://api.pinata.cloud/pinning/pinFileToIPFS"

	// DefaultPinataGateway is the public gateway prefix used by Locate.
	DefaultPinataGateway = "https://gateway.pinata.cloud/ipfs/"

	headerAPIKey    = "pinata_api_key"
	headerAPISecret = "pinata_secret_api_key"

	// maxErrorBody caps how much of a failed response body is quoted in errors.
	maxErrorBody = 1024

	// maxResponseBody caps the size of a successful JSON response.
	maxResponseBody = 64 * 1024
)

// PinataConfig holds the credentials and endpoints for Pinata.
type PinataConfig struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
	Endpoint  string `json:"endpoint"`
	Gateway   string `json:"gateway"`
}

// PinataClient pins files through the Pinata HTTP API.
type PinataClient struct {
	endpoint  string
	gateway   string
	apiKey    string
	apiSecret string
	client    *http.Client
}

// Compile-time interface check.
var _ Store = (*PinataClient)(nil)

// pinResponse is the JSON body returned by pinFileToIPFS.
type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// pinMetadata is sent as the pinataMetadata form field.
type pinMetadata struct {
	Name string `json:"name"`
}

// NewPinataClient creates a Pinata client. Empty Endpoint and Gateway fall back
// to the public defaults. Both credentials are required.
func NewPinataClient(cfg PinataConfig) (*PinataClient, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("%w: pinata api key and secret are required", ErrNotConfigured)
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultPinataEndpoint
	}
	gateway := cfg.Gateway
	if gateway == "" {
		gateway = DefaultPinataGateway
	}
	return &PinataClient{
		endpoint:  endpoint,
		gateway:   gateway,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
	}, nil
}

// Put uploads data as a multipart form and returns the IpfsHash Pinata reports.
//
// Put returns ErrAuthFailed for 401/403 responses, ErrStoreFailed for transport
// failures and other non-2xx statuses, and ErrInvalidResponse if the body does
// not carry a content hash. Nothing is retried.
func (c *PinataClient) Put(ctx context.Context, name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyContent
	}
	if name == "" {
		name = "file"
	}

	body, contentType, err := encodeMultipart(name, data)
	if err != nil {
		return "", fmt.Errorf("contentstore: encode multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("contentstore: create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set(headerAPISecret, c.apiSecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("%w: HTTP %d: %s", ErrAuthFailed, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("%w: HTTP %d: %s", ErrStoreFailed, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var pin pinResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&pin); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrInvalidResponse, err)
	}
	if pin.IpfsHash == "" {
		return "", fmt.Errorf("%w: missing IpfsHash", ErrInvalidResponse)
	}
	return pin.IpfsHash, nil
}

// Locate returns <gateway><cid>.
func (c *PinataClient) Locate(cid string) string {
	return c.gateway + cid
}

func encodeMultipart(name string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}

	meta, err := json.Marshal(pinMetadata{Name: name})
	if err != nil {
		return nil, "", err
	}
	if err := w.WriteField("pinataMetadata", string(meta)); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
