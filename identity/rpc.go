package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// EIP-1193 provider error codes.
const (
	codeUserRejected   = 4001
	codeRequestPending = -32002
)

// RPCConfig holds the connection parameters for a wallet's JSON-RPC endpoint.
type RPCConfig struct {
	URL      string `json:"url"`
	User     string `json:"user"`
	Password string `json:"password"`
}

// RPCProvider requests accounts from a wallet over JSON-RPC 2.0.
type RPCProvider struct {
	url    string
	user   string
	pass   string
	client *http.Client
	nextID atomic.Int64
}

// Compile-time interface check.
var _ Provider = (*RPCProvider)(nil)

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int64         `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewRPCProvider creates a JSON-RPC provider. Basic Auth is used when User is
// non-empty.
func NewRPCProvider(cfg RPCConfig) *RPCProvider {
	return &RPCProvider{
		url:  cfg.URL,
		user: cfg.User,
		pass: cfg.Password,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        2,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 2,
			},
		},
	}
}

// ResolveAddress calls eth_requestAccounts and returns the first account.
func (p *RPCProvider) ResolveAddress(ctx context.Context) (string, error) {
	var accounts []string
	if err := p.call(ctx, "eth_requestAccounts", nil, &accounts); err != nil {
		return "", err
	}
	if len(accounts) == 0 || accounts[0] == "" {
		return "", ErrNoAccounts
	}
	return accounts[0], nil
}

// ChainID calls eth_chainId and returns the hex chain id reported by the wallet.
func (p *RPCProvider) ChainID(ctx context.Context) (string, error) {
	var id string
	if err := p.call(ctx, "eth_chainId", nil, &id); err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("%w: empty chain id", ErrInvalidResponse)
	}
	return id, nil
}

func (p *RPCProvider) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      p.nextID.Add(1),
		Method:  method,
		Params:  params,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("identity: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("identity: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.user != "" {
		req.SetBasicAuth(p.user, p.pass)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: HTTP %d: %s", ErrProviderUnavailable, resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrInvalidResponse, err)
	}
	if rpcResp.ID != reqBody.ID {
		return fmt.Errorf("%w: response ID mismatch: expected %d, got %d",
			ErrInvalidResponse, reqBody.ID, rpcResp.ID)
	}
	if rpcResp.Error != nil {
		return mapRPCError(rpcResp.Error)
	}

	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("%w: unmarshal result: %w", ErrInvalidResponse, err)
		}
	}
	return nil
}

func mapRPCError(e *rpcError) error {
	switch e.Code {
	case codeUserRejected:
		return fmt.Errorf("%w: %s", ErrUserRejected, e.Message)
	case codeRequestPending:
		return fmt.Errorf("%w: %s", ErrRequestPending, e.Message)
	default:
		return fmt.Errorf("identity: rpc error %d: %s", e.Code, e.Message)
	}
}
