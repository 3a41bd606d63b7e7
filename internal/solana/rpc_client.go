package solana

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"solana-token-forge/internal/observability"
)

// Default configuration values.
const (
	DefaultTimeout        = 30 * time.Second
	DefaultMaxRetries     = 3
	DefaultRetryDelay     = 1 * time.Second
	DefaultMaxDelay       = 10 * time.Second
	DefaultBackoffMult    = 2.0
	DefaultConfirmTimeout = 90 * time.Second
	DefaultPollInterval   = 2 * time.Second
)

var (
	// ErrBlockhashExpired is returned when the chain passes the blockhash's
	// last valid block height before the signature is confirmed.
	ErrBlockhashExpired = errors.New("blockhash expired before confirmation")

	// ErrTransactionFailed is returned when the transaction landed with an error.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrConfirmTimeout is returned when confirmation did not arrive in time.
	ErrConfirmTimeout = errors.New("confirmation timed out")
)

// HTTPClient implements Ledger using HTTP JSON-RPC 2.0.
type HTTPClient struct {
	endpoint       string
	client         *http.Client
	maxRetries     int
	retryDelay     time.Duration
	maxDelay       time.Duration
	backoffMult    float64
	requestID      atomic.Uint64
	commitment     string
	confirmTimeout time.Duration
	pollInterval   time.Duration
	ws             SignatureSubscriber
}

// Compile-time interface check.
var _ Ledger = (*HTTPClient)(nil)

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts for read calls.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithMaxDelay sets maximum retry delay.
func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.maxDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// WithCommitment sets the commitment used for reads and confirmation.
func WithCommitment(commitment string) ClientOption {
	return func(c *HTTPClient) {
		c.commitment = commitment
	}
}

// WithConfirmTimeout bounds ConfirmTransaction.
func WithConfirmTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.confirmTimeout = d
	}
}

// WithPollInterval sets how often signature status and block height are polled.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.pollInterval = d
	}
}

// WithSignatureSubscriber enables push confirmation over WebSocket.
// Polling is still used to detect blockhash expiry.
func WithSignatureSubscriber(ws SignatureSubscriber) ClientOption {
	return func(c *HTTPClient) {
		c.ws = ws
	}
}

// NewHTTPClient creates a new Solana RPC HTTP client.
func NewHTTPClient(endpoint string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		endpoint:       endpoint,
		client:         &http.Client{Timeout: DefaultTimeout},
		maxRetries:     DefaultMaxRetries,
		retryDelay:     DefaultRetryDelay,
		maxDelay:       DefaultMaxDelay,
		backoffMult:    DefaultBackoffMult,
		commitment:     CommitmentConfirmed,
		confirmTimeout: DefaultConfirmTimeout,
		pollInterval:   DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConfirmTimeout returns the bound applied by ConfirmTransaction.
func (c *HTTPClient) ConfirmTimeout() time.Duration {
	return c.confirmTimeout
}

// rpcRequest represents a JSON-RPC 2.0 request.
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

// rpcResponse represents a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error returned by the node.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// call performs a JSON-RPC read call with retries and exponential backoff.
func (c *HTTPClient) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	return c.do(ctx, method, params, result, c.maxRetries)
}

// do performs a JSON-RPC call with up to maxRetries retries.
func (c *HTTPClient) do(ctx context.Context, method string, params []interface{}, result interface{}, maxRetries int) error {
	start := time.Now()
	defer func() {
		observability.RecordRPCLatency(method, time.Since(start).Seconds())
	}()

	reqID := c.requestID.Add(1)
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			// Exponential backoff
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		// Handle rate limiting
		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
			continue
		}

		var rpcResp rpcResponse
		if err := json.Unmarshal(respBody, &rpcResp); err != nil {
			lastErr = fmt.Errorf("unmarshal response: %w", err)
			continue
		}

		if rpcResp.Error != nil {
			// RPC errors are not retried
			return rpcResp.Error
		}

		if result != nil && rpcResp.Result != nil {
			if err := json.Unmarshal(rpcResp.Result, result); err != nil {
				return fmt.Errorf("unmarshal result: %w", err)
			}
		}

		return nil
	}

	if maxRetries == 0 {
		return lastErr
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// MinimumBalanceForRentExemption calls getMinimumBalanceForRentExemption.
func (c *HTTPClient) MinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	var result uint64
	params := []interface{}{size, map[string]interface{}{"commitment": c.commitment}}
	if err := c.call(ctx, "getMinimumBalanceForRentExemption", params, &result); err != nil {
		return 0, err
	}
	return result, nil
}

// LatestBlockhash calls getLatestBlockhash.
func (c *HTTPClient) LatestBlockhash(ctx context.Context) (Blockhash, error) {
	var result getLatestBlockhashResult
	params := []interface{}{map[string]interface{}{"commitment": c.commitment}}
	if err := c.call(ctx, "getLatestBlockhash", params, &result); err != nil {
		return Blockhash{}, err
	}
	if result.Value.Blockhash == "" {
		return Blockhash{}, fmt.Errorf("empty blockhash in response")
	}
	return Blockhash{
		Blockhash:            result.Value.Blockhash,
		LastValidBlockHeight: result.Value.LastValidBlockHeight,
	}, nil
}

type getLatestBlockhashResult struct {
	Value struct {
		Blockhash            string `json:"blockhash"`
		LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
	} `json:"value"`
}

// GetBlockHeight retrieves the current block height.
func (c *HTTPClient) GetBlockHeight(ctx context.Context) (uint64, error) {
	var result uint64
	params := []interface{}{map[string]interface{}{"commitment": c.commitment}}
	if err := c.call(ctx, "getBlockHeight", params, &result); err != nil {
		return 0, err
	}
	return result, nil
}

// GetAccountInfo retrieves account info by public key.
// Returns nil if account not found.
func (c *HTTPClient) GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error) {
	params := []interface{}{
		pubkey,
		map[string]interface{}{
			"encoding":   "base64",
			"commitment": c.commitment,
		},
	}

	var result getAccountInfoResult
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}

	if result.Value == nil {
		return nil, nil
	}

	info := &AccountInfo{
		Lamports:   result.Value.Lamports,
		Owner:      result.Value.Owner,
		Executable: result.Value.Executable,
		RentEpoch:  result.Value.RentEpoch,
	}

	if len(result.Value.Data) >= 1 {
		info.Data = result.Value.Data[0]
	}

	return info, nil
}

// AccountInfo represents Solana account information.
type AccountInfo struct {
	Lamports   uint64 `json:"lamports"`
	Owner      string `json:"owner"`
	Data       string `json:"data"` // base64 encoded
	Executable bool   `json:"executable"`
	RentEpoch  uint64 `json:"rentEpoch"`
}

type getAccountInfoResult struct {
	Value *getAccountInfoValue `json:"value"`
}

type getAccountInfoValue struct {
	Lamports   uint64   `json:"lamports"`
	Owner      string   `json:"owner"`
	Data       []string `json:"data"` // [base64_data, encoding]
	Executable bool     `json:"executable"`
	RentEpoch  uint64   `json:"rentEpoch"`
}

// AccountExists reports whether the account is allocated.
func (c *HTTPClient) AccountExists(ctx context.Context, address string) (bool, error) {
	info, err := c.GetAccountInfo(ctx, address)
	if err != nil {
		return false, err
	}
	return info != nil, nil
}

// MintDecimals reads decimals from a mint account.
func (c *HTTPClient) MintDecimals(ctx context.Context, mint string) (uint8, error) {
	state, err := c.MintState(ctx, mint)
	if err != nil {
		return 0, err
	}
	return state.Decimals, nil
}

// MintState reads and decodes a mint account.
func (c *HTTPClient) MintState(ctx context.Context, mint string) (MintState, error) {
	info, err := c.GetAccountInfo(ctx, mint)
	if err != nil {
		return MintState{}, err
	}
	if info == nil {
		return MintState{}, fmt.Errorf("mint %s not found", mint)
	}
	if info.Owner != TokenProgramID.ToBase58() {
		return MintState{}, fmt.Errorf("account %s is not owned by the token program", mint)
	}
	return parseMint(info.Data)
}

// TokenAccountBalance returns the amount held by a token account, or zero
// when the account does not exist.
func (c *HTTPClient) TokenAccountBalance(ctx context.Context, account string) (uint64, error) {
	info, err := c.GetAccountInfo(ctx, account)
	if err != nil {
		return 0, err
	}
	if info == nil {
		return 0, nil
	}
	if info.Owner != TokenProgramID.ToBase58() {
		return 0, fmt.Errorf("account %s is not owned by the token program", account)
	}
	decoded, err := base64.StdEncoding.DecodeString(info.Data)
	if err != nil {
		return 0, fmt.Errorf("decode token account data: %w", err)
	}
	// Token account layout: mint(32) | owner(32) | amount(8) | ...
	if len(decoded) < TokenAccountSize {
		return 0, fmt.Errorf("token account data too short: %d", len(decoded))
	}
	return binary.LittleEndian.Uint64(decoded[64:72]), nil
}

// parseMint decodes SPL mint account data.
// Layout: mintAuthority option(4+32) | supply(8) | decimals(1) |
// isInitialized(1) | freezeAuthority option(4+32).
func parseMint(data string) (MintState, error) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return MintState{}, fmt.Errorf("decode mint data: %w", err)
	}
	if len(decoded) < MintAccountSize {
		return MintState{}, fmt.Errorf("mint data too short: %d", len(decoded))
	}
	return MintState{
		MintAuthority:   optionalKey(decoded[0:36]),
		Supply:          binary.LittleEndian.Uint64(decoded[36:44]),
		Decimals:        decoded[44],
		Initialized:     decoded[45] == 1,
		FreezeAuthority: optionalKey(decoded[46:82]),
	}, nil
}

// optionalKey decodes a COption<Pubkey>: a u32 tag followed by the key.
func optionalKey(b []byte) string {
	if binary.LittleEndian.Uint32(b[:4]) == 0 {
		return ""
	}
	return common.PublicKeyFromBytes(b[4:36]).ToBase58()
}

// GetSignatureStatuses retrieves statuses for signatures; unknown
// signatures yield nil entries.
func (c *HTTPClient) GetSignatureStatuses(ctx context.Context, signatures []string) ([]*SignatureStatus, error) {
	params := []interface{}{
		signatures,
		map[string]interface{}{"searchTransactionHistory": false},
	}

	var result getSignatureStatusesResult
	if err := c.call(ctx, "getSignatureStatuses", params, &result); err != nil {
		return nil, err
	}

	statuses := make([]*SignatureStatus, len(result.Value))
	for i, v := range result.Value {
		if v == nil {
			continue
		}
		statuses[i] = &SignatureStatus{
			Slot:               v.Slot,
			Confirmations:      v.Confirmations,
			Err:                v.Err,
			ConfirmationStatus: v.ConfirmationStatus,
		}
	}
	return statuses, nil
}

type getSignatureStatusesResult struct {
	Value []*getSignatureStatusValue `json:"value"`
}

type getSignatureStatusValue struct {
	Slot               int64       `json:"slot"`
	Confirmations      *int64      `json:"confirmations"`
	Err                interface{} `json:"err"`
	ConfirmationStatus string      `json:"confirmationStatus"`
}

// SendTransaction serializes and submits a signed transaction.
// Submission is attempted exactly once: a failed send may still land.
func (c *HTTPClient) SendTransaction(ctx context.Context, tx types.Transaction) (string, error) {
	raw, err := tx.Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize transaction: %w", err)
	}

	params := []interface{}{
		base64.StdEncoding.EncodeToString(raw),
		map[string]interface{}{
			"encoding":            "base64",
			"preflightCommitment": c.commitment,
		},
	}

	var signature string
	if err := c.do(ctx, "sendTransaction", params, &signature, 0); err != nil {
		return "", err
	}
	return signature, nil
}

// ConfirmTransaction waits until the signature reaches the client's
// commitment, the transaction fails, the blockhash expires, or the confirm
// timeout elapses.
func (c *HTTPClient) ConfirmTransaction(ctx context.Context, signature string, lastValidBlockHeight uint64) error {
	ctx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	var notifications <-chan SignatureNotification
	if c.ws != nil {
		ch, err := c.ws.SubscribeSignature(ctx, signature, c.commitment)
		if err == nil {
			notifications = ch
		}
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: %s after %v", ErrConfirmTimeout, signature, c.confirmTimeout)
			}
			return ctx.Err()

		case n, ok := <-notifications:
			if !ok {
				notifications = nil
				continue
			}
			if n.Err != nil {
				return fmt.Errorf("%w: %s: %v", ErrTransactionFailed, signature, n.Err)
			}
			return nil

		case <-ticker.C:
			done, err := c.checkConfirmation(ctx, signature, lastValidBlockHeight)
			if done || err != nil {
				return err
			}
		}
	}
}

// checkConfirmation polls status and block height once.
func (c *HTTPClient) checkConfirmation(ctx context.Context, signature string, lastValidBlockHeight uint64) (bool, error) {
	statuses, err := c.GetSignatureStatuses(ctx, []string{signature})
	if err != nil {
		// Transient read failure; the next tick retries.
		return false, nil
	}
	if len(statuses) > 0 && statuses[0] != nil {
		st := statuses[0]
		if st.Err != nil {
			return true, fmt.Errorf("%w: %s: %v", ErrTransactionFailed, signature, st.Err)
		}
		if st.Reached(c.commitment) {
			return true, nil
		}
	}

	if lastValidBlockHeight == 0 {
		return false, nil
	}
	height, err := c.GetBlockHeight(ctx)
	if err != nil {
		return false, nil
	}
	if height > lastValidBlockHeight {
		return true, fmt.Errorf("%w: %s (height %d > %d)", ErrBlockhashExpired, signature, height, lastValidBlockHeight)
	}
	return false, nil
}
