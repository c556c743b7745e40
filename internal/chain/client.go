package chain

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// DefaultCommitment is the commitment level requested when none is configured.
const DefaultCommitment = "confirmed"

// AccountNotFoundError reports a getAccountInfo response without an account payload.
type AccountNotFoundError struct {
	Address solana.PublicKey
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account not found: %s", e.Address)
}

// IsAccountNotFound reports whether err is or wraps an AccountNotFoundError.
func IsAccountNotFound(err error) bool {
	var notFound *AccountNotFoundError
	return errors.As(err, &notFound)
}

// Client wraps a JSON-RPC connection to a ledger node.
type Client struct {
	rpcClient  *rpc.Client
	commitment string
}

// Option configures a Client.
type Option func(*Client)

// WithCommitment sets the commitment level sent with account queries.
func WithCommitment(commitment string) Option {
	return func(c *Client) {
		if commitment != "" {
			c.commitment = commitment
		}
	}
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string, opts ...Option) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", rpcURL)
	}

	c := &Client{
		rpcClient:  rpcClient,
		commitment: DefaultCommitment,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

type accountInfoConfig struct {
	Encoding   string `json:"encoding"`
	Commitment string `json:"commitment,omitempty"`
}

type accountInfoResult struct {
	Context struct {
		Slot uint64 `json:"slot"`
	} `json:"context"`
	Value *accountInfoValue `json:"value"`
}

type accountInfoValue struct {
	Data       []string `json:"data"`
	Executable bool     `json:"executable"`
	Lamports   uint64   `json:"lamports"`
	Owner      string   `json:"owner"`
}

// FetchAccountBytes loads the raw data of an account.
func (c *Client) FetchAccountBytes(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	var result *accountInfoResult
	err := c.rpcClient.CallContext(ctx, &result, "getAccountInfo", address.String(), accountInfoConfig{
		Encoding:   "base64",
		Commitment: c.commitment,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNoResult) {
			return nil, &AccountNotFoundError{Address: address}
		}
		return nil, errors.Wrapf(err, "get account info %s", address)
	}
	if result == nil || result.Value == nil || len(result.Value.Data) == 0 {
		return nil, &AccountNotFoundError{Address: address}
	}

	data, err := base64.StdEncoding.DecodeString(result.Value.Data[0])
	if err != nil {
		return nil, errors.Wrapf(err, "decode account data %s", address)
	}
	return data, nil
}

// FetchResult is the outcome of an asynchronous fetch.
type FetchResult struct {
	Address solana.PublicKey
	Data    []byte
	Err     error
}

// FetchAccountBytesAsync runs FetchAccountBytes in the background. The returned channel
// yields exactly one result and is then closed.
func (c *Client) FetchAccountBytesAsync(ctx context.Context, address solana.PublicKey) <-chan FetchResult {
	out := make(chan FetchResult, 1)
	go func() {
		defer close(out)
		data, err := c.FetchAccountBytes(ctx, address)
		out <- FetchResult{Address: address, Data: data, Err: err}
	}()
	return out
}
