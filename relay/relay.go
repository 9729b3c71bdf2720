// Package relay implements the transfer validator / bridge relay: it gates
// fund movement on a valid, scope-checked, freshly-signed Permit2
// authorization and optionally forwards the received funds into a
// cross-chain bridge send, never leaving a standing allowance behind.
//
// Every operation is a Verify/Execute pair. Verify runs the full local
// precondition ladder and recovers the EIP-712 signature before anything
// touches the chain, so malformed requests fail without a single external
// call. Execute re-verifies, submits the relay contract transaction, waits
// for the receipt and decodes the audit events from its logs. Atomicity is
// the transaction's: a mid-sequence revert undoes the whole state
// transition, including transfers already performed within the call.
package relay

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// ChainSigner abstracts the chain client the relay drives. Implementations
// submit transactions from a single account whose address is the relay
// operator identity.
type ChainSigner interface {
	// Address returns the signer's address.
	Address() string

	// GetChainID returns the chain ID of the connected network.
	GetChainID(ctx context.Context) (*big.Int, error)

	// ReadContract reads data from a contract.
	ReadContract(ctx context.Context, address string, abiJSON []byte, method string, args ...interface{}) (interface{}, error)

	// WriteContract executes a contract transaction with no attached value.
	WriteContract(ctx context.Context, address string, abiJSON []byte, method string, args ...interface{}) (string, error)

	// WriteContractWithValue executes a payable contract transaction,
	// attaching value in wei.
	WriteContractWithValue(ctx context.Context, address string, value *big.Int, abiJSON []byte, method string, args ...interface{}) (string, error)

	// WaitForTransactionReceipt waits for a transaction to be mined.
	WaitForTransactionReceipt(ctx context.Context, txHash string) (*TransactionReceipt, error)

	// GetBalance gets the native balance when tokenAddress is empty or the
	// zero address, the ERC-20 balance otherwise.
	GetBalance(ctx context.Context, address string, tokenAddress string) (*big.Int, error)
}

// Log is one receipt log entry.
type Log struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    []byte   `json:"data"`
}

// TransactionReceipt represents the receipt of a mined transaction.
type TransactionReceipt struct {
	Status      uint64 `json:"status"`
	BlockNumber uint64 `json:"blockNumber"`
	TxHash      string `json:"transactionHash"`
	Logs        []Log  `json:"logs"`
}

// NetworkConfig carries the per-network relay deployment.
type NetworkConfig struct {
	ChainID      *big.Int
	RelayAddress string
}

// Relay drives one relay contract deployment through a ChainSigner.
type Relay struct {
	signer ChainSigner
	cfg    NetworkConfig
}

// New creates a Relay for the given deployment.
func New(signer ChainSigner, cfg NetworkConfig) (*Relay, error) {
	if signer == nil {
		return nil, fmt.Errorf("relay: signer is required")
	}
	if cfg.ChainID == nil {
		return nil, fmt.Errorf("relay: chain id is required")
	}
	if !isHexAddress(cfg.RelayAddress) || isZeroAddress(cfg.RelayAddress) {
		return nil, fmt.Errorf("relay: invalid relay address %q", cfg.RelayAddress)
	}
	return &Relay{signer: signer, cfg: cfg}, nil
}

// NewForNetwork creates a Relay from the built-in NetworkConfigs table.
func NewForNetwork(signer ChainSigner, network string) (*Relay, error) {
	cfg, ok := NetworkConfigs[network]
	if !ok {
		return nil, fmt.Errorf("relay: unsupported network %q", network)
	}
	return New(signer, cfg)
}

// Address returns the relay contract address this instance drives. Permits
// must name it as spender.
func (r *Relay) Address() string {
	return r.cfg.RelayAddress
}

// ChainID returns the configured chain id.
func (r *Relay) ChainID() *big.Int {
	return r.cfg.ChainID
}

// HexToBytes converts a hex string (with or without 0x prefix) to bytes.
// Empty and "0x" inputs yield an empty slice.
func HexToBytes(s string) ([]byte, error) {
	trimmed := strings.TrimPrefix(s, "0x")
	if trimmed == "" {
		return []byte{}, nil
	}
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string: %w", err)
	}
	return raw, nil
}

// BytesToHex converts bytes to a 0x-prefixed hex string.
func BytesToHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

func isHexAddress(s string) bool {
	trimmed := strings.TrimPrefix(s, "0x")
	if len(trimmed) != 40 {
		return false
	}
	_, err := hex.DecodeString(trimmed)
	return err == nil
}

func isZeroAddress(s string) bool {
	return strings.EqualFold(s, ZeroAddress) || s == ""
}
