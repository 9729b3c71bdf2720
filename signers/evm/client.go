// Package evm provides an ethclient-backed implementation of
// relay.ChainSigner: a single-account chain client that reads contracts,
// submits signed transactions and polls for receipts.
package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/oftbridge/relay/oft"
	"github.com/oftbridge/relay/relay"
)

const (
	// fallbackGasLimit is used when gas estimation fails; bridge sends route
	// through the messaging layer and need headroom over a plain transfer.
	fallbackGasLimit = 600000

	receiptPollInterval = 1 * time.Second
	receiptPollTimeout  = 60 * time.Second
)

// Client drives one EVM chain from one ECDSA key.
type Client struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
	eth        *ethclient.Client
	chainID    *big.Int
}

var _ relay.ChainSigner = (*Client)(nil)

// NewClientFromPrivateKey connects to the RPC endpoint and derives the
// signing account from a hex-encoded private key (with or without 0x
// prefix).
func NewClientFromPrivateKey(ctx context.Context, privateKeyHex, rpcURL string) (*Client, error) {
	privateKeyHex = strings.TrimPrefix(privateKeyHex, "0x")

	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	address := crypto.PubkeyToAddress(privateKey.PublicKey)

	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	return &Client{
		privateKey: privateKey,
		address:    address,
		eth:        eth,
		chainID:    chainID,
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// Address returns the signing account's address.
func (c *Client) Address() string {
	return c.address.Hex()
}

// GetChainID returns the connected chain's ID.
func (c *Client) GetChainID(ctx context.Context) (*big.Int, error) {
	return c.chainID, nil
}

// ReadContract packs and executes an eth_call against the contract,
// returning the first output value (or the full slice for multi-output
// methods).
func (c *Client) ReadContract(ctx context.Context, contractAddress string, abiJSON []byte, method string, args ...interface{}) (interface{}, error) {
	contractABI, err := abi.JSON(strings.NewReader(string(abiJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack method call: %w", err)
	}

	to := common.HexToAddress(contractAddress)
	msg := ethereum.CallMsg{
		To:   &to,
		Data: data,
	}

	result, err := c.eth.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("contract call failed: %w", err)
	}

	outputs, err := contractABI.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}

	if len(outputs) == 0 {
		return nil, nil
	}
	if len(outputs) == 1 {
		return outputs[0], nil
	}
	return outputs, nil
}

// WriteContract executes a contract transaction with no attached value.
func (c *Client) WriteContract(ctx context.Context, contractAddress string, abiJSON []byte, method string, args ...interface{}) (string, error) {
	return c.WriteContractWithValue(ctx, contractAddress, big.NewInt(0), abiJSON, method, args...)
}

// WriteContractWithValue packs, signs and submits a contract transaction,
// attaching value in wei. Returns the transaction hash.
func (c *Client) WriteContractWithValue(ctx context.Context, contractAddress string, value *big.Int, abiJSON []byte, method string, args ...interface{}) (string, error) {
	contractABI, err := abi.JSON(strings.NewReader(string(abiJSON)))
	if err != nil {
		return "", fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return "", fmt.Errorf("failed to pack method call: %w", err)
	}

	nonce, err := c.eth.PendingNonceAt(ctx, c.address)
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get gas price: %w", err)
	}

	to := common.HexToAddress(contractAddress)
	if value == nil {
		value = big.NewInt(0)
	}

	gasLimit, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From:  c.address,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		// Estimation fails on reverting calls too; let the node reject the
		// transaction itself rather than guessing at the reason here.
		gasLimit = fallbackGasLimit
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	return signedTx.Hash().Hex(), nil
}

// WaitForTransactionReceipt polls for the receipt until it lands or the
// timeout elapses, converting logs into the relay's receipt shape.
func (c *Client) WaitForTransactionReceipt(ctx context.Context, txHash string) (*relay.TransactionReceipt, error) {
	hash := common.HexToHash(txHash)
	deadline := time.Now().Add(receiptPollTimeout)

	for {
		receipt, err := c.eth.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			return convertReceipt(receipt), nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("transaction receipt not found after %s", receiptPollTimeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(receiptPollInterval):
		}
	}
}

// GetBalance returns the native balance when tokenAddress is empty or the
// zero address, the ERC-20 balance otherwise.
func (c *Client) GetBalance(ctx context.Context, address string, tokenAddress string) (*big.Int, error) {
	if tokenAddress == "" || strings.EqualFold(tokenAddress, relay.ZeroAddress) {
		balance, err := c.eth.BalanceAt(ctx, common.HexToAddress(address), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get balance: %w", err)
		}
		return balance, nil
	}

	result, err := c.ReadContract(ctx, tokenAddress, oft.ERC20BalanceOfABI, oft.FunctionBalanceOf, common.HexToAddress(address))
	if err != nil {
		return nil, err
	}
	balance, ok := result.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balance type: %T", result)
	}
	return balance, nil
}

func convertReceipt(receipt *types.Receipt) *relay.TransactionReceipt {
	out := &relay.TransactionReceipt{
		Status:      receipt.Status,
		BlockNumber: receipt.BlockNumber.Uint64(),
		TxHash:      receipt.TxHash.Hex(),
		Logs:        make([]relay.Log, 0, len(receipt.Logs)),
	}
	for _, log := range receipt.Logs {
		topics := make([]string, len(log.Topics))
		for i, t := range log.Topics {
			topics[i] = t.Hex()
		}
		out.Logs = append(out.Logs, relay.Log{
			Address: log.Address.Hex(),
			Topics:  topics,
			Data:    log.Data,
		})
	}
	return out
}
