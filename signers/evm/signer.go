package evm

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/oftbridge/relay/permit2"
)

// PermitSigner produces owner-side EIP-712 signatures over permits. It is
// the counterpart to Client: the owner signs, the relay operator submits.
type PermitSigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewPermitSignerFromPrivateKey creates a permit signer from a hex-encoded
// private key (with or without 0x prefix).
func NewPermitSignerFromPrivateKey(privateKeyHex string) (*PermitSigner, error) {
	privateKeyHex = strings.TrimPrefix(privateKeyHex, "0x")

	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &PermitSigner{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// Address returns the owner address permits must name.
func (s *PermitSigner) Address() string {
	return s.address.Hex()
}

// SignPermitSingle signs a standing-allowance permit for the given chain.
// Returns the 65-byte signature as 0x-prefixed hex.
func (s *PermitSigner) SignPermitSingle(permit permit2.PermitSingle, chainID *big.Int) (string, error) {
	digest, err := permit2.HashPermitSingle(permit, chainID)
	if err != nil {
		return "", err
	}
	return s.signDigest(digest)
}

// SignPermitTransferFrom signs a one-shot signature transfer for the given
// chain. Returns the 65-byte signature as 0x-prefixed hex.
func (s *PermitSigner) SignPermitTransferFrom(permit permit2.PermitTransferFrom, chainID *big.Int) (string, error) {
	digest, err := permit2.HashPermitTransferFrom(permit, chainID)
	if err != nil {
		return "", err
	}
	return s.signDigest(digest)
}

func (s *PermitSigner) signDigest(digest []byte) (string, error) {
	signature, err := crypto.Sign(digest, s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign: %w", err)
	}
	// Recovery ID 0/1 to Ethereum's 27/28.
	signature[64] += 27
	return "0x" + common.Bytes2Hex(signature), nil
}
