// Package permit2 models the two capability sets of the Permit2 signature
// registry that the transfer relay consumes: standing allowances granted via
// PermitSingle and one-shot signature transfers via PermitTransferFrom.
//
// Numeric fields are decimal strings so payloads survive JSON round-trips
// without precision loss; they are parsed to big.Int at the point of use.
package permit2

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PermitDetails is the per-token half of a standing allowance permit.
// It maps to Permit2's PermitDetails struct (token, uint160 amount,
// uint48 expiration, uint48 nonce).
type PermitDetails struct {
	Token      string `json:"token"`      // Token contract address (hex)
	Amount     string `json:"amount"`     // Allowance bound in smallest unit, decimal string
	Expiration string `json:"expiration"` // Unix timestamp, decimal string; allowance invalid after
	Nonce      string `json:"nonce"`      // Registry-assigned sequence number, decimal string
}

// PermitSingle is a signed, time-bounded authorization for one spender to
// move a bounded amount of one token. Consumed once by the registry's
// permit() call; superseded permits fail the registry's nonce check.
type PermitSingle struct {
	Details     PermitDetails `json:"details"`
	Spender     string        `json:"spender"`     // Authorized spender (hex)
	SigDeadline string        `json:"sigDeadline"` // Overall signature deadline, decimal string
}

// TokenPermissions is the permitted token and amount of a one-shot
// signature transfer.
type TokenPermissions struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

// PermitTransferFrom is a one-shot, registry-verified authorization keyed by
// a bitmap-tracked nonce. There is no prior allowance step: the registry
// validates and moves tokens in a single permitTransferFrom call, flipping
// one bit in the owner-scoped nonce bitmap.
type PermitTransferFrom struct {
	Permitted TokenPermissions `json:"permitted"`
	Spender   string           `json:"spender"`  // Caller the signature is bound to (hex)
	Nonce     string           `json:"nonce"`    // uint256 bitmap position, decimal string
	Deadline  string           `json:"deadline"` // Unix timestamp, decimal string
}

// PermitSingleTuple is the ABI shape of PermitSingle for contract calls.
type PermitSingleTuple struct {
	Details struct {
		Token      common.Address
		Amount     *big.Int
		Expiration *big.Int
		Nonce      *big.Int
	}
	Spender     common.Address
	SigDeadline *big.Int
}

// PermitTransferFromTuple is the ABI shape of PermitTransferFrom. The signed
// spender is implied by the on-chain caller and is not part of the tuple.
type PermitTransferFromTuple struct {
	Permitted struct {
		Token  common.Address
		Amount *big.Int
	}
	Nonce    *big.Int
	Deadline *big.Int
}

// ABITuple parses the decimal-string fields and returns the tuple to pass to
// abi.Pack for permit() and the relay's allowance-style entry points.
func (p PermitSingle) ABITuple() (PermitSingleTuple, error) {
	var t PermitSingleTuple

	amount, ok := new(big.Int).SetString(p.Details.Amount, 10)
	if !ok {
		return t, fmt.Errorf("invalid permit amount: %s", p.Details.Amount)
	}
	expiration, ok := new(big.Int).SetString(p.Details.Expiration, 10)
	if !ok {
		return t, fmt.Errorf("invalid permit expiration: %s", p.Details.Expiration)
	}
	nonce, ok := new(big.Int).SetString(p.Details.Nonce, 10)
	if !ok {
		return t, fmt.Errorf("invalid permit nonce: %s", p.Details.Nonce)
	}
	sigDeadline, ok := new(big.Int).SetString(p.SigDeadline, 10)
	if !ok {
		return t, fmt.Errorf("invalid permit sigDeadline: %s", p.SigDeadline)
	}

	t.Details.Token = common.HexToAddress(p.Details.Token)
	t.Details.Amount = amount
	t.Details.Expiration = expiration
	t.Details.Nonce = nonce
	t.Spender = common.HexToAddress(p.Spender)
	t.SigDeadline = sigDeadline
	return t, nil
}

// ABITuple parses the decimal-string fields and returns the tuple to pass to
// abi.Pack for permitTransferFrom() and the relay's gasless entry point.
func (p PermitTransferFrom) ABITuple() (PermitTransferFromTuple, error) {
	var t PermitTransferFromTuple

	amount, ok := new(big.Int).SetString(p.Permitted.Amount, 10)
	if !ok {
		return t, fmt.Errorf("invalid permitted amount: %s", p.Permitted.Amount)
	}
	nonce, ok := new(big.Int).SetString(p.Nonce, 10)
	if !ok {
		return t, fmt.Errorf("invalid nonce: %s", p.Nonce)
	}
	deadline, ok := new(big.Int).SetString(p.Deadline, 10)
	if !ok {
		return t, fmt.Errorf("invalid deadline: %s", p.Deadline)
	}

	t.Permitted.Token = common.HexToAddress(p.Permitted.Token)
	t.Permitted.Amount = amount
	t.Nonce = nonce
	t.Deadline = deadline
	return t, nil
}
