// Package oft adapts the cross-chain bridge layer: an omnichain token
// contract that burns or locks on the source chain and triggers mint or
// release at a destination endpoint. The relay only ever consumes four of
// its capabilities: quoteSend, send, approve and balanceOf.
package oft

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// SendParam describes one cross-chain transfer of already-held tokens.
// Destination address spaces differ in width across chains, so the recipient
// is carried as a 32-byte identifier.
type SendParam struct {
	DstEid       uint32   // Destination endpoint identifier
	To           [32]byte // Destination address, left-padded when 20 bytes wide
	AmountLD     *big.Int // Amount to send, local decimals
	MinAmountLD  *big.Int // Slippage floor the recipient must receive
	ExtraOptions []byte   // Opaque execution options forwarded to the messaging layer
	ComposeMsg   []byte
	OftCmd       []byte
}

// MessagingFee is the quoted cost of one bridge send. NativeFee must be
// attached as call value on send; LzTokenFee only applies when paying in the
// bridge-native unit.
type MessagingFee struct {
	NativeFee  *big.Int
	LzTokenFee *big.Int
}

// MessagingFeeTuple is the ABI shape of MessagingFee for the send call.
type MessagingFeeTuple struct {
	NativeFee  *big.Int
	LzTokenFee *big.Int
}

// AddressToBytes32 widens a 20-byte EVM address into the 32-byte destination
// identifier, left-padded with zeros.
func AddressToBytes32(address string) [32]byte {
	var out [32]byte
	addr := common.HexToAddress(address)
	copy(out[12:], addr.Bytes())
	return out
}

// ParseBytes32Destination parses a destination identifier. Both 20-byte EVM
// addresses and full 32-byte identifiers are accepted; anything else is an
// error.
func ParseBytes32Destination(s string) ([32]byte, error) {
	var out [32]byte
	trimmed := strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return out, fmt.Errorf("invalid destination hex: %w", err)
	}
	switch len(raw) {
	case 20:
		copy(out[12:], raw)
	case 32:
		copy(out[:], raw)
	default:
		return out, fmt.Errorf("destination must be 20 or 32 bytes, got %d", len(raw))
	}
	return out, nil
}

// IsZeroBytes32 reports whether a destination identifier is all zeros.
func IsZeroBytes32(b [32]byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// ParseMessagingFee converts the unpacked quoteSend output into a
// MessagingFee. The ABI decoder materializes tuples as reflect-generated
// structs, so the conversion goes through reflection.
func ParseMessagingFee(v interface{}) (*MessagingFee, error) {
	if fee, ok := v.(MessagingFeeTuple); ok {
		return &MessagingFee{NativeFee: fee.NativeFee, LzTokenFee: fee.LzTokenFee}, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("unexpected quoteSend result type: %T", v)
	}

	native := rv.FieldByName("NativeFee")
	lz := rv.FieldByName("LzTokenFee")
	if !native.IsValid() || !lz.IsValid() {
		return nil, fmt.Errorf("quoteSend result missing fee fields: %T", v)
	}

	nativeFee, ok := native.Interface().(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected nativeFee type: %T", native.Interface())
	}
	lzFee, ok := lz.Interface().(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected lzTokenFee type: %T", lz.Interface())
	}

	return &MessagingFee{NativeFee: nativeFee, LzTokenFee: lzFee}, nil
}
