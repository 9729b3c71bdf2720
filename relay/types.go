package relay

import (
	"math/big"

	"github.com/oftbridge/relay/permit2"
)

// ValidateRequest carries a standing-allowance permit for validation only.
// No funds move; the registry records whatever allowance state it keeps.
type ValidateRequest struct {
	Owner     string               `json:"owner"`
	Permit    permit2.PermitSingle `json:"permit"`
	Signature string               `json:"signature"` // EIP-712 signature, hex
}

// TransferRequest authorizes moving an explicit amount to an explicit
// recipient against a standing-allowance permit. The allowance is consumed
// in the same transaction it is granted, so nothing is left standing.
type TransferRequest struct {
	Owner     string               `json:"owner"`
	Permit    permit2.PermitSingle `json:"permit"`
	Signature string               `json:"signature"`
	Recipient string               `json:"recipient"`
	Amount    string               `json:"amount"` // Requested amount, decimal string; must not exceed the permit bound
}

// BridgeParams are the caller-supplied destination parameters of a bridge
// send. The send amount itself is always the amount just received by the
// relay, never caller-overridable at this layer.
type BridgeParams struct {
	DstEid       uint32 `json:"dstEid"`
	Recipient    string `json:"recipient"`    // Destination address, 20- or 32-byte hex
	MinAmount    string `json:"minAmount"`    // Slippage floor, decimal string
	ExtraOptions string `json:"extraOptions"` // Opaque execution options, hex ("0x" when empty)
	RefundTo     string `json:"refundTo"`     // Native-fee refund address; defaults to the owner
	Fee          string `json:"fee"`          // Native fee to attach, wei decimal string (from Quote)
}

// BridgeRequest combines a receive-with-permit with a bridge send.
type BridgeRequest struct {
	Owner     string               `json:"owner"`
	Permit    permit2.PermitSingle `json:"permit"`
	Signature string               `json:"signature"`
	Amount    string               `json:"amount"`
	Bridge    BridgeParams         `json:"bridge"`
}

// GaslessBridgeRequest is the fully gasless variant: a one-shot signature
// transfer pulls the permit's exact amount, so there is no separate amount
// field and no amount-under-bound check beyond the permit itself.
type GaslessBridgeRequest struct {
	Owner     string                     `json:"owner"`
	Permit    permit2.PermitTransferFrom `json:"permit"`
	Signature string                     `json:"signature"`
	Bridge    BridgeParams               `json:"bridge"`
}

// QuoteRequest prices a hypothetical bridge send. Parameters must exactly
// match the later send call, since the bridge fee depends on payload size
// and destination.
type QuoteRequest struct {
	Token        string `json:"token"`
	Amount       string `json:"amount"`
	DstEid       uint32 `json:"dstEid"`
	Recipient    string `json:"recipient"`
	MinAmount    string `json:"minAmount"`
	ExtraOptions string `json:"extraOptions"`
}

// WithdrawRequest asks the relay to grant an approval over tokens it holds.
type WithdrawRequest struct {
	Token  string `json:"token"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// VerifyResult reports a successful verification.
type VerifyResult struct {
	Valid bool   `json:"valid"`
	Owner string `json:"owner"`
}

// PermitValidatedEvent is the audit record of a validate-only call.
type PermitValidatedEvent struct {
	Owner   string   `json:"owner"`
	Token   string   `json:"token"`
	Spender string   `json:"spender"`
	Amount  *big.Int `json:"amount"`
}

// TransferCompletedEvent is the audit record of a consumed authorization.
type TransferCompletedEvent struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Token  string   `json:"token"`
	Amount *big.Int `json:"amount"`
}

// BridgeInitiatedEvent is the audit record of a bridge send. GUID is the
// messaging layer's message identifier.
type BridgeInitiatedEvent struct {
	From   string   `json:"from"`
	Token  string   `json:"token"`
	DstEid uint32   `json:"dstEid"`
	To     string   `json:"to"` // 32-byte destination identifier, hex
	Amount *big.Int `json:"amount"`
	GUID   string   `json:"guid"`
}

// ValidateResult is the outcome of a validate-only call.
type ValidateResult struct {
	Owner       string                `json:"owner"`
	Transaction string                `json:"transaction"`
	Event       *PermitValidatedEvent `json:"event,omitempty"`
}

// TransferResult is the outcome of a transfer-bearing call.
type TransferResult struct {
	Owner       string                  `json:"owner"`
	Transaction string                  `json:"transaction"`
	Event       *TransferCompletedEvent `json:"event,omitempty"`
}

// BridgeResult is the outcome of a receive-and-bridge call: one transfer
// record for the pull into the relay, one bridge record for the send.
type BridgeResult struct {
	Owner       string                  `json:"owner"`
	Transaction string                  `json:"transaction"`
	Transfer    *TransferCompletedEvent `json:"transfer,omitempty"`
	Bridge      *BridgeInitiatedEvent   `json:"bridge,omitempty"`
}

// QuoteResult carries the native-fee component of a bridge quote.
type QuoteResult struct {
	NativeFee *big.Int `json:"nativeFee"`
}

// WithdrawResult is the outcome of a withdraw call. The relay only grants
// an approval; the destination must pull the tokens afterwards.
type WithdrawResult struct {
	Transaction string `json:"transaction"`
}
