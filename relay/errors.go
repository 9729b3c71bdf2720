package relay

import (
	"fmt"
	"strings"
)

// Error reason codes. Local precondition failures carry invalid_relay_*
// codes and are raised before any chain interaction; relay_* codes cover
// registry and bridge rejections surfaced by the submitted transaction.
const (
	// Local precondition violations
	ErrInvalidPayload         = "invalid_relay_payload"
	ErrInvalidRecipient       = "invalid_relay_recipient"
	ErrRecipientIsRelay       = "invalid_relay_recipient_is_relay"
	ErrInvalidAmount          = "invalid_relay_amount"
	ErrAmountExceedsPermit    = "invalid_relay_amount_exceeds_permit"
	ErrInvalidToken           = "invalid_relay_token"
	ErrSpenderMismatch        = "invalid_relay_spender"
	ErrInvalidDestination     = "invalid_relay_bridge_destination"
	ErrInvalidFee             = "invalid_relay_bridge_fee"
	ErrInvalidSignatureFormat = "invalid_relay_signature_format"
	ErrWithdrawDenied         = "invalid_relay_withdraw_destination"

	// Off-chain signature and freshness checks
	ErrInvalidSignature    = "invalid_relay_signature"
	ErrSigDeadlineExpired  = "relay_signature_deadline_expired"
	ErrPermitExpired       = "relay_permit_expired"
	ErrInsufficientBalance = "relay_insufficient_balance"

	// Execution failures
	ErrVerificationFailed  = "relay_verification_failed"
	ErrNonceAlreadyUsed    = "relay_nonce_already_used"
	ErrAllowanceExceeded   = "relay_allowance_exceeded"
	ErrInsufficientFee     = "relay_insufficient_bridge_fee"
	ErrSlippageExceeded    = "relay_bridge_slippage_exceeded"
	ErrFailedToExecute     = "relay_failed_to_execute"
	ErrFailedToGetReceipt  = "relay_failed_to_get_receipt"
	ErrTransactionFailed   = "relay_transaction_failed"
	ErrFailedToQuote       = "relay_failed_to_quote"
)

// VerifyError reports a rejected authorization. Reason is one of the
// constants above; Owner is the claimed permit owner.
type VerifyError struct {
	Reason  string
	Owner   string
	Message string
}

func (e *VerifyError) Error() string {
	if e.Message == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// NewVerifyError creates a VerifyError.
func NewVerifyError(reason, owner, message string) *VerifyError {
	return &VerifyError{Reason: reason, Owner: owner, Message: message}
}

// ExecuteError reports a failed relay transaction. Transaction is the hash
// when one was submitted, empty otherwise.
type ExecuteError struct {
	Reason      string
	Owner       string
	Transaction string
	Message     string
}

func (e *ExecuteError) Error() string {
	if e.Message == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// NewExecuteError creates an ExecuteError.
func NewExecuteError(reason, owner, transaction, message string) *ExecuteError {
	return &ExecuteError{Reason: reason, Owner: owner, Transaction: transaction, Message: message}
}

// parseRevertReason maps registry and bridge revert strings onto reason
// codes. Unrecognized reverts propagate verbatim under a generic code.
func parseRevertReason(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "InvalidNonce"), strings.Contains(msg, "NonceAlreadyUsed"):
		return ErrNonceAlreadyUsed
	case strings.Contains(msg, "SignatureExpired"), strings.Contains(msg, "AllowanceExpired"):
		return ErrPermitExpired
	case strings.Contains(msg, "InvalidSignature"), strings.Contains(msg, "InvalidSigner"):
		return ErrInvalidSignature
	case strings.Contains(msg, "InsufficientAllowance"), strings.Contains(msg, "AllowanceExceeded"):
		return ErrAllowanceExceeded
	case strings.Contains(msg, "NotEnoughNative"), strings.Contains(msg, "LzTokenUnavailable"):
		return ErrInsufficientFee
	case strings.Contains(msg, "SlippageExceeded"):
		return ErrSlippageExceeded
	default:
		return ErrFailedToExecute
	}
}
