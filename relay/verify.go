package relay

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/oftbridge/relay/oft"
	"github.com/oftbridge/relay/permit2"
)

// VerifyValidatePermit checks a validate-only request. Signature, nonce and
// expiry verification belong to the registry; the checks here are the scope
// invariants the relay enforces before any external call, plus an off-chain
// recovery of the signature so obviously dead requests never reach the
// chain.
func (r *Relay) VerifyValidatePermit(ctx context.Context, req ValidateRequest) (*VerifyResult, error) {
	if err := r.verifyPermitScope(req.Owner, req.Permit); err != nil {
		return nil, err
	}
	if err := r.verifyPermitSignature(req.Owner, req.Permit, req.Signature); err != nil {
		return nil, err
	}
	return &VerifyResult{Valid: true, Owner: req.Owner}, nil
}

// VerifyTransfer checks a validate-and-transfer request. Precondition order
// is fixed: recipient, amount, token, spender — all local, all before any
// external call.
func (r *Relay) VerifyTransfer(ctx context.Context, req TransferRequest) (*VerifyResult, error) {
	owner := req.Owner

	if isZeroAddress(req.Recipient) || !isHexAddress(req.Recipient) {
		return nil, NewVerifyError(ErrInvalidRecipient, owner, "recipient is null")
	}
	if strings.EqualFold(req.Recipient, r.cfg.RelayAddress) {
		return nil, NewVerifyError(ErrRecipientIsRelay, owner, "recipient is the relay")
	}

	if _, err := r.verifyRequestedAmount(owner, req.Amount, req.Permit.Details.Amount); err != nil {
		return nil, err
	}

	if err := r.verifyPermitScope(owner, req.Permit); err != nil {
		return nil, err
	}
	if err := r.verifyPermitSignature(owner, req.Permit, req.Signature); err != nil {
		return nil, err
	}

	if err := r.checkOwnerBalance(ctx, owner, req.Permit.Details.Token, req.Amount); err != nil {
		return nil, err
	}

	return &VerifyResult{Valid: true, Owner: owner}, nil
}

// VerifyReceive checks a receive-with-permit request: the transfer ladder
// with the recipient hard-set to the relay itself, so the recipient checks
// do not apply.
func (r *Relay) VerifyReceive(ctx context.Context, req TransferRequest) (*VerifyResult, error) {
	owner := req.Owner

	if _, err := r.verifyRequestedAmount(owner, req.Amount, req.Permit.Details.Amount); err != nil {
		return nil, err
	}
	if err := r.verifyPermitScope(owner, req.Permit); err != nil {
		return nil, err
	}
	if err := r.verifyPermitSignature(owner, req.Permit, req.Signature); err != nil {
		return nil, err
	}

	if err := r.checkOwnerBalance(ctx, owner, req.Permit.Details.Token, req.Amount); err != nil {
		return nil, err
	}

	return &VerifyResult{Valid: true, Owner: owner}, nil
}

// VerifyBridge checks a receive-and-bridge request: the receive ladder plus
// the bridge destination parameters.
func (r *Relay) VerifyBridge(ctx context.Context, req BridgeRequest) (*VerifyResult, error) {
	owner := req.Owner

	amount, err := r.verifyRequestedAmount(owner, req.Amount, req.Permit.Details.Amount)
	if err != nil {
		return nil, err
	}
	if err := r.verifyPermitScope(owner, req.Permit); err != nil {
		return nil, err
	}
	if err := r.verifyBridgeParams(owner, req.Bridge, amount); err != nil {
		return nil, err
	}
	if err := r.verifyPermitSignature(owner, req.Permit, req.Signature); err != nil {
		return nil, err
	}

	if err := r.checkOwnerBalance(ctx, owner, req.Permit.Details.Token, req.Amount); err != nil {
		return nil, err
	}

	return &VerifyResult{Valid: true, Owner: owner}, nil
}

// VerifyGaslessBridge checks a gasless receive-and-bridge request. The
// permit's amount is the transferred amount, so there is no separate
// amount-under-bound check.
func (r *Relay) VerifyGaslessBridge(ctx context.Context, req GaslessBridgeRequest) (*VerifyResult, error) {
	owner := req.Owner

	amount, ok := new(big.Int).SetString(req.Permit.Permitted.Amount, 10)
	if !ok {
		return nil, NewVerifyError(ErrInvalidPayload, owner, "invalid permitted amount format")
	}
	if amount.Sign() <= 0 {
		return nil, NewVerifyError(ErrInvalidAmount, owner, "amount must be positive")
	}

	if isZeroAddress(req.Permit.Permitted.Token) || !isHexAddress(req.Permit.Permitted.Token) {
		return nil, NewVerifyError(ErrInvalidToken, owner, "token is null")
	}
	if !strings.EqualFold(req.Permit.Spender, r.cfg.RelayAddress) {
		return nil, NewVerifyError(ErrSpenderMismatch, owner, "permit spender is not the relay")
	}

	deadline, ok := new(big.Int).SetString(req.Permit.Deadline, 10)
	if !ok {
		return nil, NewVerifyError(ErrInvalidPayload, owner, "invalid deadline format")
	}
	if deadline.Cmp(deadlineThreshold()) < 0 {
		return nil, NewVerifyError(ErrSigDeadlineExpired, owner, "deadline expired")
	}

	if err := r.verifyBridgeParams(owner, req.Bridge, amount); err != nil {
		return nil, err
	}

	signature, err := HexToBytes(req.Signature)
	if err != nil {
		return nil, NewVerifyError(ErrInvalidSignatureFormat, owner, err.Error())
	}
	digest, err := permit2.HashPermitTransferFrom(req.Permit, r.cfg.ChainID)
	if err != nil {
		return nil, NewVerifyError(ErrInvalidPayload, owner, err.Error())
	}
	valid, err := permit2.RecoverSigner(digest, signature, owner)
	if err != nil || !valid {
		return nil, NewVerifyError(ErrInvalidSignature, owner, "invalid signature")
	}

	if err := r.checkOwnerBalance(ctx, owner, req.Permit.Permitted.Token, req.Permit.Permitted.Amount); err != nil {
		return nil, err
	}

	return &VerifyResult{Valid: true, Owner: owner}, nil
}

// VerifyWithdraw checks a withdraw request. The relay contract's access
// predicate is caller == relay || to == caller; for an off-chain caller the
// reachable branch is destination == the submitting signer. The relay only
// grants an approval, so the balance check is against its own holdings.
func (r *Relay) VerifyWithdraw(ctx context.Context, req WithdrawRequest) (*VerifyResult, error) {
	if isZeroAddress(req.Token) || !isHexAddress(req.Token) {
		return nil, NewVerifyError(ErrInvalidToken, "", "token is null")
	}
	if isZeroAddress(req.To) || !isHexAddress(req.To) {
		return nil, NewVerifyError(ErrInvalidRecipient, "", "destination is null")
	}
	if !strings.EqualFold(req.To, r.signer.Address()) {
		return nil, NewVerifyError(ErrWithdrawDenied, "", "destination must equal the caller")
	}

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, NewVerifyError(ErrInvalidAmount, "", "amount must be positive")
	}

	balance, err := r.signer.GetBalance(ctx, r.cfg.RelayAddress, req.Token)
	if err == nil && balance.Cmp(amount) < 0 {
		return nil, NewVerifyError(ErrInsufficientBalance, "", "relay balance below requested amount")
	}

	return &VerifyResult{Valid: true}, nil
}

// verifyRequestedAmount enforces amount > 0 and amount <= permit bound.
func (r *Relay) verifyRequestedAmount(owner, requested, bound string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(requested, 10)
	if !ok {
		return nil, NewVerifyError(ErrInvalidPayload, owner, "invalid amount format")
	}
	if amount.Sign() <= 0 {
		return nil, NewVerifyError(ErrInvalidAmount, owner, "amount must be positive")
	}

	permitted, ok := new(big.Int).SetString(bound, 10)
	if !ok {
		return nil, NewVerifyError(ErrInvalidPayload, owner, "invalid permit amount format")
	}
	if amount.Cmp(permitted) > 0 {
		return nil, NewVerifyError(ErrAmountExceedsPermit, owner, "amount exceeds permit bound")
	}
	return amount, nil
}

// verifyPermitScope enforces the invariants every standing-allowance permit
// must satisfy before any external call: non-null token, spender equal to
// the relay, and unexpired time bounds.
func (r *Relay) verifyPermitScope(owner string, permit permit2.PermitSingle) error {
	if isZeroAddress(permit.Details.Token) || !isHexAddress(permit.Details.Token) {
		return NewVerifyError(ErrInvalidToken, owner, "token is null")
	}
	if !strings.EqualFold(permit.Spender, r.cfg.RelayAddress) {
		return NewVerifyError(ErrSpenderMismatch, owner, "permit spender is not the relay")
	}

	threshold := deadlineThreshold()

	sigDeadline, ok := new(big.Int).SetString(permit.SigDeadline, 10)
	if !ok {
		return NewVerifyError(ErrInvalidPayload, owner, "invalid sigDeadline format")
	}
	if sigDeadline.Cmp(threshold) < 0 {
		return NewVerifyError(ErrSigDeadlineExpired, owner, "signature deadline expired")
	}

	expiration, ok := new(big.Int).SetString(permit.Details.Expiration, 10)
	if !ok {
		return NewVerifyError(ErrInvalidPayload, owner, "invalid expiration format")
	}
	if expiration.Cmp(threshold) < 0 {
		return NewVerifyError(ErrPermitExpired, owner, "permit expired")
	}

	return nil
}

// verifyPermitSignature recovers the PermitSingle EIP-712 signature.
func (r *Relay) verifyPermitSignature(owner string, permit permit2.PermitSingle, signature string) error {
	raw, err := HexToBytes(signature)
	if err != nil {
		return NewVerifyError(ErrInvalidSignatureFormat, owner, err.Error())
	}
	digest, err := permit2.HashPermitSingle(permit, r.cfg.ChainID)
	if err != nil {
		return NewVerifyError(ErrInvalidPayload, owner, err.Error())
	}
	valid, err := permit2.RecoverSigner(digest, raw, owner)
	if err != nil || !valid {
		return NewVerifyError(ErrInvalidSignature, owner, "invalid signature")
	}
	return nil
}

// verifyBridgeParams validates the caller-supplied destination parameters.
func (r *Relay) verifyBridgeParams(owner string, params BridgeParams, amount *big.Int) error {
	dest, err := oft.ParseBytes32Destination(params.Recipient)
	if err != nil {
		return NewVerifyError(ErrInvalidDestination, owner, err.Error())
	}
	if oft.IsZeroBytes32(dest) {
		return NewVerifyError(ErrInvalidDestination, owner, "destination is null")
	}

	minAmount, ok := new(big.Int).SetString(params.MinAmount, 10)
	if !ok {
		return NewVerifyError(ErrInvalidPayload, owner, "invalid minAmount format")
	}
	if minAmount.Cmp(amount) > 0 {
		return NewVerifyError(ErrInvalidPayload, owner, "minAmount exceeds send amount")
	}

	if _, err := HexToBytes(params.ExtraOptions); err != nil {
		return NewVerifyError(ErrInvalidPayload, owner, "invalid extraOptions hex")
	}

	if params.Fee != "" {
		fee, ok := new(big.Int).SetString(params.Fee, 10)
		if !ok || fee.Sign() < 0 {
			return NewVerifyError(ErrInvalidFee, owner, "invalid fee format")
		}
	}

	if params.RefundTo != "" && !isHexAddress(params.RefundTo) {
		return NewVerifyError(ErrInvalidPayload, owner, "invalid refund address")
	}

	return nil
}

// checkOwnerBalance rejects when the owner's token balance is readable and
// below the requested amount. Read errors do not reject; the registry
// re-checks on-chain either way.
func (r *Relay) checkOwnerBalance(ctx context.Context, owner, token, amount string) error {
	requested, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return nil
	}
	balance, err := r.signer.GetBalance(ctx, owner, token)
	if err == nil && balance != nil && balance.Cmp(requested) < 0 {
		return NewVerifyError(ErrInsufficientBalance, owner, "insufficient balance")
	}
	return nil
}

func deadlineThreshold() *big.Int {
	return big.NewInt(time.Now().Unix() + DeadlineBuffer)
}
