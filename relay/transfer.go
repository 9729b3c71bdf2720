package relay

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ValidateAndTransfer registers the permit and consumes the allowance toward
// the requested recipient in one transaction. Partial amounts are allowed;
// whatever allowance the requested amount leaves behind is burned by the
// relay contract, so no standing allowance survives the call.
func (r *Relay) ValidateAndTransfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	if _, err := r.VerifyTransfer(ctx, req); err != nil {
		return nil, wrapVerifyFailure(err, req.Owner)
	}

	permit, err := req.Permit.ABITuple()
	if err != nil {
		return nil, NewExecuteError(ErrInvalidPayload, req.Owner, "", err.Error())
	}
	signature, err := HexToBytes(req.Signature)
	if err != nil {
		return nil, NewExecuteError(ErrInvalidSignatureFormat, req.Owner, "", err.Error())
	}
	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok {
		return nil, NewExecuteError(ErrInvalidPayload, req.Owner, "", "invalid amount format")
	}

	receipt, err := r.submitAndWait(ctx, req.Owner, nil, ValidateAndTransferABI, FunctionValidateAndTransfer,
		common.HexToAddress(req.Owner), permit, signature, common.HexToAddress(req.Recipient), amount)
	if err != nil {
		return nil, err
	}

	events, err := DecodeRelayEvents(receipt, r.cfg.RelayAddress)
	if err != nil {
		return nil, NewExecuteError(ErrFailedToExecute, req.Owner, receipt.TxHash, err.Error())
	}

	return &TransferResult{
		Owner:       req.Owner,
		Transaction: receipt.TxHash,
		Event:       events.TransferCompleted,
	}, nil
}

// ReceiveWithPermit pulls funds into the relay itself, staging them for a
// later bridge send or withdrawal. Same ladder as ValidateAndTransfer with
// the recipient hard-set to the relay.
func (r *Relay) ReceiveWithPermit(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	if _, err := r.VerifyReceive(ctx, req); err != nil {
		return nil, wrapVerifyFailure(err, req.Owner)
	}

	permit, err := req.Permit.ABITuple()
	if err != nil {
		return nil, NewExecuteError(ErrInvalidPayload, req.Owner, "", err.Error())
	}
	signature, err := HexToBytes(req.Signature)
	if err != nil {
		return nil, NewExecuteError(ErrInvalidSignatureFormat, req.Owner, "", err.Error())
	}
	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok {
		return nil, NewExecuteError(ErrInvalidPayload, req.Owner, "", "invalid amount format")
	}

	receipt, err := r.submitAndWait(ctx, req.Owner, nil, ReceiveWithPermitABI, FunctionReceiveWithPermit,
		common.HexToAddress(req.Owner), permit, signature, amount)
	if err != nil {
		return nil, err
	}

	events, err := DecodeRelayEvents(receipt, r.cfg.RelayAddress)
	if err != nil {
		return nil, NewExecuteError(ErrFailedToExecute, req.Owner, receipt.TxHash, err.Error())
	}

	return &TransferResult{
		Owner:       req.Owner,
		Transaction: receipt.TxHash,
		Event:       events.TransferCompleted,
	}, nil
}
