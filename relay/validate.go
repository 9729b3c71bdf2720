package relay

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// ValidatePermit registers a standing-allowance permit with the registry
// without moving funds. The request is re-verified first; local failures
// never produce a transaction.
func (r *Relay) ValidatePermit(ctx context.Context, req ValidateRequest) (*ValidateResult, error) {
	if _, err := r.VerifyValidatePermit(ctx, req); err != nil {
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

	receipt, err := r.submitAndWait(ctx, req.Owner, nil, ValidatePermitABI, FunctionValidatePermit,
		common.HexToAddress(req.Owner), permit, signature)
	if err != nil {
		return nil, err
	}

	events, err := DecodeRelayEvents(receipt, r.cfg.RelayAddress)
	if err != nil {
		return nil, NewExecuteError(ErrFailedToExecute, req.Owner, receipt.TxHash, err.Error())
	}

	return &ValidateResult{
		Owner:       req.Owner,
		Transaction: receipt.TxHash,
		Event:       events.PermitValidated,
	}, nil
}
