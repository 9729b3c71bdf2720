package relay

import (
	"context"
	"errors"
	"math/big"
)

// wrapVerifyFailure converts a re-verification failure during execution into
// an ExecuteError carrying the verify reason, so callers see one error shape
// per phase.
func wrapVerifyFailure(err error, owner string) error {
	var verr *VerifyError
	if errors.As(err, &verr) {
		return NewExecuteError(verr.Reason, verr.Owner, "", verr.Message)
	}
	return NewExecuteError(ErrVerificationFailed, owner, "", err.Error())
}

// submitAndWait submits the relay contract call, waits for the receipt and
// enforces transaction success. A nil value means a non-payable call.
func (r *Relay) submitAndWait(ctx context.Context, owner string, value *big.Int, abiJSON []byte, method string, args ...interface{}) (*TransactionReceipt, error) {
	var (
		txHash string
		err    error
	)
	if value != nil {
		txHash, err = r.signer.WriteContractWithValue(ctx, r.cfg.RelayAddress, value, abiJSON, method, args...)
	} else {
		txHash, err = r.signer.WriteContract(ctx, r.cfg.RelayAddress, abiJSON, method, args...)
	}
	if err != nil {
		return nil, NewExecuteError(parseRevertReason(err), owner, "", err.Error())
	}

	receipt, err := r.signer.WaitForTransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, NewExecuteError(ErrFailedToGetReceipt, owner, txHash, err.Error())
	}
	if receipt.Status != TxStatusSuccess {
		return nil, NewExecuteError(ErrTransactionFailed, owner, txHash, "transaction reverted")
	}
	return receipt, nil
}
