package relay

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Withdraw asks the relay contract to grant an approval over tokens it
// holds; the destination must pull them afterwards. The contract's access
// predicate is caller == relay || to == caller, so any caller can route
// relay-held funds to themselves. Operators should treat relay balances as
// transient and sweep them promptly.
func (r *Relay) Withdraw(ctx context.Context, req WithdrawRequest) (*WithdrawResult, error) {
	if _, err := r.VerifyWithdraw(ctx, req); err != nil {
		return nil, wrapVerifyFailure(err, "")
	}

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok {
		return nil, NewExecuteError(ErrInvalidPayload, "", "", "invalid amount format")
	}

	receipt, err := r.submitAndWait(ctx, "", nil, WithdrawABI, FunctionWithdraw,
		common.HexToAddress(req.Token), common.HexToAddress(req.To), amount)
	if err != nil {
		return nil, err
	}

	return &WithdrawResult{Transaction: receipt.TxHash}, nil
}
