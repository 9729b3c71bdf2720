package relay

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/oftbridge/relay/oft"
)

// ReceiveAndBridge pulls funds into the relay against a standing-allowance
// permit and forwards them into a bridge send, all in one transaction. The
// send amount is always the amount just received, never caller-overridable.
// The native bridge fee rides as call value; when the request carries no fee
// the current quote is fetched and attached.
func (r *Relay) ReceiveAndBridge(ctx context.Context, req BridgeRequest) (*BridgeResult, error) {
	if _, err := r.VerifyBridge(ctx, req); err != nil {
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

	dest, minAmount, options, refundTo, err := r.bridgeSendArgs(req.Owner, req.Bridge)
	if err != nil {
		return nil, err
	}
	fee, err := r.bridgeFee(ctx, req.Owner, req.Permit.Details.Token, amount, req.Bridge)
	if err != nil {
		return nil, err
	}

	receipt, err := r.submitAndWait(ctx, req.Owner, fee, ReceiveAndBridgeABI, FunctionReceiveAndBridge,
		common.HexToAddress(req.Owner), permit, signature, amount,
		req.Bridge.DstEid, dest, minAmount, options, refundTo)
	if err != nil {
		return nil, err
	}

	return r.bridgeResult(req.Owner, receipt)
}

// ReceiveAndBridgeGasless is the fully gasless variant: a one-shot signature
// transfer pulls the permit's exact amount into the relay, then the same
// approve-and-send sequence runs. The owner signs once and pays nothing.
func (r *Relay) ReceiveAndBridgeGasless(ctx context.Context, req GaslessBridgeRequest) (*BridgeResult, error) {
	if _, err := r.VerifyGaslessBridge(ctx, req); err != nil {
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

	dest, minAmount, options, refundTo, err := r.bridgeSendArgs(req.Owner, req.Bridge)
	if err != nil {
		return nil, err
	}
	fee, err := r.bridgeFee(ctx, req.Owner, req.Permit.Permitted.Token, permit.Permitted.Amount, req.Bridge)
	if err != nil {
		return nil, err
	}

	receipt, err := r.submitAndWait(ctx, req.Owner, fee, ReceiveAndBridgeGaslessABI, FunctionReceiveAndBridgeGasless,
		permit, common.HexToAddress(req.Owner), signature,
		req.Bridge.DstEid, dest, minAmount, options, refundTo)
	if err != nil {
		return nil, err
	}

	return r.bridgeResult(req.Owner, receipt)
}

// Quote prices a hypothetical bridge send against the token's quoteSend
// view. Quote parameters must exactly match the later send call; the fee
// depends on payload size and destination. Read-only, no state change.
func (r *Relay) Quote(ctx context.Context, req QuoteRequest) (*QuoteResult, error) {
	if isZeroAddress(req.Token) || !isHexAddress(req.Token) {
		return nil, NewVerifyError(ErrInvalidToken, "", "token is null")
	}
	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, NewVerifyError(ErrInvalidAmount, "", "amount must be positive")
	}

	dest, err := oft.ParseBytes32Destination(req.Recipient)
	if err != nil {
		return nil, NewVerifyError(ErrInvalidDestination, "", err.Error())
	}
	if oft.IsZeroBytes32(dest) {
		return nil, NewVerifyError(ErrInvalidDestination, "", "destination is null")
	}

	minAmount := amount
	if req.MinAmount != "" {
		minAmount, ok = new(big.Int).SetString(req.MinAmount, 10)
		if !ok {
			return nil, NewVerifyError(ErrInvalidPayload, "", "invalid minAmount format")
		}
		if minAmount.Cmp(amount) > 0 {
			return nil, NewVerifyError(ErrInvalidPayload, "", "minAmount exceeds send amount")
		}
	}
	options, err := HexToBytes(req.ExtraOptions)
	if err != nil {
		return nil, NewVerifyError(ErrInvalidPayload, "", "invalid extraOptions hex")
	}

	sendParam := oft.SendParam{
		DstEid:       req.DstEid,
		To:           dest,
		AmountLD:     amount,
		MinAmountLD:  minAmount,
		ExtraOptions: options,
		ComposeMsg:   []byte{},
		OftCmd:       []byte{},
	}

	result, err := r.signer.ReadContract(ctx, req.Token, oft.QuoteSendABI, oft.FunctionQuoteSend, sendParam, false)
	if err != nil {
		return nil, NewExecuteError(ErrFailedToQuote, "", "", err.Error())
	}
	fee, err := oft.ParseMessagingFee(result)
	if err != nil {
		return nil, NewExecuteError(ErrFailedToQuote, "", "", err.Error())
	}

	return &QuoteResult{NativeFee: fee.NativeFee}, nil
}

// bridgeSendArgs converts verified BridgeParams into the ABI argument forms
// shared by both bridge entry points. RefundTo defaults to the owner.
func (r *Relay) bridgeSendArgs(owner string, params BridgeParams) ([32]byte, *big.Int, []byte, common.Address, error) {
	dest, err := oft.ParseBytes32Destination(params.Recipient)
	if err != nil {
		return [32]byte{}, nil, nil, common.Address{}, NewExecuteError(ErrInvalidDestination, owner, "", err.Error())
	}
	minAmount, ok := new(big.Int).SetString(params.MinAmount, 10)
	if !ok {
		return [32]byte{}, nil, nil, common.Address{}, NewExecuteError(ErrInvalidPayload, owner, "", "invalid minAmount format")
	}
	options, err := HexToBytes(params.ExtraOptions)
	if err != nil {
		return [32]byte{}, nil, nil, common.Address{}, NewExecuteError(ErrInvalidPayload, owner, "", "invalid extraOptions hex")
	}

	refundTo := common.HexToAddress(owner)
	if params.RefundTo != "" {
		refundTo = common.HexToAddress(params.RefundTo)
	}
	return dest, minAmount, options, refundTo, nil
}

// bridgeFee resolves the native fee to attach: the caller-supplied fee when
// present, otherwise a fresh quote against the same send parameters.
func (r *Relay) bridgeFee(ctx context.Context, owner, token string, amount *big.Int, params BridgeParams) (*big.Int, error) {
	if params.Fee != "" {
		fee, ok := new(big.Int).SetString(params.Fee, 10)
		if !ok || fee.Sign() < 0 {
			return nil, NewExecuteError(ErrInvalidFee, owner, "", "invalid fee format")
		}
		return fee, nil
	}

	quote, err := r.Quote(ctx, QuoteRequest{
		Token:        token,
		Amount:       amount.String(),
		DstEid:       params.DstEid,
		Recipient:    params.Recipient,
		MinAmount:    params.MinAmount,
		ExtraOptions: params.ExtraOptions,
	})
	if err != nil {
		return nil, err
	}
	return quote.NativeFee, nil
}

func (r *Relay) bridgeResult(owner string, receipt *TransactionReceipt) (*BridgeResult, error) {
	events, err := DecodeRelayEvents(receipt, r.cfg.RelayAddress)
	if err != nil {
		return nil, NewExecuteError(ErrFailedToExecute, owner, receipt.TxHash, err.Error())
	}
	return &BridgeResult{
		Owner:       owner,
		Transaction: receipt.TxHash,
		Transfer:    events.TransferCompleted,
		Bridge:      events.BridgeInitiated,
	}, nil
}
