package relay

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// RelayEvents are the audit records decoded from one relay transaction.
type RelayEvents struct {
	PermitValidated   *PermitValidatedEvent
	TransferCompleted *TransferCompletedEvent
	BridgeInitiated   *BridgeInitiatedEvent
}

var (
	eventsABIOnce sync.Once
	eventsABI     abi.ABI
	eventsABIErr  error
)

func relayEventsABI() (abi.ABI, error) {
	eventsABIOnce.Do(func() {
		eventsABI, eventsABIErr = abi.JSON(strings.NewReader(string(RelayEventsABI)))
	})
	return eventsABI, eventsABIErr
}

// DecodeRelayEvents extracts the relay's audit events from a receipt. Only
// logs emitted by the relay contract itself count: anything else in the same
// transaction (registry, token, messaging layer) could carry an
// identically-signed log and must not be reported as an audit event.
func DecodeRelayEvents(receipt *TransactionReceipt, relayAddress string) (*RelayEvents, error) {
	parsed, err := relayEventsABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse events ABI: %w", err)
	}

	events := &RelayEvents{}
	for _, log := range receipt.Logs {
		if len(log.Topics) == 0 || !strings.EqualFold(log.Address, relayAddress) {
			continue
		}
		topic0 := common.HexToHash(log.Topics[0])

		switch topic0 {
		case parsed.Events["PermitValidated"].ID:
			ev, err := decodePermitValidated(parsed, log)
			if err != nil {
				return nil, err
			}
			events.PermitValidated = ev
		case parsed.Events["TransferCompleted"].ID:
			ev, err := decodeTransferCompleted(parsed, log)
			if err != nil {
				return nil, err
			}
			events.TransferCompleted = ev
		case parsed.Events["BridgeInitiated"].ID:
			ev, err := decodeBridgeInitiated(parsed, log)
			if err != nil {
				return nil, err
			}
			events.BridgeInitiated = ev
		}
	}
	return events, nil
}

func decodePermitValidated(parsed abi.ABI, log Log) (*PermitValidatedEvent, error) {
	if len(log.Topics) < 3 {
		return nil, fmt.Errorf("malformed PermitValidated log: %d topics", len(log.Topics))
	}
	values, err := parsed.Events["PermitValidated"].Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack PermitValidated: %w", err)
	}
	spender, ok := values[0].(common.Address)
	if !ok {
		return nil, fmt.Errorf("unexpected PermitValidated spender type: %T", values[0])
	}
	amount, ok := values[1].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected PermitValidated amount type: %T", values[1])
	}
	return &PermitValidatedEvent{
		Owner:   topicAddress(log.Topics[1]),
		Token:   topicAddress(log.Topics[2]),
		Spender: spender.Hex(),
		Amount:  amount,
	}, nil
}

func decodeTransferCompleted(parsed abi.ABI, log Log) (*TransferCompletedEvent, error) {
	if len(log.Topics) < 3 {
		return nil, fmt.Errorf("malformed TransferCompleted log: %d topics", len(log.Topics))
	}
	values, err := parsed.Events["TransferCompleted"].Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack TransferCompleted: %w", err)
	}
	token, ok := values[0].(common.Address)
	if !ok {
		return nil, fmt.Errorf("unexpected TransferCompleted token type: %T", values[0])
	}
	amount, ok := values[1].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected TransferCompleted amount type: %T", values[1])
	}
	return &TransferCompletedEvent{
		From:   topicAddress(log.Topics[1]),
		To:     topicAddress(log.Topics[2]),
		Token:  token.Hex(),
		Amount: amount,
	}, nil
}

func decodeBridgeInitiated(parsed abi.ABI, log Log) (*BridgeInitiatedEvent, error) {
	if len(log.Topics) < 2 {
		return nil, fmt.Errorf("malformed BridgeInitiated log: %d topics", len(log.Topics))
	}
	values, err := parsed.Events["BridgeInitiated"].Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack BridgeInitiated: %w", err)
	}
	token, ok := values[0].(common.Address)
	if !ok {
		return nil, fmt.Errorf("unexpected BridgeInitiated token type: %T", values[0])
	}
	dstEid, ok := values[1].(uint32)
	if !ok {
		return nil, fmt.Errorf("unexpected BridgeInitiated dstEid type: %T", values[1])
	}
	to, ok := values[2].([32]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected BridgeInitiated to type: %T", values[2])
	}
	amount, ok := values[3].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected BridgeInitiated amount type: %T", values[3])
	}
	guid, ok := values[4].([32]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected BridgeInitiated guid type: %T", values[4])
	}
	return &BridgeInitiatedEvent{
		From:   topicAddress(log.Topics[1]),
		Token:  token.Hex(),
		DstEid: dstEid,
		To:     BytesToHex(to[:]),
		Amount: amount,
		GUID:   BytesToHex(guid[:]),
	}, nil
}

// topicAddress extracts the address from an indexed 32-byte topic.
func topicAddress(topic string) string {
	return common.BytesToAddress(common.HexToHash(topic).Bytes()[12:]).Hex()
}
