package relay

import "math/big"

const (
	// Relay contract function names
	FunctionValidatePermit          = "validatePermit"
	FunctionValidateAndTransfer     = "validateAndTransfer"
	FunctionReceiveWithPermit       = "receiveWithPermit"
	FunctionReceiveAndBridge        = "receiveAndBridge"
	FunctionReceiveAndBridgeGasless = "receiveAndBridgeGasless"
	FunctionWithdraw                = "withdraw"

	// Transaction status
	TxStatusSuccess = 1
	TxStatusFailed  = 0

	// DeadlineBuffer is the time buffer (in seconds) added when checking
	// deadline expiration to account for block propagation time.
	DeadlineBuffer = 6
)

// ZeroAddress is the null token/recipient sentinel.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

var (
	// Network chain IDs
	ChainIDBase        = big.NewInt(8453)
	ChainIDBaseSepolia = big.NewInt(84532)

	// NetworkConfigs holds per-network relay deployments. Keys follow the
	// eip155:<chainid> convention.
	NetworkConfigs = map[string]NetworkConfig{
		"eip155:8453": {
			ChainID:      ChainIDBase,
			RelayAddress: "0x7B2C9a541F3a6E1d0B8C3f92E6a41D7cC4580B21",
		},
		"eip155:84532": {
			ChainID:      ChainIDBaseSepolia,
			RelayAddress: "0x3D91b4C7e2A85F06d1E9a7804C2B6fA1D0973E55",
		},
	}

	// ValidatePermitABI registers a standing-allowance permit with the
	// registry without moving funds.
	ValidatePermitABI = []byte(`[
		{
			"type": "function",
			"name": "validatePermit",
			"inputs": [
				{"name": "owner", "type": "address"},
				` + permitSingleComponent + `,
				{"name": "signature", "type": "bytes"}
			],
			"outputs": [],
			"stateMutability": "nonpayable"
		}
	]`)

	// ValidateAndTransferABI registers the permit and consumes the allowance
	// toward an explicit recipient in the same transaction.
	ValidateAndTransferABI = []byte(`[
		{
			"type": "function",
			"name": "validateAndTransfer",
			"inputs": [
				{"name": "owner", "type": "address"},
				` + permitSingleComponent + `,
				{"name": "signature", "type": "bytes"},
				{"name": "to", "type": "address"},
				{"name": "amount", "type": "uint160"}
			],
			"outputs": [],
			"stateMutability": "nonpayable"
		}
	]`)

	// ReceiveWithPermitABI stages funds in the relay itself.
	ReceiveWithPermitABI = []byte(`[
		{
			"type": "function",
			"name": "receiveWithPermit",
			"inputs": [
				{"name": "owner", "type": "address"},
				` + permitSingleComponent + `,
				{"name": "signature", "type": "bytes"},
				{"name": "amount", "type": "uint160"}
			],
			"outputs": [],
			"stateMutability": "nonpayable"
		}
	]`)

	// ReceiveAndBridgeABI pulls funds into the relay, approves the bridge
	// token and invokes the bridge send, all in one transaction. Payable:
	// the attached value is forwarded as the bridge fee.
	ReceiveAndBridgeABI = []byte(`[
		{
			"type": "function",
			"name": "receiveAndBridge",
			"inputs": [
				{"name": "owner", "type": "address"},
				` + permitSingleComponent + `,
				{"name": "signature", "type": "bytes"},
				{"name": "amount", "type": "uint160"},
				{"name": "dstEid", "type": "uint32"},
				{"name": "to", "type": "bytes32"},
				{"name": "minAmountLD", "type": "uint256"},
				{"name": "extraOptions", "type": "bytes"},
				{"name": "refundTo", "type": "address"}
			],
			"outputs": [],
			"stateMutability": "payable"
		}
	]`)

	// ReceiveAndBridgeGaslessABI is the fully gasless path: one signature
	// transfer pulls the permit's exact amount into the relay, then the same
	// approve/send sequence runs.
	ReceiveAndBridgeGaslessABI = []byte(`[
		{
			"type": "function",
			"name": "receiveAndBridgeGasless",
			"inputs": [
				{
					"name": "permit",
					"type": "tuple",
					"components": [
						{
							"name": "permitted",
							"type": "tuple",
							"components": [
								{"name": "token", "type": "address"},
								{"name": "amount", "type": "uint256"}
							]
						},
						{"name": "nonce", "type": "uint256"},
						{"name": "deadline", "type": "uint256"}
					]
				},
				{"name": "owner", "type": "address"},
				{"name": "signature", "type": "bytes"},
				{"name": "dstEid", "type": "uint32"},
				{"name": "to", "type": "bytes32"},
				{"name": "minAmountLD", "type": "uint256"},
				{"name": "extraOptions", "type": "bytes"},
				{"name": "refundTo", "type": "address"}
			],
			"outputs": [],
			"stateMutability": "payable"
		}
	]`)

	// WithdrawABI grants an approval for tokens held by the relay. It does
	// not move tokens itself; the approved destination must pull them.
	WithdrawABI = []byte(`[
		{
			"type": "function",
			"name": "withdraw",
			"inputs": [
				{"name": "token", "type": "address"},
				{"name": "to", "type": "address"},
				{"name": "amount", "type": "uint256"}
			],
			"outputs": [],
			"stateMutability": "nonpayable"
		}
	]`)

	// RelayEventsABI is the relay's audit surface.
	RelayEventsABI = []byte(`[
		{
			"type": "event",
			"name": "PermitValidated",
			"inputs": [
				{"name": "owner", "type": "address", "indexed": true},
				{"name": "token", "type": "address", "indexed": true},
				{"name": "spender", "type": "address", "indexed": false},
				{"name": "amount", "type": "uint256", "indexed": false}
			]
		},
		{
			"type": "event",
			"name": "TransferCompleted",
			"inputs": [
				{"name": "from", "type": "address", "indexed": true},
				{"name": "to", "type": "address", "indexed": true},
				{"name": "token", "type": "address", "indexed": false},
				{"name": "amount", "type": "uint256", "indexed": false}
			]
		},
		{
			"type": "event",
			"name": "BridgeInitiated",
			"inputs": [
				{"name": "from", "type": "address", "indexed": true},
				{"name": "token", "type": "address", "indexed": false},
				{"name": "dstEid", "type": "uint32", "indexed": false},
				{"name": "to", "type": "bytes32", "indexed": false},
				{"name": "amount", "type": "uint256", "indexed": false},
				{"name": "guid", "type": "bytes32", "indexed": false}
			]
		}
	]`)
)

// permitSingleComponent is the shared PermitSingle tuple fragment of the
// relay function ABIs.
const permitSingleComponent = `{
	"name": "permitSingle",
	"type": "tuple",
	"components": [
		{
			"name": "details",
			"type": "tuple",
			"components": [
				{"name": "token", "type": "address"},
				{"name": "amount", "type": "uint160"},
				{"name": "expiration", "type": "uint48"},
				{"name": "nonce", "type": "uint48"}
			]
		},
		{"name": "spender", "type": "address"},
		{"name": "sigDeadline", "type": "uint256"}
	]
}`
