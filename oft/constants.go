package oft

// Bridge and token function names
const (
	FunctionQuoteSend = "quoteSend"
	FunctionSend      = "send"
	FunctionApprove   = "approve"
	FunctionBalanceOf = "balanceOf"
	FunctionAllowance = "allowance"
)

var (
	// QuoteSendABI prices a hypothetical send. The fee depends on payload
	// size and destination, so quote parameters must exactly match the later
	// send call.
	QuoteSendABI = []byte(`[
		{
			"type": "function",
			"name": "quoteSend",
			"inputs": [
				{
					"name": "_sendParam",
					"type": "tuple",
					"components": [
						{"name": "dstEid", "type": "uint32"},
						{"name": "to", "type": "bytes32"},
						{"name": "amountLD", "type": "uint256"},
						{"name": "minAmountLD", "type": "uint256"},
						{"name": "extraOptions", "type": "bytes"},
						{"name": "composeMsg", "type": "bytes"},
						{"name": "oftCmd", "type": "bytes"}
					]
				},
				{"name": "_payInLzToken", "type": "bool"}
			],
			"outputs": [
				{
					"name": "msgFee",
					"type": "tuple",
					"components": [
						{"name": "nativeFee", "type": "uint256"},
						{"name": "lzTokenFee", "type": "uint256"}
					]
				}
			],
			"stateMutability": "view"
		}
	]`)

	// SendABI burns/locks tokens on the source chain and emits the
	// cross-chain message. Payable: the quoted native fee rides as call value.
	SendABI = []byte(`[
		{
			"type": "function",
			"name": "send",
			"inputs": [
				{
					"name": "_sendParam",
					"type": "tuple",
					"components": [
						{"name": "dstEid", "type": "uint32"},
						{"name": "to", "type": "bytes32"},
						{"name": "amountLD", "type": "uint256"},
						{"name": "minAmountLD", "type": "uint256"},
						{"name": "extraOptions", "type": "bytes"},
						{"name": "composeMsg", "type": "bytes"},
						{"name": "oftCmd", "type": "bytes"}
					]
				},
				{
					"name": "_fee",
					"type": "tuple",
					"components": [
						{"name": "nativeFee", "type": "uint256"},
						{"name": "lzTokenFee", "type": "uint256"}
					]
				},
				{"name": "_refundAddress", "type": "address"}
			],
			"outputs": [
				{
					"name": "msgReceipt",
					"type": "tuple",
					"components": [
						{"name": "guid", "type": "bytes32"},
						{"name": "nonce", "type": "uint64"},
						{
							"name": "fee",
							"type": "tuple",
							"components": [
								{"name": "nativeFee", "type": "uint256"},
								{"name": "lzTokenFee", "type": "uint256"}
							]
						}
					]
				},
				{
					"name": "oftReceipt",
					"type": "tuple",
					"components": [
						{"name": "amountSentLD", "type": "uint256"},
						{"name": "amountReceivedLD", "type": "uint256"}
					]
				}
			],
			"stateMutability": "payable"
		}
	]`)

	// ERC20ApproveABI grants the bridge its same-transaction spending
	// allowance (the approve-then-send two-step).
	ERC20ApproveABI = []byte(`[
		{
			"type": "function",
			"name": "approve",
			"inputs": [
				{"name": "spender", "type": "address"},
				{"name": "amount", "type": "uint256"}
			],
			"outputs": [{"name": "", "type": "bool"}],
			"stateMutability": "nonpayable"
		}
	]`)

	// ERC20BalanceOfABI reads a token balance.
	ERC20BalanceOfABI = []byte(`[
		{
			"type": "function",
			"name": "balanceOf",
			"inputs": [{"name": "account", "type": "address"}],
			"outputs": [{"name": "", "type": "uint256"}],
			"stateMutability": "view"
		}
	]`)

	// ERC20AllowanceABI reads a token allowance.
	ERC20AllowanceABI = []byte(`[
		{
			"type": "function",
			"name": "allowance",
			"inputs": [
				{"name": "owner", "type": "address"},
				{"name": "spender", "type": "address"}
			],
			"outputs": [{"name": "", "type": "uint256"}],
			"stateMutability": "view"
		}
	]`)

	// OFTSentEventABI is the bridge's send event; guid is the message
	// identifier surfaced in bridge-initiated audit records.
	OFTSentEventABI = []byte(`[
		{
			"type": "event",
			"name": "OFTSent",
			"inputs": [
				{"name": "guid", "type": "bytes32", "indexed": true},
				{"name": "dstEid", "type": "uint32", "indexed": false},
				{"name": "fromAddress", "type": "address", "indexed": true},
				{"name": "amountSentLD", "type": "uint256", "indexed": false},
				{"name": "amountReceivedLD", "type": "uint256", "indexed": false}
			]
		}
	]`)
)
