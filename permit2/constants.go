package permit2

// ContractAddress is the canonical Uniswap Permit2 registry.
// Same address on all EVM chains via CREATE2 deployment.
const ContractAddress = "0x000000000022D473030F116dDEE9F6B43aC78BA3"

// Registry function names
const (
	FunctionPermit             = "permit"
	FunctionTransferFrom       = "transferFrom"
	FunctionPermitTransferFrom = "permitTransferFrom"
	FunctionNonceBitmap        = "nonceBitmap"
	FunctionAllowance          = "allowance"
)

var (
	// PermitABI covers the standing-allowance permit(owner, permitSingle, signature) call.
	PermitABI = []byte(`[
		{
			"type": "function",
			"name": "permit",
			"inputs": [
				{"name": "owner", "type": "address"},
				{
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
				},
				{"name": "signature", "type": "bytes"}
			],
			"outputs": [],
			"stateMutability": "nonpayable"
		}
	]`)

	// TransferFromABI moves tokens against a standing allowance.
	TransferFromABI = []byte(`[
		{
			"type": "function",
			"name": "transferFrom",
			"inputs": [
				{"name": "from", "type": "address"},
				{"name": "to", "type": "address"},
				{"name": "amount", "type": "uint160"},
				{"name": "token", "type": "address"}
			],
			"outputs": [],
			"stateMutability": "nonpayable"
		}
	]`)

	// PermitTransferFromABI is the one-shot signature-transfer entry point.
	PermitTransferFromABI = []byte(`[
		{
			"type": "function",
			"name": "permitTransferFrom",
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
				{
					"name": "transferDetails",
					"type": "tuple",
					"components": [
						{"name": "to", "type": "address"},
						{"name": "requestedAmount", "type": "uint256"}
					]
				},
				{"name": "owner", "type": "address"},
				{"name": "signature", "type": "bytes"}
			],
			"outputs": [],
			"stateMutability": "nonpayable"
		}
	]`)

	// NonceBitmapABI reads one 256-bit word of the owner-scoped one-shot
	// nonce bitmap.
	NonceBitmapABI = []byte(`[
		{
			"type": "function",
			"name": "nonceBitmap",
			"inputs": [
				{"name": "owner", "type": "address"},
				{"name": "wordPos", "type": "uint256"}
			],
			"outputs": [{"name": "", "type": "uint256"}],
			"stateMutability": "view"
		}
	]`)

	// AllowanceABI reads a standing allowance record.
	AllowanceABI = []byte(`[
		{
			"type": "function",
			"name": "allowance",
			"inputs": [
				{"name": "owner", "type": "address"},
				{"name": "token", "type": "address"},
				{"name": "spender", "type": "address"}
			],
			"outputs": [
				{"name": "amount", "type": "uint160"},
				{"name": "expiration", "type": "uint48"},
				{"name": "nonce", "type": "uint48"}
			],
			"stateMutability": "view"
		}
	]`)

	// EIP712DomainTypes is Permit2's domain: name + chainId + verifyingContract,
	// no version field.
	EIP712DomainTypes = []TypedDataField{
		{Name: "name", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	}

	// PermitSingleTypes defines the EIP-712 types for standing-allowance
	// permits. Field order MUST match the on-chain registry.
	PermitSingleTypes = map[string][]TypedDataField{
		"PermitSingle": {
			{Name: "details", Type: "PermitDetails"},
			{Name: "spender", Type: "address"},
			{Name: "sigDeadline", Type: "uint256"},
		},
		"PermitDetails": {
			{Name: "token", Type: "address"},
			{Name: "amount", Type: "uint160"},
			{Name: "expiration", Type: "uint48"},
			{Name: "nonce", Type: "uint48"},
		},
	}

	// PermitTransferFromTypes defines the EIP-712 types for one-shot
	// signature transfers.
	PermitTransferFromTypes = map[string][]TypedDataField{
		"PermitTransferFrom": {
			{Name: "permitted", Type: "TokenPermissions"},
			{Name: "spender", Type: "address"},
			{Name: "nonce", Type: "uint256"},
			{Name: "deadline", Type: "uint256"},
		},
		"TokenPermissions": {
			{Name: "token", Type: "address"},
			{Name: "amount", Type: "uint256"},
		},
	}
)

// PermitSingleEIP712Types returns the complete types map for signing or
// verifying a PermitSingle, domain included.
func PermitSingleEIP712Types() map[string][]TypedDataField {
	return map[string][]TypedDataField{
		"EIP712Domain":  EIP712DomainTypes,
		"PermitSingle":  PermitSingleTypes["PermitSingle"],
		"PermitDetails": PermitSingleTypes["PermitDetails"],
	}
}

// PermitTransferFromEIP712Types returns the complete types map for signing
// or verifying a PermitTransferFrom, domain included.
func PermitTransferFromEIP712Types() map[string][]TypedDataField {
	return map[string][]TypedDataField{
		"EIP712Domain":       EIP712DomainTypes,
		"PermitTransferFrom": PermitTransferFromTypes["PermitTransferFrom"],
		"TokenPermissions":   PermitTransferFromTypes["TokenPermissions"],
	}
}
