package permit2

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// TypedDataDomain represents the EIP-712 domain separator.
type TypedDataDomain struct {
	Name              string   `json:"name"`
	Version           string   `json:"version"`
	ChainID           *big.Int `json:"chainId"`
	VerifyingContract string   `json:"verifyingContract"`
}

// TypedDataField represents a field in EIP-712 typed data.
type TypedDataField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Domain returns the registry's EIP-712 domain for the given chain.
func Domain(chainID *big.Int) TypedDataDomain {
	return TypedDataDomain{
		Name:              "Permit2",
		ChainID:           chainID,
		VerifyingContract: ContractAddress,
	}
}

// HashTypedData hashes EIP-712 typed data according to the specification.
// The digest is keccak256("\x19\x01" + domainSeparator + structHash).
func HashTypedData(
	domain TypedDataDomain,
	types map[string][]TypedDataField,
	primaryType string,
	message map[string]interface{},
) ([]byte, error) {
	typedData := apitypes.TypedData{
		Types:       make(apitypes.Types),
		PrimaryType: primaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              domain.Name,
			Version:           domain.Version,
			ChainId:           (*math.HexOrDecimal256)(domain.ChainID),
			VerifyingContract: domain.VerifyingContract,
		},
		Message: message,
	}

	for typeName, fields := range types {
		typedFields := make([]apitypes.Type, len(fields))
		for i, field := range fields {
			typedFields[i] = apitypes.Type{
				Name: field.Name,
				Type: field.Type,
			}
		}
		typedData.Types[typeName] = typedFields
	}

	if _, exists := typedData.Types["EIP712Domain"]; !exists {
		typedData.Types["EIP712Domain"] = []apitypes.Type{
			{Name: "name", Type: "string"},
			{Name: "version", Type: "string"},
			{Name: "chainId", Type: "uint256"},
			{Name: "verifyingContract", Type: "address"},
		}
	}

	dataHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to hash struct: %w", err)
	}

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to hash domain: %w", err)
	}

	rawData := []byte{0x19, 0x01}
	rawData = append(rawData, domainSeparator...)
	rawData = append(rawData, dataHash...)
	digest := crypto.Keccak256(rawData)

	return digest, nil
}

// HashPermitSingle computes the EIP-712 digest a token owner signs to grant
// a standing allowance.
func HashPermitSingle(permit PermitSingle, chainID *big.Int) ([]byte, error) {
	amount, ok := new(big.Int).SetString(permit.Details.Amount, 10)
	if !ok {
		return nil, fmt.Errorf("invalid permit amount: %s", permit.Details.Amount)
	}
	expiration, ok := new(big.Int).SetString(permit.Details.Expiration, 10)
	if !ok {
		return nil, fmt.Errorf("invalid permit expiration: %s", permit.Details.Expiration)
	}
	nonce, ok := new(big.Int).SetString(permit.Details.Nonce, 10)
	if !ok {
		return nil, fmt.Errorf("invalid permit nonce: %s", permit.Details.Nonce)
	}
	sigDeadline, ok := new(big.Int).SetString(permit.SigDeadline, 10)
	if !ok {
		return nil, fmt.Errorf("invalid permit sigDeadline: %s", permit.SigDeadline)
	}

	// Addresses are checksummed before hashing
	token := common.HexToAddress(permit.Details.Token).Hex()
	spender := common.HexToAddress(permit.Spender).Hex()

	message := map[string]interface{}{
		"details": map[string]interface{}{
			"token":      token,
			"amount":     amount,
			"expiration": expiration,
			"nonce":      nonce,
		},
		"spender":     spender,
		"sigDeadline": sigDeadline,
	}

	return HashTypedData(Domain(chainID), PermitSingleEIP712Types(), "PermitSingle", message)
}

// HashPermitTransferFrom computes the EIP-712 digest a token owner signs for
// a one-shot signature transfer.
func HashPermitTransferFrom(permit PermitTransferFrom, chainID *big.Int) ([]byte, error) {
	amount, ok := new(big.Int).SetString(permit.Permitted.Amount, 10)
	if !ok {
		return nil, fmt.Errorf("invalid permitted amount: %s", permit.Permitted.Amount)
	}
	nonce, ok := new(big.Int).SetString(permit.Nonce, 10)
	if !ok {
		return nil, fmt.Errorf("invalid nonce: %s", permit.Nonce)
	}
	deadline, ok := new(big.Int).SetString(permit.Deadline, 10)
	if !ok {
		return nil, fmt.Errorf("invalid deadline: %s", permit.Deadline)
	}

	token := common.HexToAddress(permit.Permitted.Token).Hex()
	spender := common.HexToAddress(permit.Spender).Hex()

	message := map[string]interface{}{
		"permitted": map[string]interface{}{
			"token":  token,
			"amount": amount,
		},
		"spender":  spender,
		"nonce":    nonce,
		"deadline": deadline,
	}

	return HashTypedData(Domain(chainID), PermitTransferFromEIP712Types(), "PermitTransferFrom", message)
}

// RecoverSigner recovers the EOA address that produced a 65-byte signature
// over the given digest and reports whether it matches the expected owner.
func RecoverSigner(digest []byte, signature []byte, owner string) (bool, error) {
	if len(signature) != 65 {
		return false, fmt.Errorf("invalid signature length: %d", len(signature))
	}

	// Recovery id 27/28 → 0/1
	sigCopy := make([]byte, 65)
	copy(sigCopy, signature)
	if sigCopy[64] >= 27 {
		sigCopy[64] -= 27
	}

	pubKey, err := crypto.SigToPub(digest, sigCopy)
	if err != nil {
		return false, fmt.Errorf("failed to recover public key: %w", err)
	}

	recovered := crypto.PubkeyToAddress(*pubKey)
	expected := common.HexToAddress(owner)
	return bytes.Equal(recovered.Bytes(), expected.Bytes()), nil
}
