package permit2

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testChainID = big.NewInt(84532)

func testPermitSingle() PermitSingle {
	return PermitSingle{
		Details: PermitDetails{
			Token:      "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
			Amount:     "1000000",
			Expiration: "1893456000",
			Nonce:      "0",
		},
		Spender:     "0x3D91b4C7e2A85F06d1E9a7804C2B6fA1D0973E55",
		SigDeadline: "1893456000",
	}
}

func TestHashPermitSingleDeterministic(t *testing.T) {
	permit := testPermitSingle()

	first, err := HashPermitSingle(permit, testChainID)
	require.NoError(t, err)
	second, err := HashPermitSingle(permit, testChainID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 32)
}

func TestHashPermitSingleBindsEveryField(t *testing.T) {
	base := testPermitSingle()
	baseDigest, err := HashPermitSingle(base, testChainID)
	require.NoError(t, err)

	mutations := map[string]func(*PermitSingle){
		"token":       func(p *PermitSingle) { p.Details.Token = "0x1111111111111111111111111111111111111111" },
		"amount":      func(p *PermitSingle) { p.Details.Amount = "2000000" },
		"expiration":  func(p *PermitSingle) { p.Details.Expiration = "1893456001" },
		"nonce":       func(p *PermitSingle) { p.Details.Nonce = "1" },
		"spender":     func(p *PermitSingle) { p.Spender = "0x1111111111111111111111111111111111111111" },
		"sigDeadline": func(p *PermitSingle) { p.SigDeadline = "1893456001" },
	}

	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			permit := testPermitSingle()
			mutate(&permit)
			digest, err := HashPermitSingle(permit, testChainID)
			require.NoError(t, err)
			assert.NotEqual(t, baseDigest, digest)
		})
	}

	t.Run("chain id", func(t *testing.T) {
		digest, err := HashPermitSingle(base, big.NewInt(8453))
		require.NoError(t, err)
		assert.NotEqual(t, baseDigest, digest)
	})
}

func TestSignAndRecoverPermitSingle(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	owner := crypto.PubkeyToAddress(key.PublicKey).Hex()

	digest, err := HashPermitSingle(testPermitSingle(), testChainID)
	require.NoError(t, err)

	signature, err := crypto.Sign(digest, key)
	require.NoError(t, err)
	signature[64] += 27

	valid, err := RecoverSigner(digest, signature, owner)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = RecoverSigner(digest, signature, "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestRecoverSignerAcceptsBothRecoveryIDForms(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	owner := crypto.PubkeyToAddress(key.PublicKey).Hex()

	digest, err := HashPermitSingle(testPermitSingle(), testChainID)
	require.NoError(t, err)

	signature, err := crypto.Sign(digest, key)
	require.NoError(t, err)

	// Raw 0/1 recovery id
	valid, err := RecoverSigner(digest, signature, owner)
	require.NoError(t, err)
	assert.True(t, valid)

	// Ethereum's 27/28 form
	adjusted := make([]byte, 65)
	copy(adjusted, signature)
	adjusted[64] += 27
	valid, err = RecoverSigner(digest, adjusted, owner)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestRecoverSignerRejectsBadLength(t *testing.T) {
	_, err := RecoverSigner(make([]byte, 32), make([]byte, 64), "0x1111111111111111111111111111111111111111")
	assert.Error(t, err)
}

func TestSignAndRecoverPermitTransferFrom(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	owner := crypto.PubkeyToAddress(key.PublicKey).Hex()

	permit := PermitTransferFrom{
		Permitted: TokenPermissions{
			Token:  "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
			Amount: "1000000",
		},
		Spender:  "0x3D91b4C7e2A85F06d1E9a7804C2B6fA1D0973E55",
		Nonce:    "42",
		Deadline: "1893456000",
	}

	digest, err := HashPermitTransferFrom(permit, testChainID)
	require.NoError(t, err)

	signature, err := crypto.Sign(digest, key)
	require.NoError(t, err)
	signature[64] += 27

	valid, err := RecoverSigner(digest, signature, owner)
	require.NoError(t, err)
	assert.True(t, valid)

	// The signed spender binds the signature to one caller.
	other := permit
	other.Spender = "0x1111111111111111111111111111111111111111"
	otherDigest, err := HashPermitTransferFrom(other, testChainID)
	require.NoError(t, err)
	assert.NotEqual(t, digest, otherDigest)
}

func TestDomainHasNoVersion(t *testing.T) {
	domain := Domain(testChainID)
	assert.Equal(t, "Permit2", domain.Name)
	assert.Empty(t, domain.Version)
	assert.Equal(t, ContractAddress, domain.VerifyingContract)
}
