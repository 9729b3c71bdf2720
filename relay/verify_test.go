package relay

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oftbridge/relay/permit2"
)

const (
	testToken     = "0x036CbD53842c5426634e7929541eC2318f3dCF7e"
	testRecipient = "0x1111111111111111111111111111111111111111"
)

func newTestRelay(t *testing.T) (*Relay, *mockSigner) {
	t.Helper()
	signer := newMockSigner()
	r, err := New(signer, NetworkConfigs["eip155:84532"])
	require.NoError(t, err)
	return r, signer
}

func newOwnerKey(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func signDigest(t *testing.T, key *ecdsa.PrivateKey, digest []byte) string {
	t.Helper()
	sig, err := crypto.Sign(digest, key)
	require.NoError(t, err)
	sig[64] += 27
	return BytesToHex(sig)
}

// signedPermit builds a PermitSingle naming the relay as spender, valid for
// an hour, signed by key.
func signedPermit(t *testing.T, r *Relay, key *ecdsa.PrivateKey, amount string) (permit2.PermitSingle, string) {
	t.Helper()
	deadline := fmt.Sprintf("%d", time.Now().Unix()+3600)
	permit := permit2.PermitSingle{
		Details: permit2.PermitDetails{
			Token:      testToken,
			Amount:     amount,
			Expiration: deadline,
			Nonce:      "0",
		},
		Spender:     r.Address(),
		SigDeadline: deadline,
	}
	digest, err := permit2.HashPermitSingle(permit, r.ChainID())
	require.NoError(t, err)
	return permit, signDigest(t, key, digest)
}

func signedTransferPermit(t *testing.T, r *Relay, key *ecdsa.PrivateKey, amount string) (permit2.PermitTransferFrom, string) {
	t.Helper()
	permit := permit2.PermitTransferFrom{
		Permitted: permit2.TokenPermissions{Token: testToken, Amount: amount},
		Spender:   r.Address(),
		Nonce:     "42",
		Deadline:  fmt.Sprintf("%d", time.Now().Unix()+3600),
	}
	digest, err := permit2.HashPermitTransferFrom(permit, r.ChainID())
	require.NoError(t, err)
	return permit, signDigest(t, key, digest)
}

func requireVerifyReason(t *testing.T, err error, reason string) {
	t.Helper()
	require.Error(t, err)
	verr, ok := err.(*VerifyError)
	require.True(t, ok, "expected *VerifyError, got %T: %v", err, err)
	assert.Equal(t, reason, verr.Reason)
}

func TestVerifyTransferPreconditions(t *testing.T) {
	ctx := context.Background()

	type mutate func(r *Relay, req *TransferRequest)
	cases := []struct {
		name   string
		mutate mutate
		reason string
	}{
		{
			name:   "zero recipient",
			mutate: func(r *Relay, req *TransferRequest) { req.Recipient = ZeroAddress },
			reason: ErrInvalidRecipient,
		},
		{
			name:   "recipient is the relay",
			mutate: func(r *Relay, req *TransferRequest) { req.Recipient = r.Address() },
			reason: ErrRecipientIsRelay,
		},
		{
			name:   "zero amount",
			mutate: func(r *Relay, req *TransferRequest) { req.Amount = "0" },
			reason: ErrInvalidAmount,
		},
		{
			name:   "malformed amount",
			mutate: func(r *Relay, req *TransferRequest) { req.Amount = "not-a-number" },
			reason: ErrInvalidPayload,
		},
		{
			name:   "amount exceeds permit bound",
			mutate: func(r *Relay, req *TransferRequest) { req.Amount = "1000001" },
			reason: ErrAmountExceedsPermit,
		},
		{
			name:   "zero token",
			mutate: func(r *Relay, req *TransferRequest) { req.Permit.Details.Token = ZeroAddress },
			reason: ErrInvalidToken,
		},
		{
			name:   "spender is not the relay",
			mutate: func(r *Relay, req *TransferRequest) { req.Permit.Spender = testRecipient },
			reason: ErrSpenderMismatch,
		},
		{
			name:   "signature deadline expired",
			mutate: func(r *Relay, req *TransferRequest) { req.Permit.SigDeadline = "1000" },
			reason: ErrSigDeadlineExpired,
		},
		{
			name:   "permit expired",
			mutate: func(r *Relay, req *TransferRequest) { req.Permit.Details.Expiration = "1000" },
			reason: ErrPermitExpired,
		},
		{
			name:   "malformed signature hex",
			mutate: func(r *Relay, req *TransferRequest) { req.Signature = "0xzz" },
			reason: ErrInvalidSignatureFormat,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, signer := newTestRelay(t)
			key, owner := newOwnerKey(t)
			permit, sig := signedPermit(t, r, key, "1000000")

			req := TransferRequest{
				Owner:     owner,
				Permit:    permit,
				Signature: sig,
				Recipient: testRecipient,
				Amount:    "500000",
			}
			tc.mutate(r, &req)

			_, err := r.VerifyTransfer(ctx, req)
			requireVerifyReason(t, err, tc.reason)
			assert.Zero(t, signer.chainCalls(), "local failure must not touch the chain")
		})
	}
}

func TestVerifyTransferWrongSigner(t *testing.T) {
	r, signer := newTestRelay(t)
	key, _ := newOwnerKey(t)
	_, other := newOwnerKey(t)
	permit, sig := signedPermit(t, r, key, "1000000")

	_, err := r.VerifyTransfer(context.Background(), TransferRequest{
		Owner:     other, // signature does not recover to this owner
		Permit:    permit,
		Signature: sig,
		Recipient: testRecipient,
		Amount:    "500000",
	})
	requireVerifyReason(t, err, ErrInvalidSignature)
	assert.Zero(t, signer.chainCalls())
}

func TestVerifyTransferValid(t *testing.T) {
	r, signer := newTestRelay(t)
	key, owner := newOwnerKey(t)
	permit, sig := signedPermit(t, r, key, "1000000")
	signer.setBalance(owner, testToken, big.NewInt(1000000))

	result, err := r.VerifyTransfer(context.Background(), TransferRequest{
		Owner:     owner,
		Permit:    permit,
		Signature: sig,
		Recipient: testRecipient,
		Amount:    "500000",
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, owner, result.Owner)
}

func TestVerifyTransferInsufficientBalance(t *testing.T) {
	r, signer := newTestRelay(t)
	key, owner := newOwnerKey(t)
	permit, sig := signedPermit(t, r, key, "1000000")
	signer.setBalance(owner, testToken, big.NewInt(100))

	_, err := r.VerifyTransfer(context.Background(), TransferRequest{
		Owner:     owner,
		Permit:    permit,
		Signature: sig,
		Recipient: testRecipient,
		Amount:    "500000",
	})
	requireVerifyReason(t, err, ErrInsufficientBalance)
}

func TestVerifyReceiveAllowsRelayAsRecipient(t *testing.T) {
	// ReceiveWithPermit stages funds in the relay itself, so there is no
	// recipient ladder at all.
	r, signer := newTestRelay(t)
	key, owner := newOwnerKey(t)
	permit, sig := signedPermit(t, r, key, "1000000")
	signer.setBalance(owner, testToken, big.NewInt(1000000))

	result, err := r.VerifyReceive(context.Background(), TransferRequest{
		Owner:     owner,
		Permit:    permit,
		Signature: sig,
		Amount:    "1000000",
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestVerifyBridgePreconditions(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(req *BridgeRequest)
		reason string
	}{
		{
			name:   "zero destination",
			mutate: func(req *BridgeRequest) { req.Bridge.Recipient = ZeroAddress },
			reason: ErrInvalidDestination,
		},
		{
			name:   "malformed destination",
			mutate: func(req *BridgeRequest) { req.Bridge.Recipient = "0x1234" },
			reason: ErrInvalidDestination,
		},
		{
			name:   "minAmount above send amount",
			mutate: func(req *BridgeRequest) { req.Bridge.MinAmount = "2000000" },
			reason: ErrInvalidPayload,
		},
		{
			name:   "negative fee",
			mutate: func(req *BridgeRequest) { req.Bridge.Fee = "-1" },
			reason: ErrInvalidFee,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, signer := newTestRelay(t)
			key, owner := newOwnerKey(t)
			permit, sig := signedPermit(t, r, key, "1000000")

			req := BridgeRequest{
				Owner:     owner,
				Permit:    permit,
				Signature: sig,
				Amount:    "1000000",
				Bridge: BridgeParams{
					DstEid:       30101,
					Recipient:    testRecipient,
					MinAmount:    "990000",
					ExtraOptions: "0x",
				},
			}
			tc.mutate(&req)

			_, err := r.VerifyBridge(ctx, req)
			requireVerifyReason(t, err, tc.reason)
			assert.Zero(t, signer.chainCalls())
		})
	}
}

func TestVerifyBridgeAccepts32ByteDestination(t *testing.T) {
	r, signer := newTestRelay(t)
	key, owner := newOwnerKey(t)
	permit, sig := signedPermit(t, r, key, "1000000")
	signer.setBalance(owner, testToken, big.NewInt(1000000))

	result, err := r.VerifyBridge(context.Background(), BridgeRequest{
		Owner:     owner,
		Permit:    permit,
		Signature: sig,
		Amount:    "1000000",
		Bridge: BridgeParams{
			DstEid:       30101,
			Recipient:    "0x0000000000000000000000001111111111111111111111111111111111111111",
			MinAmount:    "990000",
			ExtraOptions: "0x",
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestVerifyGaslessBridge(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		r, signer := newTestRelay(t)
		key, owner := newOwnerKey(t)
		permit, sig := signedTransferPermit(t, r, key, "1000000")
		signer.setBalance(owner, testToken, big.NewInt(1000000))

		result, err := r.VerifyGaslessBridge(ctx, GaslessBridgeRequest{
			Owner:     owner,
			Permit:    permit,
			Signature: sig,
			Bridge: BridgeParams{
				DstEid:       30101,
				Recipient:    testRecipient,
				MinAmount:    "990000",
				ExtraOptions: "0x",
			},
		})
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("spender is not the relay", func(t *testing.T) {
		r, signer := newTestRelay(t)
		key, owner := newOwnerKey(t)
		permit, sig := signedTransferPermit(t, r, key, "1000000")
		permit.Spender = testRecipient

		_, err := r.VerifyGaslessBridge(ctx, GaslessBridgeRequest{
			Owner:     owner,
			Permit:    permit,
			Signature: sig,
			Bridge:    BridgeParams{DstEid: 30101, Recipient: testRecipient, MinAmount: "1", ExtraOptions: "0x"},
		})
		requireVerifyReason(t, err, ErrSpenderMismatch)
		assert.Zero(t, signer.chainCalls())
	})

	t.Run("deadline expired", func(t *testing.T) {
		r, signer := newTestRelay(t)
		key, owner := newOwnerKey(t)
		permit, sig := signedTransferPermit(t, r, key, "1000000")
		permit.Deadline = "1000"

		_, err := r.VerifyGaslessBridge(ctx, GaslessBridgeRequest{
			Owner:     owner,
			Permit:    permit,
			Signature: sig,
			Bridge:    BridgeParams{DstEid: 30101, Recipient: testRecipient, MinAmount: "1", ExtraOptions: "0x"},
		})
		requireVerifyReason(t, err, ErrSigDeadlineExpired)
		assert.Zero(t, signer.chainCalls())
	})

	t.Run("signature over altered permit", func(t *testing.T) {
		r, _ := newTestRelay(t)
		key, owner := newOwnerKey(t)
		permit, sig := signedTransferPermit(t, r, key, "1000000")
		permit.Permitted.Amount = "2000000" // not what was signed

		_, err := r.VerifyGaslessBridge(ctx, GaslessBridgeRequest{
			Owner:     owner,
			Permit:    permit,
			Signature: sig,
			Bridge:    BridgeParams{DstEid: 30101, Recipient: testRecipient, MinAmount: "1", ExtraOptions: "0x"},
		})
		requireVerifyReason(t, err, ErrInvalidSignature)
	})
}

func TestVerifyWithdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("destination must equal the caller", func(t *testing.T) {
		r, _ := newTestRelay(t)
		_, err := r.VerifyWithdraw(ctx, WithdrawRequest{
			Token:  testToken,
			To:     testRecipient,
			Amount: "100",
		})
		requireVerifyReason(t, err, ErrWithdrawDenied)
	})

	t.Run("valid for the caller itself", func(t *testing.T) {
		r, signer := newTestRelay(t)
		signer.setBalance(r.Address(), testToken, big.NewInt(1000))

		result, err := r.VerifyWithdraw(ctx, WithdrawRequest{
			Token:  testToken,
			To:     signer.Address(),
			Amount: "100",
		})
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("relay holds less than requested", func(t *testing.T) {
		r, signer := newTestRelay(t)
		signer.setBalance(r.Address(), testToken, big.NewInt(10))

		_, err := r.VerifyWithdraw(ctx, WithdrawRequest{
			Token:  testToken,
			To:     signer.Address(),
			Amount: "100",
		})
		requireVerifyReason(t, err, ErrInsufficientBalance)
	})
}

func TestVerifyValidatePermit(t *testing.T) {
	r, signer := newTestRelay(t)
	key, owner := newOwnerKey(t)
	permit, sig := signedPermit(t, r, key, "1000000")

	result, err := r.VerifyValidatePermit(context.Background(), ValidateRequest{
		Owner:     owner,
		Permit:    permit,
		Signature: sig,
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Zero(t, signer.chainCalls(), "validate-only verification is fully local")
}
