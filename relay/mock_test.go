package relay

import (
	"context"
	"fmt"
	"math/big"
)

// mockSigner records every chain interaction so tests can assert that local
// precondition failures never reach the chain.
type mockSigner struct {
	address string
	chainID *big.Int

	balances map[string]*big.Int // key owner|token
	readFn   func(method string, args []interface{}) (interface{}, error)

	writeCalls   []writeCall
	readCalls    []readCall
	balanceCalls int

	writeErr   error
	receipt    *TransactionReceipt
	receiptErr error
}

type writeCall struct {
	address string
	method  string
	value   *big.Int
	args    []interface{}
}

type readCall struct {
	address string
	method  string
	args    []interface{}
}

func newMockSigner() *mockSigner {
	return &mockSigner{
		address:  "0xF39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		chainID:  big.NewInt(84532),
		balances: make(map[string]*big.Int),
	}
}

func (m *mockSigner) setBalance(owner, token string, balance *big.Int) {
	m.balances[owner+"|"+token] = balance
}

func (m *mockSigner) chainCalls() int {
	return len(m.writeCalls) + len(m.readCalls) + m.balanceCalls
}

func (m *mockSigner) Address() string { return m.address }

func (m *mockSigner) GetChainID(ctx context.Context) (*big.Int, error) {
	return m.chainID, nil
}

func (m *mockSigner) ReadContract(ctx context.Context, address string, abiJSON []byte, method string, args ...interface{}) (interface{}, error) {
	m.readCalls = append(m.readCalls, readCall{address: address, method: method, args: args})
	if m.readFn != nil {
		return m.readFn(method, args)
	}
	return nil, fmt.Errorf("unexpected read: %s", method)
}

func (m *mockSigner) WriteContract(ctx context.Context, address string, abiJSON []byte, method string, args ...interface{}) (string, error) {
	return m.WriteContractWithValue(ctx, address, nil, abiJSON, method, args...)
}

func (m *mockSigner) WriteContractWithValue(ctx context.Context, address string, value *big.Int, abiJSON []byte, method string, args ...interface{}) (string, error) {
	m.writeCalls = append(m.writeCalls, writeCall{address: address, method: method, value: value, args: args})
	if m.writeErr != nil {
		return "", m.writeErr
	}
	return "0xabc123", nil
}

func (m *mockSigner) WaitForTransactionReceipt(ctx context.Context, txHash string) (*TransactionReceipt, error) {
	if m.receiptErr != nil {
		return nil, m.receiptErr
	}
	if m.receipt != nil {
		return m.receipt, nil
	}
	return &TransactionReceipt{Status: TxStatusSuccess, TxHash: txHash}, nil
}

func (m *mockSigner) GetBalance(ctx context.Context, address string, tokenAddress string) (*big.Int, error) {
	m.balanceCalls++
	if balance, ok := m.balances[address+"|"+tokenAddress]; ok {
		return balance, nil
	}
	return nil, fmt.Errorf("no balance configured for %s", address)
}
