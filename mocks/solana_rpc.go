package mocks

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/mock"
)

type SolanaRPCClient struct {
	mock.Mock
}

func (c *SolanaRPCClient) GetLatestBlockhash(
	arg1 context.Context, arg2 rpc.CommitmentType,
) (*rpc.GetLatestBlockhashResult, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.GetLatestBlockhashResult), args.Error(1)
}

func (c *SolanaRPCClient) GetMinimumBalanceForRentExemption(
	arg1 context.Context, arg2 uint64, arg3 rpc.CommitmentType,
) (uint64, error) {
	args := c.Called(arg1, arg2, arg3)

	if args.Get(0) == nil {
		return 0, args.Error(1)
	}
	return args.Get(0).(uint64), args.Error(1)
}

func (c *SolanaRPCClient) GetAccountInfo(
	arg1 context.Context, arg2 solana.PublicKey,
) (*rpc.GetAccountInfoResult, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.GetAccountInfoResult), args.Error(1)
}

func (c *SolanaRPCClient) SendTransactionWithOpts(
	arg1 context.Context, arg2 *solana.Transaction, arg3 rpc.TransactionOpts,
) (solana.Signature, error) {
	args := c.Called(arg1, arg2, arg3)

	if args.Get(0) == nil {
		return solana.Signature{}, args.Error(1)
	}
	return args.Get(0).(solana.Signature), args.Error(1)
}

func (c *SolanaRPCClient) GetSignatureStatuses(
	arg1 context.Context, arg2 bool, arg3 ...solana.Signature,
) (*rpc.GetSignatureStatusesResult, error) {
	args := c.Called(arg1, arg2, arg3)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.GetSignatureStatusesResult), args.Error(1)
}
