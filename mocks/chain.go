package mocks

import (
	"context"

	"github.com/bridgeart/backend/internal/domain/blockchain/types"
	"github.com/bridgeart/backend/internal/entity"
	"github.com/stretchr/testify/mock"
)

type Chain struct {
	mock.Mock

	ChainName string
	ChainKind entity.BlockchainKind

	// ValidAddress overrides the default non empty address check.
	ValidAddress func(address string) bool
}

func NewChain(name string, kind entity.BlockchainKind) *Chain {
	return &Chain{ChainName: name, ChainKind: kind}
}

func (c *Chain) Name() string {
	return c.ChainName
}

func (c *Chain) Kind() entity.BlockchainKind {
	return c.ChainKind
}

func (c *Chain) IsValidAddress(address string) bool {
	if c.ValidAddress != nil {
		return c.ValidAddress(address)
	}
	return address != ""
}

func (c *Chain) MintNFT(arg1 context.Context, arg2 *types.MintRequest) (*types.MintResult, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MintResult), args.Error(1)
}

func (c *Chain) LockNFT(arg1 context.Context, arg2, arg3, arg4 string) (string, error) {
	args := c.Called(arg1, arg2, arg3, arg4)
	return args.String(0), args.Error(1)
}

func (c *Chain) ReleaseNFT(arg1 context.Context, arg2, arg3, arg4 string) (string, error) {
	args := c.Called(arg1, arg2, arg3, arg4)
	return args.String(0), args.Error(1)
}

func (c *Chain) TxStatus(arg1 context.Context, arg2 string) (types.TxStatus, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return "", args.Error(1)
	}
	return args.Get(0).(types.TxStatus), args.Error(1)
}
