package blockchain

import (
	"context"

	"github.com/bridgeart/backend/internal/domain/blockchain/types"
	"github.com/bridgeart/backend/internal/entity"
)

// Chain is a supported network able to mint and lock NFTs. Every method only
// dispatches the transaction; confirmation is observed through TxStatus.
type Chain interface {
	Name() string
	Kind() entity.BlockchainKind

	// IsValidAddress reports whether address can own a token on this chain.
	IsValidAddress(address string) bool

	MintNFT(ctx context.Context, req *types.MintRequest) (*types.MintResult, error)

	// LockNFT moves the token held by owner into the bridge vault of this
	// chain and returns the transaction hash.
	LockNFT(ctx context.Context, owner, tokenID, mintAddress string) (string, error)

	// ReleaseNFT moves a token locked in the bridge vault of this chain to
	// owner and returns the transaction hash.
	ReleaseNFT(ctx context.Context, owner, tokenID, mintAddress string) (string, error)

	TxStatus(ctx context.Context, txHash string) (types.TxStatus, error)
}
