package domain

import (
	"context"
	"errors"

	"github.com/bridgeart/backend/internal/model"
	"github.com/bridgeart/backend/internal/repository"
	"github.com/bridgeart/backend/pkg/errorx"
	"github.com/bridgeart/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type BlockchainDomain interface {
	GetListChain(context.Context, *model.GetListChainRequest) (*model.GetListChainResponse, error)
	GetTransaction(context.Context, *model.GetBlockchainTransactionRequest) (*model.GetBlockchainTransactionResponse, error)
}

type blockchainDomain struct {
	blockchainRepo repository.BlockChainRepository
	chains         ChainProvider
}

func NewBlockchainDomain(
	blockchainRepo repository.BlockChainRepository,
	chains ChainProvider,
) *blockchainDomain {
	return &blockchainDomain{
		blockchainRepo: blockchainRepo,
		chains:         chains,
	}
}

// GetListChain returns the configured chains which currently have a running
// client.
func (d *blockchainDomain) GetListChain(
	ctx context.Context, req *model.GetListChainRequest,
) (*model.GetListChainResponse, error) {
	blockchains, err := d.blockchainRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get all chains: %v", err)
		return nil, errorx.Unknown
	}

	running := d.chains.Chains()
	result := []model.Blockchain{}
	for i := range blockchains {
		if slices.Contains(running, blockchains[i].Name) {
			result = append(result, model.ConvertBlockchain(&blockchains[i]))
		}
	}

	return &model.GetListChainResponse{Chains: result}, nil
}

func (d *blockchainDomain) GetTransaction(
	ctx context.Context, req *model.GetBlockchainTransactionRequest,
) (*model.GetBlockchainTransactionResponse, error) {
	if req.Chain == "" || req.TxHash == "" {
		return nil, errorx.New(errorx.BadRequest, "Chain and tx hash are required")
	}

	tx, err := d.blockchainRepo.GetTransactionByTxHash(ctx, req.TxHash, req.Chain)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found transaction")
		}

		xcontext.Logger(ctx).Errorf("Cannot get transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetBlockchainTransactionResponse{
		Chain:  tx.Chain,
		TxHash: tx.TxHash,
		Type:   string(tx.Type),
		NFTID:  tx.NFTID,
		Status: string(tx.Status),
	}, nil
}
