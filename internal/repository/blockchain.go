package repository

import (
	"context"

	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type BlockChainRepository interface {
	// Blockchain
	Upsert(context.Context, *entity.Blockchain) error
	Get(ctx context.Context, chain string) (*entity.Blockchain, error)
	GetAll(ctx context.Context) ([]entity.Blockchain, error)

	// Blockchain Connection
	CreateBlockchainConnection(context.Context, *entity.BlockchainConnection) error
	GetBlockchainConnectionsByChain(ctx context.Context, chain string) ([]entity.BlockchainConnection, error)

	// Transaction
	CreateTransaction(ctx context.Context, e *entity.BlockchainTransaction) error
	UpdateStatusByTxHash(ctx context.Context, txHash, chain string, newStatus entity.BlockchainTransactionStatusType) error
	GetTransactionByTxHash(ctx context.Context, txHash, chain string) (*entity.BlockchainTransaction, error)
	GetInProgressTransactions(ctx context.Context, chain string) ([]entity.BlockchainTransaction, error)
}

type blockChainRepository struct{}

func NewBlockChainRepository() *blockChainRepository {
	return &blockChainRepository{}
}

func (r *blockChainRepository) Upsert(ctx context.Context, chain *entity.Blockchain) error {
	return xcontext.DB(ctx).
		Omit("BlockchainConnections").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]any{
				"chain_id":        chain.ChainID,
				"kind":            chain.Kind,
				"display_name":    chain.DisplayName,
				"currency_symbol": chain.CurrencySymbol,
				"explorer_url":    chain.ExplorerURL,
				"nft_address":     chain.NFTAddress,
				"vault_address":   chain.VaultAddress,
				"confirmations":   chain.Confirmations,
				"use_eip1559":     chain.UseEip1559,
			}),
		}).Create(chain).Error
}

func (r *blockChainRepository) Get(ctx context.Context, chain string) (*entity.Blockchain, error) {
	var result entity.Blockchain
	err := xcontext.DB(ctx).Preload("BlockchainConnections").Take(&result, "name=?", chain).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *blockChainRepository) GetAll(ctx context.Context) ([]entity.Blockchain, error) {
	var result []entity.Blockchain
	err := xcontext.DB(ctx).Preload("BlockchainConnections").Order("name").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *blockChainRepository) CreateBlockchainConnection(
	ctx context.Context, conn *entity.BlockchainConnection,
) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(conn).Error
}

func (r *blockChainRepository) GetBlockchainConnectionsByChain(
	ctx context.Context, chain string,
) ([]entity.BlockchainConnection, error) {
	var result []entity.BlockchainConnection
	err := xcontext.DB(ctx).Find(&result, "chain=?", chain).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *blockChainRepository) CreateTransaction(ctx context.Context, e *entity.BlockchainTransaction) error {
	return xcontext.DB(ctx).Omit("Blockchain").Create(e).Error
}

func (r *blockChainRepository) UpdateStatusByTxHash(
	ctx context.Context, txHash, chain string, newStatus entity.BlockchainTransactionStatusType,
) error {
	return xcontext.DB(ctx).Model(&entity.BlockchainTransaction{}).
		Where("tx_hash = ? AND chain = ?", txHash, chain).
		Update("status", newStatus).Error
}

func (r *blockChainRepository) GetTransactionByTxHash(
	ctx context.Context, txHash, chain string,
) (*entity.BlockchainTransaction, error) {
	var result entity.BlockchainTransaction
	if err := xcontext.DB(ctx).Take(&result, "tx_hash = ? AND chain = ?", txHash, chain).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetInProgressTransactions returns the transactions of chain which are not
// settled yet, oldest first.
func (r *blockChainRepository) GetInProgressTransactions(
	ctx context.Context, chain string,
) ([]entity.BlockchainTransaction, error) {
	var result []entity.BlockchainTransaction
	err := xcontext.DB(ctx).
		Where("chain = ? AND status = ?", chain, entity.BlockchainTransactionStatusTypeInProgress).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
