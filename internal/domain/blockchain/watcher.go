package blockchain

import (
	"context"
	"time"

	"github.com/bridgeart/backend/internal/common"
	"github.com/bridgeart/backend/internal/domain/blockchain/types"
	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/internal/repository"
	"github.com/bridgeart/backend/pkg/xcontext"
)

const defaultWatchInterval = 5 * time.Second

// TxWatcher settles every transaction which is still in progress in
// database, whoever dispatched it. Settling a mint transaction also settles
// the nft it created.
type TxWatcher struct {
	manager        *BlockchainManager
	blockchainRepo repository.BlockChainRepository
	nftRepo        repository.NftRepository
	interval       time.Duration
}

func NewTxWatcher(
	manager *BlockchainManager,
	blockchainRepo repository.BlockChainRepository,
	nftRepo repository.NftRepository,
	interval time.Duration,
) *TxWatcher {
	if interval <= 0 {
		interval = defaultWatchInterval
	}

	return &TxWatcher{
		manager:        manager,
		blockchainRepo: blockchainRepo,
		nftRepo:        nftRepo,
		interval:       interval,
	}
}

func (w *TxWatcher) Start(ctx context.Context) {
	xcontext.Logger(ctx).Infof("Starting tx watcher...")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, chain := range w.manager.Chains() {
				w.Check(ctx, chain)
			}
		}
	}
}

// Check polls every in-progress transaction of chain once.
func (w *TxWatcher) Check(ctx context.Context, chainName string) {
	chain, ok := w.manager.Chain(chainName)
	if !ok {
		return
	}

	txs, err := w.blockchainRepo.GetInProgressTransactions(ctx, chainName)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending txs of chain %s: %v", chainName, err)
		return
	}

	for i := range txs {
		status, err := chain.TxStatus(ctx, txs[i].TxHash)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get status of tx %s on %s: %v", txs[i].TxHash, chainName, err)
			continue
		}

		if status == types.TxStatusPending {
			continue
		}

		w.settle(ctx, &txs[i], status)
	}
}

func (w *TxWatcher) settle(ctx context.Context, tx *entity.BlockchainTransaction, status types.TxStatus) {
	txStatus := entity.BlockchainTransactionStatusTypeSuccess
	nftStatus := entity.NFTStatusMinted
	if status == types.TxStatusFailed {
		txStatus = entity.BlockchainTransactionStatusTypeFailure
		nftStatus = entity.NFTStatusFailed
		common.PromCounters[common.BlockchainTransactionFailure].WithLabelValues(string(tx.Type)).Inc()
	}

	if err := w.blockchainRepo.UpdateStatusByTxHash(ctx, tx.TxHash, tx.Chain, txStatus); err != nil {
		xcontext.Logger(ctx).Errorf("Unable to update status of tx_hash = %s, chain = %s: %v",
			tx.TxHash, tx.Chain, err)
		return
	}

	if tx.Type != entity.BlockchainTransactionTypeMint {
		return
	}

	if err := w.nftRepo.UpdateStatusByTransactionID(ctx, tx.ID, nftStatus); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update nft of tx %s: %v", tx.ID, err)
	}
}
