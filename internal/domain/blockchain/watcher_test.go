package blockchain

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/bridgeart/backend/internal/domain/blockchain/types"
	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/internal/repository"
	"github.com/bridgeart/backend/mocks"
	"github.com/bridgeart/backend/pkg/testutil"
	"github.com/bridgeart/backend/pkg/xcontext"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupWatcher(t *testing.T) (context.Context, *TxWatcher, *mocks.Chain) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	blockchainRepo := repository.NewBlockChainRepository()
	nftRepo := repository.NewNftRepository()

	for i, hash := range []string{"0xaaa", "0xbbb", "0xccc"} {
		txID := hash[2:]
		require.NoError(t, blockchainRepo.CreateTransaction(ctx, &entity.BlockchainTransaction{
			Base:   entity.Base{ID: txID},
			Chain:  "ethereum",
			TxHash: hash,
			Type:   entity.BlockchainTransactionTypeMint,
			Status: entity.BlockchainTransactionStatusTypeInProgress,
		}))

		require.NoError(t, nftRepo.Create(ctx, &entity.NFT{
			SnowFlakeBase: entity.SnowFlakeBase{ID: int64(100 + i)},
			Name:          "Minting " + hash,
			Chain:         "ethereum",
			TransactionID: sql.NullString{Valid: true, String: txID},
			Status:        entity.NFTStatusMinting,
		}))
	}

	manager := NewBlockchainManager(blockchainRepo)
	chain := mocks.NewChain("ethereum", entity.BlockchainKindEVM)
	manager.AddChain(chain)

	return ctx, NewTxWatcher(manager, blockchainRepo, nftRepo, 0), chain
}

func pendingHashes(t *testing.T, ctx context.Context, chain string) []string {
	txs, err := repository.NewBlockChainRepository().GetInProgressTransactions(ctx, chain)
	require.NoError(t, err)

	hashes := []string{}
	for _, tx := range txs {
		hashes = append(hashes, tx.TxHash)
	}
	return hashes
}

func TestTxWatcher_Check(t *testing.T) {
	ctx, watcher, chain := setupWatcher(t)

	chain.On("TxStatus", mock.Anything, "0xaaa").Return(types.TxStatusConfirmed, nil)
	chain.On("TxStatus", mock.Anything, "0xbbb").Return(types.TxStatusFailed, nil)
	chain.On("TxStatus", mock.Anything, "0xccc").Return(types.TxStatusPending, nil)

	watcher.Check(ctx, "ethereum")

	require.Equal(t, []string{"0xccc"}, pendingHashes(t, ctx, "ethereum"))

	expected := map[string]struct {
		tx  entity.BlockchainTransactionStatusType
		nft entity.NFTStatus
	}{
		"aaa": {entity.BlockchainTransactionStatusTypeSuccess, entity.NFTStatusMinted},
		"bbb": {entity.BlockchainTransactionStatusTypeFailure, entity.NFTStatusFailed},
		"ccc": {entity.BlockchainTransactionStatusTypeInProgress, entity.NFTStatusMinting},
	}

	for txID, want := range expected {
		var tx entity.BlockchainTransaction
		require.NoError(t, xcontext.DB(ctx).Take(&tx, "id = ?", txID).Error)
		require.Equal(t, want.tx, tx.Status, txID)

		var nft entity.NFT
		require.NoError(t, xcontext.DB(ctx).Take(&nft, "transaction_id = ?", txID).Error)
		require.Equal(t, want.nft, nft.Status, txID)
	}
}

func TestTxWatcher_Check_RPCError(t *testing.T) {
	ctx, watcher, chain := setupWatcher(t)

	chain.On("TxStatus", mock.Anything, mock.Anything).Return(nil, errors.New("rpc down"))

	watcher.Check(ctx, "ethereum")

	require.Len(t, pendingHashes(t, ctx, "ethereum"), 3)

	// Every pending transaction is retried by the next check.
	chain.ExpectedCalls = nil
	chain.On("TxStatus", mock.Anything, mock.Anything).Return(types.TxStatusConfirmed, nil)

	watcher.Check(ctx, "ethereum")

	require.Empty(t, pendingHashes(t, ctx, "ethereum"))
	var minted int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.NFT{}).
		Where("status = ?", entity.NFTStatusMinted).Count(&minted).Error)
	require.Equal(t, int64(2+3), minted)
}

func TestTxWatcher_Check_BridgeTransactions(t *testing.T) {
	ctx, watcher, chain := setupWatcher(t)
	blockchainRepo := repository.NewBlockChainRepository()

	require.NoError(t, blockchainRepo.CreateTransaction(ctx, &entity.BlockchainTransaction{
		Base:   entity.Base{ID: "release"},
		Chain:  "ethereum",
		TxHash: "0xddd",
		Type:   entity.BlockchainTransactionTypeRelease,
		NFTID:  testutil.NFTCosmicDreams.ID,
		Status: entity.BlockchainTransactionStatusTypeInProgress,
	}))

	chain.On("TxStatus", mock.Anything, "0xddd").Return(types.TxStatusFailed, nil)
	chain.On("TxStatus", mock.Anything, mock.Anything).Return(types.TxStatusPending, nil)

	watcher.Check(ctx, "ethereum")

	tx, err := blockchainRepo.GetTransactionByTxHash(ctx, "0xddd", "ethereum")
	require.NoError(t, err)
	require.Equal(t, entity.BlockchainTransactionStatusTypeFailure, tx.Status)

	// The nft of a bridge transaction keeps its own status.
	nft, err := repository.NewNftRepository().GetByID(ctx, testutil.NFTCosmicDreams.ID)
	require.NoError(t, err)
	require.Equal(t, entity.NFTStatusMinted, nft.Status)
}

func TestTxWatcher_Check_UnknownChain(t *testing.T) {
	ctx, watcher, chain := setupWatcher(t)

	watcher.Check(ctx, "polygon")
	chain.AssertNotCalled(t, "TxStatus", mock.Anything, mock.Anything)
}
