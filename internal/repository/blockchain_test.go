package repository

import (
	"testing"
	"time"

	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_blockChainRepository_Upsert(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewBlockChainRepository()

	chain := &entity.Blockchain{
		Name:          "polygon",
		ChainID:       137,
		Kind:          entity.BlockchainKindEVM,
		Confirmations: 1,
	}
	require.NoError(t, repo.Upsert(ctx, chain))

	chain.Confirmations = 12
	require.NoError(t, repo.Upsert(ctx, chain))

	require.NoError(t, repo.CreateBlockchainConnection(ctx, &entity.BlockchainConnection{
		Chain: "polygon", URL: "https://polygon-rpc.com", Type: entity.BlockchainConnectionRPC,
	}))
	// Duplicated connections are ignored.
	require.NoError(t, repo.CreateBlockchainConnection(ctx, &entity.BlockchainConnection{
		Chain: "polygon", URL: "https://polygon-rpc.com", Type: entity.BlockchainConnectionRPC,
	}))

	got, err := repo.Get(ctx, "polygon")
	require.NoError(t, err)
	require.Equal(t, 12, got.Confirmations)
	require.Len(t, got.BlockchainConnections, 1)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "polygon", all[0].Name)
}

func Test_blockChainRepository_Transaction(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertBlockchains(ctx)
	repo := NewBlockChainRepository()

	require.NoError(t, repo.CreateTransaction(ctx, &entity.BlockchainTransaction{
		Base:   entity.Base{ID: "tx1"},
		Chain:  "ethereum",
		TxHash: "0xdead",
		Status: entity.BlockchainTransactionStatusTypeInProgress,
	}))

	require.NoError(t, repo.UpdateStatusByTxHash(ctx, "0xdead", "ethereum",
		entity.BlockchainTransactionStatusTypeSuccess))

	tx, err := repo.GetTransactionByTxHash(ctx, "0xdead", "ethereum")
	require.NoError(t, err)
	require.Equal(t, "tx1", tx.ID)
	require.Equal(t, entity.BlockchainTransactionStatusTypeSuccess, tx.Status)
}

func Test_blockChainRepository_GetInProgressTransactions(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertBlockchains(ctx)
	repo := NewBlockChainRepository()

	now := time.Now()
	txs := []*entity.BlockchainTransaction{
		{Base: entity.Base{ID: "tx1", CreatedAt: now}, Chain: "ethereum", TxHash: "0x01",
			Status: entity.BlockchainTransactionStatusTypeInProgress},
		{Base: entity.Base{ID: "tx2", CreatedAt: now.Add(time.Second)}, Chain: "ethereum", TxHash: "0x02",
			Status: entity.BlockchainTransactionStatusTypeSuccess},
		{Base: entity.Base{ID: "tx3", CreatedAt: now.Add(-time.Second)}, Chain: "ethereum", TxHash: "0x03",
			Status: entity.BlockchainTransactionStatusTypeInProgress},
		{Base: entity.Base{ID: "tx4", CreatedAt: now}, Chain: "polygon", TxHash: "0x04",
			Status: entity.BlockchainTransactionStatusTypeInProgress},
	}
	for _, tx := range txs {
		require.NoError(t, repo.CreateTransaction(ctx, tx))
	}

	pending, err := repo.GetInProgressTransactions(ctx, "ethereum")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "0x03", pending[0].TxHash)
	require.Equal(t, "0x01", pending[1].TxHash)

	pending, err = repo.GetInProgressTransactions(ctx, "solana")
	require.NoError(t, err)
	require.Empty(t, pending)
}
