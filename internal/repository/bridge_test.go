package repository

import (
	"testing"
	"time"

	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_bridgeRepository_UpdateStatus(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := NewBridgeRepository()

	req := &entity.BridgeRequest{
		Base:        entity.Base{ID: "bridge1"},
		NFTID:       testutil.NFTCosmicDreams.ID,
		OwnerID:     testutil.User1.ID,
		SourceChain: "ethereum",
		TargetChain: "polygon",
		Status:      entity.BridgeStatusIdle,
	}
	require.NoError(t, repo.Create(ctx, req))

	active, err := repo.GetActiveByNFTID(ctx, testutil.NFTCosmicDreams.ID)
	require.NoError(t, err)
	require.Equal(t, "bridge1", active.ID)

	err = repo.UpdateStatus(ctx, "bridge1", entity.BridgeStatusIdle, entity.BridgeStatusInitiating, nil)
	require.NoError(t, err)

	// Stale from status.
	err = repo.UpdateStatus(ctx, "bridge1", entity.BridgeStatusIdle, entity.BridgeStatusFailed, nil)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.UpdateStatus(ctx, "bridge1", entity.BridgeStatusInitiating, entity.BridgeStatusFailed,
		map[string]any{"failure_reason": "rpc down"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "bridge1")
	require.NoError(t, err)
	require.Equal(t, entity.BridgeStatusFailed, got.Status)
	require.Equal(t, "rpc down", got.FailureReason)
	require.Equal(t, "Cosmic Dreams", got.NFT.Name)

	_, err = repo.GetActiveByNFTID(ctx, testutil.NFTCosmicDreams.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	list, err := repo.GetListByOwner(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func Test_bridgeRepository_Create_OneActivePerNFT(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := NewBridgeRepository()

	newRequest := func(id string) *entity.BridgeRequest {
		return &entity.BridgeRequest{
			Base:        entity.Base{ID: id},
			NFTID:       testutil.NFTCosmicDreams.ID,
			OwnerID:     testutil.User1.ID,
			SourceChain: "ethereum",
			TargetChain: "polygon",
			Status:      entity.BridgeStatusInitiating,
		}
	}

	require.NoError(t, repo.Create(ctx, newRequest("bridge1")))
	require.Error(t, repo.Create(ctx, newRequest("bridge2")))

	// Another nft is not blocked.
	other := newRequest("bridge3")
	other.NFTID = testutil.NFTNeonCity.ID
	require.NoError(t, repo.Create(ctx, other))

	// A terminal request frees the nft.
	err := repo.UpdateStatus(ctx, "bridge1", entity.BridgeStatusInitiating, entity.BridgeStatusFailed, nil)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "bridge1")
	require.NoError(t, err)
	require.False(t, got.ActiveNFTID.Valid)

	require.NoError(t, repo.Create(ctx, newRequest("bridge4")))
}

func Test_bridgeRepository_GetUnfinished(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := NewBridgeRepository()

	now := time.Now()
	requests := []*entity.BridgeRequest{
		{Base: entity.Base{ID: "done", CreatedAt: now}, NFTID: 1, Status: entity.BridgeStatusCompleted},
		{Base: entity.Base{ID: "processing", CreatedAt: now.Add(time.Second)}, NFTID: 1, Status: entity.BridgeStatusProcessing},
		{Base: entity.Base{ID: "initiating", CreatedAt: now.Add(-time.Second)}, NFTID: 2, Status: entity.BridgeStatusInitiating},
	}
	for _, req := range requests {
		require.NoError(t, repo.Create(ctx, req))
	}

	unfinished, err := repo.GetUnfinished(ctx)
	require.NoError(t, err)
	require.Len(t, unfinished, 2)
	require.Equal(t, "initiating", unfinished[0].ID)
	require.Equal(t, "processing", unfinished[1].ID)
}

func Test_bridgeRepository_GetLastLockedOn(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := NewBridgeRepository()

	now := time.Now()
	requests := []*entity.BridgeRequest{
		{
			Base: entity.Base{ID: "first", CreatedAt: now}, NFTID: 1,
			SourceChain: "ethereum", TargetChain: "solana", SourceTokenID: "1",
			Status: entity.BridgeStatusCompleted,
		},
		{
			Base: entity.Base{ID: "back", CreatedAt: now.Add(time.Second)}, NFTID: 1,
			SourceChain: "solana", TargetChain: "ethereum", SourceMintAddress: "mint",
			Status: entity.BridgeStatusCompleted,
		},
		{
			Base: entity.Base{ID: "second", CreatedAt: now.Add(2 * time.Second)}, NFTID: 1,
			SourceChain: "ethereum", TargetChain: "polygon", SourceTokenID: "1",
			Status: entity.BridgeStatusCompleted,
		},
		{
			Base: entity.Base{ID: "failed", CreatedAt: now.Add(3 * time.Second)}, NFTID: 1,
			SourceChain: "ethereum", TargetChain: "polygon",
			Status: entity.BridgeStatusFailed,
		},
	}
	for _, req := range requests {
		require.NoError(t, repo.Create(ctx, req))
	}

	last, err := repo.GetLastLockedOn(ctx, 1, "ethereum")
	require.NoError(t, err)
	require.Equal(t, "second", last.ID)

	last, err = repo.GetLastLockedOn(ctx, 1, "solana")
	require.NoError(t, err)
	require.Equal(t, "back", last.ID)
	require.Equal(t, "mint", last.SourceMintAddress)

	_, err = repo.GetLastLockedOn(ctx, 1, "polygon")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.GetLastLockedOn(ctx, 2, "ethereum")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
