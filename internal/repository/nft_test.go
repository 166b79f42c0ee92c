package repository

import (
	"testing"

	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func nftNames(nfts []entity.NFT) []string {
	names := []string{}
	for _, nft := range nfts {
		names = append(names, nft.Name)
	}
	return names
}

func Test_nftRepository_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := NewNftRepository()

	require.NoError(t, repo.Create(ctx, &entity.NFT{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 3},
		Name:          "Ocean 100%",
		Artist:        "Carol",
		Price:         3,
		Likes:         10,
		Category:      "3D Art",
	}))

	testCases := []struct {
		name   string
		filter GetListNFTFilter
		want   []string
	}{
		{
			name:   "newest by default",
			filter: GetListNFTFilter{},
			want:   []string{"Ocean 100%", "Neon City", "Cosmic Dreams"},
		},
		{
			name:   "oldest",
			filter: GetListNFTFilter{Sort: NFTSortOldest},
			want:   []string{"Cosmic Dreams", "Neon City", "Ocean 100%"},
		},
		{
			name:   "price high",
			filter: GetListNFTFilter{Sort: NFTSortPriceHigh},
			want:   []string{"Ocean 100%", "Neon City", "Cosmic Dreams"},
		},
		{
			name:   "price low",
			filter: GetListNFTFilter{Sort: NFTSortPriceLow},
			want:   []string{"Cosmic Dreams", "Neon City", "Ocean 100%"},
		},
		{
			name:   "most liked",
			filter: GetListNFTFilter{Sort: NFTSortMostLiked},
			want:   []string{"Cosmic Dreams", "Neon City", "Ocean 100%"},
		},
		{
			name:   "category",
			filter: GetListNFTFilter{Category: "Photography"},
			want:   []string{"Neon City"},
		},
		{
			name:   "category all",
			filter: GetListNFTFilter{Category: "All", Sort: NFTSortOldest},
			want:   []string{"Cosmic Dreams", "Neon City", "Ocean 100%"},
		},
		{
			name:   "search name case insensitive",
			filter: GetListNFTFilter{Q: "cOsMiC"},
			want:   []string{"Cosmic Dreams"},
		},
		{
			name:   "search artist",
			filter: GetListNFTFilter{Q: "johnson"},
			want:   []string{"Neon City"},
		},
		{
			name:   "search wildcard is literal",
			filter: GetListNFTFilter{Q: "100%"},
			want:   []string{"Ocean 100%"},
		},
		{
			name:   "no match",
			filter: GetListNFTFilter{Q: "sunset"},
			want:   []string{},
		},
		{
			name:   "paginate",
			filter: GetListNFTFilter{Sort: NFTSortOldest, Offset: 1, Limit: 1},
			want:   []string{"Neon City"},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetList(ctx, tt.filter)
			require.NoError(t, err)
			require.Equal(t, tt.want, nftNames(got))
		})
	}

	count, err := repo.Count(ctx, GetListNFTFilter{Q: "o"})
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
}

func Test_nftRepository_IncreaseLikes(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := NewNftRepository()

	require.NoError(t, repo.IncreaseLikes(ctx, testutil.NFTCosmicDreams.ID))
	require.NoError(t, repo.IncreaseLikes(ctx, testutil.NFTCosmicDreams.ID))

	nft, err := repo.GetByID(ctx, testutil.NFTCosmicDreams.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.NFTCosmicDreams.Likes+2, nft.Likes)

	require.ErrorIs(t, repo.IncreaseLikes(ctx, 999), gorm.ErrRecordNotFound)
}

func Test_nftRepository_GetByIDs_KeepsOrder(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := NewNftRepository()

	nfts, err := repo.GetByIDs(ctx, []int64{2, 999, 1})
	require.NoError(t, err)
	require.Equal(t, []string{"Neon City", "Cosmic Dreams"}, nftNames(nfts))
}

func Test_nftRepository_UpdateChain(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := NewNftRepository()

	require.NoError(t, repo.UpdateChain(ctx, 1, "polygon", "77", "0xabc", testutil.User2.Address))

	nft, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "polygon", nft.Chain)
	require.Equal(t, "77", nft.TokenID)
	require.Equal(t, "0xabc", nft.MintAddress)
	require.Equal(t, testutil.User2.Address, nft.OwnerAddress)
}

func Test_nftRepository_BulkInsert(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewNftRepository()

	nfts := []*entity.NFT{
		{SnowFlakeBase: entity.SnowFlakeBase{ID: 10}, Name: "First", Status: entity.NFTStatusMinted},
		{SnowFlakeBase: entity.SnowFlakeBase{ID: 11}, Name: "Second", Status: entity.NFTStatusMinted},
	}
	require.NoError(t, repo.BulkInsert(ctx, nfts))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	// The whole batch fails on a duplicated id.
	require.Error(t, repo.BulkInsert(ctx, []*entity.NFT{
		{SnowFlakeBase: entity.SnowFlakeBase{ID: 12}, Name: "Third"},
		{SnowFlakeBase: entity.SnowFlakeBase{ID: 10}, Name: "Again"},
	}))
}
