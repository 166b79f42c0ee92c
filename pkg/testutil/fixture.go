package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/pkg/xcontext"
)

var (
	User1 = &entity.User{
		Base:    entity.Base{ID: "user1"},
		Address: "0x71C7656EC7ab88b098defB751B7401B5f6d8976F",
		Name:    "Alice Smith",
	}

	User2 = &entity.User{
		Base:    entity.Base{ID: "user2"},
		Address: "0x2546BcD3c84621e976D8185a91A922aE77ECEc30",
		Name:    "Bob Johnson",
	}

	Users = []*entity.User{User1, User2}
)

var (
	ChainEthereum = &entity.Blockchain{
		Name:           "ethereum",
		ChainID:        1,
		Kind:           entity.BlockchainKindEVM,
		DisplayName:    "Ethereum",
		CurrencySymbol: "ETH",
		NFTAddress:     "0x1111111111111111111111111111111111111111",
		VaultAddress:   "0x2222222222222222222222222222222222222222",
		Confirmations:  1,
	}

	ChainPolygon = &entity.Blockchain{
		Name:           "polygon",
		ChainID:        137,
		Kind:           entity.BlockchainKindEVM,
		DisplayName:    "Polygon",
		CurrencySymbol: "MATIC",
		NFTAddress:     "0x3333333333333333333333333333333333333333",
		VaultAddress:   "0x4444444444444444444444444444444444444444",
		Confirmations:  1,
	}

	ChainSolana = &entity.Blockchain{
		Name:           "solana",
		Kind:           entity.BlockchainKindSolana,
		DisplayName:    "Solana",
		CurrencySymbol: "SOL",
		VaultAddress:   "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
	}

	Blockchains = []*entity.Blockchain{ChainEthereum, ChainPolygon, ChainSolana}
)

var (
	NFTCosmicDreams = &entity.NFT{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 1, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		Name:          "Cosmic Dreams",
		Artist:        "Alice Smith",
		ImageURL:      "https://picsum.photos/400/400?random=1",
		Price:         0.5,
		Currency:      "ETH",
		Likes:         234,
		Category:      "Digital Art",
		Chain:         "ethereum",
		TokenID:       "1",
		OwnerID:       sql.NullString{Valid: true, String: "user1"},
		OwnerAddress:  "0x71C7656EC7ab88b098defB751B7401B5f6d8976F",
		Status:        entity.NFTStatusMinted,
	}

	NFTNeonCity = &entity.NFT{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 2, CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		Name:          "Neon City",
		Artist:        "Bob Johnson",
		ImageURL:      "https://picsum.photos/400/400?random=2",
		Price:         1.2,
		Currency:      "ETH",
		Likes:         156,
		Category:      "Photography",
		Chain:         "ethereum",
		TokenID:       "2",
		OwnerID:       sql.NullString{Valid: true, String: "user2"},
		OwnerAddress:  "0x2546BcD3c84621e976D8185a91A922aE77ECEc30",
		Status:        entity.NFTStatusMinted,
	}

	NFTs = []*entity.NFT{NFTCosmicDreams, NFTNeonCity}
)

// CreateFixtureDb fills the database bound to ctx with users, chains and nfts.
func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertBlockchains(ctx)
	InsertNFTs(ctx)
}

func InsertUsers(ctx context.Context) {
	for _, u := range Users {
		user := *u
		if err := xcontext.DB(ctx).Create(&user).Error; err != nil {
			panic(err)
		}
	}
}

func InsertBlockchains(ctx context.Context) {
	for _, c := range Blockchains {
		chain := *c
		if err := xcontext.DB(ctx).Create(&chain).Error; err != nil {
			panic(err)
		}
	}
}

func InsertNFTs(ctx context.Context) {
	for _, n := range NFTs {
		nft := *n
		if err := xcontext.DB(ctx).Create(&nft).Error; err != nil {
			panic(err)
		}
	}
}
