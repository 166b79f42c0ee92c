package repository

import (
	"context"
	"strings"

	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	NFTSortNewest    = "newest"
	NFTSortOldest    = "oldest"
	NFTSortPriceHigh = "price-high"
	NFTSortPriceLow  = "price-low"
	NFTSortMostLiked = "most-liked"
)

var nftSortOrders = map[string]string{
	NFTSortNewest:    "created_at DESC, id DESC",
	NFTSortOldest:    "created_at ASC, id ASC",
	NFTSortPriceHigh: "price DESC, id DESC",
	NFTSortPriceLow:  "price ASC, id ASC",
	NFTSortMostLiked: "likes DESC, id DESC",
}

// IsValidNFTSort reports whether sort is one of the supported gallery orders.
// The empty string is accepted and means newest first.
func IsValidNFTSort(sort string) bool {
	if sort == "" {
		return true
	}

	_, ok := nftSortOrders[sort]
	return ok
}

type GetListNFTFilter struct {
	Category string
	Q        string
	Sort     string
	OwnerID  string
	Offset   int
	Limit    int
}

type NftRepository interface {
	Create(context.Context, *entity.NFT) error
	BulkInsert(context.Context, []*entity.NFT) error
	GetByID(context.Context, int64) (*entity.NFT, error)
	GetByIDs(context.Context, []int64) ([]entity.NFT, error)
	GetList(context.Context, GetListNFTFilter) ([]entity.NFT, error)
	Count(context.Context, GetListNFTFilter) (int64, error)
	GetAll(context.Context) ([]entity.NFT, error)
	IncreaseLikes(ctx context.Context, id int64) error
	UpdateStatusByTransactionID(ctx context.Context, txID string, status entity.NFTStatus) error
	UpdateChain(ctx context.Context, id int64, chain, tokenID, mintAddress, ownerAddress string) error
}

type nftRepository struct{}

func NewNftRepository() *nftRepository {
	return &nftRepository{}
}

func (r *nftRepository) Create(ctx context.Context, nft *entity.NFT) error {
	return xcontext.DB(ctx).Create(nft).Error
}

func (r *nftRepository) BulkInsert(ctx context.Context, nfts []*entity.NFT) error {
	return xcontext.DB(ctx).Create(nfts).Error
}

func (r *nftRepository) GetByID(ctx context.Context, id int64) (*entity.NFT, error) {
	var result entity.NFT
	err := xcontext.DB(ctx).Where("id = ?", id).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetByIDs returns the records in the same order as ids. Missing ids are
// skipped.
func (r *nftRepository) GetByIDs(ctx context.Context, ids []int64) ([]entity.NFT, error) {
	var records []entity.NFT
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&records).Error; err != nil {
		return nil, err
	}

	byID := make(map[int64]entity.NFT, len(records))
	for _, nft := range records {
		byID[nft.ID] = nft
	}

	result := make([]entity.NFT, 0, len(records))
	for _, id := range ids {
		if nft, ok := byID[id]; ok {
			result = append(result, nft)
		}
	}

	return result, nil
}

func (r *nftRepository) filter(ctx context.Context, filter GetListNFTFilter) *gorm.DB {
	tx := xcontext.DB(ctx).Model(&entity.NFT{})

	if filter.Category != "" && filter.Category != "All" {
		tx = tx.Where("category = ?", filter.Category)
	}

	if filter.Q != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Q)) + "%"
		tx = tx.Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(artist) LIKE ? ESCAPE '!'", pattern, pattern)
	}

	if filter.OwnerID != "" {
		tx = tx.Where("owner_id = ?", filter.OwnerID)
	}

	return tx
}

func (r *nftRepository) GetList(ctx context.Context, filter GetListNFTFilter) ([]entity.NFT, error) {
	order, ok := nftSortOrders[filter.Sort]
	if !ok {
		order = nftSortOrders[NFTSortNewest]
	}

	tx := r.filter(ctx, filter).Order(order).Offset(filter.Offset)
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}

	var result []entity.NFT
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *nftRepository) Count(ctx context.Context, filter GetListNFTFilter) (int64, error) {
	var count int64
	if err := r.filter(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *nftRepository) GetAll(ctx context.Context) ([]entity.NFT, error) {
	var result []entity.NFT
	if err := xcontext.DB(ctx).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *nftRepository) IncreaseLikes(ctx context.Context, id int64) error {
	tx := xcontext.DB(ctx).Model(&entity.NFT{}).
		Where("id = ?", id).
		Update("likes", gorm.Expr("likes + 1"))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *nftRepository) UpdateStatusByTransactionID(
	ctx context.Context, txID string, status entity.NFTStatus,
) error {
	return xcontext.DB(ctx).Model(&entity.NFT{}).
		Where("transaction_id = ?", txID).
		Update("status", status).Error
}

// UpdateChain moves the nft record to the token held by ownerAddress on chain.
func (r *nftRepository) UpdateChain(
	ctx context.Context, id int64, chain, tokenID, mintAddress, ownerAddress string,
) error {
	return xcontext.DB(ctx).Model(&entity.NFT{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"chain":         chain,
			"token_id":      tokenID,
			"mint_address":  mintAddress,
			"owner_address": ownerAddress,
		}).Error
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
