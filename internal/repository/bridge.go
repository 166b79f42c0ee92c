package repository

import (
	"context"
	"database/sql"

	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type BridgeRepository interface {
	Create(ctx context.Context, req *entity.BridgeRequest) error
	GetByID(ctx context.Context, id string) (*entity.BridgeRequest, error)
	GetListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]entity.BridgeRequest, error)
	GetActiveByNFTID(ctx context.Context, nftID int64) (*entity.BridgeRequest, error)
	GetUnfinished(ctx context.Context) ([]entity.BridgeRequest, error)
	GetLastLockedOn(ctx context.Context, nftID int64, chain string) (*entity.BridgeRequest, error)
	UpdateStatus(ctx context.Context, id string, from, to entity.BridgeStatus, data map[string]any) error
}

type bridgeRepository struct{}

func NewBridgeRepository() *bridgeRepository {
	return &bridgeRepository{}
}

// Create inserts req as the active request of its nft. It fails on the unique
// index of active_nft_id when the nft has another active request.
func (r *bridgeRepository) Create(ctx context.Context, req *entity.BridgeRequest) error {
	if !req.Status.IsTerminal() {
		req.ActiveNFTID = sql.NullInt64{Valid: true, Int64: req.NFTID}
	}

	return xcontext.DB(ctx).Omit("NFT", "Owner").Create(req).Error
}

func (r *bridgeRepository) GetByID(ctx context.Context, id string) (*entity.BridgeRequest, error) {
	var result entity.BridgeRequest
	if err := xcontext.DB(ctx).Preload("NFT").Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *bridgeRepository) GetListByOwner(
	ctx context.Context, ownerID string, offset, limit int,
) ([]entity.BridgeRequest, error) {
	var result []entity.BridgeRequest
	err := xcontext.DB(ctx).
		Preload("NFT").
		Where("owner_id=?", ownerID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *bridgeRepository) GetActiveByNFTID(ctx context.Context, nftID int64) (*entity.BridgeRequest, error) {
	var result entity.BridgeRequest
	err := xcontext.DB(ctx).
		Where("nft_id=? AND status NOT IN (?)", nftID,
			[]entity.BridgeStatus{entity.BridgeStatusCompleted, entity.BridgeStatusFailed}).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetUnfinished returns the requests which were being processed, oldest first.
func (r *bridgeRepository) GetUnfinished(ctx context.Context) ([]entity.BridgeRequest, error) {
	var result []entity.BridgeRequest
	err := xcontext.DB(ctx).
		Where("status IN (?)", []entity.BridgeStatus{entity.BridgeStatusInitiating, entity.BridgeStatusProcessing}).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetLastLockedOn returns the latest completed request which moved the nft
// out of chain. Its source token is the one held in the vault of chain.
func (r *bridgeRepository) GetLastLockedOn(
	ctx context.Context, nftID int64, chain string,
) (*entity.BridgeRequest, error) {
	var result entity.BridgeRequest
	err := xcontext.DB(ctx).
		Where("nft_id=? AND source_chain=? AND status=?", nftID, chain, entity.BridgeStatusCompleted).
		Order("created_at DESC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdateStatus moves the request from one status to another. The update is
// conditioned on the current status so concurrent processors cannot both win;
// gorm.ErrRecordNotFound is returned when the request is no longer in from.
func (r *bridgeRepository) UpdateStatus(
	ctx context.Context, id string, from, to entity.BridgeStatus, data map[string]any,
) error {
	updates := map[string]any{"status": to}
	for k, v := range data {
		updates[k] = v
	}

	if to.IsTerminal() {
		updates["active_nft_id"] = nil
	}

	tx := xcontext.DB(ctx).Model(&entity.BridgeRequest{}).
		Where("id=? AND status=?", id, from).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
