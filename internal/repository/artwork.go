package repository

import (
	"context"

	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ArtworkRepository interface {
	Create(ctx context.Context, data *entity.Artwork) error
	GetByID(ctx context.Context, id string) (*entity.Artwork, error)
	GetByCreator(ctx context.Context, userID string, offset, limit int) ([]entity.Artwork, error)
	MarkMinted(ctx context.Context, id string) error
}

type artworkRepository struct{}

func NewArtworkRepository() *artworkRepository {
	return &artworkRepository{}
}

func (r *artworkRepository) Create(ctx context.Context, data *entity.Artwork) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *artworkRepository) GetByID(ctx context.Context, id string) (*entity.Artwork, error) {
	var result entity.Artwork
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *artworkRepository) GetByCreator(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Artwork, error) {
	var result []entity.Artwork
	err := xcontext.DB(ctx).
		Where("created_by=?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// MarkMinted only succeeds once per artwork. gorm.ErrRecordNotFound is returned
// if the artwork is missing or already minted.
func (r *artworkRepository) MarkMinted(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Model(&entity.Artwork{}).
		Where("id=? AND minted=?", id, false).
		Update("minted", true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
