package entity

import (
	"context"

	"github.com/bridgeart/backend/pkg/xcontext"
)

// MigrateTable creates or updates every table from the gorm models. It is used
// by tests and by `srv migrate --auto`.
func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Artwork{},
		&Blockchain{},
		&BlockchainConnection{},
		&BlockchainTransaction{},
		&NFT{},
		&BridgeRequest{},
	)
}
