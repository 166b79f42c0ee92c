package entity

import (
	"database/sql"

	"github.com/bridgeart/backend/pkg/enum"
)

type NFTStatus string

var (
	NFTStatusMinting = enum.New(NFTStatus("minting"))
	NFTStatusMinted  = enum.New(NFTStatus("minted"))
	NFTStatusFailed  = enum.New(NFTStatus("failed"))
)

// NFT is the display record shown in the gallery. Seeded records have no
// owner and no transaction.
type NFT struct {
	SnowFlakeBase

	Name        string `gorm:"index"`
	Artist      string `gorm:"index"`
	Description string
	ImageURL    string
	MetadataURI string
	Price       float64
	Currency    string
	Likes       int64
	Category    string `gorm:"index"`

	Chain        string
	TokenID      string
	MintAddress  string
	OwnerID      sql.NullString
	OwnerAddress string

	ArtworkID     sql.NullString
	TransactionID sql.NullString
	Status        NFTStatus
	Metadata      Map
}
