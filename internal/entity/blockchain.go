package entity

import "github.com/bridgeart/backend/pkg/enum"

type BlockchainConnectionType string

var (
	BlockchainConnectionRPC = enum.New(BlockchainConnectionType("rpc"))
)

type BlockchainKind string

var (
	BlockchainKindEVM    = enum.New(BlockchainKind("evm"))
	BlockchainKindSolana = enum.New(BlockchainKind("solana"))
)

type Blockchain struct {
	Name           string `gorm:"primaryKey"`
	ChainID        int64
	Kind           BlockchainKind
	DisplayName    string
	CurrencySymbol string
	ExplorerURL    string
	NFTAddress     string
	VaultAddress   string
	Confirmations  int
	UseEip1559     bool

	BlockchainConnections []BlockchainConnection `gorm:"foreignKey:Chain;references:Name"`
}

type BlockchainConnection struct {
	Chain string `gorm:"primaryKey"`
	URL   string `gorm:"primaryKey"`

	Type BlockchainConnectionType
}
