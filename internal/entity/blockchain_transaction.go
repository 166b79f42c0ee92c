package entity

import (
	"github.com/bridgeart/backend/pkg/enum"
)

type BlockchainTransactionStatusType string

var (
	BlockchainTransactionStatusTypeInProgress = enum.New(BlockchainTransactionStatusType("inprogress"))
	BlockchainTransactionStatusTypeSuccess    = enum.New(BlockchainTransactionStatusType("success"))
	BlockchainTransactionStatusTypeFailure    = enum.New(BlockchainTransactionStatusType("failure"))
)

type BlockchainTransactionType string

var (
	BlockchainTransactionTypeMint    = enum.New(BlockchainTransactionType("mint"))
	BlockchainTransactionTypeLock    = enum.New(BlockchainTransactionType("lock"))
	BlockchainTransactionTypeRelease = enum.New(BlockchainTransactionType("release"))
)

type BlockchainTransaction struct {
	Base

	Chain      string     `gorm:"index:idx_blockchain_transaction_chain_txhash,unique"`
	Blockchain Blockchain `gorm:"foreignKey:Chain;references:Name"`
	TxHash     string     `gorm:"index:idx_blockchain_transaction_chain_txhash,unique"`

	Type   BlockchainTransactionType
	NFTID  int64 `gorm:"index"`
	Status BlockchainTransactionStatusType `gorm:"index"`
}
