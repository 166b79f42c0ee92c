package entity

import (
	"database/sql"

	"github.com/bridgeart/backend/pkg/enum"
)

type BridgeStatus string

var (
	BridgeStatusIdle       = enum.New(BridgeStatus("idle"))
	BridgeStatusInitiating = enum.New(BridgeStatus("initiating"))
	BridgeStatusProcessing = enum.New(BridgeStatus("processing"))
	BridgeStatusCompleted  = enum.New(BridgeStatus("completed"))
	BridgeStatusFailed     = enum.New(BridgeStatus("failed"))
)

var bridgeTransitions = map[BridgeStatus]BridgeStatus{
	BridgeStatusIdle:       BridgeStatusInitiating,
	BridgeStatusInitiating: BridgeStatusProcessing,
	BridgeStatusProcessing: BridgeStatusCompleted,
}

func (s BridgeStatus) IsTerminal() bool {
	return s == BridgeStatusCompleted || s == BridgeStatusFailed
}

// CanTransitionTo reports whether next follows s. Statuses only move forward
// one step at a time, and any non-terminal status may fail.
func (s BridgeStatus) CanTransitionTo(next BridgeStatus) bool {
	if s.IsTerminal() {
		return false
	}

	if next == BridgeStatusFailed {
		return true
	}

	return bridgeTransitions[s] == next
}

type BridgeRequest struct {
	Base

	NFTID int64 `gorm:"index"`
	NFT   NFT   `gorm:"foreignKey:NFTID"`

	OwnerID      string `gorm:"index"`
	Owner        User   `gorm:"foreignKey:OwnerID"`
	OwnerAddress string

	// TargetAddress receives the token on the target chain.
	TargetAddress string

	SourceChain string
	TargetChain string
	Status      BridgeStatus `gorm:"index"`

	// ActiveNFTID equals NFTID until the request is terminal. The unique
	// index allows one active request per NFT.
	ActiveNFTID sql.NullInt64 `gorm:"uniqueIndex"`

	// The token held in the source vault after the lock.
	SourceTokenID     string
	SourceMintAddress string

	LockTxHash        string
	MintTxHash        string
	TargetTokenID     string
	TargetMintAddress string
	FailureReason     string
}
