package bridgeprocessor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bridgeart/backend/internal/common"
	"github.com/bridgeart/backend/internal/domain"
	"github.com/bridgeart/backend/internal/domain/blockchain"
	"github.com/bridgeart/backend/internal/domain/blockchain/types"
	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/internal/model"
	"github.com/bridgeart/backend/internal/repository"
	"github.com/bridgeart/backend/pkg/pubsub"
	"github.com/bridgeart/backend/pkg/xcontext"
	"github.com/bridgeart/backend/pkg/xredis"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	defaultMaxWorkers   = 4
	defaultPollInterval = 5 * time.Second
	defaultTimeout      = 10 * time.Minute
)

var (
	errTxReverted = errors.New("reverted")
	errTxTimeout  = errors.New("not confirmed in time")
)

// Processor drives bridge requests from initiating to a terminal status.
//
// Every write which follows a dispatched transaction uses a detached context,
// so a shutdown never loses the hash of a transaction which is on chain. A
// request interrupted by a shutdown stays in its status and is picked up again
// by Resume.
type Processor struct {
	bridgeRepo     repository.BridgeRepository
	nftRepo        repository.NftRepository
	blockchainRepo repository.BlockChainRepository
	chains         domain.ChainProvider
	publisher      pubsub.Publisher
	redisClient    xredis.Client

	workers *errgroup.Group
}

func NewProcessor(
	ctx context.Context,
	bridgeRepo repository.BridgeRepository,
	nftRepo repository.NftRepository,
	blockchainRepo repository.BlockChainRepository,
	chains domain.ChainProvider,
	publisher pubsub.Publisher,
	redisClient xredis.Client,
) *Processor {
	maxWorkers := xcontext.Configs(ctx).Bridge.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}

	workers := new(errgroup.Group)
	workers.SetLimit(maxWorkers)

	return &Processor{
		bridgeRepo:     bridgeRepo,
		nftRepo:        nftRepo,
		blockchainRepo: blockchainRepo,
		chains:         chains,
		publisher:      publisher,
		redisClient:    redisClient,
		workers:        workers,
	}
}

// Subscribe handles a message of the bridge_request topic. A request is
// processed by at most one processor at a time; redelivered messages are
// dropped while the processing key lives.
func (p *Processor) Subscribe(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var event model.BridgeRequestEvent
	if err := json.Unmarshal(pack.Msg, &event); err != nil {
		xcontext.Logger(ctx).Errorf("Unable to unmarshal bridge request: %v", err)
		return
	}

	p.schedule(ctx, event.BridgeID)
}

// Resume schedules every request left unfinished by a previous run.
func (p *Processor) Resume(ctx context.Context) error {
	requests, err := p.bridgeRepo.GetUnfinished(ctx)
	if err != nil {
		return err
	}

	for i := range requests {
		xcontext.Logger(ctx).Infof("Resume bridge request %s in status %s", requests[i].ID, requests[i].Status)
		p.schedule(ctx, requests[i].ID)
	}

	return nil
}

// Wait blocks until every running request is finished.
func (p *Processor) Wait() error {
	return p.workers.Wait()
}

func (p *Processor) schedule(ctx context.Context, id string) {
	key := common.RedisKeyBridgeProcessing(id)
	ok, err := p.redisClient.SetNX(ctx, key, uuid.NewString(), common.BridgeLockTTL)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot acquire bridge request %s: %v", id, err)
		return
	}

	if !ok {
		xcontext.Logger(ctx).Debugf("Bridge request %s is already processed", id)
		return
	}

	// Blocks the caller while every worker is busy.
	p.workers.Go(func() error {
		if err := p.Process(ctx, id); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot process bridge request %s: %v", id, err)
		}

		// Let the next run take over the interrupted request.
		if ctx.Err() != nil {
			if err := p.redisClient.Del(xcontext.Detach(ctx), key); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot release bridge request %s: %v", id, err)
			}
		}

		return nil
	})
}

// Process runs the lock and delivery steps of a bridge request, or continues
// them for a request which is already processing. Failures of the chains move
// the request to failed and are not returned; a cancelled ctx leaves the
// request as it is and returns ctx.Err().
func (p *Processor) Process(ctx context.Context, id string) error {
	req, err := p.bridgeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if req.Status != entity.BridgeStatusInitiating && req.Status != entity.BridgeStatusProcessing {
		xcontext.Logger(ctx).Warnf("Skip bridge request %s in status %s", id, req.Status)
		return nil
	}

	source, ok := p.chains.Chain(req.SourceChain)
	if !ok {
		return p.fail(ctx, req, fmt.Sprintf("chain %s is not running", req.SourceChain))
	}

	target, ok := p.chains.Chain(req.TargetChain)
	if !ok {
		return p.fail(ctx, req, fmt.Sprintf("chain %s is not running", req.TargetChain))
	}

	if req.Status == entity.BridgeStatusInitiating {
		req, err = p.lock(ctx, req, source)
		if err != nil || req == nil {
			return err
		}
	}

	if req.MintTxHash == "" {
		if err := p.waitTx(ctx, source, req.LockTxHash); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return p.fail(ctx, req, fmt.Sprintf("lock transaction: %v", err))
		}

		req, err = p.deliver(ctx, req, source, target)
		if err != nil || req == nil {
			return err
		}
	}

	if err := p.waitTx(ctx, target, req.MintTxHash); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		// A delivery which is only late may still land, so the source token
		// stays locked.
		if errors.Is(err, errTxReverted) {
			p.compensate(ctx, req, source)
		}
		return p.fail(ctx, req, fmt.Sprintf("delivery transaction: %v", err))
	}

	return p.complete(ctx, req, target)
}

// lock moves the token into the vault of the source chain. It returns a nil
// request when the request failed.
func (p *Processor) lock(
	ctx context.Context, req *entity.BridgeRequest, source blockchain.Chain,
) (*entity.BridgeRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokenID, mintAddress := sourceToken(req)
	lockHash, err := source.LockNFT(ctx, req.OwnerAddress, tokenID, mintAddress)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot lock nft %d on %s: %v", req.NFTID, source.Name(), err)
		return nil, p.fail(ctx, req, "cannot lock nft on source chain")
	}

	dctx := xcontext.Detach(ctx)
	p.recordTx(dctx, source.Name(), lockHash, entity.BlockchainTransactionTypeLock, req.NFTID)

	return p.transition(dctx, req, entity.BridgeStatusProcessing, map[string]any{
		"lock_tx_hash":        lockHash,
		"source_token_id":     tokenID,
		"source_mint_address": mintAddress,
	})
}

// deliver gives the token to the target address. The token locked on target
// by an earlier bridge is released from the vault; a chain the nft never
// visited gets a new token. It returns a nil request when the request failed.
func (p *Processor) deliver(
	ctx context.Context, req *entity.BridgeRequest, source, target blockchain.Chain,
) (*entity.BridgeRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nft := &req.NFT
	recipient := targetAddress(req)

	var (
		txHash, tokenID, mintAddress string
		txType                       entity.BlockchainTransactionType
		err                          error
	)

	prior, err := p.bridgeRepo.GetLastLockedOn(ctx, nft.ID, target.Name())
	switch {
	case err == nil:
		txType = entity.BlockchainTransactionTypeRelease
		tokenID, mintAddress = prior.SourceTokenID, prior.SourceMintAddress
		txHash, err = target.ReleaseNFT(ctx, recipient, tokenID, mintAddress)

	case errors.Is(err, gorm.ErrRecordNotFound):
		name := nft.Name
		if name == "" {
			name = common.NFTMetadataName
		}

		var result *types.MintResult
		txType = entity.BlockchainTransactionTypeMint
		result, err = target.MintNFT(ctx, &types.MintRequest{
			Owner:                recipient,
			TokenID:              nft.ID,
			URI:                  nft.MetadataURI,
			Name:                 name,
			Symbol:               common.NFTMetadataSymbol,
			SellerFeeBasisPoints: common.NFTSellerFeeBasisPoints,
		})
		if err == nil {
			txHash, tokenID, mintAddress = result.TxHash, result.TokenID, result.MintAddress
		}

	default:
		xcontext.Logger(ctx).Errorf("Cannot get custody of nft %d on %s: %v", nft.ID, target.Name(), err)
	}

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		xcontext.Logger(ctx).Errorf("Cannot deliver nft %d on %s: %v", nft.ID, target.Name(), err)
		p.compensate(ctx, req, source)
		return nil, p.fail(ctx, req, "cannot deliver nft on target chain")
	}

	dctx := xcontext.Detach(ctx)
	p.recordTx(dctx, target.Name(), txHash, txType, nft.ID)

	err = p.bridgeRepo.UpdateStatus(dctx, req.ID, req.Status, req.Status, map[string]any{
		"mint_tx_hash":        txHash,
		"target_token_id":     tokenID,
		"target_mint_address": mintAddress,
	})
	if err != nil {
		return nil, err
	}

	req.MintTxHash = txHash
	req.TargetTokenID = tokenID
	req.TargetMintAddress = mintAddress
	return req, nil
}

// compensate gives the locked token back to the owner on the source chain.
func (p *Processor) compensate(ctx context.Context, req *entity.BridgeRequest, source blockchain.Chain) {
	ctx = xcontext.Detach(ctx)
	tokenID, mintAddress := sourceToken(req)

	txHash, err := source.ReleaseNFT(ctx, req.OwnerAddress, tokenID, mintAddress)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot release nft %d of bridge request %s on %s: %v",
			req.NFTID, req.ID, source.Name(), err)
		return
	}

	p.recordTx(ctx, source.Name(), txHash, entity.BlockchainTransactionTypeRelease, req.NFTID)
	xcontext.Logger(ctx).Infof("Released nft %d of bridge request %s on %s", req.NFTID, req.ID, source.Name())
}

func (p *Processor) complete(ctx context.Context, req *entity.BridgeRequest, target blockchain.Chain) error {
	ctx = xcontext.WithDBTransaction(xcontext.Detach(ctx))
	defer xcontext.WithRollbackDBTransaction(ctx)

	err := p.nftRepo.UpdateChain(ctx, req.NFTID, target.Name(),
		req.TargetTokenID, req.TargetMintAddress, targetAddress(req))
	if err != nil {
		return err
	}

	err = p.bridgeRepo.UpdateStatus(ctx, req.ID, req.Status, entity.BridgeStatusCompleted, nil)
	if err != nil {
		return err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return err
	}

	_, err = p.announce(ctx, req.ID, entity.BridgeStatusCompleted)
	return err
}

// waitTx polls the chain until txHash is confirmed, reverted or the bridge
// timeout is exceeded.
func (p *Processor) waitTx(ctx context.Context, chain blockchain.Chain, txHash string) error {
	cfg := xcontext.Configs(ctx).Bridge
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("%s is %w after %s", txHash, errTxTimeout, timeout)
		case <-ticker.C:
		}

		status, err := chain.TxStatus(ctx, txHash)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get status of %s on %s: %v", txHash, chain.Name(), err)
			continue
		}

		switch status {
		case types.TxStatusConfirmed:
			p.settleTx(ctx, chain.Name(), txHash, entity.BlockchainTransactionStatusTypeSuccess)
			return nil
		case types.TxStatusFailed:
			p.settleTx(ctx, chain.Name(), txHash, entity.BlockchainTransactionStatusTypeFailure)
			return fmt.Errorf("%s is %w", txHash, errTxReverted)
		}
	}
}

func (p *Processor) recordTx(
	ctx context.Context, chain, txHash string, txType entity.BlockchainTransactionType, nftID int64,
) {
	tx := &entity.BlockchainTransaction{
		Base:   entity.Base{ID: uuid.NewString()},
		Chain:  chain,
		TxHash: txHash,
		Type:   txType,
		NFTID:  nftID,
		Status: entity.BlockchainTransactionStatusTypeInProgress,
	}

	if err := p.blockchainRepo.CreateTransaction(ctx, tx); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot record transaction %s: %v", txHash, err)
	}
}

func (p *Processor) settleTx(
	ctx context.Context, chain, txHash string, status entity.BlockchainTransactionStatusType,
) {
	err := p.blockchainRepo.UpdateStatusByTxHash(xcontext.Detach(ctx), txHash, chain, status)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot update transaction %s: %v", txHash, err)
	}
}

// transition moves req to next, then caches and publishes the new status.
func (p *Processor) transition(
	ctx context.Context, req *entity.BridgeRequest, next entity.BridgeStatus, data map[string]any,
) (*entity.BridgeRequest, error) {
	if !req.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("invalid transition from %s to %s", req.Status, next)
	}

	if err := p.bridgeRepo.UpdateStatus(ctx, req.ID, req.Status, next, data); err != nil {
		return nil, err
	}

	return p.announce(ctx, req.ID, next)
}

func (p *Processor) announce(
	ctx context.Context, id string, status entity.BridgeStatus,
) (*entity.BridgeRequest, error) {
	updated, err := p.bridgeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := domain.PublishBridgeStatus(ctx, p.publisher, p.redisClient, updated); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish status of bridge request %s: %v", id, err)
	}

	if status.IsTerminal() {
		common.PromCounters[common.BridgeRequestTotal].
			WithLabelValues(updated.SourceChain, updated.TargetChain, string(status)).Inc()
		common.PromHistograms[common.BridgeDurationSeconds].
			WithLabelValues(string(status)).Observe(time.Since(updated.CreatedAt).Seconds())
	}

	xcontext.Logger(ctx).Infof("Bridge request %s moved to %s", id, status)
	return updated, nil
}

func (p *Processor) fail(ctx context.Context, req *entity.BridgeRequest, reason string) error {
	_, err := p.transition(xcontext.Detach(ctx), req, entity.BridgeStatusFailed, map[string]any{
		"failure_reason": reason,
	})
	return err
}

// sourceToken is the token locked on the source chain. Requests created
// before the token was recorded fall back to the nft record.
func sourceToken(req *entity.BridgeRequest) (string, string) {
	if req.SourceTokenID != "" || req.SourceMintAddress != "" {
		return req.SourceTokenID, req.SourceMintAddress
	}

	return req.NFT.TokenID, req.NFT.MintAddress
}

func targetAddress(req *entity.BridgeRequest) string {
	if req.TargetAddress != "" {
		return req.TargetAddress
	}

	return req.OwnerAddress
}
