package domain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/bridgeart/backend/internal/common"
	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/internal/model"
	"github.com/bridgeart/backend/internal/repository"
	"github.com/bridgeart/backend/pkg/errorx"
	"github.com/bridgeart/backend/pkg/pubsub"
	"github.com/bridgeart/backend/pkg/xcontext"
	"github.com/bridgeart/backend/pkg/xredis"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultBridgeStatusInterval = time.Second

type BridgeDomain interface {
	Create(context.Context, *model.CreateBridgeRequest) (*model.CreateBridgeResponse, error)
	Get(context.Context, *model.GetBridgeRequest) (*model.GetBridgeResponse, error)
	GetList(context.Context, *model.GetListBridgeRequest) (*model.GetListBridgeResponse, error)
	ServeBridgeStatus(context.Context, *model.ServeBridgeStatusRequest) error
}

type bridgeDomain struct {
	bridgeRepo  repository.BridgeRepository
	nftRepo     repository.NftRepository
	chains      ChainProvider
	publisher   pubsub.Publisher
	redisClient xredis.Client
}

func NewBridgeDomain(
	bridgeRepo repository.BridgeRepository,
	nftRepo repository.NftRepository,
	chains ChainProvider,
	publisher pubsub.Publisher,
	redisClient xredis.Client,
) *bridgeDomain {
	return &bridgeDomain{
		bridgeRepo:  bridgeRepo,
		nftRepo:     nftRepo,
		chains:      chains,
		publisher:   publisher,
		redisClient: redisClient,
	}
}

func (d *bridgeDomain) Create(
	ctx context.Context, req *model.CreateBridgeRequest,
) (*model.CreateBridgeResponse, error) {
	nftID, err := parseNFTID(req.NFTID)
	if err != nil {
		return nil, err
	}

	if req.SourceChain == "" || req.TargetChain == "" {
		return nil, errorx.New(errorx.BadRequest, "Source and target chains are required")
	}

	if req.SourceChain == req.TargetChain {
		return nil, errorx.New(errorx.BadRequest, "Source and target chains must differ")
	}

	if _, ok := d.chains.Chain(req.SourceChain); !ok {
		return nil, errorx.New(errorx.BadRequest, "Unsupported chain %s", req.SourceChain)
	}

	target, ok := d.chains.Chain(req.TargetChain)
	if !ok {
		return nil, errorx.New(errorx.BadRequest, "Unsupported chain %s", req.TargetChain)
	}

	nft, err := d.nftRepo.GetByID(ctx, nftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found nft")
		}

		xcontext.Logger(ctx).Errorf("Cannot get nft: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	if !nft.OwnerID.Valid || nft.OwnerID.String != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the owner can bridge this nft")
	}

	if nft.Chain != req.SourceChain {
		return nil, errorx.New(errorx.BadRequest, "NFT is not on %s", req.SourceChain)
	}

	if nft.Status != entity.NFTStatusMinted {
		return nil, errorx.New(errorx.BadRequest, "NFT is not minted yet")
	}

	targetAddress := strings.TrimSpace(req.TargetAddress)
	if targetAddress == "" {
		targetAddress = nft.OwnerAddress
	}

	if !target.IsValidAddress(targetAddress) {
		return nil, errorx.New(errorx.BadRequest, "Invalid target address for %s", req.TargetChain)
	}

	_, err = d.bridgeRepo.GetActiveByNFTID(ctx, nftID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "NFT is already being bridged")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get active bridge request: %v", err)
		return nil, errorx.Unknown
	}

	bridgeReq := &entity.BridgeRequest{
		Base:              entity.Base{ID: uuid.NewString()},
		NFTID:             nftID,
		OwnerID:           userID,
		OwnerAddress:      nft.OwnerAddress,
		TargetAddress:     targetAddress,
		SourceChain:       req.SourceChain,
		TargetChain:       req.TargetChain,
		Status:            entity.BridgeStatusIdle,
		SourceTokenID:     nft.TokenID,
		SourceMintAddress: nft.MintAddress,
	}
	if err := d.bridgeRepo.Create(ctx, bridgeReq); err != nil {
		// Lost the race against a concurrent request of the same nft.
		if _, activeErr := d.bridgeRepo.GetActiveByNFTID(ctx, nftID); activeErr == nil {
			return nil, errorx.New(errorx.AlreadyExists, "NFT is already being bridged")
		}

		xcontext.Logger(ctx).Errorf("Cannot create bridge request: %v", err)
		return nil, errorx.Unknown
	}

	err = d.bridgeRepo.UpdateStatus(ctx, bridgeReq.ID,
		entity.BridgeStatusIdle, entity.BridgeStatusInitiating, nil)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot initiate bridge request: %v", err)
		return nil, errorx.Unknown
	}

	bridgeReq, err = d.bridgeRepo.GetByID(ctx, bridgeReq.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get bridge request: %v", err)
		return nil, errorx.Unknown
	}

	// The initiating status goes out before any processor can move the
	// request forward.
	if err := PublishBridgeStatus(ctx, d.publisher, d.redisClient, bridgeReq); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish bridge status: %v", err)
	}

	b, err := json.Marshal(model.BridgeRequestEvent{BridgeID: bridgeReq.ID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal bridge request event: %v", err)
		return nil, errorx.Unknown
	}

	err = d.publisher.Publish(ctx, model.BridgeRequestTopic, &pubsub.Pack{
		Key: []byte(bridgeReq.ID),
		Msg: b,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish bridge request: %v", err)
		d.failQueued(xcontext.Detach(ctx), bridgeReq)
		return nil, errorx.New(errorx.BridgeFailed, "Error bridging NFT")
	}

	return &model.CreateBridgeResponse{Bridge: model.ConvertBridgeRequest(bridgeReq)}, nil
}

// failQueued fails a request which never reached the processors.
func (d *bridgeDomain) failQueued(ctx context.Context, bridgeReq *entity.BridgeRequest) {
	err := d.bridgeRepo.UpdateStatus(ctx, bridgeReq.ID,
		entity.BridgeStatusInitiating, entity.BridgeStatusFailed,
		map[string]any{"failure_reason": "cannot queue bridge request"})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark bridge request as failed: %v", err)
		return
	}

	failed, err := d.bridgeRepo.GetByID(ctx, bridgeReq.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get bridge request: %v", err)
		return
	}

	if err := PublishBridgeStatus(ctx, d.publisher, d.redisClient, failed); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish bridge status: %v", err)
	}
}

func (d *bridgeDomain) Get(ctx context.Context, req *model.GetBridgeRequest) (*model.GetBridgeResponse, error) {
	bridgeReq, err := d.getOwned(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &model.GetBridgeResponse{Bridge: model.ConvertBridgeRequest(bridgeReq)}, nil
}

func (d *bridgeDomain) GetList(
	ctx context.Context, req *model.GetListBridgeRequest,
) (*model.GetListBridgeResponse, error) {
	limit, err := checkPagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	requests, err := d.bridgeRepo.GetListByOwner(ctx, xcontext.RequestUserID(ctx), req.Offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list bridge request: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.BridgeRequest{}
	for i := range requests {
		result = append(result, model.ConvertBridgeRequest(&requests[i]))
	}

	return &model.GetListBridgeResponse{Bridges: result}, nil
}

// ServeBridgeStatus streams the status of a bridge request to the websocket
// client until the request is terminal or the client leaves.
func (d *bridgeDomain) ServeBridgeStatus(ctx context.Context, req *model.ServeBridgeStatusRequest) error {
	if _, err := d.getOwned(ctx, req.ID); err != nil {
		return err
	}

	client := xcontext.WSClient(ctx)
	if client == nil {
		return errorx.New(errorx.BadRequest, "Websocket is required")
	}

	return d.watchStatus(ctx, req.ID, client.R, func(event model.BridgeStatusEvent) error {
		return client.Write(event)
	})
}

// watchStatus sends the current status, then every change, to send. It
// returns when the status is terminal, ctx is done or closed is closed.
func (d *bridgeDomain) watchStatus(
	ctx context.Context,
	id string,
	closed <-chan []byte,
	send func(model.BridgeStatusEvent) error,
) error {
	interval := xcontext.Configs(ctx).Bridge.PollInterval
	if interval <= 0 {
		interval = defaultBridgeStatusInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := ""
	for {
		event, err := d.currentStatus(ctx, id)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get bridge status: %v", err)
			return errorx.Unknown
		}

		if event.Status != last {
			if err := send(*event); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot send bridge status: %v", err)
				return nil
			}
			last = event.Status
		}

		if entity.BridgeStatus(event.Status).IsTerminal() {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-closed:
			if !ok {
				return nil
			}
		case <-ticker.C:
		}
	}
}

// currentStatus reads the status cached by the bridge processor, falling back
// to the database.
func (d *bridgeDomain) currentStatus(ctx context.Context, id string) (*model.BridgeStatusEvent, error) {
	var event model.BridgeStatusEvent
	if err := d.redisClient.GetObj(ctx, common.RedisKeyBridgeStatus(id), &event); err == nil && event.Status != "" {
		return &event, nil
	}

	bridgeReq, err := d.bridgeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event = model.ConvertBridgeStatusEvent(bridgeReq)
	return &event, nil
}

func (d *bridgeDomain) getOwned(ctx context.Context, id string) (*entity.BridgeRequest, error) {
	if id == "" {
		return nil, errorx.New(errorx.BadRequest, "Empty bridge id")
	}

	bridgeReq, err := d.bridgeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found bridge request")
		}

		xcontext.Logger(ctx).Errorf("Cannot get bridge request: %v", err)
		return nil, errorx.Unknown
	}

	if bridgeReq.OwnerID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return bridgeReq, nil
}

// PublishBridgeStatus caches the status of req and publishes it to the
// bridge_status topic.
func PublishBridgeStatus(
	ctx context.Context,
	publisher pubsub.Publisher,
	redisClient xredis.Client,
	req *entity.BridgeRequest,
) error {
	event := model.ConvertBridgeStatusEvent(req)

	if err := redisClient.SetObj(ctx, common.RedisKeyBridgeStatus(req.ID), event, common.BridgeStatusTTL); err != nil {
		return err
	}

	b, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return publisher.Publish(ctx, model.BridgeStatusTopic, &pubsub.Pack{
		Key: []byte(req.ID),
		Msg: b,
	})
}
