package main

import (
	"os/signal"
	"syscall"

	"github.com/bridgeart/backend/internal/bridgeprocessor"
	"github.com/bridgeart/backend/internal/model"
	"github.com/bridgeart/backend/pkg/kafka"
	"github.com/bridgeart/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startBridge(*cli.Context) error {
	dbCfg := xcontext.Configs(s.ctx).Database
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase(dbCfg.ConnectionString()))
	s.loadRedisClient()
	s.loadPublisher()
	s.loadRepos()
	s.loadBlockchainManager()

	cfg := xcontext.Configs(s.ctx)
	processor := bridgeprocessor.NewProcessor(
		s.ctx,
		s.bridgeRepo,
		s.nftRepo,
		s.blockchainRepo,
		s.blockchainManager,
		s.publisher,
		s.redisClient,
	)

	bridgeSubscriber, err := kafka.NewSubscriber(
		"bridge",
		[]string{cfg.Kafka.Addr},
		[]string{model.BridgeRequestTopic},
		processor.Subscribe,
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Requests left by the previous run go first.
	if err := processor.Resume(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot resume bridge requests: %v", err)
	}

	go bridgeSubscriber.Subscribe(ctx)
	xcontext.Logger(ctx).Infof("Started bridge processor")

	<-ctx.Done()
	xcontext.Logger(s.ctx).Infof("Stopping bridge processor")

	if err := bridgeSubscriber.Stop(s.ctx); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot stop subscriber: %v", err)
	}

	if err := processor.Wait(); err != nil {
		xcontext.Logger(s.ctx).Errorf("Bridge worker stopped with error: %v", err)
	}

	return nil
}
