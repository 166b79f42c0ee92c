package main

import (
	"fmt"
	"net/http"

	"github.com/bridgeart/backend/internal/common"
	"github.com/bridgeart/backend/internal/domain/blockchain"
	"github.com/bridgeart/backend/internal/middleware"
	"github.com/bridgeart/backend/pkg/prometheus"
	"github.com/bridgeart/backend/pkg/router"
	"github.com/bridgeart/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(ct *cli.Context) error {
	dbCfg := xcontext.Configs(s.ctx).Database
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase(dbCfg.ConnectionString()))
	s.loadSnowflake()
	s.loadAuth()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadStorage()
	s.loadEndpoint()
	s.loadSearchIndex()
	s.loadRepos()
	s.loadBlockchainManager()
	s.loadDomains()
	defer s.searchIndex.Close()

	if ct.Bool("seed") {
		if err := s.nftDomain.Seed(s.ctx); err != nil {
			return err
		}
	}

	if err := s.nftDomain.BuildIndex(s.ctx); err != nil {
		return err
	}

	watcher := blockchain.NewTxWatcher(
		s.blockchainManager,
		s.blockchainRepo,
		s.nftRepo,
		xcontext.Configs(s.ctx).Blockchain.WatchInterval,
	)
	go watcher.Start(s.ctx)

	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ApiServer.Port),
		Handler: middleware.AllowCors(s.router.Handler(), cfg.ApiServer.AllowedOrigins),
	}

	xcontext.Logger(s.ctx).Infof("Starting server on port: %s", cfg.ApiServer.Port)
	if cfg.ApiServer.Cert != "" && cfg.ApiServer.Key != "" {
		if err := s.server.ListenAndServeTLS(cfg.ApiServer.Cert, cfg.ApiServer.Key); err != nil {
			return err
		}
	} else if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stop")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())
	s.router.Handle("/metrics", prometheus.NewHandler(common.PromCollectors()...))

	// Auth API
	authRouter := s.router.Branch()
	authRouter.After(middleware.HandleSaveSession())
	authRouter.After(middleware.HandleSetAccessToken())
	{
		router.GET(authRouter, "/wallet/login", s.authDomain.WalletLogin)
		router.POST(authRouter, "/wallet/verify", s.authDomain.WalletVerify)
	}

	// These following APIs need authentication with Access Token.
	tokenRouter := s.router.Branch()
	tokenRouter.Before(middleware.Authenticate())
	{
		// Artwork API
		router.POST(tokenRouter, "/generate", s.artworkDomain.Generate)
		router.POST(tokenRouter, "/generateArt", s.artworkDomain.GenerateArt)
		router.POST(tokenRouter, "/uploadArtwork", s.artworkDomain.UploadArtwork)
		router.GET(tokenRouter, "/getArtwork", s.artworkDomain.GetArtwork)
		router.GET(tokenRouter, "/getMyArtworks", s.artworkDomain.GetMyArtworks)

		// NFT API
		router.POST(tokenRouter, "/mint", s.nftDomain.Mint)
		router.GET(tokenRouter, "/getMyNFTs", s.nftDomain.GetMyNFTs)

		// Bridge API
		router.POST(tokenRouter, "/bridge", s.bridgeDomain.Create)
		router.GET(tokenRouter, "/getBridge", s.bridgeDomain.Get)
		router.GET(tokenRouter, "/getListBridge", s.bridgeDomain.GetList)
		router.Websocket(tokenRouter, "/ws/bridge", s.bridgeDomain.ServeBridgeStatus)
	}

	// Public API.
	router.GET(s.router, "/getListNFT", s.nftDomain.GetList)
	router.GET(s.router, "/getNFT", s.nftDomain.Get)
	router.GET(s.router, "/searchNFT", s.nftDomain.Search)
	router.GET(s.router, "/getListCategory", s.nftDomain.GetListCategory)
	router.POST(s.router, "/likeNFT", s.nftDomain.Like)
	router.GET(s.router, "/getListChain", s.blockchainDomain.GetListChain)
	router.GET(s.router, "/getBlockchainTransaction", s.blockchainDomain.GetTransaction)
}
