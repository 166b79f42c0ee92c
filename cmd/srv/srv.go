package main

import (
	"context"
	"net/http"
	"time"

	"github.com/bridgeart/backend/config"
	"github.com/bridgeart/backend/internal/client"
	"github.com/bridgeart/backend/internal/domain"
	"github.com/bridgeart/backend/internal/domain/blockchain"
	"github.com/bridgeart/backend/internal/domain/search"
	"github.com/bridgeart/backend/internal/repository"
	"github.com/bridgeart/backend/pkg/api/pinata"
	"github.com/bridgeart/backend/pkg/authenticator"
	"github.com/bridgeart/backend/pkg/ethutil"
	"github.com/bridgeart/backend/pkg/kafka"
	"github.com/bridgeart/backend/pkg/logger"
	"github.com/bridgeart/backend/pkg/pubsub"
	"github.com/bridgeart/backend/pkg/router"
	"github.com/bridgeart/backend/pkg/storage"
	"github.com/bridgeart/backend/pkg/xcontext"
	"github.com/bridgeart/backend/pkg/xredis"

	"github.com/bwmarrin/snowflake"
	"github.com/gorilla/sessions"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	ctx context.Context
	app *cli.App

	userRepo       repository.UserRepository
	artworkRepo    repository.ArtworkRepository
	nftRepo        repository.NftRepository
	blockchainRepo repository.BlockChainRepository
	bridgeRepo     repository.BridgeRepository

	authDomain       domain.AuthDomain
	artworkDomain    domain.ArtworkDomain
	nftDomain        domain.NFTDomain
	bridgeDomain     domain.BridgeDomain
	blockchainDomain domain.BlockchainDomain

	blockchainManager *blockchain.BlockchainManager
	redisClient       xredis.Client
	publisher         pubsub.Publisher
	storage           storage.Storage
	imageGenerator    client.ImageGenerator
	pinataEndpoint    pinata.IEndpoint
	searchIndex       search.Index

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig() {
	cfg := loadConfigsFromEnv()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
}

func (s *srv) loadLogger() {
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(xcontext.Configs(s.ctx).LogLevel))
}

func (s *srv) newDatabase(dsn string) *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       dsn,                    // data source name
		DefaultStringSize:         256,                    // default size for string fields
		DisableDatetimePrecision:  true,                   // disable datetime precision, which not supported before MySQL 5.6
		DontSupportRenameIndex:    true,                   // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
		DontSupportRenameColumn:   true,                   // `change` when rename column, rename column not supported before MySQL 8, MariaDB
		SkipInitializeWithVersion: false,                  // auto configure based on currently MySQL version
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		panic(err)
	}

	return db
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	publisher, err := kafka.NewPublisher(
		snowflakeNode(s.ctx).Generate().String(),
		[]string{xcontext.Configs(s.ctx).Kafka.Addr},
	)
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
}

// loadStorage leaves storage nil when S3 is not configured; generated images
// are then served from the upstream URL.
func (s *srv) loadStorage() {
	cfg := xcontext.Configs(s.ctx).Storage
	if !cfg.Enabled() {
		xcontext.Logger(s.ctx).Warnf("S3 storage is not configured, images are not copied")
		return
	}

	s3Storage, err := storage.NewS3Storage(cfg)
	if err != nil {
		panic(err)
	}

	s.storage = s3Storage
}

func (s *srv) loadEndpoint() {
	cfg := xcontext.Configs(s.ctx)
	s.imageGenerator = client.NewImageGenerator(cfg.ImageGen)
	s.pinataEndpoint = pinata.New(cfg.Pinata)
}

func (s *srv) loadSearchIndex() {
	s.searchIndex = search.NewBleveIndex(s.ctx)
}

func (s *srv) loadSnowflake() {
	node, err := snowflake.NewNode(time.Now().UnixMilli() % 1024)
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
}

func (s *srv) loadAuth() {
	cfg := xcontext.Configs(s.ctx)
	s.ctx = xcontext.WithTokenEngine(s.ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	s.ctx = xcontext.WithSessionStore(s.ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.artworkRepo = repository.NewArtworkRepository()
	s.nftRepo = repository.NewNftRepository()
	s.blockchainRepo = repository.NewBlockChainRepository()
	s.bridgeRepo = repository.NewBridgeRepository()
}

// loadBlockchainManager stores the chains of the TOML file and starts a client
// for each of them.
func (s *srv) loadBlockchainManager() {
	cfg := xcontext.Configs(s.ctx).Blockchain
	s.blockchainManager = blockchain.NewBlockchainManager(s.blockchainRepo)

	if cfg.ChainsFile != "" {
		chains, err := config.LoadChains(cfg.ChainsFile)
		if err != nil {
			panic(err)
		}

		if err := s.blockchainManager.LoadChains(s.ctx, chains); err != nil {
			panic(err)
		}
	}

	// Owners approve this account as operator before bridging from EVM chains.
	if platform, err := ethutil.AddressFromSecret(cfg.SecretKey); err == nil {
		xcontext.Logger(s.ctx).Infof("EVM platform account: %s", platform.Hex())
	}

	s.blockchainManager.Reload(s.ctx)
	go s.blockchainManager.Run(s.ctx)
}

func (s *srv) loadDomains() {
	s.authDomain = domain.NewAuthDomain(s.userRepo)
	s.artworkDomain = domain.NewArtworkDomain(s.artworkRepo, s.imageGenerator, s.storage)
	s.nftDomain = domain.NewNFTDomain(
		s.nftRepo,
		s.artworkRepo,
		s.userRepo,
		s.blockchainRepo,
		s.blockchainManager,
		s.pinataEndpoint,
		s.searchIndex,
	)
	s.bridgeDomain = domain.NewBridgeDomain(
		s.bridgeRepo,
		s.nftRepo,
		s.blockchainManager,
		s.publisher,
		s.redisClient,
	)
	s.blockchainDomain = domain.NewBlockchainDomain(s.blockchainRepo, s.blockchainManager)
}

func snowflakeNode(ctx context.Context) *snowflake.Node {
	if node := xcontext.SnowFlake(ctx); node != nil {
		return node
	}

	node, err := snowflake.NewNode(0)
	if err != nil {
		panic(err)
	}

	return node
}
