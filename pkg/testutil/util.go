package testutil

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bridgeart/backend/config"
	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/pkg/authenticator"
	"github.com/bridgeart/backend/pkg/logger"
	"github.com/bridgeart/backend/pkg/xcontext"
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MockContext returns a context with every dependency the domains read from
// xcontext. Each call gets its own in-memory database.
func MockContext() context.Context {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Env: "test",
		ApiServer: config.APIServerConfigs{
			MaxLimit:     50,
			DefaultLimit: 10,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
			Name:   "bridgeart_session",
		},
		File: config.FileConfigs{
			MaxSize:       2 * 1024 * 1024,
			ThumbnailSize: 256,
		},
		Blockchain: config.BlockchainConfigs{
			SecretKey:    "blockchain-secret",
			DefaultChain: "ethereum",
		},
		Bridge: config.BridgeConfigs{
			PollInterval: 10 * time.Millisecond,
			Timeout:      time.Second,
			MaxWorkers:   2,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithHTTPClient(ctx, http.DefaultClient)
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithSessionStore(ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))
	ctx = xcontext.WithSnowFlake(ctx, node)
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(ctx context.Context, userID string) context.Context {
	return xcontext.WithRequestUserID(ctx, userID)
}
