package xcontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type record struct {
	ID   string `gorm:"primarykey"`
	Name string
}

func newDBContext(t *testing.T) context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&record{}))

	return WithDB(context.Background(), db)
}

func TestDBTransaction_Rollback(t *testing.T) {
	ctx := newDBContext(t)

	txCtx := WithDBTransaction(ctx)
	require.NoError(t, DB(txCtx).Create(&record{ID: "1", Name: "cosmic"}).Error)
	WithRollbackDBTransaction(txCtx)

	var count int64
	require.NoError(t, DB(ctx).Model(&record{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestDBTransaction_Commit(t *testing.T) {
	ctx := newDBContext(t)

	txCtx := WithDBTransaction(ctx)
	require.NoError(t, DB(txCtx).Create(&record{ID: "1", Name: "neon"}).Error)
	require.NoError(t, WithCommitDBTransaction(txCtx))

	// Rollback after commit is a no-op.
	WithRollbackDBTransaction(txCtx)

	var count int64
	require.NoError(t, DB(ctx).Model(&record{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestDefaults(t *testing.T) {
	ctx := context.Background()
	require.NotNil(t, Logger(ctx))
	require.NotNil(t, HTTPClient(ctx))
	require.Empty(t, RequestUserID(ctx))
	require.Nil(t, Error(ctx))

	ctx = WithRequestUserID(ctx, "user1")
	require.Equal(t, "user1", RequestUserID(ctx))
}

func TestDetach(t *testing.T) {
	ctx := newDBContext(t)
	ctx = WithRequestUserID(ctx, "user1")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.Error(t, DB(cancelled).Create(&record{ID: "1"}).Error)

	detached := Detach(cancelled)
	require.NoError(t, detached.Err())
	require.Nil(t, detached.Done())
	require.Equal(t, "user1", RequestUserID(detached))
	require.NoError(t, DB(detached).Create(&record{ID: "1", Name: "saved"}).Error)
}
