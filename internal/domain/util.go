package domain

import (
	"context"
	"strconv"

	"github.com/bridgeart/backend/pkg/errorx"
	"github.com/bridgeart/backend/pkg/xcontext"
)

// checkPagination fills the default limit and rejects invalid values.
func checkPagination(ctx context.Context, offset, limit int) (int, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if limit == 0 {
		limit = apiCfg.DefaultLimit
	}

	if limit < 0 {
		return 0, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if offset < 0 {
		return 0, errorx.New(errorx.BadRequest, "Offset must not be negative")
	}

	if limit > apiCfg.MaxLimit {
		return 0, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	return limit, nil
}

func parseNFTID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, errorx.New(errorx.BadRequest, "Invalid nft id")
	}

	return n, nil
}
