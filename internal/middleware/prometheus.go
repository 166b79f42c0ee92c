package middleware

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bridgeart/backend/internal/common"
	"github.com/bridgeart/backend/pkg/errorx"
	"github.com/bridgeart/backend/pkg/router"
	"github.com/bridgeart/backend/pkg/xcontext"
)

func WithStartTime() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		return xcontext.WithStartTime(ctx, time.Now()), nil
	}
}

// Prometheus records the count and the duration of every request, labelled
// by path and errorx code (0 on success, -1 for unexpected errors).
func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		code := 0
		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				code = int(errx.Code)
			} else {
				code = -1
			}
		}

		path := xcontext.HTTPRequest(ctx).URL.Path
		status := strconv.Itoa(code)

		common.PromCounters[common.HTTPRequestTotal].WithLabelValues(path, status).Inc()

		if start := xcontext.StartTime(ctx); !start.IsZero() {
			common.PromHistograms[common.HTTPRequestDurationSeconds].
				WithLabelValues(path, status).Observe(time.Since(start).Seconds())
		}
	}
}
