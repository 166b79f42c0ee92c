package middleware

import (
	"context"
	"strings"

	"github.com/bridgeart/backend/internal/model"
	"github.com/bridgeart/backend/pkg/errorx"
	"github.com/bridgeart/backend/pkg/router"
	"github.com/bridgeart/backend/pkg/xcontext"
)

// Authenticate requires an access token in the Authorization header, the
// access token cookie or, for websocket upgrades, the access_token query
// parameter.
func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := accessTokenFromRequest(ctx)
		if token == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		var info model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &info); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		if info.ID == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		ctx = xcontext.WithRequestUserID(ctx, info.ID)
		ctx = xcontext.WithRequestUserAddress(ctx, info.Address)
		return ctx, nil
	}
}

func accessTokenFromRequest(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	if auth := req.Header.Get("Authorization"); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name); err == nil {
		return cookie.Value
	}

	if strings.EqualFold(req.Header.Get("Upgrade"), "websocket") {
		return req.URL.Query().Get("access_token")
	}

	return ""
}
