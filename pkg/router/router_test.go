package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bridgeart/backend/pkg/errorx"
	"github.com/bridgeart/backend/pkg/router"
	"github.com/bridgeart/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name  string `json:"name"`
	Limit int    `json:"limit"`
}

type echoResponse struct {
	Name   string `json:"name"`
	Limit  int    `json:"limit"`
	UserID string `json:"user_id"`
}

type envelope struct {
	Code  int64        `json:"code"`
	Error string       `json:"error"`
	Data  echoResponse `json:"data"`
}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Name is required")
	}

	return &echoResponse{Name: req.Name, Limit: req.Limit, UserID: xcontext.RequestUserID(ctx)}, nil
}

func newRouter() *router.Router {
	r := router.New(context.Background())
	router.GET(r, "/echo", echo)
	router.POST(r, "/echo", echo)

	authRouter := r.Branch()
	authRouter.Before(func(ctx context.Context) (context.Context, error) {
		if xcontext.HTTPRequest(ctx).Header.Get("Authorization") == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}
		return xcontext.WithRequestUserID(ctx, "user1"), nil
	})
	router.POST(authRouter, "/private", echo)

	return r
}

func serve(t *testing.T, r *router.Router, req *http.Request) (int, envelope) {
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestRouter_GETQuery(t *testing.T) {
	status, resp := serve(t, newRouter(), httptest.NewRequest(http.MethodGet, "/echo?name=foo&limit=3", nil))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, int64(0), resp.Code)
	require.Equal(t, echoResponse{Name: "foo", Limit: 3}, resp.Data)
}

func TestRouter_POSTBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":"bar"}`))
	status, resp := serve(t, newRouter(), req)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "bar", resp.Data.Name)
}

func TestRouter_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		req        *http.Request
		wantStatus int
		wantCode   errorx.Code
	}{
		{
			name:       "handler error",
			req:        httptest.NewRequest(http.MethodGet, "/echo", nil),
			wantStatus: http.StatusBadRequest,
			wantCode:   errorx.BadRequest,
		},
		{
			name:       "invalid body",
			req:        httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{`)),
			wantStatus: http.StatusBadRequest,
			wantCode:   errorx.BadRequest,
		},
		{
			name:       "wrong method",
			req:        httptest.NewRequest(http.MethodPut, "/echo", nil),
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   errorx.MethodNotAllowed,
		},
		{
			name:       "before middleware rejects",
			req:        httptest.NewRequest(http.MethodPost, "/private", strings.NewReader(`{"name":"x"}`)),
			wantStatus: http.StatusUnauthorized,
			wantCode:   errorx.Unauthenticated,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := serve(t, newRouter(), tt.req)
			require.Equal(t, tt.wantStatus, status)
			require.Equal(t, int64(tt.wantCode), resp.Code)
			require.NotEmpty(t, resp.Error)
		})
	}
}

func TestRouter_Branch(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/private", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Authorization", "Bearer token")

	status, resp := serve(t, newRouter(), req)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "user1", resp.Data.UserID)
}

func TestRouter_Closer(t *testing.T) {
	var gotErr error
	r := router.New(context.Background())
	r.AddCloser(func(ctx context.Context) {
		gotErr = xcontext.Error(ctx)
	})
	router.GET(r, "/echo", echo)

	serve(t, r, httptest.NewRequest(http.MethodGet, "/echo", nil))
	require.Error(t, gotErr)
}
