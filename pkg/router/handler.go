package router

import (
	"context"
	"net/http"

	"github.com/bridgeart/backend/pkg/errorx"
	"github.com/bridgeart/backend/pkg/ws"
	"github.com/bridgeart/backend/pkg/xcontext"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func handleAPI[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := r.newContext(w, req)
		defer func() { r.runClosers(ctx) }()

		ctx, err := r.runBefores(ctx)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeError(xcontext.Logger(ctx), w, err)
			return
		}

		var request Request
		if err := bind(ctx, req, method, &request); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
			err = errorx.New(errorx.BadRequest, "Cannot bind the request")
			ctx = xcontext.WithError(ctx, err)
			writeError(xcontext.Logger(ctx), w, err)
			return
		}

		resp, err := handler(ctx, &request)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeError(xcontext.Logger(ctx), w, err)
			return
		}

		ctx = xcontext.WithResponse(ctx, resp)
		ctx, err = r.runAfters(ctx)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeError(xcontext.Logger(ctx), w, err)
			return
		}

		writeResponse(xcontext.Logger(ctx), w, resp)
	}
}

func handleWebsocket[Request any](r *Router, handler WebsocketHandlerFunc[Request]) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := r.newContext(w, req)
		defer func() { r.runClosers(ctx) }()

		ctx, err := r.runBefores(ctx)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeError(xcontext.Logger(ctx), w, err)
			return
		}

		var request Request
		if err := bind(ctx, req, http.MethodGet, &request); err != nil {
			err = errorx.New(errorx.BadRequest, "Cannot bind the request")
			ctx = xcontext.WithError(ctx, err)
			writeError(xcontext.Logger(ctx), w, err)
			return
		}

		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot upgrade to websocket: %v", err)
			ctx = xcontext.WithError(ctx, errorx.Unknown)
			return
		}

		client := ws.NewClient(conn)
		defer client.Close()

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		ctx = xcontext.WithWSClient(ctx, client)
		if err := handler(ctx, &request); err != nil {
			ctx = xcontext.WithError(ctx, err)
			client.CloseWithError(err)
		}
	}
}
