package router

import (
	"context"
	"net/http"
	"sync"

	"github.com/bridgeart/backend/pkg/errorx"
	"github.com/bridgeart/backend/pkg/xcontext"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)
type WebsocketHandlerFunc[Request any] func(ctx context.Context, req *Request) error
type MiddlewareFunc func(ctx context.Context) (context.Context, error)
type CloserFunc func(ctx context.Context)

type routeTable struct {
	mu      sync.Mutex
	mux     *http.ServeMux
	methods map[string]map[string]http.HandlerFunc
}

type Router struct {
	ctx    context.Context
	routes *routeTable

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

// New creates a router whose handlers see every value stored in ctx
// (configs, logger, database, ...) merged into the request context.
func New(ctx context.Context) *Router {
	return &Router{
		ctx: ctx,
		routes: &routeTable{
			mux:     http.NewServeMux(),
			methods: make(map[string]map[string]http.HandlerFunc),
		},
	}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.handle(http.MethodGet, pattern, handleAPI(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.handle(http.MethodPost, pattern, handleAPI(r, http.MethodPost, handler))
}

func Websocket[Request any](r *Router, pattern string, handler WebsocketHandlerFunc[Request]) {
	r.handle(http.MethodGet, pattern, handleWebsocket(r, handler))
}

// Branch returns a router sharing the same routes but with its own copy of
// the middleware chain.
func (r *Router) Branch() *Router {
	return &Router{
		ctx:     r.ctx,
		routes:  r.routes,
		befores: append([]MiddlewareFunc{}, r.befores...),
		afters:  append([]MiddlewareFunc{}, r.afters...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) After(m MiddlewareFunc) {
	r.afters = append(r.afters, m)
}

func (r *Router) AddCloser(m CloserFunc) {
	r.closers = append(r.closers, m)
}

// Handle registers a raw http.Handler, bypassing middlewares.
func (r *Router) Handle(pattern string, h http.Handler) {
	r.routes.mu.Lock()
	defer r.routes.mu.Unlock()
	r.routes.mux.Handle(pattern, h)
}

func (r *Router) Handler() http.Handler {
	return r.routes.mux
}

func (r *Router) handle(method, pattern string, h http.HandlerFunc) {
	r.routes.mu.Lock()
	defer r.routes.mu.Unlock()

	if _, ok := r.routes.methods[pattern]; !ok {
		r.routes.methods[pattern] = make(map[string]http.HandlerFunc)
		r.routes.mux.HandleFunc(pattern, r.dispatch(pattern))
	}

	r.routes.methods[pattern][method] = h
}

func (r *Router) dispatch(pattern string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		r.routes.mu.Lock()
		h, ok := r.routes.methods[pattern][req.Method]
		r.routes.mu.Unlock()

		if !ok {
			err := errorx.New(errorx.MethodNotAllowed, "Method %s is not allowed", req.Method)
			writeError(xcontext.Logger(r.ctx), w, err)
			return
		}

		h(w, req)
	}
}

func (r *Router) newContext(w http.ResponseWriter, req *http.Request) context.Context {
	var ctx context.Context = &mergedContext{Context: req.Context(), values: r.ctx}
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	return ctx
}

// runBefores returns the context produced by the chain and the first error.
func (r *Router) runBefores(ctx context.Context) (context.Context, error) {
	for _, m := range r.befores {
		newCtx, err := m(ctx)
		if err != nil {
			return ctx, err
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	return ctx, nil
}

func (r *Router) runAfters(ctx context.Context) (context.Context, error) {
	for _, m := range r.afters {
		newCtx, err := m(ctx)
		if err != nil {
			return ctx, err
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	return ctx, nil
}

func (r *Router) runClosers(ctx context.Context) {
	for _, m := range r.closers {
		m(ctx)
	}
}

type mergedContext struct {
	context.Context
	values context.Context
}

func (c *mergedContext) Value(key any) any {
	if v := c.Context.Value(key); v != nil {
		return v
	}

	return c.values.Value(key)
}
