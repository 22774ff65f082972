package router

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/familyquest/backend/config"
	"github.com/familyquest/backend/pkg/authenticator"
	"github.com/familyquest/backend/pkg/logger"
	"github.com/familyquest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It can derive a new context (e.g.
// attach the authenticated user id) or abort the request by returning an
// error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is written, regardless of the outcome.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux     *http.ServeMux
	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc

	cfg    config.Configs
	logger logger.Logger
	db     *gorm.DB

	tokenEngine authenticator.TokenEngine
	snowflake   *snowflake.Node
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	return &Router{
		mux:         http.NewServeMux(),
		cfg:         cfg,
		logger:      logger,
		db:          db,
		tokenEngine: authenticator.NewTokenEngine(cfg.Auth.TokenSecret),
		snowflake:   node,
	}
}

// Branch returns a router sharing the same mux but with an independent
// middleware chain, so groups of endpoints can require different guards.
func (r *Router) Branch() *Router {
	branch := *r
	branch.befores = append([]MiddlewareFunc{}, r.befores...)
	branch.afters = append([]MiddlewareFunc{}, r.afters...)
	branch.closers = append([]CloserFunc{}, r.closers...)
	return &branch
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func (r *Router) newRequestContext(req *http.Request, w http.ResponseWriter) context.Context {
	ctx := req.Context()
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithDB(ctx, r.db)
	ctx = xcontext.WithTokenEngine(ctx, r.tokenEngine)
	ctx = xcontext.WithSnowFlake(ctx, r.snowflake)
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	return ctx
}
