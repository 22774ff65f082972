package xcontext

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/familyquest/backend/config"
	"github.com/familyquest/backend/pkg/authenticator"
	"github.com/familyquest/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	dbKey            struct{}
	dbTxKey          struct{}
	requestUserIDKey struct{}
	httpRequestKey   struct{}
	httpWriterKey    struct{}
	tokenEngineKey   struct{}
	snowflakeKey     struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	return ctx.Value(configsKey{}).(config.Configs)
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	return ctx.Value(loggerKey{}).(logger.Logger)
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the current database handle. If a transaction was opened with
// WithDBTransaction and is still pending, the transaction is returned instead.
func DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(dbTxKey{}).(*dbTransaction); ok && !tx.done {
		return tx.tx
	}

	return ctx.Value(dbKey{}).(*gorm.DB)
}

type dbTransaction struct {
	tx   *gorm.DB
	done bool
}

// WithDBTransaction begins a database transaction. All repository calls made
// with the returned context run inside it until WithCommitDBTransaction or
// WithRollbackDBTransaction is called.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, dbTxKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

// WithRollbackDBTransaction rollbacks the pending transaction. It is a no-op
// if the transaction was already committed, so it is safe to defer.
func WithRollbackDBTransaction(ctx context.Context) {
	if tx, ok := ctx.Value(dbTxKey{}).(*dbTransaction); ok && !tx.done {
		tx.tx.Rollback()
		tx.done = true
	}
}

func WithCommitDBTransaction(ctx context.Context) {
	if tx, ok := ctx.Value(dbTxKey{}).(*dbTransaction); ok && !tx.done {
		tx.tx.Commit()
		tx.done = true
	}
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	if id, ok := ctx.Value(requestUserIDKey{}).(string); ok {
		return id
	}

	return ""
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

// HTTPRequest returns the request of this context, or nil outside a router
// request (cron jobs, tests).
func HTTPRequest(ctx context.Context) *http.Request {
	if req, ok := ctx.Value(httpRequestKey{}).(*http.Request); ok {
		return req
	}

	return nil
}

func WithHTTPWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, httpWriterKey{}, w)
}

func HTTPWriter(ctx context.Context) http.ResponseWriter {
	return ctx.Value(httpWriterKey{}).(http.ResponseWriter)
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine {
	return ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine)
}

func WithSnowFlake(ctx context.Context, node *snowflake.Node) context.Context {
	return context.WithValue(ctx, snowflakeKey{}, node)
}

func SnowFlake(ctx context.Context) *snowflake.Node {
	return ctx.Value(snowflakeKey{}).(*snowflake.Node)
}
