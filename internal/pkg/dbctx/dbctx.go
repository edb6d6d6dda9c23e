package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// Repos fall back to their pooled handle when Tx is nil.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// WithCtx returns a copy carrying ctx. Used when fanning work out under a
// derived context: a *gorm.DB transaction is not safe for concurrent use,
// so the copy drops Tx.
func (c Context) WithCtx(ctx context.Context) Context {
	return Context{Ctx: ctx}
}
