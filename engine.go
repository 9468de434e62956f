// Package warpgraph turns a declarative data-model configuration into an
// executable GraphQL engine backed by a graph database. The engine owns
// schema synthesis, query translation, and request resolution; serving HTTP
// is left to the caller.
package warpgraph

import (
	"context"
	"errors"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"

	"github.com/warpgraph/warpgraph/config"
	"github.com/warpgraph/warpgraph/database"
	"github.com/warpgraph/warpgraph/logger"
	"github.com/warpgraph/warpgraph/resolvers"
	"github.com/warpgraph/warpgraph/schema"
	"github.com/warpgraph/warpgraph/translate"
	"github.com/warpgraph/warpgraph/wgerr"
)

// EngineBuilder accumulates engine construction options.
type EngineBuilder struct {
	cfg *config.Config
	db  database.Endpoint
	res resolvers.Resolvers
	log logger.Logger
}

// New starts building an engine for a configuration and database endpoint.
func New(cfg *config.Config, db database.Endpoint) *EngineBuilder {
	return &EngineBuilder{cfg: cfg, db: db}
}

// WithResolvers registers custom endpoint and property resolvers.
func (b *EngineBuilder) WithResolvers(res resolvers.Resolvers) *EngineBuilder {
	b.res = res
	return b
}

// WithLogger sets the engine logger.
func (b *EngineBuilder) WithLogger(log logger.Logger) *EngineBuilder {
	b.log = log
	return b
}

// Build validates the configuration, derives the schema, and constructs the
// connection pool. Configuration problems fail here, before any request is
// accepted.
func (b *EngineBuilder) Build(ctx context.Context) (*Engine, error) {
	log := b.log
	if log == nil {
		log = logger.New()
	}

	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	tr := translate.New(b.cfg, log)
	s, err := schema.New(b.cfg, b.res, tr, log).Build()
	if err != nil {
		return nil, err
	}

	pool, err := b.db.Pool(ctx)
	if err != nil {
		if wgerr.KindOf(err) == wgerr.Backend {
			err = wgerr.Wrap(err, wgerr.CouldNotBuildPool, "")
		}
		return nil, err
	}

	return &Engine{cfg: b.cfg, schema: s, pool: pool, log: log}, nil
}

// Engine executes GraphQL requests against the derived schema. It is
// immutable and safe for concurrent use.
type Engine struct {
	cfg    *config.Config
	schema graphql.Schema
	pool   database.Pool
	log    logger.Logger
}

// Request is the standard GraphQL request envelope.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// Response is the standard GraphQL response envelope.
type Response struct {
	Data   interface{}                 `json:"data"`
	Errors []gqlerrors.FormattedError  `json:"errors,omitempty"`
}

// Execute runs one request inside one transaction. Any error rolls the
// transaction back; cancellation during commit is indeterminate and is
// surfaced as such so callers can retry idempotently. metadata is opaque to
// the engine and handed to custom resolvers.
func (e *Engine) Execute(ctx context.Context, req *Request, metadata map[string]string) *Response {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return errorResponse(err)
	}

	rc := translate.NewRequestContext(tx, metadata)
	result := graphql.Do(graphql.Params{
		Schema:         e.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        translate.WithContext(ctx, rc),
	})

	if err := ctx.Err(); err != nil {
		// The caller is gone; release the transaction before returning.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			e.log.Warn("rollback after cancellation failed", "error", rbErr)
		}
		return errorResponse(err)
	}

	if len(result.Errors) > 0 {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			e.log.Warn("rollback failed", "error", rbErr)
		}
		return &Response{Data: result.Data, Errors: result.Errors}
	}

	if err := tx.Commit(ctx); err != nil {
		if ctx.Err() != nil {
			err = wgerr.Wrap(err, wgerr.CommitIndeterminate, "")
			e.log.Error("commit interrupted by cancellation; outcome unknown", "error", err)
		}
		return errorResponse(err)
	}

	return &Response{Data: result.Data}
}

// Close releases the connection pool.
func (e *Engine) Close(ctx context.Context) error {
	return e.pool.Close(ctx)
}

func errorResponse(err error) *Response {
	fe := gqlerrors.FormatError(err)
	var we *wgerr.Error
	if errors.As(err, &we) && fe.Extensions == nil {
		fe.Extensions = we.Extensions()
	}
	return &Response{Errors: []gqlerrors.FormattedError{fe}}
}
