// Package gremlin implements the database contracts against a Gremlin
// server speaking GraphSON2 over websocket.
//
// Traversals submitted through the sessionless eval op apply immediately, so
// Commit is an acknowledgement and Rollback undoes nothing and only logs a
// warning; the transaction still becomes terminal either way.
package gremlin

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/warpgraph/warpgraph/database"
	"github.com/warpgraph/warpgraph/logger"
	"github.com/warpgraph/warpgraph/value"
	"github.com/warpgraph/warpgraph/wgerr"
)

// Environment variables naming the Gremlin server.
const (
	EnvHost = "WG_GRAPHSON2_HOST"
	EnvPort = "WG_GRAPHSON2_PORT"
	EnvUser = "WG_GRAPHSON2_USER"
	EnvPass = "WG_GRAPHSON2_PASS"
)

// Endpoint describes a Gremlin server.
type Endpoint struct {
	Host string
	Port int
	User string
	Pass string
	Log  logger.Logger
}

// FromEnv builds an endpoint from the WG_GRAPHSON2_* variables.
func FromEnv() (*Endpoint, error) {
	host, err := database.EnvString(EnvHost)
	if err != nil {
		return nil, err
	}
	portStr, err := database.EnvString(EnvPort)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, wgerr.Wrap(err, wgerr.ConfigInvalid, EnvPort)
	}
	user, err := database.EnvString(EnvUser)
	if err != nil {
		return nil, err
	}
	pass, err := database.EnvString(EnvPass)
	if err != nil {
		return nil, err
	}
	return &Endpoint{Host: host, Port: port, User: user, Pass: pass, Log: logger.New()}, nil
}

// Pool builds the connection pool for the endpoint.
func (e *Endpoint) Pool(ctx context.Context) (database.Pool, error) {
	log := e.Log
	if log == nil {
		log = logger.Nop()
	}
	return &pool{
		addr:    fmt.Sprintf("%s:%d", e.Host, e.Port),
		user:    e.User,
		pass:    e.Pass,
		limiter: database.NewLimiter(database.DefaultCapacity(), 0),
		log:     log,
	}, nil
}

type pool struct {
	addr    string
	user    string
	pass    string
	limiter *database.Limiter
	log     logger.Logger
}

func (p *pool) Begin(ctx context.Context) (database.Transaction, error) {
	if err := p.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	c, err := dial(ctx, p.addr, p.user, p.pass)
	if err != nil {
		p.limiter.Release()
		return nil, err
	}
	return &transaction{
		conn:    c,
		limiter: p.limiter,
		log:     p.log,
		bound:   make(map[string]bool),
	}, nil
}

func (p *pool) Close(ctx context.Context) error { return nil }

type planKind int

const (
	planNone planKind = iota
	planNodes
	planRels
	planCount
)

// returnPlan records how the next Exec should shape raw traversal output
// into named-column rows. The return-clause emitters set it.
type returnPlan struct {
	kind    planKind
	nodeVar string
	srcVar  string
	relVar  string
	dstVar  string
}

type transaction struct {
	conn    *conn
	limiter *database.Limiter
	log     logger.Logger
	plan    *returnPlan
	bound   map[string]bool
}

var _ database.Transaction = &transaction{}

func (t *transaction) Exec(ctx context.Context, query string, partitionKey *string, params map[string]value.Value) (database.QueryResult, error) {
	rows, err := t.exec(ctx, query, partitionKey, params)
	if err != nil {
		return nil, err
	}
	return database.NewRowsResult(rows), nil
}

func (t *transaction) exec(ctx context.Context, query string, partitionKey *string, params map[string]value.Value) ([]map[string]interface{}, error) {
	if t.conn == nil {
		return nil, wgerr.New(wgerr.TransactionFinished, "")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bindings := make(map[string]interface{}, len(params)+1)
	for k, v := range params {
		bindings[k] = v.Native()
	}
	if partitionKey != nil {
		bindings[database.PartitionKeyParam] = *partitionKey
	}

	t.log.Debug("gremlin exec", "query", query, "params", params)

	items, err := t.conn.submit(query, bindings)
	if err != nil {
		return nil, err
	}

	plan := t.plan
	t.plan = nil
	t.bound = make(map[string]bool)
	return shapeRows(plan, items)
}

func shapeRows(plan *returnPlan, items []interface{}) ([]map[string]interface{}, error) {
	if plan == nil {
		return nil, nil
	}
	switch plan.kind {
	case planNodes:
		rows := make([]map[string]interface{}, 0, len(items))
		for _, item := range items {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, wgerr.New(wgerr.InvalidPropertyType, plan.nodeVar)
			}
			rows = append(rows, map[string]interface{}{plan.nodeVar: flattenValueMap(m)})
		}
		return rows, nil
	case planRels:
		rows := make([]map[string]interface{}, 0, len(items))
		for _, item := range items {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, wgerr.New(wgerr.InvalidPropertyType, plan.relVar)
			}
			row := make(map[string]interface{}, len(m))
			for k, v := range m {
				if vm, ok := v.(map[string]interface{}); ok {
					row[k] = flattenValueMap(vm)
					continue
				}
				row[k] = v
			}
			rows = append(rows, row)
		}
		return rows, nil
	case planCount:
		if len(items) == 0 {
			return nil, wgerr.New(wgerr.MissingResultSet, "")
		}
		return []map[string]interface{}{{"count": items[0]}}, nil
	default:
		return nil, nil
	}
}

func (t *transaction) NodeQueryString(q *database.NodeQuery) (string, error) {
	qs := q.Query
	if t.bound[q.Var] {
		qs += ".select('" + q.Var + "')"
		if q.Label != "" {
			qs += ".hasLabel('" + q.Label + "')"
		}
	} else {
		if qs == "" {
			qs = "g.V()"
		}
		if q.Label != "" {
			qs += ".hasLabel('" + q.Label + "')"
		}
		qs += ".as('" + q.Var + "')"
		t.bound[q.Var] = true
	}

	if q.Props != nil {
		for _, k := range q.Props.Keys() {
			v, _ := q.Props.Get(k)
			binding := q.ParamKey + "_" + k
			qs += ".has('" + k + "', " + binding + ")"
			q.Params[binding] = v
		}
	}
	return qs, nil
}

func (t *transaction) NodeReturnString(varName string) string {
	t.plan = &returnPlan{kind: planNodes, nodeVar: varName}
	return ".select('" + varName + "').valueMap()"
}

func (t *transaction) RelQueryString(q *database.RelQuery) (string, error) {
	qs := q.Query
	qs += ".select('" + q.SrcVar + "')"
	qs += ".outE('" + q.RelLabel + "').as('" + q.RelVar + "')"

	if q.Props != nil {
		for _, k := range q.Props.Keys() {
			v, _ := q.Props.Get(k)
			binding := q.ParamKey + "_" + k
			qs += ".has('" + k + "', " + binding + ")"
			q.Params[binding] = v
		}
	}

	qs += ".inV()"
	if q.DstLabel != "" {
		qs += ".hasLabel('" + q.DstLabel + "')"
	}
	qs += ".as('" + q.DstVar + "')"
	t.bound[q.RelVar] = true
	t.bound[q.DstVar] = true
	return qs, nil
}

func (t *transaction) RelReturnString(q *database.RelQuery) string {
	t.plan = &returnPlan{kind: planRels, srcVar: q.SrcVar, relVar: q.RelVar, dstVar: q.DstVar}
	return ".project('" + q.SrcVar + "', '" + q.RelVar + "', '" + q.DstVar + "_label', '" + q.DstVar + "')" +
		".by(__.select('" + q.SrcVar + "').valueMap())" +
		".by(__.select('" + q.RelVar + "').valueMap())" +
		".by(__.select('" + q.DstVar + "').label().fold())" +
		".by(__.select('" + q.DstVar + "').valueMap())"
}

func (t *transaction) CreateNode(ctx context.Context, label string, partitionKey *string, props *value.Map) (database.QueryResult, error) {
	params := map[string]value.Value{"n_id": value.String(uuid.NewString())}
	qs := "g.addV('" + label + "').property('id', n_id)"
	if partitionKey != nil {
		qs += ".property('" + database.PartitionKeyParam + "', " + database.PartitionKeyParam + ")"
	}
	if props != nil {
		for _, k := range props.Keys() {
			v, _ := props.Get(k)
			binding := "props_" + k
			qs += ".property('" + k + "', " + binding + ")"
			params[binding] = v
		}
	}
	t.plan = &returnPlan{kind: planNodes, nodeVar: "n"}
	qs += ".valueMap()"
	return t.Exec(ctx, qs, partitionKey, params)
}

func (t *transaction) CreateRels(ctx context.Context, rc *database.RelCreate, partitionKey *string) (database.QueryResult, error) {
	var rows []map[string]interface{}
	for _, srcID := range rc.SrcIDs {
		for _, dstID := range rc.DstIDs {
			params := map[string]value.Value{
				"src_id": srcID,
				"dst_id": dstID,
				"rel_id": value.String(uuid.NewString()),
			}
			qs := "g.V().hasLabel('" + rc.SrcLabel + "').has('id', src_id).as('src')" +
				".V().hasLabel('" + rc.DstLabel + "').has('id', dst_id).as('dst')" +
				".addE('" + rc.RelLabel + "').from('src').to('dst').property('id', rel_id)"
			if rc.Props != nil {
				for _, k := range rc.Props.Keys() {
					v, _ := rc.Props.Get(k)
					binding := "props_" + k
					qs += ".property('" + k + "', " + binding + ")"
					params[binding] = v
				}
			}
			qs += ".as('rel')" +
				".project('src', 'rel', 'dst_label', 'dst')" +
				".by(__.select('src').valueMap())" +
				".by(__.select('rel').valueMap())" +
				".by(__.select('dst').label().fold())" +
				".by(__.select('dst').valueMap())"
			t.plan = &returnPlan{kind: planRels, srcVar: "src", relVar: "rel", dstVar: "dst"}
			batch, err := t.exec(ctx, qs, partitionKey, params)
			if err != nil {
				return nil, err
			}
			rows = append(rows, batch...)
		}
	}
	return database.NewRowsResult(rows), nil
}

func (t *transaction) UpdateNodes(ctx context.Context, label string, ids value.Array, props *value.Map, partitionKey *string) (database.QueryResult, error) {
	params := map[string]value.Value{"ids": ids}
	qs := "g.V().hasLabel('" + label + "').has('id', within(ids))"
	if partitionKey != nil {
		qs += ".has('" + database.PartitionKeyParam + "', " + database.PartitionKeyParam + ")"
	}
	if props != nil {
		for _, k := range props.Keys() {
			v, _ := props.Get(k)
			binding := "props_" + k
			qs += ".property('" + k + "', " + binding + ")"
			params[binding] = v
		}
	}
	t.plan = &returnPlan{kind: planNodes, nodeVar: "n"}
	qs += ".valueMap()"
	return t.Exec(ctx, qs, partitionKey, params)
}

func (t *transaction) DeleteNodes(ctx context.Context, label string, force bool, ids value.Array, partitionKey *string) (database.QueryResult, error) {
	match := "g.V().hasLabel('" + label + "').has('id', within(ids))"
	if partitionKey != nil {
		match += ".has('" + database.PartitionKeyParam + "', " + database.PartitionKeyParam + ")"
	}
	params := map[string]value.Value{"ids": ids}

	if !force {
		t.plan = &returnPlan{kind: planCount}
		edgeRows, err := t.exec(ctx, match+".bothE().count()", partitionKey, params)
		if err != nil {
			return nil, err
		}
		edges, err := database.NewRowsResult(edgeRows).Count()
		if err != nil {
			return nil, err
		}
		if edges > 0 {
			return nil, wgerr.New(wgerr.IntegrityConstraintViolation, label)
		}
	}

	t.plan = &returnPlan{kind: planCount}
	countRows, err := t.exec(ctx, match+".count()", partitionKey, params)
	if err != nil {
		return nil, err
	}

	drop := match
	if force {
		drop += ".sideEffect(__.bothE().drop())"
	}
	t.plan = nil
	if _, err := t.exec(ctx, drop+".drop()", partitionKey, params); err != nil {
		return nil, err
	}
	return database.NewRowsResult(countRows), nil
}

func (t *transaction) DeleteRels(ctx context.Context, srcLabel, relLabel string, ids value.Array, partitionKey *string) (database.QueryResult, error) {
	match := "g.E().hasLabel('" + relLabel + "').has('id', within(ids))"
	params := map[string]value.Value{"ids": ids}

	t.plan = &returnPlan{kind: planCount}
	countRows, err := t.exec(ctx, match+".count()", partitionKey, params)
	if err != nil {
		return nil, err
	}
	t.plan = nil
	if _, err := t.exec(ctx, match+".drop()", partitionKey, params); err != nil {
		return nil, err
	}
	return database.NewRowsResult(countRows), nil
}

func (t *transaction) Commit(ctx context.Context) error {
	if t.conn == nil {
		return wgerr.New(wgerr.TransactionFinished, "")
	}
	t.finish()
	return nil
}

func (t *transaction) Rollback(ctx context.Context) error {
	if t.conn == nil {
		return wgerr.New(wgerr.TransactionFinished, "")
	}
	t.log.Warn("gremlin rollback: sessionless traversals already applied cannot be undone")
	t.finish()
	return nil
}

func (t *transaction) finish() {
	_ = t.conn.close()
	t.conn = nil
	t.limiter.Release()
}
