// Package scriptedtx provides a scripted Transaction for engine and
// translator tests. It emits real Cypher through the neo4j emitters and
// plays back canned rows, recording every statement for assertions.
package scriptedtx

import (
	"context"
	"strings"

	"github.com/samsarahq/go/oops"

	"github.com/warpgraph/warpgraph/database"
	"github.com/warpgraph/warpgraph/database/neo4j"
	"github.com/warpgraph/warpgraph/value"
	"github.com/warpgraph/warpgraph/wgerr"
)

// Call records one executed statement.
type Call struct {
	Query        string
	Params       map[string]value.Value
	PartitionKey *string
}

// Step is one scripted response. Match, when non-empty, must be a substring
// of the executed statement; a mismatch fails the test loudly.
type Step struct {
	Match string
	Rows  []map[string]interface{}
	Err   error
}

// Tx is a scripted transaction.
type Tx struct {
	Steps []Step
	Calls []Call

	step       int
	Committed  bool
	RolledBack bool
}

var _ database.Transaction = &Tx{}

// New creates a scripted transaction.
func New(steps ...Step) *Tx {
	return &Tx{Steps: steps}
}

func (t *Tx) finished() bool { return t.Committed || t.RolledBack }

func (t *Tx) Exec(ctx context.Context, query string, partitionKey *string, params map[string]value.Value) (database.QueryResult, error) {
	if t.finished() {
		return nil, wgerr.New(wgerr.TransactionFinished, "")
	}
	t.Calls = append(t.Calls, Call{Query: query, Params: params, PartitionKey: partitionKey})

	if t.step >= len(t.Steps) {
		return nil, oops.Errorf("scriptedtx: unexpected statement %q", query)
	}
	st := t.Steps[t.step]
	t.step++

	if st.Match != "" && !strings.Contains(query, st.Match) {
		return nil, oops.Errorf("scriptedtx: statement %q does not contain %q", query, st.Match)
	}
	if st.Err != nil {
		return nil, st.Err
	}
	return database.NewRowsResult(st.Rows), nil
}

func (t *Tx) CreateNode(ctx context.Context, label string, partitionKey *string, props *value.Map) (database.QueryResult, error) {
	if props == nil {
		props = value.NewMap()
	}
	return t.Exec(ctx, neo4j.CreateNodeQuery(label), partitionKey,
		map[string]value.Value{"props": props})
}

func (t *Tx) CreateRels(ctx context.Context, rc *database.RelCreate, partitionKey *string) (database.QueryResult, error) {
	props := rc.Props
	if props == nil {
		props = value.NewMap()
	}
	return t.Exec(ctx, neo4j.CreateRelsQuery(rc), partitionKey, map[string]value.Value{
		"srcids": rc.SrcIDs,
		"dstids": rc.DstIDs,
		"props":  props,
	})
}

func (t *Tx) UpdateNodes(ctx context.Context, label string, ids value.Array, props *value.Map, partitionKey *string) (database.QueryResult, error) {
	if props == nil {
		props = value.NewMap()
	}
	return t.Exec(ctx, neo4j.UpdateNodesQuery(label), partitionKey, map[string]value.Value{
		"ids":   ids,
		"props": props,
	})
}

func (t *Tx) DeleteNodes(ctx context.Context, label string, force bool, ids value.Array, partitionKey *string) (database.QueryResult, error) {
	return t.Exec(ctx, neo4j.DeleteNodesQuery(label, force), partitionKey,
		map[string]value.Value{"ids": ids})
}

func (t *Tx) DeleteRels(ctx context.Context, srcLabel, relLabel string, ids value.Array, partitionKey *string) (database.QueryResult, error) {
	return t.Exec(ctx, neo4j.DeleteRelsQuery(srcLabel, relLabel), partitionKey,
		map[string]value.Value{"ids": ids})
}

func (t *Tx) NodeQueryString(q *database.NodeQuery) (string, error) {
	return neo4j.NodeQueryString(q)
}

func (t *Tx) NodeReturnString(varName string) string {
	return neo4j.NodeReturnString(varName)
}

func (t *Tx) RelQueryString(q *database.RelQuery) (string, error) {
	return neo4j.RelQueryString(q)
}

func (t *Tx) RelReturnString(q *database.RelQuery) string {
	return neo4j.RelReturnString(q)
}

func (t *Tx) Commit(ctx context.Context) error {
	if t.finished() {
		return wgerr.New(wgerr.TransactionFinished, "")
	}
	t.Committed = true
	return nil
}

func (t *Tx) Rollback(ctx context.Context) error {
	if t.finished() {
		return wgerr.New(wgerr.TransactionFinished, "")
	}
	t.RolledBack = true
	return nil
}

// Pool hands out scripted transactions in order, one per Begin.
type Pool struct {
	Txs    []*Tx
	Closed bool

	next int
}

var _ database.Pool = &Pool{}

func (p *Pool) Begin(ctx context.Context) (database.Transaction, error) {
	if p.next >= len(p.Txs) {
		return nil, oops.Errorf("scriptedtx: no transaction scripted for request %d", p.next)
	}
	tx := p.Txs[p.next]
	p.next++
	return tx, nil
}

func (p *Pool) Close(ctx context.Context) error {
	p.Closed = true
	return nil
}

// Endpoint wraps a Pool as a database.Endpoint.
type Endpoint struct {
	P *Pool
}

var _ database.Endpoint = Endpoint{}

func (e Endpoint) Pool(ctx context.Context) (database.Pool, error) {
	return e.P, nil
}
