// Package database defines the backend-agnostic contracts the query
// translator executes against: an Endpoint that builds a connection Pool, a
// Transaction that runs parameterized statements, and a QueryResult that
// materializes rows into nodes and relationships.
package database

import (
	"context"

	"github.com/warpgraph/warpgraph/value"
)

// PartitionKeyParam is the statement parameter name the partition key is
// bound under when one is present. Backends without partitioning ignore it.
const PartitionKeyParam = "partitionKey"

// Endpoint describes how to reach a database and builds its pool.
type Endpoint interface {
	Pool(ctx context.Context) (Pool, error)
}

// Pool hands out one transaction per request. Capacity is bounded; waiters
// are served in FIFO order.
type Pool interface {
	Begin(ctx context.Context) (Transaction, error)
	Close(ctx context.Context) error
}

// NodeQuery describes one node-match fragment for a Transaction's query
// string emitter.
type NodeQuery struct {
	// Query is the statement built so far; the emitter appends to it.
	Query string

	// Params receives bind parameters keyed by ParamKey.
	Params map[string]value.Value

	// Var is the statement variable for the matched node, e.g. "Project0".
	Var string

	// Label is the node label to constrain the match with. Empty emits an
	// unlabeled match, used for union-typed destinations.
	Label string

	// ParamKey names the parameter map the property filters bind under,
	// e.g. "Project0params".
	ParamKey string

	// Props are equality filters, ANDed in insertion order.
	Props *value.Map
}

// RelQuery describes one relationship-match fragment.
type RelQuery struct {
	Query  string
	Params map[string]value.Value

	// SrcVar is the already-matched source node variable.
	SrcVar string

	// RelVar is the statement variable for the edge,
	// e.g. "ProjectBoardRel01".
	RelVar string

	// RelLabel is the edge type, e.g. "ProjectBoardRel".
	RelLabel string

	// DstVar is the statement variable for the destination node. DstLabel
	// constrains it; empty DstLabel emits an unlabeled match for
	// union-typed destinations.
	DstVar   string
	DstLabel string

	// ParamKey names the parameter map edge property filters bind under.
	ParamKey string

	// Props are equality filters on edge properties.
	Props *value.Map
}

// RelCreate describes edges to create between already-identified nodes.
type RelCreate struct {
	SrcLabel string
	SrcIDs   value.Array
	RelLabel string
	Props    *value.Map
	DstLabel string
	DstIDs   value.Array
}

// Transaction is the unit of statement execution. A transaction commits at
// most once; after Commit or Rollback every operation fails with
// TransactionFinished.
type Transaction interface {
	// Exec runs a fully-formed statement. A non-nil partition key is bound
	// under PartitionKeyParam.
	Exec(ctx context.Context, query string, partitionKey *string, params map[string]value.Value) (QueryResult, error)

	// CreateNode creates one node with a server-assigned id and the given
	// properties, returning it under result name "n".
	CreateNode(ctx context.Context, label string, partitionKey *string, props *value.Map) (QueryResult, error)

	// CreateRels links sources to destinations, assigning each edge an id,
	// returning rows under names "src", "rel", "dst".
	CreateRels(ctx context.Context, rc *RelCreate, partitionKey *string) (QueryResult, error)

	// UpdateNodes overlays props onto the nodes with the given ids,
	// returning the updated nodes under result name "n".
	UpdateNodes(ctx context.Context, label string, ids value.Array, props *value.Map, partitionKey *string) (QueryResult, error)

	// DeleteNodes deletes the nodes with the given ids and returns the
	// deleted count. force also detaches incident edges.
	DeleteNodes(ctx context.Context, label string, force bool, ids value.Array, partitionKey *string) (QueryResult, error)

	// DeleteRels deletes the edges with the given ids and returns the
	// deleted count.
	DeleteRels(ctx context.Context, srcLabel, relLabel string, ids value.Array, partitionKey *string) (QueryResult, error)

	// NodeQueryString appends a node-match fragment to q.Query and binds
	// its filters into q.Params.
	NodeQueryString(q *NodeQuery) (string, error)

	// NodeReturnString emits the terminal clause returning the named node
	// variable.
	NodeReturnString(varName string) string

	// RelQueryString appends a relationship-match fragment.
	RelQueryString(q *RelQuery) (string, error)

	// RelReturnString emits the terminal clause returning source, edge,
	// destination labels, and destination for q.
	RelReturnString(q *RelQuery) string

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// QueryResult materializes statement rows.
type QueryResult interface {
	// Nodes returns one Node of the given type per row from the named
	// result column.
	Nodes(name, typ string) ([]*Node, error)

	// Rels assembles one Rel per row. The destination's concrete type is
	// read from the label column named dstVar+"_label"; propsType, when
	// non-empty, types the edge property bag.
	Rels(srcVar, srcType, relVar, relType, dstVar, propsType string) ([]*Rel, error)

	// IDs extracts the id property of the named result column's rows.
	IDs(name string) ([]value.Value, error)

	// Count reads the "count" column of the first row.
	Count() (int, error)

	// Len is the number of rows in the result.
	Len() int
}
