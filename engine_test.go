package warpgraph_test

import (
	"context"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	warpgraph "github.com/warpgraph/warpgraph"
	"github.com/warpgraph/warpgraph/config"
	"github.com/warpgraph/warpgraph/internal/scriptedtx"
	"github.com/warpgraph/warpgraph/logger"
	"github.com/warpgraph/warpgraph/resolvers"
	"github.com/warpgraph/warpgraph/value"
)

const minimal = `
version: 1
model:
  - name: Project
    props:
      - name: name
        type: String
    rels:
      - name: board
        nodes:
          - KanbanBoard
          - ScrumBoard
        props:
          - name: publicized
            type: Boolean
  - name: KanbanBoard
    props:
      - name: name
        type: String
  - name: ScrumBoard
    props:
      - name: name
        type: String
`

func buildEngine(t *testing.T, doc string, res resolvers.Resolvers, txs ...*scriptedtx.Tx) (*warpgraph.Engine, *scriptedtx.Pool) {
	t.Helper()
	cfg, err := config.FromString(doc)
	require.NoError(t, err)

	pool := &scriptedtx.Pool{Txs: txs}
	eng, err := warpgraph.New(cfg, scriptedtx.Endpoint{P: pool}).
		WithResolvers(res).
		WithLogger(logger.Nop()).
		Build(context.Background())
	require.NoError(t, err)
	return eng, pool
}

// Creating a node with an SNMT relationship to a NEW destination returns the
// relationship with the concrete destination type resolved from its label.
func TestCreateWithNewSNMTDst(t *testing.T) {
	tx := scriptedtx.New(
		scriptedtx.Step{
			Match: "CREATE (n:Project",
			Rows: []map[string]interface{}{
				{"n": map[string]interface{}{"id": "p1", "name": "SPARTAN-V"}},
			},
		},
		scriptedtx.Step{
			Match: "CREATE (n:KanbanBoard",
			Rows: []map[string]interface{}{
				{"n": map[string]interface{}{"id": "k1", "name": "SPARTAN-V Board"}},
			},
		},
		scriptedtx.Step{
			Match: "CREATE (src)-[rel:ProjectBoardRel",
			Rows:  []map[string]interface{}{},
		},
		scriptedtx.Step{
			Match: "MATCH (Project0)-[ProjectBoardRel1:ProjectBoardRel]->(ProjectBoardRelDst1)",
			Rows: []map[string]interface{}{
				{
					"Project0":                  map[string]interface{}{"id": "p1", "name": "SPARTAN-V"},
					"ProjectBoardRel1":          map[string]interface{}{"id": "r1"},
					"ProjectBoardRelDst1_label": []interface{}{"KanbanBoard"},
					"ProjectBoardRelDst1":       map[string]interface{}{"id": "k1", "name": "SPARTAN-V Board"},
				},
			},
		},
	)
	eng, _ := buildEngine(t, minimal, nil, tx)

	resp := eng.Execute(context.Background(), &warpgraph.Request{
		Query: `mutation {
			ProjectCreate(input: {
				name: "SPARTAN-V",
				board: { dst: { KanbanBoard: { NEW: { name: "SPARTAN-V Board" } } } }
			}) {
				id
				name
				board {
					__typename
					dst {
						... on KanbanBoard { __typename id name }
					}
				}
			}
		}`,
	}, nil)

	require.Empty(t, resp.Errors)
	assert.True(t, tx.Committed)

	expected := map[string]interface{}{
		"ProjectCreate": map[string]interface{}{
			"id":   "p1",
			"name": "SPARTAN-V",
			"board": map[string]interface{}{
				"__typename": "ProjectBoardRel",
				"dst": map[string]interface{}{
					"__typename": "KanbanBoard",
					"id":         "k1",
					"name":       "SPARTAN-V Board",
				},
			},
		},
	}
	if diff := pretty.Compare(expected, resp.Data); diff != "" {
		t.Errorf("unexpected response: %s", diff)
	}
}

// Reading with a relationship property filter only returns matching sources.
func TestReadFilteredByRelProps(t *testing.T) {
	tx := scriptedtx.New(
		scriptedtx.Step{
			Match: "WHERE ProjectBoardRel1.publicized=$ProjectBoardRel1params.publicized",
			Rows: []map[string]interface{}{
				{"Project0": map[string]interface{}{"id": "p2", "name": "SPARTAN"}},
			},
		},
	)
	eng, _ := buildEngine(t, minimal, nil, tx)

	resp := eng.Execute(context.Background(), &warpgraph.Request{
		Query: `query {
			Project(input: { board: { props: { publicized: true } } }) { name }
		}`,
	}, nil)

	require.Empty(t, resp.Errors)
	data := resp.Data.(map[string]interface{})
	projects := data["Project"].([]interface{})
	require.Len(t, projects, 1)
	assert.Equal(t, "SPARTAN",
		projects[0].(map[string]interface{})["name"])
}

// A delete without force returns the count reported by the store and
// commits.
func TestDeleteReturnsCount(t *testing.T) {
	tx := scriptedtx.New(
		scriptedtx.Step{
			Match: "MATCH (Project0:Project)",
			Rows: []map[string]interface{}{
				{"Project0": map[string]interface{}{"id": "p1", "name": "ORION"}},
			},
		},
		scriptedtx.Step{
			Match: "DELETE n",
			Rows:  []map[string]interface{}{{"count": int64(1)}},
		},
	)
	eng, _ := buildEngine(t, minimal, nil, tx)

	resp := eng.Execute(context.Background(), &warpgraph.Request{
		Query: `mutation { ProjectDelete(input: { match: { name: "ORION" } }) }`,
	}, nil)

	require.Empty(t, resp.Errors)
	data := resp.Data.(map[string]interface{})
	assert.EqualValues(t, 1, data["ProjectDelete"])
	assert.True(t, tx.Committed)
}

// A custom endpoint resolver creates a node through the facade and hands it
// back to the selection walker.
func TestCustomEndpoint(t *testing.T) {
	doc := `
version: 1
model:
  - name: Issue
    props:
      - name: name
        type: String
      - name: points
        type: Int
endpoints:
  - name: TopIssue
    class: Query
    output:
      type: Issue
`
	res := resolvers.Resolvers{
		"TopIssue": func(f *resolvers.Facade) (interface{}, error) {
			n, err := f.CreateNode("Issue", map[string]interface{}{
				"name":   "Learn more Go",
				"points": 5,
			})
			if err != nil {
				return nil, err
			}
			return f.ResolveNode(n)
		},
	}

	tx := scriptedtx.New(scriptedtx.Step{
		Match: "CREATE (n:Issue",
		Rows: []map[string]interface{}{
			{"n": map[string]interface{}{"id": "i1", "name": "Learn more Go", "points": int64(5)}},
		},
	})
	eng, _ := buildEngine(t, doc, res, tx)

	resp := eng.Execute(context.Background(), &warpgraph.Request{
		Query: `query { TopIssue { name points } }`,
	}, map[string]string{"sub": "user-1"})

	require.Empty(t, resp.Errors)
	data := resp.Data.(map[string]interface{})
	issue := data["TopIssue"].(map[string]interface{})
	assert.Equal(t, "Learn more Go", issue["name"])
	assert.EqualValues(t, 5, issue["points"])

	created, ok := tx.Calls[0].Params["props"].(*value.Map)
	require.True(t, ok)
	points, ok := created.Get("points")
	require.True(t, ok)
	assert.Equal(t, value.Int(5), points)
}

// Requests against a type that requires a partition key fail without one and
// roll the transaction back.
func TestPartitionKeyEnforcement(t *testing.T) {
	doc := `
version: 1
model:
  - name: Tenant
    partition_key_required: true
    props:
      - name: name
        type: String
`
	tx := scriptedtx.New()
	eng, _ := buildEngine(t, doc, nil, tx)

	resp := eng.Execute(context.Background(), &warpgraph.Request{
		Query: `query { Tenant { id } }`,
	}, nil)

	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0].Message, "PartitionKeyRequired")
	assert.True(t, tx.RolledBack)
	assert.False(t, tx.Committed)
}

func TestPartitionKeyBound(t *testing.T) {
	doc := `
version: 1
model:
  - name: Tenant
    partition_key_required: true
    props:
      - name: name
        type: String
`
	tx := scriptedtx.New(scriptedtx.Step{
		Rows: []map[string]interface{}{
			{"Tenant0": map[string]interface{}{"id": "t1", "name": "ACME"}},
		},
	})
	eng, _ := buildEngine(t, doc, nil, tx)

	resp := eng.Execute(context.Background(), &warpgraph.Request{
		Query: `query { Tenant(partitionKey: "1234") { id name } }`,
	}, nil)

	require.Empty(t, resp.Errors)
	require.Len(t, tx.Calls, 1)
	require.NotNil(t, tx.Calls[0].PartitionKey)
	assert.Equal(t, "1234", *tx.Calls[0].PartitionKey)
	assert.True(t, tx.Committed)
}

// A failed request rolls the transaction back.
func TestErrorRollsBack(t *testing.T) {
	tx := scriptedtx.New() // any statement is unexpected and errors
	eng, _ := buildEngine(t, minimal, nil, tx)

	resp := eng.Execute(context.Background(), &warpgraph.Request{
		Query: `query { Project { id } }`,
	}, nil)

	require.NotEmpty(t, resp.Errors)
	assert.True(t, tx.RolledBack)
}
