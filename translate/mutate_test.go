package translate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warpgraph/warpgraph/internal/scriptedtx"
	"github.com/warpgraph/warpgraph/translate"
	"github.com/warpgraph/warpgraph/value"
	"github.com/warpgraph/warpgraph/wgerr"
)

func TestCreateNodeWithNewDst(t *testing.T) {
	cfg := testConfig(t)
	project, err := cfg.Type("Project")
	require.NoError(t, err)

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
	)
	rc := translate.NewRequestContext(tx, nil)
	tr := translate.New(cfg, nil)

	node, err := tr.CreateNode(context.Background(), rc, project, map[string]interface{}{
		"name": "SPARTAN-V",
		"board": map[string]interface{}{
			"dst": map[string]interface{}{
				"KanbanBoard": map[string]interface{}{
					"NEW": map[string]interface{}{"name": "SPARTAN-V Board"},
				},
			},
		},
	})
	require.NoError(t, err)

	id, err := node.ID()
	require.NoError(t, err)
	assert.Equal(t, "p1", id)

	require.Len(t, tx.Calls, 3)
	link := tx.Calls[2]
	assert.Equal(t, value.Array{value.String("p1")}, link.Params["srcids"])
	assert.Equal(t, value.Array{value.String("k1")}, link.Params["dstids"])
}

func TestCreateNodeWithExistingDst(t *testing.T) {
	cfg := testConfig(t)
	project, err := cfg.Type("Project")
	require.NoError(t, err)

	tx := scriptedtx.New(
		scriptedtx.Step{
			Match: "CREATE (n:Project",
			Rows: []map[string]interface{}{
				{"n": map[string]interface{}{"id": "p1", "name": "SPARTAN-VI"}},
			},
		},
		scriptedtx.Step{
			Match: "MATCH (ScrumBoard0:ScrumBoard)",
			Rows: []map[string]interface{}{
				{"ScrumBoard0": map[string]interface{}{"id": "s1", "name": "SPARTAN-VI Board"}},
			},
		},
		scriptedtx.Step{
			Match: "CREATE (src)-[rel:ProjectBoardRel",
			Rows:  []map[string]interface{}{},
		},
	)
	rc := translate.NewRequestContext(tx, nil)
	tr := translate.New(cfg, nil)

	_, err = tr.CreateNode(context.Background(), rc, project, map[string]interface{}{
		"name": "SPARTAN-VI",
		"board": map[string]interface{}{
			"dst": map[string]interface{}{
				"ScrumBoard": map[string]interface{}{
					"EXISTING": map[string]interface{}{"name": "SPARTAN-VI Board"},
				},
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, tx.Calls, 3)
	assert.Equal(t, value.Array{value.String("s1")}, tx.Calls[2].Params["dstids"])
}

func TestCreateNodeRejectsClientID(t *testing.T) {
	cfg := testConfig(t)
	project, err := cfg.Type("Project")
	require.NoError(t, err)

	tx := scriptedtx.New()
	rc := translate.NewRequestContext(tx, nil)
	tr := translate.New(cfg, nil)

	_, err = tr.CreateNode(context.Background(), rc, project,
		map[string]interface{}{"id": "forged"})
	assert.Equal(t, wgerr.InvalidPropertyType, wgerr.KindOf(err))
	assert.Empty(t, tx.Calls)
}

func TestCreateNodeMissingDiscriminator(t *testing.T) {
	cfg := testConfig(t)
	project, err := cfg.Type("Project")
	require.NoError(t, err)

	tx := scriptedtx.New(scriptedtx.Step{
		Match: "CREATE (n:Project",
		Rows: []map[string]interface{}{
			{"n": map[string]interface{}{"id": "p1"}},
		},
	})
	rc := translate.NewRequestContext(tx, nil)
	tr := translate.New(cfg, nil)

	_, err = tr.CreateNode(context.Background(), rc, project, map[string]interface{}{
		"board": map[string]interface{}{
			"dst": map[string]interface{}{
				"KanbanBoard": map[string]interface{}{},
			},
		},
	})
	assert.Equal(t, wgerr.MissingProperty, wgerr.KindOf(err))
}

func TestUpdateNodesNoMatch(t *testing.T) {
	cfg := testConfig(t)
	project, err := cfg.Type("Project")
	require.NoError(t, err)

	tx := scriptedtx.New(scriptedtx.Step{Rows: []map[string]interface{}{}})
	rc := translate.NewRequestContext(tx, nil)
	tr := translate.New(cfg, nil)

	nodes, err := tr.UpdateNodes(context.Background(), rc, project,
		map[string]interface{}{"name": "NONESUCH"},
		map[string]interface{}{"name": "RENAMED"})
	require.NoError(t, err)
	assert.Empty(t, nodes)
	assert.Len(t, tx.Calls, 1, "no SET statement issued when nothing matched")
}

func TestUpdateNodesScalarDelta(t *testing.T) {
	cfg := testConfig(t)
	project, err := cfg.Type("Project")
	require.NoError(t, err)

	tx := scriptedtx.New(
		scriptedtx.Step{
			Match: "MATCH (Project0:Project)",
			Rows: []map[string]interface{}{
				{"Project0": map[string]interface{}{"id": "p1", "name": "ORION"}},
			},
		},
		scriptedtx.Step{
			Match: "SET n += $props",
			Rows: []map[string]interface{}{
				{"n": map[string]interface{}{"id": "p1", "name": "ORION-II"}},
			},
		},
	)
	rc := translate.NewRequestContext(tx, nil)
	tr := translate.New(cfg, nil)

	nodes, err := tr.UpdateNodes(context.Background(), rc, project,
		map[string]interface{}{"name": "ORION"},
		map[string]interface{}{"name": "ORION-II"})
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	name, ok := nodes[0].Fields.Get("name")
	require.True(t, ok)
	assert.Equal(t, value.String("ORION-II"), name)

	require.Len(t, tx.Calls, 2)
	assert.Equal(t, value.Array{value.String("p1")}, tx.Calls[1].Params["ids"])
}

func TestUpdateNodesAddRel(t *testing.T) {
	cfg := testConfig(t)
	project, err := cfg.Type("Project")
	require.NoError(t, err)

	tx := scriptedtx.New(
		scriptedtx.Step{
			Match: "MATCH (Project0:Project)",
			Rows: []map[string]interface{}{
				{"Project0": map[string]interface{}{"id": "p1", "name": "ORION"}},
			},
		},
		scriptedtx.Step{
			Match: "CREATE (n:KanbanBoard",
			Rows: []map[string]interface{}{
				{"n": map[string]interface{}{"id": "k1", "name": "ORION Board"}},
			},
		},
		scriptedtx.Step{
			Match: "CREATE (src)-[rel:ProjectBoardRel",
			Rows:  []map[string]interface{}{},
		},
		scriptedtx.Step{
			Match: "SET n += $props",
			Rows: []map[string]interface{}{
				{"n": map[string]interface{}{"id": "p1", "name": "ORION"}},
			},
		},
	)
	rc := translate.NewRequestContext(tx, nil)
	tr := translate.New(cfg, nil)

	nodes, err := tr.UpdateNodes(context.Background(), rc, project,
		map[string]interface{}{"name": "ORION"},
		map[string]interface{}{
			"board": map[string]interface{}{
				"ADD": map[string]interface{}{
					"dst": map[string]interface{}{
						"KanbanBoard": map[string]interface{}{
							"NEW": map[string]interface{}{"name": "ORION Board"},
						},
					},
				},
			},
		})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Len(t, tx.Calls, 4)
	assert.Equal(t, value.Array{value.String("p1")}, tx.Calls[2].Params["srcids"])
}

func TestDeleteNodes(t *testing.T) {
	cfg := testConfig(t)
	project, err := cfg.Type("Project")
	require.NoError(t, err)

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
	rc := translate.NewRequestContext(tx, nil)
	tr := translate.New(cfg, nil)

	count, err := tr.DeleteNodes(context.Background(), rc, project,
		map[string]interface{}{"name": "ORION"}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.Len(t, tx.Calls, 2)
	assert.NotContains(t, tx.Calls[1].Query, "DETACH")
}

func TestDeleteNodesForce(t *testing.T) {
	cfg := testConfig(t)
	project, err := cfg.Type("Project")
	require.NoError(t, err)

	tx := scriptedtx.New(
		scriptedtx.Step{
			Rows: []map[string]interface{}{
				{"Project0": map[string]interface{}{"id": "p1"}},
			},
		},
		scriptedtx.Step{
			Match: "DETACH DELETE n",
			Rows:  []map[string]interface{}{{"count": int64(1)}},
		},
	)
	rc := translate.NewRequestContext(tx, nil)
	tr := translate.New(cfg, nil)

	count, err := tr.DeleteNodes(context.Background(), rc, project, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeleteAfterDelete(t *testing.T) {
	cfg := testConfig(t)
	project, err := cfg.Type("Project")
	require.NoError(t, err)

	tx := scriptedtx.New(scriptedtx.Step{Rows: []map[string]interface{}{}})
	rc := translate.NewRequestContext(tx, nil)
	tr := translate.New(cfg, nil)

	count, err := tr.DeleteNodes(context.Background(), rc, project,
		map[string]interface{}{"name": "ORION"}, false)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Len(t, tx.Calls, 1, "nothing matched, nothing deleted")
}
