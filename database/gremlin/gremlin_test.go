package gremlin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warpgraph/warpgraph/database"
	"github.com/warpgraph/warpgraph/value"
)

func TestFromGraphSONScalars(t *testing.T) {
	v, err := fromGraphSON(map[string]interface{}{"@type": "g:Int64", "@value": float64(42)})
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = fromGraphSON(map[string]interface{}{"@type": "g:Double", "@value": 3.5})
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)

	v, err = fromGraphSON("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", v)

	_, err = fromGraphSON(map[string]interface{}{"@type": "g:Date", "@value": float64(0)})
	assert.Error(t, err)
}

func TestFromGraphSONMap(t *testing.T) {
	v, err := fromGraphSON(map[string]interface{}{
		"@type": "g:Map",
		"@value": []interface{}{
			"name", "SPARTAN-V",
			"points", map[string]interface{}{"@type": "g:Int64", "@value": float64(5)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "SPARTAN-V", "points": int64(5)}, v)
}

func TestFromGraphSONVertex(t *testing.T) {
	v, err := fromGraphSON(map[string]interface{}{
		"@type": "g:Vertex",
		"@value": map[string]interface{}{
			"id":    map[string]interface{}{"@type": "g:Int64", "@value": float64(1)},
			"label": "Project",
			"properties": map[string]interface{}{
				"name": []interface{}{
					map[string]interface{}{
						"@type": "g:VertexProperty",
						"@value": map[string]interface{}{
							"id":    map[string]interface{}{"@type": "g:Int64", "@value": float64(2)},
							"value": "SPARTAN-V",
							"label": "name",
						},
					},
				},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "SPARTAN-V"}, v)
}

func TestToGraphSONWrapsNumbers(t *testing.T) {
	assert.Equal(t,
		map[string]interface{}{"@type": "g:Int64", "@value": int64(5)},
		toGraphSON(int64(5)))
	assert.Equal(t, "s", toGraphSON("s"))
	assert.Equal(t, true, toGraphSON(true))
}

func TestNodeTraversalEmission(t *testing.T) {
	tx := &transaction{bound: make(map[string]bool)}

	props := value.NewMap()
	props.Set("name", value.String("SPARTAN-V"))
	params := map[string]value.Value{}

	qs, err := tx.NodeQueryString(&database.NodeQuery{
		Params:   params,
		Var:      "Project0",
		Label:    "Project",
		ParamKey: "Project0params",
		Props:    props,
	})
	require.NoError(t, err)
	assert.Equal(t,
		"g.V().hasLabel('Project').as('Project0').has('name', Project0params_name)", qs)
	assert.Equal(t, value.String("SPARTAN-V"), params["Project0params_name"])

	qs += tx.NodeReturnString("Project0")
	assert.Equal(t,
		"g.V().hasLabel('Project').as('Project0').has('name', Project0params_name)"+
			".select('Project0').valueMap()", qs)
	require.NotNil(t, tx.plan)
	assert.Equal(t, planNodes, tx.plan.kind)
}

func TestRelTraversalEmission(t *testing.T) {
	tx := &transaction{bound: make(map[string]bool)}
	params := map[string]value.Value{}

	qs, err := tx.NodeQueryString(&database.NodeQuery{
		Params:   params,
		Var:      "Project0",
		Label:    "Project",
		ParamKey: "Project0params",
	})
	require.NoError(t, err)

	rq := &database.RelQuery{
		Query:    qs,
		Params:   params,
		SrcVar:   "Project0",
		RelVar:   "ProjectBoardRel1",
		RelLabel: "ProjectBoardRel",
		DstVar:   "ProjectBoardRelDst1",
		ParamKey: "ProjectBoardRel1params",
	}
	qs, err = tx.RelQueryString(rq)
	require.NoError(t, err)
	assert.Equal(t,
		"g.V().hasLabel('Project').as('Project0')"+
			".select('Project0').outE('ProjectBoardRel').as('ProjectBoardRel1')"+
			".inV().as('ProjectBoardRelDst1')", qs)

	ret := tx.RelReturnString(rq)
	assert.Contains(t, ret, ".project('Project0', 'ProjectBoardRel1', "+
		"'ProjectBoardRelDst1_label', 'ProjectBoardRelDst1')")
	require.NotNil(t, tx.plan)
	assert.Equal(t, planRels, tx.plan.kind)
}

func TestShapeRowsNodes(t *testing.T) {
	rows, err := shapeRows(&returnPlan{kind: planNodes, nodeVar: "n"}, []interface{}{
		map[string]interface{}{"id": []interface{}{"p1"}, "name": []interface{}{"SPARTAN-V"}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t,
		map[string]interface{}{"n": map[string]interface{}{"id": "p1", "name": "SPARTAN-V"}},
		rows[0])
}

func TestShapeRowsCount(t *testing.T) {
	rows, err := shapeRows(&returnPlan{kind: planCount}, []interface{}{int64(3)})
	require.NoError(t, err)
	qr := database.NewRowsResult(rows)
	n, err := qr.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
