package neo4j

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warpgraph/warpgraph/database"
	"github.com/warpgraph/warpgraph/value"
)

func props(pairs ...interface{}) *value.Map {
	m := value.NewMap()
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1].(value.Value))
	}
	return m
}

func TestCreateNodeQuery(t *testing.T) {
	assert.Equal(t,
		"CREATE (n:Project { id: randomUUID() })\n"+
			"SET n += $props\n"+
			"RETURN n\n",
		CreateNodeQuery("Project"))
}

func TestDeleteNodesQuery(t *testing.T) {
	assert.Equal(t,
		"MATCH (n:Project)\n"+
			"WHERE n.id IN $ids\n"+
			"DELETE n\n"+
			"RETURN count(*) as count\n",
		DeleteNodesQuery("Project", false))

	assert.Equal(t,
		"MATCH (n:Project)\n"+
			"WHERE n.id IN $ids\n"+
			"DETACH DELETE n\n"+
			"RETURN count(*) as count\n",
		DeleteNodesQuery("Project", true))
}

func TestUpdateNodesQuery(t *testing.T) {
	assert.Equal(t,
		"MATCH (n:Project)\n"+
			"WHERE n.id IN $ids\n"+
			"SET n += $props\n"+
			"RETURN n\n",
		UpdateNodesQuery("Project"))
}

func TestCreateRelsQuery(t *testing.T) {
	assert.Equal(t,
		"MATCH (src:Project),(dst:KanbanBoard)\n"+
			"WHERE src.id IN $srcids AND dst.id IN $dstids\n"+
			"CREATE (src)-[rel:ProjectBoardRel { id: randomUUID() }]->(dst)\n"+
			"SET rel += $props\n"+
			"RETURN src, rel, labels(dst) AS dst_label, dst\n",
		CreateRelsQuery(&database.RelCreate{
			SrcLabel: "Project",
			RelLabel: "ProjectBoardRel",
			DstLabel: "KanbanBoard",
		}))
}

func TestDeleteRelsQuery(t *testing.T) {
	assert.Equal(t,
		"MATCH (src:Project)-[rel:ProjectBoardRel]->()\n"+
			"WHERE rel.id IN $ids\n"+
			"DELETE rel\n"+
			"RETURN count(*) as count\n",
		DeleteRelsQuery("Project", "ProjectBoardRel"))
}

func TestNodeQueryString(t *testing.T) {
	params := map[string]value.Value{}
	qs, err := NodeQueryString(&database.NodeQuery{
		Params:   params,
		Var:      "Project0",
		Label:    "Project",
		ParamKey: "Project0params",
		Props:    props("name", value.String("SPARTAN-V"), "active", value.Bool(true)),
	})
	require.NoError(t, err)
	assert.Equal(t,
		"MATCH (Project0:Project)\n"+
			"WHERE Project0.name=$Project0params.name AND Project0.active=$Project0params.active\n",
		qs)
	assert.Contains(t, params, "Project0params")
}

func TestNodeQueryStringUnlabeled(t *testing.T) {
	params := map[string]value.Value{}
	qs, err := NodeQueryString(&database.NodeQuery{
		Params:   params,
		Var:      "ProjectBoardRelDst1",
		ParamKey: "ProjectBoardRelDst1params",
	})
	require.NoError(t, err)
	assert.Equal(t, "MATCH (ProjectBoardRelDst1)\n", qs)
	assert.Empty(t, params, "no filters binds no parameters")
}

func TestNodeReturnString(t *testing.T) {
	assert.Equal(t, "RETURN Project0\n", NodeReturnString("Project0"))
}

func TestRelQueryString(t *testing.T) {
	params := map[string]value.Value{}
	rq := &database.RelQuery{
		Params:   params,
		SrcVar:   "Project0",
		RelVar:   "ProjectBoardRel1",
		RelLabel: "ProjectBoardRel",
		DstVar:   "ProjectBoardRelDst1",
		ParamKey: "ProjectBoardRel1params",
		Props:    props("publicized", value.Bool(true)),
	}
	qs, err := RelQueryString(rq)
	require.NoError(t, err)
	assert.Equal(t,
		"MATCH (Project0)-[ProjectBoardRel1:ProjectBoardRel]->(ProjectBoardRelDst1)\n"+
			"WHERE ProjectBoardRel1.publicized=$ProjectBoardRel1params.publicized\n",
		qs)
	assert.Contains(t, params, "ProjectBoardRel1params")

	assert.Equal(t,
		"RETURN Project0, ProjectBoardRel1, "+
			"labels(ProjectBoardRelDst1) AS ProjectBoardRelDst1_label, ProjectBoardRelDst1\n",
		RelReturnString(rq))
}

func TestRelQueryStringLabeledDst(t *testing.T) {
	qs, err := RelQueryString(&database.RelQuery{
		Params:   map[string]value.Value{},
		SrcVar:   "Project0",
		RelVar:   "ProjectOwnerRel1",
		RelLabel: "ProjectOwnerRel",
		DstVar:   "User1",
		DstLabel: "User",
		ParamKey: "ProjectOwnerRel1params",
	})
	require.NoError(t, err)
	assert.Equal(t,
		"MATCH (Project0)-[ProjectOwnerRel1:ProjectOwnerRel]->(User1:User)\n", qs)
}
