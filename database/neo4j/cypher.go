package neo4j

import (
	"bytes"

	"github.com/warpgraph/warpgraph/database"
	"github.com/warpgraph/warpgraph/value"
)

// The statement emitters are pure functions over the query descriptors in
// the database package. The transaction methods run them; the scripted
// transaction used by engine tests reuses them so statement assertions hold
// for the real backend.

// NodeQueryString appends a node-match fragment to q.Query. Property filters
// become a WHERE clause ANDed in insertion order, and the filter map is
// bound under q.ParamKey.
func NodeQueryString(q *database.NodeQuery) (string, error) {
	var buffer bytes.Buffer
	buffer.WriteString(q.Query)

	buffer.WriteString("MATCH (")
	buffer.WriteString(q.Var)
	if q.Label != "" {
		buffer.WriteString(":")
		buffer.WriteString(q.Label)
	}
	buffer.WriteString(")\n")

	if q.Props != nil && q.Props.Len() > 0 {
		for i, k := range q.Props.Keys() {
			if i == 0 {
				buffer.WriteString("WHERE ")
			} else {
				buffer.WriteString(" AND ")
			}
			buffer.WriteString(q.Var)
			buffer.WriteString(".")
			buffer.WriteString(k)
			buffer.WriteString("=$")
			buffer.WriteString(q.ParamKey)
			buffer.WriteString(".")
			buffer.WriteString(k)
		}
		buffer.WriteString("\n")
		q.Params[q.ParamKey] = q.Props
	}

	return buffer.String(), nil
}

// NodeReturnString emits the terminal clause for a node read.
func NodeReturnString(varName string) string {
	return "RETURN " + varName + "\n"
}

// RelQueryString appends a relationship-match fragment. An empty DstLabel
// leaves the destination unlabeled so union members can match.
func RelQueryString(q *database.RelQuery) (string, error) {
	var buffer bytes.Buffer
	buffer.WriteString(q.Query)

	buffer.WriteString("MATCH (")
	buffer.WriteString(q.SrcVar)
	buffer.WriteString(")-[")
	buffer.WriteString(q.RelVar)
	buffer.WriteString(":")
	buffer.WriteString(q.RelLabel)
	buffer.WriteString("]->(")
	buffer.WriteString(q.DstVar)
	if q.DstLabel != "" {
		buffer.WriteString(":")
		buffer.WriteString(q.DstLabel)
	}
	buffer.WriteString(")\n")

	if q.Props != nil && q.Props.Len() > 0 {
		for i, k := range q.Props.Keys() {
			if i == 0 {
				buffer.WriteString("WHERE ")
			} else {
				buffer.WriteString(" AND ")
			}
			buffer.WriteString(q.RelVar)
			buffer.WriteString(".")
			buffer.WriteString(k)
			buffer.WriteString("=$")
			buffer.WriteString(q.ParamKey)
			buffer.WriteString(".")
			buffer.WriteString(k)
		}
		buffer.WriteString("\n")
		q.Params[q.ParamKey] = q.Props
	}

	return buffer.String(), nil
}

// RelReturnString emits the terminal clause for a relationship read. The
// destination's labels ride along so union resolution can pick the concrete
// member type.
func RelReturnString(q *database.RelQuery) string {
	return "RETURN " + q.SrcVar + ", " + q.RelVar +
		", labels(" + q.DstVar + ") AS " + q.DstVar + "_label, " + q.DstVar + "\n"
}

// CreateNodeQuery emits the node-create statement. The id is assigned in the
// database so no generated identifier crosses the wire.
func CreateNodeQuery(label string) string {
	return "CREATE (n:" + label + " { id: randomUUID() })\n" +
		"SET n += $props\n" +
		"RETURN n\n"
}

// CreateRelsQuery emits the edge-create statement linking matched sources to
// matched destinations.
func CreateRelsQuery(rc *database.RelCreate) string {
	return "MATCH (src:" + rc.SrcLabel + "),(dst:" + rc.DstLabel + ")\n" +
		"WHERE src.id IN $srcids AND dst.id IN $dstids\n" +
		"CREATE (src)-[rel:" + rc.RelLabel + " { id: randomUUID() }]->(dst)\n" +
		"SET rel += $props\n" +
		"RETURN src, rel, labels(dst) AS dst_label, dst\n"
}

// UpdateNodesQuery emits the property-overlay statement for matched ids.
func UpdateNodesQuery(label string) string {
	return "MATCH (n:" + label + ")\n" +
		"WHERE n.id IN $ids\n" +
		"SET n += $props\n" +
		"RETURN n\n"
}

// DeleteNodesQuery emits the node-delete statement. force detaches incident
// edges first; without it the database rejects deleting a connected node.
func DeleteNodesQuery(label string, force bool) string {
	q := "MATCH (n:" + label + ")\n" +
		"WHERE n.id IN $ids\n"
	if force {
		q += "DETACH "
	}
	return q + "DELETE n\n" +
		"RETURN count(*) as count\n"
}

// DeleteRelsQuery emits the edge-delete statement.
func DeleteRelsQuery(srcLabel, relLabel string) string {
	return "MATCH (src:" + srcLabel + ")-[rel:" + relLabel + "]->()\n" +
		"WHERE rel.id IN $ids\n" +
		"DELETE rel\n" +
		"RETURN count(*) as count\n"
}

// EmptyProps is the parameter bound when a statement requires a property map
// and none was supplied.
func EmptyProps() *value.Map { return value.NewMap() }
