package database

import (
	"github.com/warpgraph/warpgraph/value"
	"github.com/warpgraph/warpgraph/wgerr"
)

const missingIDHint = "This is likely because a custom resolver created a node or rel without an id field."

// Node is a materialized vertex: a type label and its property values.
// Nodes are created only through the translator's create path or a custom
// resolver; id is assigned at creation and immutable.
type Node struct {
	Type   string
	Fields *value.Map
}

// NewNode creates a node value.
func NewNode(typ string, fields *value.Map) *Node {
	if fields == nil {
		fields = value.NewMap()
	}
	return &Node{Type: typ, Fields: fields}
}

// ID returns the node's server-assigned id.
func (n *Node) ID() (string, error) {
	v, ok := n.Fields.Get("id")
	if !ok {
		return "", wgerr.NewDetail(wgerr.MissingProperty, "id", missingIDHint)
	}
	switch id := v.(type) {
	case value.String:
		return string(id), nil
	case value.UUID:
		return id.Native().(string), nil
	default:
		return "", wgerr.New(wgerr.InvalidPropertyType, "id")
	}
}

// Rel is a materialized edge. Src and Dst carry the endpoint nodes; Props is
// the optional edge property bag, typed like a node.
type Rel struct {
	Type  string
	ID    value.Value
	Src   *Node
	Dst   *Node
	Props *Node
}

// NewRel creates a relationship value.
func NewRel(typ string, id value.Value, src, dst, props *Node) *Rel {
	return &Rel{Type: typ, ID: id, Src: src, Dst: dst, Props: props}
}
