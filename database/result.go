package database

import (
	"github.com/samsarahq/go/oops"

	"github.com/warpgraph/warpgraph/value"
	"github.com/warpgraph/warpgraph/wgerr"
)

// RowsResult is a QueryResult over rows of named columns in wire-JSON form.
// Node and edge columns hold property maps; label columns hold string
// arrays. Both backends reduce their driver results to this shape, which
// keeps result materialization observationally identical across them.
type RowsResult struct {
	rows []map[string]interface{}
}

// NewRowsResult wraps raw rows.
func NewRowsResult(rows []map[string]interface{}) *RowsResult {
	return &RowsResult{rows: rows}
}

var _ QueryResult = &RowsResult{}

// Nodes returns one Node of type typ per row from column name.
func (r *RowsResult) Nodes(name, typ string) ([]*Node, error) {
	out := make([]*Node, 0, len(r.rows))
	for _, row := range r.rows {
		fields, err := rowFields(row, name)
		if err != nil {
			return nil, err
		}
		out = append(out, NewNode(typ, fields))
	}
	return out, nil
}

// Rels assembles one Rel per row. The destination type comes from the first
// element of the dstVar+"_label" column.
func (r *RowsResult) Rels(srcVar, srcType, relVar, relType, dstVar, propsType string) ([]*Rel, error) {
	out := make([]*Rel, 0, len(r.rows))
	for _, row := range r.rows {
		labelCol := dstVar + "_label"
		labels, ok := row[labelCol].([]interface{})
		if !ok {
			return nil, wgerr.New(wgerr.InvalidPropertyType, labelCol)
		}
		if len(labels) == 0 {
			return nil, wgerr.New(wgerr.MissingResultElement, labelCol)
		}
		dstType, ok := labels[0].(string)
		if !ok {
			return nil, wgerr.New(wgerr.InvalidPropertyType, labelCol)
		}

		srcFields, err := rowFields(row, srcVar)
		if err != nil {
			return nil, err
		}
		dstFields, err := rowFields(row, dstVar)
		if err != nil {
			return nil, err
		}
		relFields, err := rowFields(row, relVar)
		if err != nil {
			return nil, err
		}

		id, ok := relFields.Get("id")
		if !ok {
			return nil, wgerr.New(wgerr.MissingResultElement, "id")
		}

		var props *Node
		if propsType != "" {
			props = NewNode(propsType, relFields)
		}

		out = append(out, NewRel(relType, id,
			NewNode(srcType, srcFields), NewNode(dstType, dstFields), props))
	}
	return out, nil
}

// IDs extracts the id property from each row of column name.
func (r *RowsResult) IDs(name string) ([]value.Value, error) {
	out := make([]value.Value, 0, len(r.rows))
	for _, row := range r.rows {
		fields, err := rowFields(row, name)
		if err != nil {
			return nil, err
		}
		v, ok := fields.Get("id")
		if !ok {
			return nil, wgerr.NewDetail(wgerr.MissingProperty, "id", missingIDHint)
		}
		if _, ok := v.(value.String); !ok {
			return nil, wgerr.New(wgerr.InvalidPropertyType, "id")
		}
		out = append(out, v)
	}
	return out, nil
}

// Count reads the "count" column of the first row.
func (r *RowsResult) Count() (int, error) {
	if len(r.rows) == 0 {
		return 0, wgerr.New(wgerr.MissingResultSet, "")
	}
	v, ok := r.rows[0]["count"]
	if !ok {
		return 0, wgerr.New(wgerr.MissingResultElement, "count")
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, wgerr.New(wgerr.InvalidPropertyType, "int")
	}
}

// Len is the row count.
func (r *RowsResult) Len() int { return len(r.rows) }

func rowFields(row map[string]interface{}, name string) (*value.Map, error) {
	raw, ok := row[name]
	if !ok {
		return nil, wgerr.New(wgerr.MissingResultElement, name)
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, wgerr.New(wgerr.InvalidPropertyType, name)
	}
	fields, err := value.FromNativeMap(m)
	if err != nil {
		return nil, oops.Wrapf(err, "column %s", name)
	}
	return fields, nil
}
