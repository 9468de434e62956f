package gremlin

import (
	"github.com/samsarahq/go/oops"
)

// GraphSON2 wraps non-string scalars in typed envelopes. These helpers
// convert between the wire form and the plain JSON shapes the rest of the
// engine works with.

// toGraphSON wraps a native value for use in request bindings.
func toGraphSON(v interface{}) interface{} {
	switch v := v.(type) {
	case int:
		return map[string]interface{}{"@type": "g:Int64", "@value": int64(v)}
	case int32:
		return map[string]interface{}{"@type": "g:Int32", "@value": v}
	case int64:
		return map[string]interface{}{"@type": "g:Int64", "@value": v}
	case float32:
		return map[string]interface{}{"@type": "g:Float", "@value": v}
	case float64:
		return map[string]interface{}{"@type": "g:Double", "@value": v}
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = toGraphSON(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, e := range v {
			out[k] = toGraphSON(e)
		}
		return out
	default:
		// nil, bool, and string ride unwrapped.
		return v
	}
}

// fromGraphSON unwraps a response value into plain JSON shapes. Graph
// elements reduce to their property maps, mirroring how the bolt backend
// reduces entities.
func fromGraphSON(v interface{}) (interface{}, error) {
	switch v := v.(type) {
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, e := range v {
			u, err := fromGraphSON(e)
			if err != nil {
				return nil, err
			}
			out[i] = u
		}
		return out, nil
	case map[string]interface{}:
		typ, ok := v["@type"].(string)
		if !ok {
			out := make(map[string]interface{}, len(v))
			for k, e := range v {
				u, err := fromGraphSON(e)
				if err != nil {
					return nil, err
				}
				out[k] = u
			}
			return out, nil
		}
		return fromTyped(typ, v["@value"])
	default:
		return v, nil
	}
}

func fromTyped(typ string, raw interface{}) (interface{}, error) {
	switch typ {
	case "g:Int32", "g:Int64":
		f, ok := raw.(float64)
		if !ok {
			return nil, oops.Errorf("graphson: %s with non-numeric value %v", typ, raw)
		}
		return int64(f), nil
	case "g:Float", "g:Double":
		f, ok := raw.(float64)
		if !ok {
			return nil, oops.Errorf("graphson: %s with non-numeric value %v", typ, raw)
		}
		return f, nil
	case "g:UUID", "g:T", "g:Direction":
		s, ok := raw.(string)
		if !ok {
			return nil, oops.Errorf("graphson: %s with non-string value %v", typ, raw)
		}
		return s, nil
	case "g:List", "g:Set":
		items, ok := raw.([]interface{})
		if !ok {
			return nil, oops.Errorf("graphson: %s with non-list value", typ)
		}
		return fromGraphSON(items)
	case "g:Map":
		// Maps serialize as a flat [k1, v1, k2, v2, ...] list.
		items, ok := raw.([]interface{})
		if !ok {
			return nil, oops.Errorf("graphson: g:Map with non-list value")
		}
		if len(items)%2 != 0 {
			return nil, oops.Errorf("graphson: g:Map with odd entry count")
		}
		out := make(map[string]interface{}, len(items)/2)
		for i := 0; i < len(items); i += 2 {
			k, err := fromGraphSON(items[i])
			if err != nil {
				return nil, err
			}
			ks, ok := k.(string)
			if !ok {
				return nil, oops.Errorf("graphson: g:Map with non-string key %v", k)
			}
			v, err := fromGraphSON(items[i+1])
			if err != nil {
				return nil, err
			}
			out[ks] = v
		}
		return out, nil
	case "g:Vertex", "g:Edge":
		return fromElement(raw)
	case "g:VertexProperty", "g:Property":
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, oops.Errorf("graphson: %s with non-object value", typ)
		}
		return fromGraphSON(m["value"])
	default:
		return nil, oops.Errorf("graphson: unsupported type %s", typ)
	}
}

// fromElement reduces a vertex or edge to its property map.
func fromElement(raw interface{}) (interface{}, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, oops.Errorf("graphson: element with non-object value")
	}
	out := make(map[string]interface{})
	props, _ := m["properties"].(map[string]interface{})
	for k, p := range props {
		v, err := fromGraphSON(p)
		if err != nil {
			return nil, err
		}
		// Vertex properties arrive as single-element lists.
		if list, ok := v.([]interface{}); ok && len(list) == 1 {
			v = list[0]
		}
		out[k] = v
	}
	return out, nil
}

// flattenValueMap unwraps the single-element lists valueMap() produces.
func flattenValueMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if list, ok := v.([]interface{}); ok && len(list) == 1 {
			out[k] = list[0]
			continue
		}
		out[k] = v
	}
	return out
}
