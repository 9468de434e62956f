package translate

import (
	"context"

	"github.com/warpgraph/warpgraph/config"
	"github.com/warpgraph/warpgraph/database"
	"github.com/warpgraph/warpgraph/value"
	"github.com/warpgraph/warpgraph/wgerr"
)

// CreateNode creates one node and recursively materializes its relationship
// inputs: NEW destinations are created and linked, EXISTING destinations are
// matched and linked.
func (t *Translator) CreateNode(ctx context.Context, rc *RequestContext, def *config.TypeDef, input map[string]interface{}) (*database.Node, error) {
	if err := t.checkPartition(def, rc); err != nil {
		return nil, err
	}

	props, relInputs, err := t.split(def, input)
	if err != nil {
		return nil, err
	}
	if _, ok := props.Get("id"); ok {
		return nil, wgerr.NewDetail(wgerr.InvalidPropertyType, "id",
			"id is assigned by the server and may not be set")
	}
	for i := range def.Props {
		p := &def.Props[i]
		if p.Default == nil {
			continue
		}
		if _, ok := props.Get(p.Name); ok {
			continue
		}
		v, err := value.FromNative(p.Default)
		if err != nil {
			return nil, wgerr.Wrap(err, wgerr.InvalidPropertyType, p.Name)
		}
		props.Set(p.Name, v)
	}

	qr, err := rc.Tx.CreateNode(ctx, def.Name, rc.PartitionKey(), props)
	if err != nil {
		return nil, err
	}
	nodes, err := qr.Nodes("n", def.Name)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, wgerr.New(wgerr.MissingResultSet, def.Name)
	}
	node := nodes[0]

	id, err := node.ID()
	if err != nil {
		return nil, err
	}
	for _, relName := range sortedKeys(relInputs) {
		rel, err := def.Rel(relName)
		if err != nil {
			return nil, err
		}
		if err := t.createRels(ctx, rc, def, rel, value.Array{value.String(id)}, relInputs[relName]); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// createRels materializes one relationship input (or a list of them) for
// the given source ids.
func (t *Translator) createRels(ctx context.Context, rc *RequestContext, def *config.TypeDef, rel *config.RelDef, srcIDs value.Array, raw interface{}) error {
	inputs, err := relInputList(def, rel, raw)
	if err != nil {
		return err
	}
	for _, input := range inputs {
		if err := t.createRel(ctx, rc, def, rel, srcIDs, input); err != nil {
			return err
		}
	}
	return nil
}

func (t *Translator) createRel(ctx context.Context, rc *RequestContext, def *config.TypeDef, rel *config.RelDef, srcIDs value.Array, input map[string]interface{}) error {
	props, err := relProps(def, rel, input["props"])
	if err != nil {
		return err
	}

	rawDst, ok := input["dst"].(map[string]interface{})
	if !ok {
		return wgerr.New(wgerr.MissingProperty, def.Name+"."+rel.Name+".dst")
	}

	for _, member := range sortedKeys(rawDst) {
		if !relHasDst(rel, member) {
			return wgerr.New(wgerr.TypeNotFound, member)
		}
		memberDef, err := t.cfg.Type(member)
		if err != nil {
			return err
		}
		action, ok := rawDst[member].(map[string]interface{})
		if !ok {
			return wgerr.New(wgerr.InvalidPropertyType, member)
		}

		var dstIDs value.Array
		switch {
		case action["NEW"] != nil:
			newInput, ok := action["NEW"].(map[string]interface{})
			if !ok {
				return wgerr.New(wgerr.InvalidPropertyType, member+".NEW")
			}
			dst, err := t.CreateNode(ctx, rc, memberDef, newInput)
			if err != nil {
				return err
			}
			id, err := dst.ID()
			if err != nil {
				return err
			}
			dstIDs = value.Array{value.String(id)}
		case action["EXISTING"] != nil:
			existing, ok := action["EXISTING"].(map[string]interface{})
			if !ok {
				return wgerr.New(wgerr.InvalidPropertyType, member+".EXISTING")
			}
			dsts, err := t.ReadNodes(ctx, rc, memberDef, existing)
			if err != nil {
				return err
			}
			dstIDs, err = nodeIDs(dsts)
			if err != nil {
				return err
			}
		default:
			return wgerr.NewDetail(wgerr.MissingProperty, member,
				"relationship destination input requires NEW or EXISTING")
		}

		if len(dstIDs) == 0 {
			continue
		}
		if _, err := rc.Tx.CreateRels(ctx, &database.RelCreate{
			SrcLabel: def.Name,
			SrcIDs:   srcIDs,
			RelLabel: RelTypeName(def, rel),
			Props:    props,
			DstLabel: member,
			DstIDs:   dstIDs,
		}, rc.PartitionKey()); err != nil {
			return err
		}
	}
	return nil
}

// UpdateNodes matches nodes by filter, applies scalar deltas and
// relationship changes, and returns the updated nodes. An empty match set
// returns empty without error.
func (t *Translator) UpdateNodes(ctx context.Context, rc *RequestContext, def *config.TypeDef, match, modify map[string]interface{}) ([]*database.Node, error) {
	if err := t.checkPartition(def, rc); err != nil {
		return nil, err
	}

	matched, err := t.ReadNodes(ctx, rc, def, match)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return []*database.Node{}, nil
	}
	ids, err := nodeIDs(matched)
	if err != nil {
		return nil, err
	}

	props, relChanges, err := t.split(def, modify)
	if err != nil {
		return nil, err
	}
	if _, ok := props.Get("id"); ok {
		return nil, wgerr.NewDetail(wgerr.InvalidPropertyType, "id", "id is immutable")
	}

	for _, relName := range sortedKeys(relChanges) {
		rel, err := def.Rel(relName)
		if err != nil {
			return nil, err
		}
		change, ok := relChanges[relName].(map[string]interface{})
		if !ok {
			return nil, wgerr.New(wgerr.InvalidPropertyType, def.Name+"."+relName)
		}
		if add := change["ADD"]; add != nil {
			if err := t.createRels(ctx, rc, def, rel, ids, add); err != nil {
				return nil, err
			}
		}
		if del := change["DELETE"]; del != nil {
			delFilter, ok := del.(map[string]interface{})
			if !ok {
				return nil, wgerr.New(wgerr.InvalidPropertyType, def.Name+"."+relName+".DELETE")
			}
			if err := t.deleteRels(ctx, rc, def, rel, ids, delFilter); err != nil {
				return nil, err
			}
		}
	}

	// The overlay runs last and doubles as the read-back of the final state,
	// so callers see relationship changes too.
	qr, err := rc.Tx.UpdateNodes(ctx, def.Name, ids, props, rc.PartitionKey())
	if err != nil {
		return nil, err
	}
	return qr.Nodes("n", def.Name)
}

// deleteRels removes the relationships of the given sources that match the
// filter.
func (t *Translator) deleteRels(ctx context.Context, rc *RequestContext, def *config.TypeDef, rel *config.RelDef, srcIDs value.Array, filter map[string]interface{}) error {
	var relIDs value.Array
	for _, srcID := range srcIDs {
		id, ok := srcID.(value.String)
		if !ok {
			return wgerr.New(wgerr.InvalidPropertyType, "id")
		}
		rels, err := t.ReadRels(ctx, rc, def, rel, string(id), filter)
		if err != nil {
			return err
		}
		for _, r := range rels {
			relIDs = append(relIDs, r.ID)
		}
	}
	if len(relIDs) == 0 {
		return nil
	}
	_, err := rc.Tx.DeleteRels(ctx, def.Name, RelTypeName(def, rel), relIDs, rc.PartitionKey())
	return err
}

// DeleteNodes deletes the nodes matching the filter and returns how many
// were removed. force detaches incident edges first.
func (t *Translator) DeleteNodes(ctx context.Context, rc *RequestContext, def *config.TypeDef, match map[string]interface{}, force bool) (int, error) {
	if err := t.checkPartition(def, rc); err != nil {
		return 0, err
	}

	matched, err := t.ReadNodes(ctx, rc, def, match)
	if err != nil {
		return 0, err
	}
	if len(matched) == 0 {
		return 0, nil
	}
	ids, err := nodeIDs(matched)
	if err != nil {
		return 0, err
	}

	qr, err := rc.Tx.DeleteNodes(ctx, def.Name, force, ids, rc.PartitionKey())
	if err != nil {
		return 0, err
	}
	return qr.Count()
}

// relInputList accepts a single relationship input or a list of them.
func relInputList(def *config.TypeDef, rel *config.RelDef, raw interface{}) ([]map[string]interface{}, error) {
	switch v := raw.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{v}, nil
	case []interface{}:
		out := make([]map[string]interface{}, 0, len(v))
		for _, e := range v {
			m, ok := e.(map[string]interface{})
			if !ok {
				return nil, wgerr.New(wgerr.InvalidPropertyType, def.Name+"."+rel.Name)
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, wgerr.New(wgerr.InvalidPropertyType, def.Name+"."+rel.Name)
	}
}
