package translate

import (
	"context"

	"github.com/warpgraph/warpgraph/config"
	"github.com/warpgraph/warpgraph/database"
	"github.com/warpgraph/warpgraph/value"
	"github.com/warpgraph/warpgraph/wgerr"
)

// ReadNodes matches nodes of def's type against a filter. Scalar filters
// become equality predicates on the root match; relationship filters add
// traversal fragments with fresh variable scopes.
func (t *Translator) ReadNodes(ctx context.Context, rc *RequestContext, def *config.TypeDef, filter map[string]interface{}) ([]*database.Node, error) {
	if err := t.checkPartition(def, rc); err != nil {
		return nil, err
	}

	params := make(map[string]value.Value)
	rootVar := def.Name + rc.nextSuffix()

	qs, err := t.filterQuery(rc, def, "", rootVar, def.Name, rootVar+"params", filter, params)
	if err != nil {
		return nil, err
	}
	qs += rc.Tx.NodeReturnString(rootVar)

	qr, err := rc.Tx.Exec(ctx, qs, rc.PartitionKey(), params)
	if err != nil {
		return nil, err
	}
	return qr.Nodes(rootVar, def.Name)
}

// filterQuery appends the match fragments for one node filter: the node
// match itself, then one relationship fragment per relationship filter.
func (t *Translator) filterQuery(rc *RequestContext, def *config.TypeDef, qs, nodeVar, label, paramKey string, filter map[string]interface{}, params map[string]value.Value) (string, error) {
	props, relFilters, err := t.split(def, filter)
	if err != nil {
		return "", err
	}

	qs, err = rc.Tx.NodeQueryString(&database.NodeQuery{
		Query:    qs,
		Params:   params,
		Var:      nodeVar,
		Label:    label,
		ParamKey: paramKey,
		Props:    props,
	})
	if err != nil {
		return "", err
	}

	for _, relName := range sortedKeys(relFilters) {
		rel, err := def.Rel(relName)
		if err != nil {
			return "", err
		}
		rf, ok := relFilters[relName].(map[string]interface{})
		if !ok {
			return "", wgerr.New(wgerr.InvalidPropertyType, def.Name+"."+relName)
		}
		qs, _, err = t.relMatch(rc, def, rel, qs, nodeVar, rf, params)
		if err != nil {
			return "", err
		}
	}
	return qs, nil
}

// relMatch appends a relationship-match fragment for srcVar and recursively
// constrains the destination. It returns the RelQuery so callers that need
// the relationship rows can emit its return clause.
func (t *Translator) relMatch(rc *RequestContext, def *config.TypeDef, rel *config.RelDef, qs, srcVar string, filter map[string]interface{}, params map[string]value.Value) (string, *database.RelQuery, error) {
	relLabel := RelTypeName(def, rel)
	dstSfx := rc.nextSuffix()
	relVar := relLabel + dstSfx
	dstVar := dstVarBase(def, rel) + dstSfx

	props, err := relProps(def, rel, filter["props"])
	if err != nil {
		return "", nil, err
	}

	dstLabel := ""
	if !rel.SNMT() {
		dstLabel = rel.Nodes[0]
	}

	rq := &database.RelQuery{
		Query:    qs,
		Params:   params,
		SrcVar:   srcVar,
		RelVar:   relVar,
		RelLabel: relLabel,
		DstVar:   dstVar,
		DstLabel: dstLabel,
		ParamKey: relVar + "params",
		Props:    props,
	}
	qs, err = rc.Tx.RelQueryString(rq)
	if err != nil {
		return "", nil, err
	}

	if rawDst, ok := filter["dst"]; ok && rawDst != nil {
		dstFilter, ok := rawDst.(map[string]interface{})
		if !ok {
			return "", nil, wgerr.New(wgerr.InvalidPropertyType, def.Name+"."+rel.Name+".dst")
		}
		for _, member := range sortedKeys(dstFilter) {
			if !relHasDst(rel, member) {
				return "", nil, wgerr.New(wgerr.TypeNotFound, member)
			}
			memberDef, err := t.cfg.Type(member)
			if err != nil {
				return "", nil, err
			}
			mf, ok := dstFilter[member].(map[string]interface{})
			if !ok {
				return "", nil, wgerr.New(wgerr.InvalidPropertyType, member)
			}
			qs, err = t.filterQuery(rc, memberDef, qs, dstVar, member, dstVar+member+"params", mf, params)
			if err != nil {
				return "", nil, err
			}
		}
	}

	return qs, rq, nil
}

// ReadRels reads the relationships of one source node, optionally filtered,
// returning materialized edges with both endpoints.
func (t *Translator) ReadRels(ctx context.Context, rc *RequestContext, def *config.TypeDef, rel *config.RelDef, srcID string, filter map[string]interface{}) ([]*database.Rel, error) {
	if err := t.checkPartition(def, rc); err != nil {
		return nil, err
	}

	params := make(map[string]value.Value)
	srcVar := def.Name + rc.nextSuffix()

	srcProps := value.NewMap()
	srcProps.Set("id", value.String(srcID))
	qs, err := rc.Tx.NodeQueryString(&database.NodeQuery{
		Params:   params,
		Var:      srcVar,
		Label:    def.Name,
		ParamKey: srcVar + "params",
		Props:    srcProps,
	})
	if err != nil {
		return nil, err
	}

	if filter == nil {
		filter = map[string]interface{}{}
	}
	qs, rq, err := t.relMatch(rc, def, rel, qs, srcVar, filter, params)
	if err != nil {
		return nil, err
	}
	qs += rc.Tx.RelReturnString(rq)

	qr, err := rc.Tx.Exec(ctx, qs, rc.PartitionKey(), params)
	if err != nil {
		return nil, err
	}

	propsType := ""
	if len(rel.Props) > 0 {
		propsType = PropsTypeName(def, rel)
	}
	rels, err := qr.Rels(rq.SrcVar, def.Name, rq.RelVar, rq.RelLabel, rq.DstVar, propsType)
	if err != nil {
		return nil, err
	}

	// A destination label outside the declared set means the store does not
	// match the model.
	for _, r := range rels {
		if !relHasDst(rel, r.Dst.Type) {
			return nil, wgerr.NewDetail(wgerr.TypeNotFound, r.Dst.Type,
				"unexpected destination label for relationship "+rel.Name)
		}
	}
	return rels, nil
}

func relHasDst(rel *config.RelDef, name string) bool {
	for _, n := range rel.Nodes {
		if n == name {
			return true
		}
	}
	return false
}
