package schema

import (
	"github.com/graphql-go/graphql"

	"github.com/warpgraph/warpgraph/config"
	"github.com/warpgraph/warpgraph/database"
	"github.com/warpgraph/warpgraph/resolvers"
	"github.com/warpgraph/warpgraph/translate"
	"github.com/warpgraph/warpgraph/wgerr"
)

// registerNodeObject creates the object type for a TypeDef. Fields are a
// thunk so relationship fields can reference objects registered later.
func (b *Builder) registerNodeObject(def *config.TypeDef) {
	obj := graphql.NewObject(graphql.ObjectConfig{
		Name: def.Name,
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			fields := graphql.Fields{
				"id": &graphql.Field{
					Type:    graphql.NewNonNull(graphql.ID),
					Resolve: b.nodeScalarResolver(def, nil),
				},
			}
			for i := range def.Props {
				p := &def.Props[i]
				fields[p.Name] = &graphql.Field{
					Type:    propOutputType(p),
					Resolve: b.nodeScalarResolver(def, p),
				}
			}
			for i := range def.Rels {
				rel := &def.Rels[i]
				relObj := b.objects[translate.RelTypeName(def, rel)]
				var typ graphql.Output = relObj
				if rel.List {
					typ = graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(relObj)))
				}
				fields[rel.Name] = &graphql.Field{
					Type:    typ,
					Resolve: b.relFieldResolver(def, rel),
				}
			}
			return fields
		}),
	})
	b.objects[def.Name] = obj
}

// registerRelTypes creates the relationship object, its destination union
// for SNMT relationships, and the edge property bag object.
func (b *Builder) registerRelTypes(def *config.TypeDef, rel *config.RelDef) {
	relName := translate.RelTypeName(def, rel)

	if rel.SNMT() {
		unionName := translate.UnionTypeName(def, rel)
		members := make([]*graphql.Object, 0, len(rel.Nodes))
		for _, m := range rel.Nodes {
			members = append(members, b.objects[m])
		}
		b.unions[unionName] = graphql.NewUnion(graphql.UnionConfig{
			Name:  unionName,
			Types: members,
			ResolveType: func(p graphql.ResolveTypeParams) *graphql.Object {
				if n, ok := p.Value.(*database.Node); ok {
					return b.objects[n.Type]
				}
				return nil
			},
		})
	}

	if len(rel.Props) > 0 {
		propsName := translate.PropsTypeName(def, rel)
		props := rel.Props
		b.objects[propsName] = graphql.NewObject(graphql.ObjectConfig{
			Name: propsName,
			Fields: graphql.FieldsThunk(func() graphql.Fields {
				fields := graphql.Fields{}
				for i := range props {
					p := &props[i]
					fields[p.Name] = &graphql.Field{
						Type:    propOutputType(p),
						Resolve: propBagResolver(p.Name),
					}
				}
				return fields
			}),
		})
	}

	b.objects[relName] = graphql.NewObject(graphql.ObjectConfig{
		Name: relName,
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			fields := graphql.Fields{
				"id": &graphql.Field{
					Type: graphql.NewNonNull(graphql.ID),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						r, ok := p.Source.(*database.Rel)
						if !ok {
							return nil, wgerr.New(wgerr.InvalidPropertyType, "id")
						}
						return r.ID.Native(), nil
					},
				},
				"src": &graphql.Field{
					Type: graphql.NewNonNull(b.objects[def.Name]),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						r, ok := p.Source.(*database.Rel)
						if !ok {
							return nil, wgerr.New(wgerr.InvalidPropertyType, "src")
						}
						return r.Src, nil
					},
				},
				"dst": &graphql.Field{
					Type: graphql.NewNonNull(b.dstType(def, rel)),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						r, ok := p.Source.(*database.Rel)
						if !ok {
							return nil, wgerr.New(wgerr.InvalidPropertyType, "dst")
						}
						return r.Dst, nil
					},
				},
			}
			if len(rel.Props) > 0 {
				fields["props"] = &graphql.Field{
					Type: b.objects[translate.PropsTypeName(def, rel)],
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						r, ok := p.Source.(*database.Rel)
						if !ok {
							return nil, wgerr.New(wgerr.InvalidPropertyType, "props")
						}
						return r.Props, nil
					},
				}
			}
			return fields
		}),
	})
}

// dstType is the union for SNMT relationships, the destination object
// otherwise.
func (b *Builder) dstType(def *config.TypeDef, rel *config.RelDef) graphql.Output {
	if rel.SNMT() {
		return b.unions[translate.UnionTypeName(def, rel)]
	}
	return b.objects[rel.Nodes[0]]
}

// nodeScalarResolver reads a scalar off a materialized node, dispatching to
// a registered custom property resolver when the model declares one. A nil
// prop resolves the reserved id field.
func (b *Builder) nodeScalarResolver(def *config.TypeDef, prop *config.PropDef) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		n, ok := p.Source.(*database.Node)
		if !ok {
			return nil, wgerr.New(wgerr.InvalidPropertyType, def.Name)
		}

		if prop == nil {
			id, err := n.ID()
			if err != nil {
				return nil, err
			}
			return id, nil
		}

		if prop.Resolver != "" {
			rc, err := translate.FromContext(p.Context)
			if err != nil {
				return nil, err
			}
			fn := b.res[prop.Resolver]
			return fn(resolvers.NewFacade(p, rc, b.cfg, b.tr))
		}

		v, ok := n.Fields.Get(prop.Name)
		if !ok {
			return nil, nil
		}
		return v.Native(), nil
	}
}

// propBagResolver reads a scalar off a relationship property bag.
func propBagResolver(name string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		n, ok := p.Source.(*database.Node)
		if !ok {
			return nil, wgerr.New(wgerr.InvalidPropertyType, name)
		}
		v, ok := n.Fields.Get(name)
		if !ok {
			return nil, nil
		}
		return v.Native(), nil
	}
}

// relFieldResolver descends from a node into one of its relationships on
// demand; nothing is prefetched beyond what the selection asks for.
func (b *Builder) relFieldResolver(def *config.TypeDef, rel *config.RelDef) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		n, ok := p.Source.(*database.Node)
		if !ok {
			return nil, wgerr.New(wgerr.InvalidPropertyType, def.Name+"."+rel.Name)
		}
		rc, err := translate.FromContext(p.Context)
		if err != nil {
			return nil, err
		}
		id, err := n.ID()
		if err != nil {
			return nil, err
		}

		rels, err := b.tr.ReadRels(p.Context, rc, def, rel, id, nil)
		if err != nil {
			return nil, err
		}
		if rel.List {
			return rels, nil
		}
		if len(rels) == 0 {
			return nil, nil
		}
		return rels[0], nil
	}
}
