package schema

import (
	"github.com/graphql-go/graphql"
	"github.com/iancoleman/strcase"

	"github.com/warpgraph/warpgraph/config"
)

// registerInputs creates the filter and mutation input types for one
// TypeDef. All inter-input references go through thunks since filters are
// mutually recursive across relationships.
func (b *Builder) registerInputs(def *config.TypeDef) {
	name := def.Name

	b.inputs[name+"QueryInput"] = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: name + "QueryInput",
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			fields := graphql.InputObjectConfigFieldMap{
				"id": &graphql.InputObjectFieldConfig{Type: graphql.ID},
			}
			for i := range def.Props {
				p := &def.Props[i]
				fields[p.Name] = &graphql.InputObjectFieldConfig{Type: scalarType(p.Type)}
			}
			for i := range def.Rels {
				rel := &def.Rels[i]
				fields[rel.Name] = &graphql.InputObjectFieldConfig{
					Type: b.inputs[relPrefix(def, rel)+"QueryInput"],
				}
			}
			return fields
		}),
	})

	b.inputs[name+"CreateMutationInput"] = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: name + "CreateMutationInput",
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			fields := graphql.InputObjectConfigFieldMap{}
			for i := range def.Props {
				p := &def.Props[i]
				fields[p.Name] = &graphql.InputObjectFieldConfig{Type: propInputType(p, true)}
			}
			for i := range def.Rels {
				rel := &def.Rels[i]
				var t graphql.Input = b.inputs[relPrefix(def, rel)+"CreateMutationInput"]
				if rel.List {
					t = graphql.NewList(graphql.NewNonNull(t))
				}
				fields[rel.Name] = &graphql.InputObjectFieldConfig{Type: t}
			}
			return fields
		}),
	})

	b.inputs[name+"UpdateMutationInput"] = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: name + "UpdateMutationInput",
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			fields := graphql.InputObjectConfigFieldMap{}
			for i := range def.Props {
				p := &def.Props[i]
				fields[p.Name] = &graphql.InputObjectFieldConfig{Type: propInputType(p, false)}
			}
			for i := range def.Rels {
				rel := &def.Rels[i]
				fields[rel.Name] = &graphql.InputObjectFieldConfig{
					Type: b.inputs[relPrefix(def, rel)+"ChangeInput"],
				}
			}
			return fields
		}),
	})

	b.inputs[name+"UpdateInput"] = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: name + "UpdateInput",
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			return graphql.InputObjectConfigFieldMap{
				"match":  &graphql.InputObjectFieldConfig{Type: b.inputs[name+"QueryInput"]},
				"modify": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(b.inputs[name+"UpdateMutationInput"])},
			}
		}),
	})

	b.inputs[name+"DeleteInput"] = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: name + "DeleteInput",
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			return graphql.InputObjectConfigFieldMap{
				"match": &graphql.InputObjectFieldConfig{Type: b.inputs[name+"QueryInput"]},
				"force": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			}
		}),
	})

	for i := range def.Rels {
		b.registerRelInputs(def, &def.Rels[i])
	}
}

// registerRelInputs creates the inputs for one relationship: edge property
// filters, destination filters keyed by member type, create inputs with the
// NEW/EXISTING discriminators, and the ADD/DELETE change input.
func (b *Builder) registerRelInputs(def *config.TypeDef, rel *config.RelDef) {
	prefix := relPrefix(def, rel)

	if len(rel.Props) > 0 {
		props := rel.Props
		b.inputs[prefix+"PropsInput"] = graphql.NewInputObject(graphql.InputObjectConfig{
			Name: prefix + "PropsInput",
			Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
				fields := graphql.InputObjectConfigFieldMap{}
				for i := range props {
					p := &props[i]
					fields[p.Name] = &graphql.InputObjectFieldConfig{Type: scalarType(p.Type)}
				}
				return fields
			}),
		})
	}

	b.inputs[prefix+"NodesQueryInput"] = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: prefix + "NodesQueryInput",
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			fields := graphql.InputObjectConfigFieldMap{}
			for _, member := range rel.Nodes {
				fields[member] = &graphql.InputObjectFieldConfig{
					Type: b.inputs[member+"QueryInput"],
				}
			}
			return fields
		}),
	})

	b.inputs[prefix+"QueryInput"] = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: prefix + "QueryInput",
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			fields := graphql.InputObjectConfigFieldMap{
				"dst": &graphql.InputObjectFieldConfig{Type: b.inputs[prefix+"NodesQueryInput"]},
			}
			if len(rel.Props) > 0 {
				fields["props"] = &graphql.InputObjectFieldConfig{Type: b.inputs[prefix+"PropsInput"]}
			}
			return fields
		}),
	})

	for _, member := range rel.Nodes {
		member := member
		b.inputs[prefix+member+"Input"] = graphql.NewInputObject(graphql.InputObjectConfig{
			Name: prefix + member + "Input",
			Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
				return graphql.InputObjectConfigFieldMap{
					"NEW":      &graphql.InputObjectFieldConfig{Type: b.inputs[member+"CreateMutationInput"]},
					"EXISTING": &graphql.InputObjectFieldConfig{Type: b.inputs[member+"QueryInput"]},
				}
			}),
		})
	}

	b.inputs[prefix+"NodesCreateInput"] = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: prefix + "NodesCreateInput",
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			fields := graphql.InputObjectConfigFieldMap{}
			for _, member := range rel.Nodes {
				fields[member] = &graphql.InputObjectFieldConfig{
					Type: b.inputs[prefix+member+"Input"],
				}
			}
			return fields
		}),
	})

	b.inputs[prefix+"CreateMutationInput"] = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: prefix + "CreateMutationInput",
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			fields := graphql.InputObjectConfigFieldMap{
				"dst": &graphql.InputObjectFieldConfig{
					Type: graphql.NewNonNull(b.inputs[prefix+"NodesCreateInput"]),
				},
			}
			if len(rel.Props) > 0 {
				fields["props"] = &graphql.InputObjectFieldConfig{Type: b.inputs[prefix+"PropsInput"]}
			}
			return fields
		}),
	})

	b.inputs[prefix+"DeleteInput"] = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: prefix + "DeleteInput",
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			fields := graphql.InputObjectConfigFieldMap{
				"dst": &graphql.InputObjectFieldConfig{Type: b.inputs[prefix+"NodesQueryInput"]},
			}
			if len(rel.Props) > 0 {
				fields["props"] = &graphql.InputObjectFieldConfig{Type: b.inputs[prefix+"PropsInput"]}
			}
			return fields
		}),
	})

	b.inputs[prefix+"ChangeInput"] = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: prefix + "ChangeInput",
		Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
			return graphql.InputObjectConfigFieldMap{
				"ADD":    &graphql.InputObjectFieldConfig{Type: b.inputs[prefix+"CreateMutationInput"]},
				"DELETE": &graphql.InputObjectFieldConfig{Type: b.inputs[prefix+"DeleteInput"]},
			}
		}),
	})
}

func relPrefix(def *config.TypeDef, rel *config.RelDef) string {
	return def.Name + strcase.ToCamel(rel.Name)
}
