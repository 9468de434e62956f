package schema

import (
	"github.com/graphql-go/graphql"

	"github.com/warpgraph/warpgraph/config"
	"github.com/warpgraph/warpgraph/resolvers"
	"github.com/warpgraph/warpgraph/translate"
	"github.com/warpgraph/warpgraph/wgerr"
)

// buildQuery assembles the root Query object: one read field per node type
// plus the declared Query-class endpoints.
func (b *Builder) buildQuery() (*graphql.Object, error) {
	fields := graphql.Fields{}

	for i := range b.cfg.Model {
		def := &b.cfg.Model[i]
		fields[def.Name] = &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.objects[def.Name]))),
			Args: b.rootArgs(b.inputs[def.Name+"QueryInput"], false),
			Resolve: b.withRequest(def, func(p graphql.ResolveParams, rc *translate.RequestContext, def *config.TypeDef) (interface{}, error) {
				filter, _ := p.Args["input"].(map[string]interface{})
				return b.tr.ReadNodes(p.Context, rc, def, filter)
			}),
		}
	}

	if err := b.endpointFields(fields, "Query"); err != nil {
		return nil, err
	}
	return graphql.NewObject(graphql.ObjectConfig{Name: "Query", Fields: fields}), nil
}

// buildMutation assembles the root Mutation object: Create, Update, and
// Delete per node type plus the declared Mutation-class endpoints.
func (b *Builder) buildMutation() (*graphql.Object, error) {
	fields := graphql.Fields{}

	for i := range b.cfg.Model {
		def := &b.cfg.Model[i]
		name := def.Name

		fields[name+"Create"] = &graphql.Field{
			Type: graphql.NewNonNull(b.objects[name]),
			Args: b.rootArgs(b.inputs[name+"CreateMutationInput"], true),
			Resolve: b.withRequest(def, func(p graphql.ResolveParams, rc *translate.RequestContext, def *config.TypeDef) (interface{}, error) {
				input, ok := p.Args["input"].(map[string]interface{})
				if !ok {
					return nil, wgerr.New(wgerr.MissingProperty, "input")
				}
				return b.tr.CreateNode(p.Context, rc, def, input)
			}),
		}

		fields[name+"Update"] = &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.objects[name]))),
			Args: b.rootArgs(b.inputs[name+"UpdateInput"], true),
			Resolve: b.withRequest(def, func(p graphql.ResolveParams, rc *translate.RequestContext, def *config.TypeDef) (interface{}, error) {
				input, ok := p.Args["input"].(map[string]interface{})
				if !ok {
					return nil, wgerr.New(wgerr.MissingProperty, "input")
				}
				match, _ := input["match"].(map[string]interface{})
				modify, ok := input["modify"].(map[string]interface{})
				if !ok {
					return nil, wgerr.New(wgerr.MissingProperty, "modify")
				}
				return b.tr.UpdateNodes(p.Context, rc, def, match, modify)
			}),
		}

		fields[name+"Delete"] = &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Args: b.rootArgs(b.inputs[name+"DeleteInput"], true),
			Resolve: b.withRequest(def, func(p graphql.ResolveParams, rc *translate.RequestContext, def *config.TypeDef) (interface{}, error) {
				input, _ := p.Args["input"].(map[string]interface{})
				match, _ := input["match"].(map[string]interface{})
				force, _ := input["force"].(bool)
				return b.tr.DeleteNodes(p.Context, rc, def, match, force)
			}),
		}
	}

	if err := b.endpointFields(fields, "Mutation"); err != nil {
		return nil, err
	}
	return graphql.NewObject(graphql.ObjectConfig{Name: "Mutation", Fields: fields}), nil
}

// rootArgs builds the argument map shared by generated root fields. Every
// root field accepts an optional partitionKey.
func (b *Builder) rootArgs(input graphql.Input, requireInput bool) graphql.FieldConfigArgument {
	if requireInput {
		input = graphql.NewNonNull(input)
	}
	return graphql.FieldConfigArgument{
		"input":        &graphql.ArgumentConfig{Type: input},
		"partitionKey": &graphql.ArgumentConfig{Type: graphql.String},
	}
}

// withRequest wraps a root resolver with request-context recovery and
// partition-key capture from the field arguments.
func (b *Builder) withRequest(def *config.TypeDef, fn func(graphql.ResolveParams, *translate.RequestContext, *config.TypeDef) (interface{}, error)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		rc, err := translate.FromContext(p.Context)
		if err != nil {
			return nil, err
		}
		if pk, ok := p.Args["partitionKey"].(string); ok {
			rc.SetPartitionKey(&pk)
		}
		return fn(p, rc, def)
	}
}

// endpointFields binds declared custom endpoints of the given class to
// their registered resolvers.
func (b *Builder) endpointFields(fields graphql.Fields, class string) error {
	for i := range b.cfg.Endpoints {
		e := &b.cfg.Endpoints[i]
		if e.Class != class {
			continue
		}
		fn, ok := b.res[e.Name]
		if !ok {
			return wgerr.New(wgerr.ResolverNotRegistered, e.Name)
		}

		args := graphql.FieldConfigArgument{
			"partitionKey": &graphql.ArgumentConfig{Type: graphql.String},
		}
		if e.Input != nil {
			args["input"] = &graphql.ArgumentConfig{Type: b.refInputType(e.Input)}
		}

		fields[e.Name] = &graphql.Field{
			Type: b.refOutputType(e.Output),
			Args: args,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				rc, err := translate.FromContext(p.Context)
				if err != nil {
					return nil, err
				}
				if pk, ok := p.Args["partitionKey"].(string); ok {
					rc.SetPartitionKey(&pk)
				}
				return fn(resolvers.NewFacade(p, rc, b.cfg, b.tr))
			},
		}
	}
	return nil
}

// refOutputType resolves an endpoint's output TypeRef: scalars map to
// scalars, model types to their object types.
func (b *Builder) refOutputType(ref *config.TypeRef) graphql.Output {
	var t graphql.Output
	if config.IsScalar(ref.Type) {
		t = scalarType(ref.Type)
	} else {
		t = b.objects[ref.Type]
	}
	if ref.List {
		t = graphql.NewList(graphql.NewNonNull(t))
	}
	if ref.Required {
		t = graphql.NewNonNull(t)
	}
	return t
}

// refInputType resolves an endpoint's input TypeRef: scalars map to
// scalars, model types to their filter inputs.
func (b *Builder) refInputType(ref *config.TypeRef) graphql.Input {
	var t graphql.Input
	if config.IsScalar(ref.Type) {
		t = scalarType(ref.Type)
	} else {
		t = b.inputs[ref.Type+"QueryInput"]
	}
	if ref.List {
		t = graphql.NewList(graphql.NewNonNull(t))
	}
	if ref.Required {
		t = graphql.NewNonNull(t)
	}
	return t
}
