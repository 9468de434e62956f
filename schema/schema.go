// Package schema derives the complete GraphQL type system from a validated
// configuration: object types, filter and mutation inputs, destination
// unions, and the root Query/Mutation fields, all bound to the translator
// and the user resolver registry.
package schema

import (
	"github.com/graphql-go/graphql"

	"github.com/warpgraph/warpgraph/config"
	"github.com/warpgraph/warpgraph/logger"
	"github.com/warpgraph/warpgraph/resolvers"
	"github.com/warpgraph/warpgraph/translate"
	"github.com/warpgraph/warpgraph/wgerr"
)

// Builder accumulates the generated types for one configuration.
type Builder struct {
	cfg *config.Config
	res resolvers.Resolvers
	tr  *translate.Translator
	log logger.Logger

	objects map[string]*graphql.Object
	unions  map[string]*graphql.Union
	inputs  map[string]*graphql.InputObject
}

// New creates a builder.
func New(cfg *config.Config, res resolvers.Resolvers, tr *translate.Translator, log logger.Logger) *Builder {
	if res == nil {
		res = resolvers.Resolvers{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{
		cfg:     cfg,
		res:     res,
		tr:      tr,
		log:     log,
		objects: make(map[string]*graphql.Object),
		unions:  make(map[string]*graphql.Union),
		inputs:  make(map[string]*graphql.InputObject),
	}
}

// Build derives the schema. Field thunks are used throughout so mutually
// recursive types resolve; everything is registered before the schema is
// assembled.
func (b *Builder) Build() (graphql.Schema, error) {
	for i := range b.cfg.Model {
		def := &b.cfg.Model[i]
		if err := b.checkPropResolvers(def); err != nil {
			return graphql.Schema{}, err
		}
		b.registerNodeObject(def)
	}
	for i := range b.cfg.Model {
		def := &b.cfg.Model[i]
		for j := range def.Rels {
			b.registerRelTypes(def, &def.Rels[j])
		}
	}
	for i := range b.cfg.Model {
		b.registerInputs(&b.cfg.Model[i])
	}

	query, err := b.buildQuery()
	if err != nil {
		return graphql.Schema{}, err
	}
	mutation, err := b.buildMutation()
	if err != nil {
		return graphql.Schema{}, err
	}

	types := make([]graphql.Type, 0, len(b.objects)+len(b.unions))
	for _, o := range b.objects {
		types = append(types, o)
	}
	for _, u := range b.unions {
		types = append(types, u)
	}

	s, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
		Types:    types,
	})
	if err != nil {
		return graphql.Schema{}, wgerr.Wrap(err, wgerr.ConfigInvalid, "")
	}
	return s, nil
}

// checkPropResolvers verifies every declared property resolver is
// registered; a missing resolver is fatal at build time.
func (b *Builder) checkPropResolvers(def *config.TypeDef) error {
	for i := range def.Props {
		p := &def.Props[i]
		if p.Resolver == "" {
			continue
		}
		if _, ok := b.res[p.Resolver]; !ok {
			return wgerr.New(wgerr.ResolverNotRegistered, p.Resolver)
		}
	}
	return nil
}

// scalarType maps a configuration scalar to its GraphQL type.
func scalarType(name string) *graphql.Scalar {
	switch name {
	case "Int":
		return graphql.Int
	case "Float":
		return graphql.Float
	case "Boolean":
		return graphql.Boolean
	case "ID":
		return graphql.ID
	default:
		return graphql.String
	}
}

// propOutputType wraps the scalar with list and non-null markers.
func propOutputType(p *config.PropDef) graphql.Output {
	var t graphql.Output = scalarType(p.Type)
	if p.List {
		t = graphql.NewList(graphql.NewNonNull(t))
	}
	if p.Required {
		t = graphql.NewNonNull(t)
	}
	return t
}

// propInputType is the scalar as it appears in create and update inputs.
// required only binds on create.
func propInputType(p *config.PropDef, requireRequired bool) graphql.Input {
	var t graphql.Input = scalarType(p.Type)
	if p.List {
		t = graphql.NewList(graphql.NewNonNull(t))
	}
	if requireRequired && p.Required && p.Default == nil {
		t = graphql.NewNonNull(t)
	}
	return t
}
