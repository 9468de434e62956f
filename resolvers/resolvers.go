// Package resolvers defines the registry of user-supplied resolver
// functions and the facade through which they interact with the engine.
// Extension is by registration; there is no inheritance surface.
package resolvers

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/warpgraph/warpgraph/config"
	"github.com/warpgraph/warpgraph/database"
	"github.com/warpgraph/warpgraph/translate"
)

// Func is a user resolver. Returning a *database.Node or *database.Rel
// re-enters the selection walker, so the remaining sub-selection is honored.
type Func func(f *Facade) (interface{}, error)

// Resolvers maps endpoint and property names to their resolvers. The map
// must be populated before the engine is built and not mutated afterward;
// the functions themselves must be safe for concurrent calls.
type Resolvers map[string]Func

// Facade is the capability boundary for user resolvers: request inputs, the
// open transaction, and re-entry points into the selection walker. The
// partition key is readable but not writable, so user code cannot widen its
// scope.
type Facade struct {
	params graphql.ResolveParams
	rc     *translate.RequestContext
	cfg    *config.Config
	tr     *translate.Translator
}

// NewFacade binds a resolver invocation to the current request.
func NewFacade(params graphql.ResolveParams, rc *translate.RequestContext, cfg *config.Config, tr *translate.Translator) *Facade {
	return &Facade{params: params, rc: rc, cfg: cfg, tr: tr}
}

// Context returns the request context.
func (f *Facade) Context() context.Context { return f.params.Context }

// Args returns the field arguments.
func (f *Facade) Args() map[string]interface{} { return f.params.Args }

// Parent returns the value the enclosing field resolved to.
func (f *Facade) Parent() interface{} { return f.params.Source }

// PartitionKey returns the request's partition key, or nil.
func (f *Facade) PartitionKey() *string { return f.rc.PartitionKey() }

// Metadata returns the opaque request metadata, e.g. auth claims.
func (f *Facade) Metadata() map[string]string { return f.rc.Metadata }

// Transaction returns the open transaction for direct statement execution.
func (f *Facade) Transaction() database.Transaction { return f.rc.Tx }

// CreateNode creates a node of the named type through the translator's
// create path, including nested relationship inputs.
func (f *Facade) CreateNode(typeName string, props map[string]interface{}) (*database.Node, error) {
	def, err := f.cfg.Type(typeName)
	if err != nil {
		return nil, err
	}
	return f.tr.CreateNode(f.params.Context, f.rc, def, props)
}

// ResolveNode hands a node back to the selection walker.
func (f *Facade) ResolveNode(n *database.Node) (interface{}, error) { return n, nil }

// ResolveRel hands a relationship back to the selection walker.
func (f *Facade) ResolveRel(r *database.Rel) (interface{}, error) { return r, nil }

// ResolveScalar returns a scalar result.
func (f *Facade) ResolveScalar(v interface{}) (interface{}, error) { return v, nil }
