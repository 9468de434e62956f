// Package translate compiles GraphQL inputs and selections into
// parameterized statements executed through a database Transaction, and
// materializes the results into nodes and relationships.
package translate

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/iancoleman/strcase"
	"github.com/samsarahq/go/oops"

	"github.com/warpgraph/warpgraph/config"
	"github.com/warpgraph/warpgraph/database"
	"github.com/warpgraph/warpgraph/logger"
	"github.com/warpgraph/warpgraph/value"
	"github.com/warpgraph/warpgraph/wgerr"
)

// RequestContext carries per-request translation state: the open
// transaction, caller metadata, the partition key, and the variable suffix
// counter that keeps statement scopes distinct.
type RequestContext struct {
	Tx       database.Transaction
	Metadata map[string]string

	mu           sync.Mutex
	partitionKey *string
	suffix       int
}

// NewRequestContext creates the state for one request.
func NewRequestContext(tx database.Transaction, metadata map[string]string) *RequestContext {
	return &RequestContext{Tx: tx, Metadata: metadata}
}

// SetPartitionKey records the partition key for the request. Root resolvers
// call it once from the partitionKey argument; nested resolutions inherit
// it.
func (rc *RequestContext) SetPartitionKey(pk *string) {
	rc.mu.Lock()
	rc.partitionKey = pk
	rc.mu.Unlock()
}

// PartitionKey returns the partition key, or nil.
func (rc *RequestContext) PartitionKey() *string {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.partitionKey
}

// nextSuffix assigns a fresh scope suffix. Suffixes are monotonic within a
// request so no two statement variables can alias.
func (rc *RequestContext) nextSuffix() string {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	s := strconv.Itoa(rc.suffix)
	rc.suffix++
	return s
}

type contextKey struct{}

// WithContext attaches the request context to ctx.
func WithContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// FromContext returns the request context attached by the engine.
func FromContext(ctx context.Context) (*RequestContext, error) {
	rc, ok := ctx.Value(contextKey{}).(*RequestContext)
	if !ok {
		return nil, oops.Errorf("no request context; resolver invoked outside engine execution")
	}
	return rc, nil
}

// Naming for generated types. Each name concatenates the user type name, the
// camel-cased relationship name, and a fixed suffix.

// RelTypeName is the edge type and GraphQL object name for a relationship,
// e.g. ProjectBoardRel.
func RelTypeName(t *config.TypeDef, r *config.RelDef) string {
	return t.Name + strcase.ToCamel(r.Name) + "Rel"
}

// PropsTypeName types a relationship's property bag, e.g. ProjectBoardProps.
func PropsTypeName(t *config.TypeDef, r *config.RelDef) string {
	return t.Name + strcase.ToCamel(r.Name) + "Props"
}

// UnionTypeName names the destination union of an SNMT relationship,
// e.g. ProjectBoardNodes.
func UnionTypeName(t *config.TypeDef, r *config.RelDef) string {
	return t.Name + strcase.ToCamel(r.Name) + "Nodes"
}

// dstVarBase is the statement variable stem for a relationship destination.
// Single-type destinations use the type; unions get a stem of their own
// since the match is unlabeled.
func dstVarBase(t *config.TypeDef, r *config.RelDef) string {
	if r.SNMT() {
		return RelTypeName(t, r) + "Dst"
	}
	return r.Nodes[0]
}

// Translator walks GraphQL inputs for one configuration.
type Translator struct {
	cfg *config.Config
	log logger.Logger
}

// New creates a translator.
func New(cfg *config.Config, log logger.Logger) *Translator {
	if log == nil {
		log = logger.Nop()
	}
	return &Translator{cfg: cfg, log: log}
}

func (t *Translator) checkPartition(def *config.TypeDef, rc *RequestContext) error {
	if def.PartitionKeyRequired && rc.PartitionKey() == nil {
		return wgerr.New(wgerr.PartitionKeyRequired, def.Name)
	}
	return nil
}

// split separates an input map into scalar property values and relationship
// sub-inputs, rejecting keys the model does not declare.
func (t *Translator) split(def *config.TypeDef, input map[string]interface{}) (*value.Map, map[string]interface{}, error) {
	props := value.NewMap()
	rels := make(map[string]interface{})

	for _, k := range sortedKeys(input) {
		raw := input[k]
		if raw == nil {
			continue
		}
		if def.HasRel(k) {
			rels[k] = raw
			continue
		}
		if k == "id" {
			v, err := value.FromNative(raw)
			if err != nil {
				return nil, nil, wgerr.Wrap(err, wgerr.InvalidPropertyType, k)
			}
			props.Set(k, v)
			continue
		}
		if _, err := def.Prop(k); err != nil {
			return nil, nil, err
		}
		v, err := value.FromNative(raw)
		if err != nil {
			return nil, nil, wgerr.Wrap(err, wgerr.InvalidPropertyType, k)
		}
		props.Set(k, v)
	}
	return props, rels, nil
}

// relProps validates and converts a relationship property map.
func relProps(t *config.TypeDef, r *config.RelDef, raw interface{}) (*value.Map, error) {
	if raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, wgerr.New(wgerr.InvalidPropertyType, t.Name+"."+r.Name+".props")
	}
	props := value.NewMap()
	for _, k := range sortedKeys(m) {
		if _, err := r.Prop(k); err != nil {
			return nil, wgerr.New(wgerr.FieldNotFound, t.Name+"."+r.Name+"."+k)
		}
		v, err := value.FromNative(m[k])
		if err != nil {
			return nil, wgerr.Wrap(err, wgerr.InvalidPropertyType, k)
		}
		props.Set(k, v)
	}
	return props, nil
}

func nodeIDs(nodes []*database.Node) (value.Array, error) {
	ids := make(value.Array, 0, len(nodes))
	for _, n := range nodes {
		id, err := n.ID()
		if err != nil {
			return nil, err
		}
		ids = append(ids, value.String(id))
	}
	return ids, nil
}

// sortedKeys orders map keys so emitted statements and bound parameters are
// deterministic; Go map iteration order is not.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
