// Package config holds the parsed representation of a warpgraph data model:
// node types, their scalar properties, typed relationships, and custom
// endpoints. A Config is immutable after Validate succeeds.
package config

import (
	"io"
	"strings"

	"github.com/samsarahq/go/oops"
	"gopkg.in/yaml.v3"

	"github.com/warpgraph/warpgraph/wgerr"
)

// Version is the configuration document version this engine accepts.
const Version = 1

// Config is the top-level configuration document.
type Config struct {
	Version   int           `yaml:"version" validate:"required"`
	Model     []TypeDef     `yaml:"model" validate:"required,min=1,dive"`
	Endpoints []EndpointDef `yaml:"endpoints" validate:"dive"`
}

// TypeDef declares a node type: a label, scalar properties, and
// relationships to other node types.
type TypeDef struct {
	Name                 string    `yaml:"name" validate:"required"`
	Props                []PropDef `yaml:"props" validate:"dive"`
	Rels                 []RelDef  `yaml:"rels" validate:"dive"`
	PartitionKeyRequired bool      `yaml:"partition_key_required"`
}

// PropDef declares a scalar property. The id property is reserved and always
// present; it may not be declared.
type PropDef struct {
	Name     string      `yaml:"name" validate:"required"`
	Type     string      `yaml:"type" validate:"required,oneof=String Int Float Boolean ID"`
	Required bool        `yaml:"required"`
	List     bool        `yaml:"list"`
	Default  interface{} `yaml:"default"`
	Resolver string      `yaml:"resolver"`
}

// RelDef declares a relationship. Nodes lists the destination types; more
// than one destination makes the relationship single-node-multi-type and its
// GraphQL dst field a union.
type RelDef struct {
	Name  string    `yaml:"name" validate:"required"`
	Nodes []string  `yaml:"nodes" validate:"required,min=1"`
	List  bool      `yaml:"list"`
	Props []PropDef `yaml:"props" validate:"dive"`
}

// EndpointDef declares a custom root field backed by a user resolver.
type EndpointDef struct {
	Name   string   `yaml:"name" validate:"required"`
	Class  string   `yaml:"class" validate:"required,oneof=Query Mutation"`
	Input  *TypeRef `yaml:"input"`
	Output *TypeRef `yaml:"output" validate:"required"`
}

// TypeRef names a model type or GraphQL scalar used by an endpoint.
type TypeRef struct {
	Type     string `yaml:"type" validate:"required"`
	Required bool   `yaml:"required"`
	List     bool   `yaml:"list"`
}

// Scalars usable in PropDef.Type and endpoint TypeRefs.
var scalarTypes = map[string]bool{
	"String":  true,
	"Int":     true,
	"Float":   true,
	"Boolean": true,
	"ID":      true,
}

// IsScalar reports whether name is a GraphQL scalar type name.
func IsScalar(name string) bool { return scalarTypes[name] }

// Parse reads a YAML configuration document. Unknown keys at any level are
// rejected. The returned Config has not been validated.
func Parse(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Config
	if err := dec.Decode(&c); err != nil {
		return nil, wgerr.Wrap(err, wgerr.ConfigInvalid, "")
	}
	return &c, nil
}

// FromString parses a YAML configuration document held in a string.
func FromString(s string) (*Config, error) {
	return Parse(strings.NewReader(s))
}

// Type looks up a TypeDef by name.
func (c *Config) Type(name string) (*TypeDef, error) {
	for i := range c.Model {
		if c.Model[i].Name == name {
			return &c.Model[i], nil
		}
	}
	return nil, wgerr.New(wgerr.TypeNotFound, name)
}

// Endpoint looks up an EndpointDef by name.
func (c *Config) Endpoint(name string) (*EndpointDef, error) {
	for i := range c.Endpoints {
		if c.Endpoints[i].Name == name {
			return &c.Endpoints[i], nil
		}
	}
	return nil, wgerr.New(wgerr.FieldNotFound, name)
}

// Prop looks up a declared property by name.
func (t *TypeDef) Prop(name string) (*PropDef, error) {
	for i := range t.Props {
		if t.Props[i].Name == name {
			return &t.Props[i], nil
		}
	}
	return nil, wgerr.New(wgerr.FieldNotFound, t.Name+"."+name)
}

// Rel looks up a relationship by name.
func (t *TypeDef) Rel(name string) (*RelDef, error) {
	for i := range t.Rels {
		if t.Rels[i].Name == name {
			return &t.Rels[i], nil
		}
	}
	return nil, wgerr.New(wgerr.FieldNotFound, t.Name+"."+name)
}

// HasRel reports whether name is a declared relationship.
func (t *TypeDef) HasRel(name string) bool {
	for i := range t.Rels {
		if t.Rels[i].Name == name {
			return true
		}
	}
	return false
}

// SNMT reports whether the relationship has multiple destination types.
func (r *RelDef) SNMT() bool { return len(r.Nodes) > 1 }

// Prop looks up a relationship property by name.
func (r *RelDef) Prop(name string) (*PropDef, error) {
	for i := range r.Props {
		if r.Props[i].Name == name {
			return &r.Props[i], nil
		}
	}
	return nil, oops.Errorf("rel %s has no prop %s", r.Name, name)
}
