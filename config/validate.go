package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/warpgraph/warpgraph/wgerr"
)

// reservedSuffixes are appended to user type names when deriving generated
// GraphQL type names. A user type name may not collide with any name the
// generator can produce.
var reservedSuffixes = []string{
	"Rel",
	"Props",
	"Input",
	"CreateMutationInput",
	"UpdateMutationInput",
	"QueryInput",
	"ChangeInput",
	"Nodes",
}

var structValidator = validator.New()

// Validate checks the configuration. All violations are fatal at engine
// build time and reported as ConfigInvalid.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		return wgerr.Wrap(err, wgerr.ConfigInvalid, "")
	}
	if c.Version != Version {
		return wgerr.NewDetail(wgerr.ConfigInvalid, "version",
			fmt.Sprintf("expected version %d, got %d", Version, c.Version))
	}

	names := make(map[string]bool, len(c.Model))
	for i := range c.Model {
		t := &c.Model[i]
		if names[t.Name] {
			return wgerr.NewDetail(wgerr.ConfigInvalid, t.Name, "duplicate type name")
		}
		names[t.Name] = true
	}

	for i := range c.Model {
		if err := c.validateType(&c.Model[i], names); err != nil {
			return err
		}
	}

	// Reject user names equal to another user name extended by one reserved
	// suffix. Generated names that also embed a relationship or member type
	// name (e.g. ProjectBoardRel) are not checked here.
	for outer := range names {
		for inner := range names {
			for _, suffix := range reservedSuffixes {
				if outer == inner+suffix {
					return wgerr.NewDetail(wgerr.ConfigInvalid, outer,
						"collides with a generated type name for "+inner)
				}
			}
		}
	}

	endpointNames := make(map[string]bool, len(c.Endpoints))
	for i := range c.Endpoints {
		e := &c.Endpoints[i]
		if endpointNames[e.Name] {
			return wgerr.NewDetail(wgerr.ConfigInvalid, e.Name, "duplicate endpoint name")
		}
		endpointNames[e.Name] = true
		if e.Input != nil {
			if err := c.validateTypeRef(e.Name, e.Input, names); err != nil {
				return err
			}
		}
		if err := c.validateTypeRef(e.Name, e.Output, names); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateType(t *TypeDef, names map[string]bool) error {
	propNames := make(map[string]bool, len(t.Props))
	for i := range t.Props {
		p := &t.Props[i]
		if err := validateProp(t.Name, p); err != nil {
			return err
		}
		if propNames[p.Name] {
			return wgerr.NewDetail(wgerr.ConfigInvalid, t.Name+"."+p.Name, "duplicate property")
		}
		propNames[p.Name] = true
	}

	relNames := make(map[string]bool, len(t.Rels))
	for i := range t.Rels {
		r := &t.Rels[i]
		if relNames[r.Name] || propNames[r.Name] {
			return wgerr.NewDetail(wgerr.ConfigInvalid, t.Name+"."+r.Name, "duplicate field")
		}
		relNames[r.Name] = true

		dsts := make(map[string]bool, len(r.Nodes))
		for _, dst := range r.Nodes {
			if !names[dst] {
				return wgerr.NewDetail(wgerr.ConfigInvalid, t.Name+"."+r.Name,
					"relationship references undeclared type "+dst)
			}
			if dsts[dst] {
				return wgerr.NewDetail(wgerr.ConfigInvalid, t.Name+"."+r.Name,
					"duplicate destination type "+dst)
			}
			dsts[dst] = true
		}

		relPropNames := make(map[string]bool, len(r.Props))
		for j := range r.Props {
			p := &r.Props[j]
			if err := validateProp(t.Name+"."+r.Name, p); err != nil {
				return err
			}
			if relPropNames[p.Name] {
				return wgerr.NewDetail(wgerr.ConfigInvalid,
					t.Name+"."+r.Name+"."+p.Name, "duplicate property")
			}
			relPropNames[p.Name] = true
		}
	}

	return nil
}

func validateProp(owner string, p *PropDef) error {
	if p.Name == "id" {
		return wgerr.NewDetail(wgerr.ConfigInvalid, owner+".id",
			"id is reserved and assigned by the server")
	}
	if strings.TrimSpace(p.Name) == "" {
		return wgerr.NewDetail(wgerr.ConfigInvalid, owner, "empty property name")
	}
	if !scalarTypes[p.Type] {
		return wgerr.NewDetail(wgerr.ConfigInvalid, owner+"."+p.Name,
			"unknown property type "+p.Type)
	}
	if p.List && p.Type == "ID" {
		return wgerr.NewDetail(wgerr.ConfigInvalid, owner+"."+p.Name,
			"ID properties may not be lists")
	}
	return nil
}

func (c *Config) validateTypeRef(endpoint string, ref *TypeRef, names map[string]bool) error {
	if ref == nil || ref.Type == "" {
		return wgerr.NewDetail(wgerr.ConfigInvalid, endpoint, "missing type reference")
	}
	if !names[ref.Type] && !scalarTypes[ref.Type] {
		return wgerr.NewDetail(wgerr.ConfigInvalid, endpoint,
			"dangling type reference "+ref.Type)
	}
	return nil
}
