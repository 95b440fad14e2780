package component

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
)

// ParamType is the value type a parameter accepts.
type ParamType string

const (
	ParamAny     ParamType = "any"
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamInteger ParamType = "integer"
	ParamBoolean ParamType = "boolean"
)

// ParamSpec describes one named parameter of a component.
type ParamSpec struct {
	Name        string    `yaml:"name" json:"name"`
	Type        ParamType `yaml:"type,omitempty" json:"type,omitempty"`
	Required    bool      `yaml:"required,omitempty" json:"required,omitempty"`
	Enum        []any     `yaml:"enum,omitempty" json:"enum,omitempty"`
	Pattern     string    `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
}

// Spec describes a component the renderer knows how to draw.
type Spec struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Params      []ParamSpec `yaml:"params,omitempty" json:"params,omitempty"`
	// RequireChildren demands non-blank content between the open and close tags.
	RequireChildren bool `yaml:"require_children,omitempty" json:"require_children,omitempty"`
	// Strict rejects parameters that are not declared in Params.
	Strict bool `yaml:"strict,omitempty" json:"strict,omitempty"`
}

// Param returns the declared parameter called name.
func (s Spec) Param(name string) (ParamSpec, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

type registryFile struct {
	Components []Spec `yaml:"components"`
}

// Registry maps component names to their specs. It is immutable once built
// and safe for concurrent use.
type Registry struct {
	specs   map[string]Spec
	schemas map[string]map[string]*jsonschema.Schema
}

var componentName = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*(\.[A-Za-z][A-Za-z0-9_]*)*$`)

// NewRegistry compiles specs into a registry.
func NewRegistry(specs ...Spec) (*Registry, error) {
	r := &Registry{
		specs:   make(map[string]Spec, len(specs)),
		schemas: make(map[string]map[string]*jsonschema.Schema, len(specs)),
	}

	for _, spec := range specs {
		if !componentName.MatchString(spec.Name) {
			return nil, errors.RegistryError("invalid component name").
				WithContext("component", spec.Name).
				Build()
		}
		if _, dup := r.specs[spec.Name]; dup {
			return nil, errors.RegistryError("component declared twice").
				WithContext("component", spec.Name).
				Build()
		}

		compiled := make(map[string]*jsonschema.Schema, len(spec.Params))
		for _, p := range spec.Params {
			if strings.TrimSpace(p.Name) == "" {
				return nil, errors.RegistryError("parameter without a name").
					WithContext("component", spec.Name).
					Build()
			}
			if _, dup := compiled[p.Name]; dup {
				return nil, errors.RegistryError("parameter declared twice").
					WithContext("component", spec.Name).
					WithContext("param", p.Name).
					Build()
			}
			schema, err := compileParam(p)
			if err != nil {
				return nil, errors.WrapError(err, errors.CategoryRegistry, "invalid parameter schema").
					Fatal().
					UserAction().
					WithContext("component", spec.Name).
					WithContext("param", p.Name).
					Build()
			}
			compiled[p.Name] = schema
		}

		r.specs[spec.Name] = spec
		r.schemas[spec.Name] = compiled
	}

	return r, nil
}

// DefaultRegistry knows the components every content site ships with.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Spec{
		Name:        "Callout",
		Description: "Highlighted box drawing attention to a note, warning or error.",
		Params: []ParamSpec{{
			Name:        "type",
			Type:        ParamString,
			Required:    true,
			Enum:        []any{"info", "warning", "error"},
			Description: "Visual style of the box.",
		}},
		RequireChildren: true,
	})
	if err != nil {
		panic(fmt.Sprintf("default component registry: %v", err))
	}
	return r
}

// ParseRegistry decodes a YAML registry document.
func ParseRegistry(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRegistry, "failed to parse component registry").
			Fatal().
			UserAction().
			Build()
	}
	return NewRegistry(file.Components...)
}

// LoadRegistry reads a YAML registry file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRegistry, "failed to read component registry").
			Fatal().
			UserAction().
			WithContext("path", path).
			Build()
	}

	r, err := ParseRegistry(data)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	return r, nil
}

// Lookup returns the spec registered under name. Names are case-sensitive.
func (r *Registry) Lookup(name string) (Spec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}

// Names returns the registered component names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Specs returns every spec sorted by name.
func (r *Registry) Specs() []Spec {
	names := r.Names()
	specs := make([]Spec, 0, len(names))
	for _, name := range names {
		specs = append(specs, r.specs[name])
	}
	return specs
}

// Len reports the number of registered components.
func (r *Registry) Len() int { return len(r.specs) }

func (r *Registry) schema(component, param string) *jsonschema.Schema {
	return r.schemas[component][param]
}
