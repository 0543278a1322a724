// Package loader reads torchexport manifest files: YAML documents that name
// the project template tokens, explicit type registrations, inline function
// declarations, and the annotated sources to scan. The raw document is
// validated against the embedded JSON Schema before unmarshalling.
package loader

import (
	"fmt"
	"os"

	"github.com/mlverse/torchexport/model"
	"gopkg.in/yaml.v3"
)

// Manifest is the top-level structure of a torchexport manifest file.
type Manifest struct {
	Project   ProjectDef    `yaml:"project"`
	Types     []TypeDef     `yaml:"types,omitempty"`
	Functions []FunctionDef `yaml:"functions,omitempty"`
	Sources   []string      `yaml:"sources,omitempty"`
}

// ProjectDef holds the project name and template token overrides. Empty
// fields take derived defaults.
type ProjectDef struct {
	Name            string `yaml:"name"`
	LinkageMacro    string `yaml:"linkage_macro,omitempty"`
	BoundaryPrefix  string `yaml:"boundary_prefix,omitempty"`
	ProtectBegin    string `yaml:"protect_begin,omitempty"`
	ProtectEnd      string `yaml:"protect_end,omitempty"`
	CheckHook       string `yaml:"check_hook,omitempty"`
	BoundaryPointer string `yaml:"boundary_pointer,omitempty"`
}

// TypeDef is an explicit type registration.
type TypeDef struct {
	Name     string `yaml:"name"`
	ToRaw    string `yaml:"to_raw"`
	FromRaw  string `yaml:"from_raw,omitempty"`
	Boundary string `yaml:"boundary,omitempty"`
	Binding  string `yaml:"binding,omitempty"`
}

// FunctionDef is an inline function declaration.
type FunctionDef struct {
	Name       string     `yaml:"name"`
	Returns    string     `yaml:"returns,omitempty"`
	Parameters []ParamDef `yaml:"parameters,omitempty"`
}

// ParamDef is one inline declaration parameter.
type ParamDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// LoadManifest reads and parses a manifest file, validating the YAML
// against the JSON Schema before unmarshalling.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	if err := ValidateSchema(data); err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// Directives converts the explicit type registrations, in list order.
func (m *Manifest) Directives() []model.Directive {
	dirs := make([]model.Directive, 0, len(m.Types))
	for _, t := range m.Types {
		dirs = append(dirs, model.Directive{
			SemanticName: t.Name,
			ToRaw:        t.ToRaw,
			FromRaw:      t.FromRaw,
			BoundaryType: t.Boundary,
			BindingType:  t.Binding,
		})
	}
	return dirs
}

// Declarations converts the inline function declarations, in list order.
func (m *Manifest) Declarations() []model.Declaration {
	decls := make([]model.Declaration, 0, len(m.Functions))
	for _, f := range m.Functions {
		d := model.Declaration{Name: f.Name, ReturnType: f.Returns}
		if d.ReturnType == "" {
			d.ReturnType = model.VoidType
		}
		for _, p := range f.Parameters {
			d.Parameters = append(d.Parameters, model.Parameter{Name: p.Name, Type: p.Type})
		}
		decls = append(decls, d)
	}
	return decls
}
