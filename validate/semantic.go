// Package validate performs semantic validation of the discovered
// declarations before generation: name lexicon, declaration-name
// uniqueness (generated symbols are derived from them), and
// per-declaration parameter rules.
package validate

import (
	"fmt"
	"strings"

	"github.com/mlverse/torchexport/model"
)

// ValidationError represents a single semantic validation error.
type ValidationError struct {
	Path    string // e.g. "declarations[2].parameters[0].name"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationResult holds all validation errors.
type ValidationResult struct {
	Errors []ValidationError
}

func (r *ValidationResult) addError(path, message string) {
	r.Errors = append(r.Errors, ValidationError{Path: path, Message: message})
}

func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) Error() string {
	if r.IsValid() {
		return ""
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// Validate checks the full declaration set in discovery order.
func Validate(decls []model.Declaration) *ValidationResult {
	result := &ValidationResult{}

	seen := make(map[string]bool)
	for i, d := range decls {
		path := fmt.Sprintf("declarations[%d]", i)

		if !model.IsIdentifier(d.Name) {
			result.addError(path+".name", fmt.Sprintf("invalid declaration name %q", d.Name))
		}
		if seen[d.Name] {
			result.addError(path+".name", fmt.Sprintf("duplicate declaration name %q", d.Name))
		}
		seen[d.Name] = true

		if strings.TrimSpace(d.ReturnType) == "" {
			result.addError(path+".returns", fmt.Sprintf("declaration %q has an empty return type", d.Name))
		}

		paramSeen := make(map[string]bool)
		for j, p := range d.Parameters {
			paramPath := fmt.Sprintf("%s.parameters[%d]", path, j)
			if !model.IsIdentifier(p.Name) {
				result.addError(paramPath+".name", fmt.Sprintf("invalid parameter name %q in declaration %q", p.Name, d.Name))
			}
			if paramSeen[p.Name] {
				result.addError(paramPath+".name", fmt.Sprintf("duplicate parameter name %q in declaration %q", p.Name, d.Name))
			}
			paramSeen[p.Name] = true

			if strings.TrimSpace(p.Type) == "" {
				result.addError(paramPath+".type", fmt.Sprintf("parameter %q in declaration %q has an empty type", p.Name, d.Name))
			} else if p.Type == model.VoidType {
				result.addError(paramPath+".type", fmt.Sprintf("parameter %q in declaration %q cannot have type void", p.Name, d.Name))
			}
		}
	}

	return result
}
