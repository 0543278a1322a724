package gen

import (
	"strings"

	"github.com/mlverse/torchexport/model"
)

// Template holds the project-configurable spellings used by the generated
// text: macro names, the boundary symbol prefix, and the host failure hooks.
// The fragment structure is fixed; only these tokens vary per project.
type Template struct {
	Name            string // project name, drives defaults and file names
	LinkageMacro    string // e.g. "TORCH_API"
	BoundaryPrefix  string // prepended to boundary-safe symbol names
	ProtectBegin    string // opens the scoped failure boundary
	ProtectEnd      string // closes it, converting failures to the last-error slot
	CheckHook       string // host-side hook that re-raises a signalled failure
	BoundaryPointer string // opaque pointer representation
}

// NewTemplate returns a template for the given project name with every
// unset field defaulted.
func NewTemplate(name string) *Template {
	t := &Template{Name: name}
	t.ApplyDefaults()
	return t
}

// ApplyDefaults fills empty fields with their derived defaults.
func (t *Template) ApplyDefaults() {
	if t.Name == "" {
		t.Name = "torchexport"
	}
	if t.LinkageMacro == "" {
		t.LinkageMacro = model.UpperSnakeCase(t.Name) + "_EXPORT"
	}
	if t.BoundaryPrefix == "" {
		t.BoundaryPrefix = "_"
	}
	if t.ProtectBegin == "" {
		t.ProtectBegin = model.UpperSnakeCase(t.Name) + "_FUNCTION_START"
	}
	if t.ProtectEnd == "" {
		t.ProtectEnd = model.UpperSnakeCase(t.Name) + "_FUNCTION_END"
	}
	if t.CheckHook == "" {
		t.CheckHook = "host_exception_check"
	}
	if t.BoundaryPointer == "" {
		t.BoundaryPointer = "void*"
	}
}

// BoundaryName returns the symbol name of the boundary-safe exported
// function for a declaration. The prefix keeps it from colliding with the
// native function it wraps.
func (t *Template) BoundaryName(declName string) string {
	return t.BoundaryPrefix + declName
}

// ImplFileName returns the implementation document file name.
func (t *Template) ImplFileName() string {
	return t.Name + "_exports.cpp"
}

// HeaderFileName returns the header document file name.
func (t *Template) HeaderFileName() string {
	return t.Name + "_exports.h"
}

// GuardName returns the header include-guard macro.
func (t *Template) GuardName() string {
	return model.UpperSnakeCase(t.Name) + "_EXPORTS_H"
}

// Sentinel returns the well-defined placeholder returned by a boundary
// function after a caught failure, so the return slot is never undefined.
func Sentinel(boundaryType string) string {
	if strings.HasSuffix(boundaryType, "*") {
		return "nullptr"
	}
	return "0"
}
