package model

import (
	"regexp"
	"strings"
)

// VoidType is the unit return type spelling.
const VoidType = "void"

// Declaration is the normalized representation of one exported function
// signature, produced by the scanner or the manifest loader. Immutable once
// built; generated symbol names are derived from Name.
type Declaration struct {
	Name       string
	ReturnType string // VoidType for unit returns
	Parameters []Parameter
}

// Parameter is one (name, semantic type) pair; order is significant.
type Parameter struct {
	Name string
	Type string
}

// IsVoid reports whether the declaration has a unit return type.
func (d *Declaration) IsVoid() bool {
	return d.ReturnType == "" || d.ReturnType == VoidType
}

// Directive is a typed type-registration instruction. Free-form annotation
// arguments are parsed into this at the scanner/loader boundary; the
// generator never sees raw directive text.
type Directive struct {
	SemanticName string
	ToRaw        string
	FromRaw      string // optional; derived from ToRaw when empty
	BoundaryType string // optional; registry default when empty
	BindingType  string // opaque passthrough for binding generators
}

// EffectiveFromRaw returns the from-boundary casting function, deriving it
// from the to-boundary name when the directive omitted it. Casting functions
// come in make_raw::/from_raw:: pairs, so the derivation swaps the prefix.
func (dir Directive) EffectiveFromRaw() string {
	if dir.FromRaw != "" {
		return dir.FromRaw
	}
	if strings.Contains(dir.ToRaw, "make_raw") {
		return strings.Replace(dir.ToRaw, "make_raw", "from_raw", 1)
	}
	return "from_raw::" + dir.SemanticName
}

var primitiveTypes = map[string]bool{
	"void": true, "bool": true, "char": true, "int": true, "long": true,
	"float": true, "double": true, "size_t": true, "std::string": true,
	"int8_t": true, "int16_t": true, "int32_t": true, "int64_t": true,
	"uint8_t": true, "uint16_t": true, "uint32_t": true, "uint64_t": true,
	"intptr_t": true, "uintptr_t": true,
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsPrimitive returns true for types that cross the boundary as themselves:
// the scalar set above, plain pointers, and const-qualified spellings.
func IsPrimitive(t string) bool {
	t = strings.TrimSpace(t)
	if primitiveTypes[t] {
		return true
	}
	if strings.HasSuffix(t, "*") {
		return true
	}
	if rest, ok := strings.CutPrefix(t, "const "); ok {
		return IsPrimitive(rest)
	}
	if rest, ok := strings.CutPrefix(t, "unsigned "); ok {
		return IsPrimitive(rest)
	}
	return false
}

// IsIdentifier returns true if s is a plain C identifier.
func IsIdentifier(s string) bool {
	return identPattern.MatchString(s)
}

// UpperSnakeCase converts a snake_case name to UPPER_SNAKE_CASE.
func UpperSnakeCase(s string) string {
	return strings.ToUpper(s)
}
