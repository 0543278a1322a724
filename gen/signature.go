package gen

import (
	"fmt"
	"strings"

	"github.com/mlverse/torchexport/model"
	"github.com/mlverse/torchexport/registry"
)

// Mode selects the representation a signature or argument list is rendered
// in: the native C++ types as written, or the restricted set that may cross
// the foreign-function boundary.
type Mode int

const (
	ModeNative Mode = iota
	ModeBoundary
)

// TranslateType returns the spelling of a semantic type in the requested
// representation. Native mode passes types through unchanged; boundary mode
// substitutes the registered boundary type, leaving primitives as-is.
func TranslateType(reg *registry.Registry, t string, mode Mode) (string, error) {
	m, err := reg.Resolve(t)
	if err != nil {
		return "", err
	}
	if mode == ModeBoundary {
		return m.BoundaryType, nil
	}
	return t, nil
}

// Signature renders a declaration's parameter list as "type name" pairs
// joined by ", ", in declaration order. Callers across the boundary match
// positionally, so the order must never be reordered.
func Signature(reg *registry.Registry, d *model.Declaration, mode Mode) (string, error) {
	parts := make([]string, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		t, err := TranslateType(reg, p.Type, mode)
		if err != nil {
			return "", fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		parts = append(parts, t+" "+p.Name)
	}
	return strings.Join(parts, ", "), nil
}

// CallArgs renders the argument list for forwarding a call. In boundary mode
// every argument with a registered mapping is unboxed through its
// from-boundary casting function; primitives pass through by name. Native
// mode forwards every argument unchanged.
func CallArgs(reg *registry.Registry, d *model.Declaration, mode Mode) (string, error) {
	parts := make([]string, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		m, err := reg.Resolve(p.Type)
		if err != nil {
			return "", fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		if mode == ModeBoundary && m.FromRaw != "" {
			parts = append(parts, m.FromRaw+"("+p.Name+")")
		} else {
			parts = append(parts, p.Name)
		}
	}
	return strings.Join(parts, ", "), nil
}

// RenderDeclaration composes a full declaration line:
// [linkage ][inline ]<return-type> <prefix><name> (<signature>).
// No trailing separator or body; callers append ";" or a block.
func RenderDeclaration(reg *registry.Registry, d *model.Declaration, mode Mode, prefix, linkage string, isInline bool) (string, error) {
	ret := model.VoidType
	if !d.IsVoid() {
		var err error
		ret, err = TranslateType(reg, d.ReturnType, mode)
		if err != nil {
			return "", fmt.Errorf("return type: %w", err)
		}
	}
	sig, err := Signature(reg, d, mode)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if linkage != "" {
		b.WriteString(linkage)
		b.WriteString(" ")
	}
	if isInline {
		b.WriteString("inline ")
	}
	fmt.Fprintf(&b, "%s %s%s (%s)", ret, prefix, d.Name, sig)
	return b.String(), nil
}
