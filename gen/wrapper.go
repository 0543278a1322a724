package gen

import (
	"fmt"
	"strings"

	"github.com/mlverse/torchexport/model"
	"github.com/mlverse/torchexport/registry"
)

// Fragments holds the three coordinated code fragments generated per
// declaration: the boundary-safe exported function definition, the inline
// wrapper that re-raises on the native side, and the plain declaration of
// the boundary function for the shared header.
type Fragments struct {
	Boundary    string // exception-safe exported definition (implementation doc)
	Inline      string // inline native wrapper (header doc)
	Declaration string // boundary function prototype (header doc)
}

// RenderFragments produces the three fragments for one declaration. Native
// exceptions must not cross the foreign-function boundary, so the boundary
// fragment traps them inside the protect macros and returns a sentinel; the
// inline fragment calls the check hook and is the only place a failure is
// re-raised, exactly once.
func RenderFragments(reg *registry.Registry, p *Plan, tpl *Template) (*Fragments, error) {
	decl, err := RenderDeclaration(reg, &p.Decl, ModeBoundary, tpl.BoundaryPrefix, tpl.LinkageMacro, false)
	if err != nil {
		return nil, fmt.Errorf("declaration %q: %w", p.Decl.Name, err)
	}

	f := &Fragments{
		Boundary:    renderBoundary(decl, p, tpl),
		Declaration: decl + ";\n",
	}

	inlineDecl, err := RenderDeclaration(reg, &p.Decl, ModeNative, "", "", true)
	if err != nil {
		return nil, fmt.Errorf("declaration %q: %w", p.Decl.Name, err)
	}
	f.Inline = renderInline(inlineDecl, p, tpl)
	return f, nil
}

// renderBoundary writes the boundary-safe exported function definition.
func renderBoundary(decl string, p *Plan, tpl *Template) string {
	var b strings.Builder
	b.WriteString(decl)
	b.WriteString("\n{\n")
	fmt.Fprintf(&b, "  %s\n", tpl.ProtectBegin)

	call := fmt.Sprintf("%s(%s)", p.Decl.Name, p.CallArgs)
	switch {
	case !p.HasReturn:
		fmt.Fprintf(&b, "  %s;\n", call)
	case p.NeedsBoxing:
		fmt.Fprintf(&b, "  return %s(%s);\n", p.ReturnType.ToRaw, call)
	default:
		fmt.Fprintf(&b, "  return %s;\n", call)
	}

	fmt.Fprintf(&b, "  %s\n", tpl.ProtectEnd)
	if p.HasReturn {
		fmt.Fprintf(&b, "  return %s;\n", Sentinel(p.BoundaryRet))
	}
	b.WriteString("}\n")
	return b.String()
}

// renderInline writes the inline wrapper: forward to the boundary function,
// check for a propagated failure, then return the stored result.
func renderInline(decl string, p *Plan, tpl *Template) string {
	var b strings.Builder
	b.WriteString(decl)
	b.WriteString("\n{\n")

	call := fmt.Sprintf("%s(%s)", p.BoundaryName, p.ForwardArgs)
	if p.HasReturn {
		fmt.Fprintf(&b, "  auto ret = %s;\n", call)
	} else {
		fmt.Fprintf(&b, "  %s;\n", call)
	}
	fmt.Fprintf(&b, "  %s();\n", tpl.CheckHook)
	if p.HasReturn {
		b.WriteString("  return ret;\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// Render is the single-declaration convenience path: plan then render.
func Render(reg *registry.Registry, d *model.Declaration, tpl *Template) (*Fragments, error) {
	p, err := BuildPlan(reg, d, tpl)
	if err != nil {
		return nil, err
	}
	return RenderFragments(reg, p, tpl)
}
