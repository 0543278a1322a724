package gen

import (
	"fmt"

	"github.com/mlverse/torchexport/model"
	"github.com/mlverse/torchexport/registry"
)

// Plan is the per-declaration emission plan: every decision about what to
// emit (boxing, unboxing, result storage) is made here, once, against the
// registry. Rendering then has no decisions left to take.
type Plan struct {
	Decl         model.Declaration
	HasReturn    bool
	ReturnType   registry.Mapping // zero-value when HasReturn is false
	NeedsBoxing  bool             // return value goes through ToRaw
	Params       []ParamPlan
	BoundarySig  string // boundary-representation parameter list
	NativeSig    string // native-representation parameter list
	CallArgs     string // boundary-to-native forwarded arguments
	ForwardArgs  string // native-to-native forwarded arguments (by name)
	BoundaryRet  string // boundary-representation return type spelling
	NativeRet    string // native return type spelling
	BoundaryName string
}

// ParamPlan records the per-parameter unboxing decision.
type ParamPlan struct {
	Name         string
	NativeType   string
	BoundaryType string
	NeedsUnbox   bool
	FromRaw      string
}

// BuildPlan resolves every type a declaration uses and fixes the emission
// decisions. It fails with the offending declaration and type named when a
// non-primitive type has no registry entry.
func BuildPlan(reg *registry.Registry, d *model.Declaration, tpl *Template) (*Plan, error) {
	p := &Plan{
		Decl:         *d,
		HasReturn:    !d.IsVoid(),
		BoundaryName: tpl.BoundaryName(d.Name),
		NativeRet:    model.VoidType,
		BoundaryRet:  model.VoidType,
	}

	if p.HasReturn {
		m, err := reg.Resolve(d.ReturnType)
		if err != nil {
			return nil, fmt.Errorf("declaration %q: return type: %w", d.Name, err)
		}
		p.ReturnType = m
		p.NeedsBoxing = m.ToRaw != ""
		p.NativeRet = d.ReturnType
		p.BoundaryRet = m.BoundaryType
	}

	for _, param := range d.Parameters {
		m, err := reg.Resolve(param.Type)
		if err != nil {
			return nil, fmt.Errorf("declaration %q: parameter %q: %w", d.Name, param.Name, err)
		}
		p.Params = append(p.Params, ParamPlan{
			Name:         param.Name,
			NativeType:   param.Type,
			BoundaryType: m.BoundaryType,
			NeedsUnbox:   m.FromRaw != "",
			FromRaw:      m.FromRaw,
		})
	}

	var err error
	if p.BoundarySig, err = Signature(reg, d, ModeBoundary); err != nil {
		return nil, fmt.Errorf("declaration %q: %w", d.Name, err)
	}
	if p.NativeSig, err = Signature(reg, d, ModeNative); err != nil {
		return nil, fmt.Errorf("declaration %q: %w", d.Name, err)
	}
	if p.CallArgs, err = CallArgs(reg, d, ModeBoundary); err != nil {
		return nil, fmt.Errorf("declaration %q: %w", d.Name, err)
	}
	if p.ForwardArgs, err = CallArgs(reg, d, ModeNative); err != nil {
		return nil, fmt.Errorf("declaration %q: %w", d.Name, err)
	}
	return p, nil
}
