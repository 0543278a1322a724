package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/mlverse/torchexport/gen"
	"github.com/mlverse/torchexport/loader"
	"github.com/mlverse/torchexport/model"
	"github.com/mlverse/torchexport/registry"
	"github.com/mlverse/torchexport/scanner"
	"github.com/mlverse/torchexport/validate"
)

// run is the shared state of one generation run: the template, the
// populated registry, and the declarations in discovery order.
type run struct {
	Template     *gen.Template
	Registry     *registry.Registry
	Declarations []model.Declaration
}

// loadRun loads a manifest, scans its sources, populates the registry in
// discovery order (manifest types first, then source directives), and
// validates the combined declaration set. Registration completes before
// anything reads the registry.
func loadRun(manifestPath string) (*run, error) {
	m, err := loader.LoadManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}

	tpl := &gen.Template{
		Name:            m.Project.Name,
		LinkageMacro:    m.Project.LinkageMacro,
		BoundaryPrefix:  m.Project.BoundaryPrefix,
		ProtectBegin:    m.Project.ProtectBegin,
		ProtectEnd:      m.Project.ProtectEnd,
		CheckHook:       m.Project.CheckHook,
		BoundaryPointer: m.Project.BoundaryPointer,
	}
	tpl.ApplyDefaults()

	scanned := &scanner.Result{}
	if len(m.Sources) > 0 {
		baseDir := filepath.Dir(manifestPath)
		scanned, err = scanner.ScanSources(baseDir, m.Sources)
		if err != nil {
			return nil, err
		}
	}

	reg := registry.New(tpl.BoundaryPointer)
	directives := append(m.Directives(), scanned.Directives...)
	for _, dir := range directives {
		if err := reg.RegisterDirective(dir); err != nil {
			return nil, fmt.Errorf("registering type: %w", err)
		}
	}

	decls := append(m.Declarations(), scanned.Declarations...)
	if result := validate.Validate(decls); !result.IsValid() {
		return nil, fmt.Errorf("validation failed:\n%s", result.Error())
	}

	return &run{Template: tpl, Registry: reg, Declarations: decls}, nil
}
