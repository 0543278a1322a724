package gen

import (
	"fmt"
	"strings"

	"github.com/mlverse/torchexport/model"
	"github.com/mlverse/torchexport/registry"
)

// OutputFile represents a single generated file. Writes are total
// overwrites; the pipeline has no notion of incremental diffing.
type OutputFile struct {
	Path    string // relative path within the output directory
	Content []byte
}

// Documents are the two ordered text artifacts of one generation run.
type Documents struct {
	Implementation []byte
	Header         []byte
}

// Empty reports whether the run produced nothing (zero declarations is a
// valid steady state, not an error).
func (d *Documents) Empty() bool {
	return len(d.Implementation) == 0 && len(d.Header) == 0
}

// Pipeline assembles the implementation and header documents from the full
// set of discovered declarations. The registry must be fully populated
// before Generate runs; the pipeline only reads it.
type Pipeline struct {
	Registry *registry.Registry
	Template *Template
}

// NewPipeline creates a pipeline over a populated registry and template.
func NewPipeline(reg *registry.Registry, tpl *Template) *Pipeline {
	return &Pipeline{Registry: reg, Template: tpl}
}

// Generate renders three fragments per declaration and concatenates them in
// discovery order: boundary definitions into the implementation document,
// (declaration, inline wrapper) pairs into the header document. Any type
// without a mapping aborts the run with no partial output.
func (p *Pipeline) Generate(decls []model.Declaration) (*Documents, error) {
	if len(decls) == 0 {
		return &Documents{}, nil
	}

	fragments := make([]*Fragments, 0, len(decls))
	for i := range decls {
		f, err := Render(p.Registry, &decls[i], p.Template)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, f)
	}

	var impl strings.Builder
	p.writePrologue(&impl)
	fmt.Fprintf(&impl, "#include \"%s\"\n\n", p.Template.HeaderFileName())
	for i, f := range fragments {
		if i > 0 {
			impl.WriteString("\n")
		}
		impl.WriteString(f.Boundary)
	}

	var header strings.Builder
	p.writePrologue(&header)
	fmt.Fprintf(&header, "#ifndef %s\n", p.Template.GuardName())
	fmt.Fprintf(&header, "#define %s\n\n", p.Template.GuardName())
	for _, f := range fragments {
		// The inline wrapper must follow its declaration: it calls the
		// boundary symbol, which has to be visible first.
		header.WriteString(f.Declaration)
		header.WriteString(f.Inline)
		header.WriteString("\n")
	}
	header.WriteString("#endif\n")

	return &Documents{
		Implementation: []byte(impl.String()),
		Header:         []byte(header.String()),
	}, nil
}

// Files maps the documents onto their destination file names.
func (p *Pipeline) Files(docs *Documents) []*OutputFile {
	if docs.Empty() {
		return nil
	}
	return []*OutputFile{
		{Path: p.Template.ImplFileName(), Content: docs.Implementation},
		{Path: p.Template.HeaderFileName(), Content: docs.Header},
	}
}

func (p *Pipeline) writePrologue(b *strings.Builder) {
	fmt.Fprintf(b, "// Generated by torchexport for %s. Do not edit by hand.\n", p.Template.Name)
}
