package gen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mlverse/torchexport/model"
	"github.com/mlverse/torchexport/registry"
)

func testPipeline() *Pipeline {
	return NewPipeline(registry.New("void*"), NewTemplate("torch_api"))
}

func testDecls() []model.Declaration {
	return []model.Declaration{
		{
			Name:       "add_tensors",
			ReturnType: "torch::Tensor",
			Parameters: []model.Parameter{
				{Name: "a", Type: "torch::Tensor"},
				{Name: "b", Type: "torch::Tensor"},
			},
		},
		{
			Name:       "set_seed",
			ReturnType: "void",
			Parameters: []model.Parameter{{Name: "seed", Type: "int64_t"}},
		},
	}
}

func TestGenerate_EmptyInputIsNoop(t *testing.T) {
	p := testPipeline()
	docs, err := p.Generate(nil)
	if err != nil {
		t.Fatalf("empty input must not be an error: %v", err)
	}
	if !docs.Empty() {
		t.Error("expected empty documents for zero declarations")
	}
	if files := p.Files(docs); files != nil {
		t.Errorf("expected no output files, got %d", len(files))
	}
}

func TestGenerate_DocumentStructure(t *testing.T) {
	p := testPipeline()
	docs, err := p.Generate(testDecls())
	if err != nil {
		t.Fatalf("generating: %v", err)
	}

	impl := string(docs.Implementation)
	if !strings.Contains(impl, "#include \"torch_api_exports.h\"") {
		t.Error("implementation doc missing header include")
	}
	if !strings.Contains(impl, "TORCH_API_EXPORT void* _add_tensors (void* a, void* b)") {
		t.Errorf("implementation doc missing boundary definition:\n%s", impl)
	}
	if !strings.Contains(impl, "TORCH_API_EXPORT void _set_seed (int64_t seed)") {
		t.Errorf("implementation doc missing void boundary definition:\n%s", impl)
	}
	// Discovery order
	if strings.Index(impl, "_add_tensors") > strings.Index(impl, "_set_seed") {
		t.Error("implementation doc not in discovery order")
	}

	header := string(docs.Header)
	if !strings.Contains(header, "#ifndef TORCH_API_EXPORTS_H") {
		t.Error("header doc missing include guard")
	}
	declPos := strings.Index(header, "TORCH_API_EXPORT void* _add_tensors (void* a, void* b);")
	inlinePos := strings.Index(header, "inline torch::Tensor add_tensors (torch::Tensor a, torch::Tensor b)")
	if declPos < 0 || inlinePos < 0 {
		t.Fatalf("header doc missing declaration or inline wrapper:\n%s", header)
	}
	// The inline wrapper depends on the boundary symbol being visible.
	if inlinePos < declPos {
		t.Error("inline wrapper must follow its declaration in the header")
	}
	secondDecl := strings.Index(header, "TORCH_API_EXPORT void _set_seed (int64_t seed);")
	if secondDecl < inlinePos {
		t.Error("header pairs not in discovery order")
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	p := testPipeline()
	decls := testDecls()

	first, err := p.Generate(decls)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := p.Generate(decls)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if !bytes.Equal(first.Implementation, second.Implementation) {
		t.Error("implementation doc differs between identical runs")
	}
	if !bytes.Equal(first.Header, second.Header) {
		t.Error("header doc differs between identical runs")
	}
}

func TestGenerate_UnknownTypeAbortsWithNoOutput(t *testing.T) {
	p := testPipeline()
	decls := append(testDecls(), model.Declaration{Name: "bad", ReturnType: "Mystery"})

	docs, err := p.Generate(decls)
	if err == nil {
		t.Fatal("expected error for unregistered type")
	}
	if docs != nil {
		t.Error("expected no partial output on failure")
	}
}

func TestFiles_Names(t *testing.T) {
	p := testPipeline()
	docs, err := p.Generate(testDecls())
	if err != nil {
		t.Fatalf("generating: %v", err)
	}

	files := p.Files(docs)
	if len(files) != 2 {
		t.Fatalf("expected 2 output files, got %d", len(files))
	}
	if files[0].Path != "torch_api_exports.cpp" {
		t.Errorf("expected torch_api_exports.cpp, got %q", files[0].Path)
	}
	if files[1].Path != "torch_api_exports.h" {
		t.Errorf("expected torch_api_exports.h, got %q", files[1].Path)
	}
	if !bytes.Equal(files[0].Content, docs.Implementation) {
		t.Error("implementation file content mismatch")
	}
}

func TestTemplate_Defaults(t *testing.T) {
	tpl := NewTemplate("torch_api")
	if tpl.LinkageMacro != "TORCH_API_EXPORT" {
		t.Errorf("linkage macro default = %q", tpl.LinkageMacro)
	}
	if tpl.ProtectBegin != "TORCH_API_FUNCTION_START" || tpl.ProtectEnd != "TORCH_API_FUNCTION_END" {
		t.Errorf("protect macro defaults = %q / %q", tpl.ProtectBegin, tpl.ProtectEnd)
	}
	if tpl.CheckHook != "host_exception_check" {
		t.Errorf("check hook default = %q", tpl.CheckHook)
	}
	if tpl.BoundaryName("foo") != "_foo" {
		t.Errorf("boundary name = %q", tpl.BoundaryName("foo"))
	}
	if tpl.GuardName() != "TORCH_API_EXPORTS_H" {
		t.Errorf("guard name = %q", tpl.GuardName())
	}
}

func TestSentinel(t *testing.T) {
	tests := []struct {
		boundary string
		want     string
	}{
		{"void*", "nullptr"},
		{"int", "0"},
		{"int64_t", "0"},
	}
	for _, tt := range tests {
		if got := Sentinel(tt.boundary); got != tt.want {
			t.Errorf("Sentinel(%q) = %q, want %q", tt.boundary, got, tt.want)
		}
	}
}
