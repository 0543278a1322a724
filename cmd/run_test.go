package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlverse/torchexport/gen"
)

func TestLoadRun_Full(t *testing.T) {
	r, err := loadRun(filepath.Join("..", "testdata", "full.yaml"))
	if err != nil {
		t.Fatalf("loading run: %v", err)
	}

	if r.Template.Name != "torch_api" {
		t.Errorf("template name = %q", r.Template.Name)
	}
	if r.Template.LinkageMacro != "TORCH_API" {
		t.Errorf("linkage macro override not applied: %q", r.Template.LinkageMacro)
	}

	// Manifest functions precede scanned declarations.
	names := make([]string, 0, len(r.Declarations))
	for _, d := range r.Declarations {
		names = append(names, d.Name)
	}
	want := []string{"make_identity", "reset_state", "add_tensors", "set_seed", "stream_id"}
	if len(names) != len(want) {
		t.Fatalf("expected %d declarations, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("declaration[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	// Both the manifest registration and the source directive landed.
	if _, ok := r.Registry.Lookup("torch::ScriptModule"); !ok {
		t.Error("manifest type registration missing from registry")
	}
	if _, ok := r.Registry.Lookup("torch::Stream"); !ok {
		t.Error("source directive registration missing from registry")
	}
}

func TestLoadRun_GeneratesBothDocuments(t *testing.T) {
	r, err := loadRun(filepath.Join("..", "testdata", "full.yaml"))
	if err != nil {
		t.Fatalf("loading run: %v", err)
	}

	docs, err := gen.NewPipeline(r.Registry, r.Template).Generate(r.Declarations)
	if err != nil {
		t.Fatalf("generating: %v", err)
	}

	impl := string(docs.Implementation)
	if !strings.Contains(impl, "TORCH_API void* _make_identity (int64_t n)") {
		t.Errorf("implementation doc missing manifest declaration:\n%s", impl)
	}
	// stream_id uses the type registered by a source directive; the
	// registration phase completes before generation reads the registry.
	if !strings.Contains(impl, "return stream_id(from_raw::Stream(stream));") {
		t.Errorf("implementation doc missing unboxed directive type:\n%s", impl)
	}

	header := string(docs.Header)
	if !strings.Contains(header, "inline torch::Tensor add_tensors (torch::Tensor a, torch::TensorList others)") {
		t.Errorf("header doc missing inline wrapper for scanned declaration:\n%s", header)
	}
}

func TestLoadRun_Minimal(t *testing.T) {
	r, err := loadRun(filepath.Join("..", "testdata", "minimal.yaml"))
	if err != nil {
		t.Fatalf("loading run: %v", err)
	}
	if len(r.Declarations) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(r.Declarations))
	}
	if r.Template.LinkageMacro != "TEST_API_EXPORT" {
		t.Errorf("default linkage macro = %q", r.Template.LinkageMacro)
	}
}
