package validate

import (
	"strings"
	"testing"

	"github.com/mlverse/torchexport/model"
)

func validDecls() []model.Declaration {
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

func TestValidate_Valid(t *testing.T) {
	result := Validate(validDecls())
	if !result.IsValid() {
		t.Errorf("expected valid declarations, got:\n%s", result.Error())
	}
}

func TestValidate_EmptySetIsValid(t *testing.T) {
	result := Validate(nil)
	if !result.IsValid() {
		t.Errorf("zero declarations is a valid steady state, got:\n%s", result.Error())
	}
}

func TestValidate_DuplicateDeclarationName(t *testing.T) {
	decls := validDecls()
	decls = append(decls, model.Declaration{Name: "add_tensors", ReturnType: "int"})

	result := Validate(decls)
	if result.IsValid() {
		t.Fatal("expected error for duplicate declaration name")
	}
	if !strings.Contains(result.Error(), `duplicate declaration name "add_tensors"`) {
		t.Errorf("unexpected error text:\n%s", result.Error())
	}
	if !strings.Contains(result.Error(), "declarations[2]") {
		t.Errorf("error should carry the declaration path:\n%s", result.Error())
	}
}

func TestValidate_InvalidDeclarationName(t *testing.T) {
	result := Validate([]model.Declaration{{Name: "not valid", ReturnType: "void"}})
	if result.IsValid() {
		t.Fatal("expected error for invalid declaration name")
	}
}

func TestValidate_DuplicateParameterName(t *testing.T) {
	result := Validate([]model.Declaration{{
		Name:       "f",
		ReturnType: "void",
		Parameters: []model.Parameter{
			{Name: "x", Type: "int"},
			{Name: "x", Type: "double"},
		},
	}})
	if result.IsValid() {
		t.Fatal("expected error for duplicate parameter name")
	}
	if !strings.Contains(result.Error(), "parameters[1].name") {
		t.Errorf("error should point at the second parameter:\n%s", result.Error())
	}
}

func TestValidate_VoidParameter(t *testing.T) {
	result := Validate([]model.Declaration{{
		Name:       "f",
		ReturnType: "void",
		Parameters: []model.Parameter{{Name: "x", Type: "void"}},
	}})
	if result.IsValid() {
		t.Fatal("expected error for void-typed parameter")
	}
}

func TestValidate_EmptyReturnType(t *testing.T) {
	result := Validate([]model.Declaration{{Name: "f"}})
	if result.IsValid() {
		t.Fatal("expected error for empty return type")
	}
}

func TestValidate_AccumulatesAllErrors(t *testing.T) {
	result := Validate([]model.Declaration{
		{Name: "bad name", ReturnType: ""},
		{Name: "f", ReturnType: "void", Parameters: []model.Parameter{{Name: "1x", Type: ""}}},
	})
	if len(result.Errors) < 4 {
		t.Errorf("expected all errors accumulated, got %d:\n%s", len(result.Errors), result.Error())
	}
}
