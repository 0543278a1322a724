package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	initName   string
	initOutput string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a starter manifest and annotated source file",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initName, "name", "n", "my_api", "Project name")
	initCmd.Flags().StringVarP(&initOutput, "output", "o", ".", "Output directory")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if !quiet {
		fmt.Printf("Initializing project %s in %s\n", initName, initOutput)
	}

	srcDir := filepath.Join(initOutput, "csrc")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		return fmt.Errorf("creating source directory: %w", err)
	}

	manifestPath := filepath.Join(initOutput, initName+".yaml")
	manifest := fmt.Sprintf(`project:
  name: %s

# Explicit type registrations. Built-ins cover torch::Tensor and
# torch::TensorList; register anything else you pass across the boundary.
# types:
#   - name: torch::ScriptModule
#     to_raw: make_raw::ScriptModule
#     binding: XPtrTorchScriptModule

sources:
  - csrc/exports.cpp
`, initName)

	if err := os.WriteFile(manifestPath, []byte(manifest), 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	sourcePath := filepath.Join(srcDir, "exports.cpp")
	source := `#include <torch/torch.h>

// [[torch::export]]
torch::Tensor add_tensors (torch::Tensor a, torch::Tensor b)
{
  return a + b;
}
`
	if err := os.WriteFile(sourcePath, []byte(source), 0644); err != nil {
		return fmt.Errorf("writing source stub: %w", err)
	}

	if !quiet {
		fmt.Printf("Created:\n")
		fmt.Printf("  %s\n", manifestPath)
		fmt.Printf("  %s\n", sourcePath)
		fmt.Printf("\nNext: torchexport generate %s\n", manifestPath)
	}
	return nil
}
