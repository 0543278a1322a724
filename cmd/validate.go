package cmd

import (
	"fmt"

	"github.com/mlverse/torchexport/gen"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [manifest.yaml]",
	Short: "Check the manifest and annotated sources without generating",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]

	if !quiet {
		fmt.Printf("Validating %s\n", manifestPath)
	}

	r, err := loadRun(manifestPath)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Printf("  Project: %s\n", r.Template.Name)
		fmt.Printf("  Registered types: %d\n", len(r.Registry.Names()))
		fmt.Printf("  Declarations: %d\n", len(r.Declarations))
	}

	// Plan every declaration so missing type registrations surface here
	// rather than at generation time.
	for i := range r.Declarations {
		if _, err := gen.BuildPlan(r.Registry, &r.Declarations[i], r.Template); err != nil {
			return fmt.Errorf("type resolution failed: %w", err)
		}
	}

	if !quiet {
		fmt.Println("Validation passed.")
	}
	return nil
}
