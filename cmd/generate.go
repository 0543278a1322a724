package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mlverse/torchexport/gen"
	"github.com/spf13/cobra"
)

var (
	genOutput string
	genDryRun bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [manifest.yaml]",
	Short: "Generate the boundary wrapper source and header from a manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "./generated", "Output directory")
	generateCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "Show what would be generated without writing")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]

	if !quiet {
		fmt.Printf("Generating from %s\n", manifestPath)
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

	pipeline := gen.NewPipeline(r.Registry, r.Template)
	docs, err := pipeline.Generate(r.Declarations)
	if err != nil {
		return fmt.Errorf("generating wrappers: %w", err)
	}

	if docs.Empty() {
		if !quiet {
			fmt.Println("No exported declarations found; nothing to generate.")
		}
		return nil
	}

	var written int
	for _, f := range pipeline.Files(docs) {
		outPath := filepath.Join(genOutput, f.Path)

		if genDryRun {
			fmt.Printf("  Would write: %s\n", outPath)
			continue
		}

		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", outPath, err)
		}
		if err := os.WriteFile(outPath, f.Content, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}

		written++
		if verbose {
			fmt.Printf("  Wrote: %s\n", outPath)
		}
	}

	if !quiet && !genDryRun {
		fmt.Printf("Generated %d files in %s from %d declaration(s)\n", written, genOutput, len(r.Declarations))
	}
	return nil
}
