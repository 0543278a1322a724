package cmd

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "torchexport",
	Short: "Annotation-driven C boundary glue generator",
	Long:  "torchexport generates exception-safe C boundary wrappers, inline native wrappers, and header declarations for C++ functions annotated for export.",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
}

func Execute() error {
	return rootCmd.Execute()
}
