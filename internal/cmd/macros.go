package cmd

import (
	"github.com/spf13/cobra"
)

// macrosCmd represents the macros command
var macrosCmd = &cobra.Command{
	Use:   "macros <header>...",
	Short: "List the macros and aliases of headers",
	Long: `Print the #define table of each header. Object-like macros are aliases;
an alias whose value names a declaration or another alias carries that
target. Function-like macros are listed with their argument list and body.`,
	Example: `  cwrap macros config.h
  cwrap macros --format json config.h`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeHeaders,
	RunE:              runMacros,
}

func init() {
	rootCmd.AddCommand(macrosCmd)
	macrosCmd.Flags().StringVar(&extractLang, "lang", "", "Force the language (c|cpp); default by file extension")
}

func runMacros(cmd *cobra.Command, args []string) error {
	return renderHeaders(cmd, args, true)
}
