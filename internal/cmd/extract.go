package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwrap/cwrap/internal/output"
	"github.com/cwrap/cwrap/internal/parser"
	"github.com/cwrap/cwrap/internal/render"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <header>...",
	Short: "Convert headers into typed declaration documents",
	Long: `Parse each header and print its declarations: records with their fields,
enumerations with their values, functions, typedefs and variables. Types are
written inline and refer to other declarations by node id.

Density levels:
  sparse   id, kind, name and location only
  medium   adds types, members, arguments, aliases, macros and diagnostics
  dense    adds sizes, offsets, contexts, elided records and unresolved references

Several headers produce one YAML document each, separated by '---'.`,
	Example: `  cwrap extract point.h
  cwrap extract --density sparse a.h b.h
  cwrap extract --lang cpp --format json shapes.h`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeHeaders,
	RunE:              runExtract,
}

var extractLang string

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&extractLang, "lang", "", "Force the language (c|cpp); default by file extension")
}

// completeHeaders limits shell completion to files the frontend can parse.
func completeHeaders(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var exts []string
	for _, ext := range parser.SupportedExtensions() {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	return exts, cobra.ShellCompDirectiveFilterFileExt
}

func runExtract(cmd *cobra.Command, args []string) error {
	return renderHeaders(cmd, args, false)
}

// renderHeaders prints one document per header.
func renderHeaders(cmd *cobra.Command, paths []string, macrosOnly bool) error {
	r, cfg, closeFn, err := newRenderer()
	if err != nil {
		return err
	}
	defer closeFn()

	format, density, err := outputSettings(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, path := range paths {
		doc, err := r.Render(cmd.Context(), render.Request{
			Path:       path,
			Format:     format,
			Density:    density,
			MacrosOnly: macrosOnly,
			Language:   extractLang,
		})
		if err != nil {
			return err
		}
		if i > 0 && format == output.FormatYAML {
			fmt.Fprintln(out, "---")
		}
		fmt.Fprint(out, doc.Text)
	}
	return nil
}
