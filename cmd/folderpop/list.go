package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/folderpop/internal/output"
	"github.com/jmylchreest/folderpop/internal/shell"
	"github.com/jmylchreest/folderpop/internal/snapshot"
)

var listOpts struct {
	format   string
	template string
	noHeader bool
	noIndex  bool
	noSize   bool
	noTime   bool
}

var listCmd = &cobra.Command{
	Use:   "list [folder]",
	Short: "Print the entries the popup would show",
	Long: `Print the entries of a folder in the order the popup shows them,
directories first and capped at the configured maximum.

Examples:
  # Print the desktop folder
  folderpop list

  # Pick an entry with a dmenu-style launcher
  xdg-open "$(folderpop list ~/Downloads --format dmenu | fuzzel -d)"

  # Custom line format
  folderpop list --template '{{.Kind}} {{.Name}} {{bytes .Size}}'

  # Machine readable
  folderpop list --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listOpts.format, "format", string(output.FormatPlain),
		"Output format (plain, dmenu, json, yaml)")
	listCmd.Flags().StringVar(&listOpts.template, "template", "",
		"Go template for plain and dmenu lines")
	listCmd.Flags().BoolVar(&listOpts.noHeader, "no-header", false,
		"Omit the title and status lines")
	listCmd.Flags().BoolVar(&listOpts.noIndex, "no-index", false,
		"Omit entry numbers")
	listCmd.Flags().BoolVar(&listOpts.noSize, "no-size", false,
		"Omit file sizes")
	listCmd.Flags().BoolVar(&listOpts.noTime, "no-time", false,
		"Omit modification times")
}

func runList(cmd *cobra.Command, args []string) error {
	format := output.FormatType(strings.ToLower(listOpts.format))
	if !slices.Contains(output.ValidFormats(), format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", listOpts.format, output.ValidFormats())
	}

	folder, err := resolveFolder(cmd.Context(), "", args)
	if err != nil {
		return err
	}

	snap := snapshot.Load(folder, snapshot.LoadOptions{
		MaxEntries: cfg.Snapshot.MaxEntries,
		Lister:     shell.DirLister{},
		Logger:     logger,
	})
	defer snap.Release()

	opts := output.DefaultFormatterOptions()
	opts.Template = listOpts.template
	opts.Header = !listOpts.noHeader
	opts.ShowIndex = !listOpts.noIndex
	opts.ShowSize = !listOpts.noSize
	opts.ShowTime = !listOpts.noTime

	formatter := output.NewFormatter(format, opts)
	return formatter.Format(os.Stdout, output.NewListing(snap))
}
