package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	richtextcmd "github.com/goliatone/go-richtext/internal/commands/richtext"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

func newImportCommand(flags *rootFlags) *cobra.Command {
	msg := richtextcmd.ImportDirectoryCommand{}
	cmd := &cobra.Command{
		Use:   "import [dir]",
		Short: "Convert Markdown sources and store them as entry fields",
		Long: `import walks dir below the content root, converts every Markdown body and
upserts it under the entry slug from front matter (slug, then title, then file
name). Unchanged sources are skipped unless --force is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg.Directory = "."
			if len(args) == 1 {
				msg.Directory = args[0]
			}

			module, err := buildModule(flags)
			if err != nil {
				return err
			}
			defer module.Module.Close()

			result := &interfaces.ImportResult{}
			msg.Result = result
			execErr := module.Module.Commands().Import.Execute(cmd.Context(), msg)
			printImportSummary(cmd.OutOrStdout(), result, msg.DryRun)
			return execErr
		},
	}
	cmd.Flags().StringVar(&msg.Field, "field", "", "Field id for every imported source (default: front matter or body)")
	cmd.Flags().StringVar(&msg.Locale, "locale", "", "Locale for every imported source (default: detected)")
	cmd.Flags().BoolVar(&msg.DryRun, "dry-run", false, "Report changes without writing")
	cmd.Flags().BoolVar(&msg.Force, "force", false, "Rewrite fields whose source is unchanged")
	return cmd
}

func printImportSummary(w io.Writer, result *interfaces.ImportResult, dryRun bool) {
	for _, key := range result.Created {
		fmt.Fprintf(w, "created %s\n", key)
	}
	for _, key := range result.Updated {
		fmt.Fprintf(w, "updated %s\n", key)
	}
	for _, key := range result.Skipped {
		fmt.Fprintf(w, "skipped %s\n", key)
	}
	suffix := ""
	if dryRun {
		suffix = " (dry run)"
	}
	fmt.Fprintf(w, "%s created, %s updated, %s skipped, %s failed%s\n",
		humanize.Comma(int64(len(result.Created))),
		humanize.Comma(int64(len(result.Updated))),
		humanize.Comma(int64(len(result.Skipped))),
		humanize.Comma(int64(len(result.Errors))),
		suffix,
	)
}

func newExportCommand(flags *rootFlags) *cobra.Command {
	var outDir string
	msg := richtextcmd.ExportEntriesCommand{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render stored entry fields back to Markdown",
		Long: `export renders the stored fields matching the filters. With --out-dir each
field is written to <out-dir>/<entry>/<field>.<locale>.md, otherwise fields are
printed one after another.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := buildModule(flags)
			if err != nil {
				return err
			}
			defer module.Module.Close()

			result := &richtextcmd.ExportResult{}
			msg.Result = result
			if err := module.Module.Commands().Export.Execute(cmd.Context(), msg); err != nil {
				return err
			}
			if strings.TrimSpace(outDir) == "" {
				return printFields(cmd.OutOrStdout(), result.Fields)
			}
			return writeFields(cmd.ErrOrStderr(), outDir, result.Fields)
		},
	}
	cmd.Flags().StringVar(&msg.Entry, "entry", "", "Only export this entry slug")
	cmd.Flags().StringVar(&msg.Field, "field", "", "Only export this field id")
	cmd.Flags().StringVar(&msg.Locale, "locale", "", "Only export this locale")
	cmd.Flags().IntVar(&msg.Limit, "limit", 0, "Maximum number of fields (0 for all)")
	cmd.Flags().IntVar(&msg.Offset, "offset", 0, "Number of fields to skip")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Write one Markdown file per field below this directory")
	return cmd
}

func printFields(w io.Writer, fields []interfaces.ExportedField) error {
	for _, field := range fields {
		if _, err := fmt.Fprintf(w, "<!-- %s -->\n%s", field.Key, field.Markdown); err != nil {
			return err
		}
	}
	return nil
}

func writeFields(w io.Writer, outDir string, fields []interfaces.ExportedField) error {
	var total uint64
	for _, field := range fields {
		name := exportPath(outDir, field)
		if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(name), err)
		}
		if err := os.WriteFile(name, []byte(field.Markdown), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		total += uint64(len(field.Markdown))
	}
	fmt.Fprintf(w, "exported %s fields (%s) to %s\n", humanize.Comma(int64(len(fields))), humanize.Bytes(total), outDir)
	return nil
}

// exportPath maps an entry key "entry/field/locale" to entry/field.locale.md.
func exportPath(outDir string, field interfaces.ExportedField) string {
	parts := strings.SplitN(field.Key, "/", 3)
	if len(parts) != 3 {
		return filepath.Join(outDir, strings.ReplaceAll(field.Key, "/", "_")+".md")
	}
	return filepath.Join(outDir, parts[0], parts[1]+"."+parts[2]+".md")
}
