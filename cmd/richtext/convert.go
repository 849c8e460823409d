package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	richtextcmd "github.com/goliatone/go-richtext/internal/commands/richtext"
	"github.com/goliatone/go-richtext/internal/markdown"
	"github.com/goliatone/go-richtext/internal/mdast"
	"github.com/goliatone/go-richtext/internal/transform"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

func newFromMarkdownCommand(flags *rootFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "from-markdown <file|->",
		Short: "Convert a Markdown file into rich-text document JSON",
		Long: `from-markdown strips any front matter, converts the Markdown body and prints
the document JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			_, body, err := markdown.ParseFrontMatter(source)
			if err != nil {
				return err
			}

			module, err := buildModule(flags)
			if err != nil {
				return err
			}
			defer module.Module.Close()

			result := &richtextcmd.ConversionResult{}
			err = module.Module.Commands().ConvertMarkdown.Execute(cmd.Context(), richtextcmd.ConvertMarkdownCommand{
				Markdown: string(body),
				Source:   args[0],
				Result:   result,
			})
			if err != nil {
				return err
			}
			return writeDocument(cmd, result, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the document JSON to a file")
	return cmd
}

func newFromHTMLCommand(flags *rootFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "from-html <file|->",
		Short: "Convert the main content of an HTML page into rich-text document JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			module, err := buildModule(flags)
			if err != nil {
				return err
			}
			defer module.Module.Close()

			result := &richtextcmd.ConversionResult{}
			err = module.Module.Commands().ConvertHTML.Execute(cmd.Context(), richtextcmd.ConvertHTMLCommand{
				HTML:   string(source),
				Source: args[0],
				Result: result,
			})
			if err != nil {
				return err
			}
			return writeDocument(cmd, result, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the document JSON to a file")
	return cmd
}

func newFromDocxCommand(flags *rootFlags) *cobra.Command {
	var (
		out string
		to  string
	)
	cmd := &cobra.Command{
		Use:   "from-docx <file>",
		Short: "Convert a Word document through pandoc",
		Long: `from-docx runs pandoc on a .docx file and prints rich-text document JSON,
Markdown or plain text. pandoc must be installed and on PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := buildModule(flags)
			if err != nil {
				return err
			}
			defer module.Module.Close()

			service := module.Module.Service()
			switch strings.ToLower(strings.TrimSpace(to)) {
			case "", "json":
				doc, err := service.ConvertDocx(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeDocument(cmd, &richtextcmd.ConversionResult{Document: doc}, out)
			case "markdown", "md":
				text, err := service.DocxMarkdown(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeOutput(cmd, []byte(text), out)
			case "text", "plain":
				text, err := service.DocxText(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeOutput(cmd, []byte(text), out)
			default:
				return fmt.Errorf("from-docx: unsupported output %q (json, markdown or text)", to)
			}
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the output to a file")
	cmd.Flags().StringVar(&to, "to", "json", "Output format: json, markdown or text")
	return cmd
}

func writeDocument(cmd *cobra.Command, result *richtextcmd.ConversionResult, out string) error {
	data, err := json.MarshalIndent(result.Document, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return writeOutput(cmd, append(data, '\n'), out)
}

func newRenderCommand(flags *rootFlags, use, format string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   use + " <file.json|->",
		Short: "Render rich-text document JSON as " + format,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			module, err := buildModule(flags)
			if err != nil {
				return err
			}
			defer module.Module.Close()

			result := &richtextcmd.RenderResult{}
			err = module.Module.Commands().Render.Execute(cmd.Context(), richtextcmd.RenderDocumentCommand{
				Document:       source,
				Format:         format,
				SkipValidation: !module.Module.Container().Config.RichText.ValidateDocuments,
				Result:         result,
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd, []byte(result.Output), out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the rendered output to a file")
	return cmd
}

func newASTCommand(flags *rootFlags) *cobra.Command {
	var (
		raw   bool
		color bool
	)
	cmd := &cobra.Command{
		Use:   "ast <file|->",
		Short: "Print the syntax tree the transformer receives for a Markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			_, body, err := markdown.ParseFrontMatter(source)
			if err != nil {
				return err
			}

			parser := markdown.NewGoldmarkParser(interfaces.ParseOptions{
				Extensions: flags.options().Extensions,
			})
			if !raw {
				body = []byte(transform.PrepareSource(string(body)))
			}
			root, err := parser.ParseAST(body)
			if err != nil {
				return err
			}
			if !raw {
				root = mdast.Normalize(root)
			}

			pp.ColoringEnabled = color
			_, err = pp.Fprintln(cmd.OutOrStdout(), root)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the parser output without source preparation or normalisation")
	cmd.Flags().BoolVar(&color, "color", false, "Colourise the output")
	return cmd
}

func newPreviewCommand(flags *rootFlags) *cobra.Command {
	var (
		out       string
		hardWraps bool
	)
	cmd := &cobra.Command{
		Use:   "preview <file|->",
		Short: "Render a Markdown file straight to HTML with goldmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			_, body, err := markdown.ParseFrontMatter(source)
			if err != nil {
				return err
			}

			module, err := buildModule(flags)
			if err != nil {
				return err
			}
			defer module.Module.Close()

			html, err := module.Module.Service().Preview(cmd.Context(), body, interfaces.ParseOptions{HardWraps: hardWraps})
			if err != nil {
				return err
			}
			return writeOutput(cmd, html, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the HTML to a file")
	cmd.Flags().BoolVar(&hardWraps, "hard-wraps", false, "Render soft line breaks as <br>")
	return cmd
}
