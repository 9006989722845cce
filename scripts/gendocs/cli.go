package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapdocs/internal/cli"
	"github.com/leapstack-labs/leapdocs/internal/cli/commands"
	"github.com/leapstack-labs/leapdocs/internal/cli/config"
	"github.com/leapstack-labs/leapdocs/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// generateCLIDocs writes index.md, one page per leapdocs command and api.md
// for the endpoints `leapdocs serve` exposes.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	pages := map[string][]byte{
		"index.md": cliIndex(root),
		"api.md":   apiReference(),
	}
	for _, cmd := range documented(root) {
		pages[cmd.Name()+".md"] = commandPage(cmd)
	}

	for name, content := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name), content, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

// documented returns the user-facing subcommands.
func documented(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || !cmd.IsAvailableCommand() {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func cliIndex(root *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for leapdocs")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)
	w.CodeBlock("bash", "go install github.com/leapstack-labs/leapdocs/cmd/leapdocs@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range documented(root) {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](%s.md)", InlineCode(cmd.Name()), cmd.Name()),
			cleanDescription(cmd.Short),
			jsonSupport(cmd),
		})
	}
	w.Table([]string{"Command", "Description", "JSON output"}, rows)

	w.Header(2, "Global Options")
	writeFlags(w, root.PersistentFlags())

	w.Header(2, "Output Formats")
	w.BulletList([]string{
		InlineCode(config.OutputText) + ": tables for summaries, nodes and search results; indented lists for trees, with `/` after folders and schemas and `*` after selected entries",
		InlineCode(config.OutputJSON) + ": indented JSON on stdout, described on each command page",
	})
	w.Paragraph("Logs go to stderr, so JSON output can be piped.")

	w.Header(2, "Environment Variables")
	var envRows [][]string
	for _, f := range getConfigSchema() {
		envRows = append(envRows, []string{InlineCode(f.EnvVar()), InlineCode(f.Key), f.Description})
	}
	w.Table([]string{"Variable", "Config key", "Description"}, envRows)
	w.Paragraph("Flags take precedence over environment variables, which take precedence over the config file.")

	return w.Bytes()
}

func jsonSupport(cmd *cobra.Command) string {
	if _, ok := cmd.Annotations[commands.AnnotationJSON]; ok {
		return "yes"
	}
	return "-"
}

func commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", cmd.UseLine())

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		writeFlags(w, cmd.LocalFlags())
	}

	if shape, ok := cmd.Annotations[commands.AnnotationJSON]; ok {
		w.Header(2, "JSON Output")
		w.Paragraph(shape)
	}

	if cmd.Name() == "serve" {
		w.Paragraph("See [the API reference](api.md) for the endpoints.")
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}

	return w.Bytes()
}

func apiReference() []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("HTTP API", "Endpoints served by leapdocs serve")
	w.GeneratedMarker()

	w.Header(1, "HTTP API")
	w.Paragraph(fmt.Sprintf("`leapdocs serve` listens on port %d by default. Every `/api` endpoint answers 503 until the first compile finishes.",
		config.Default().Server.Port))

	var rows [][]string
	for _, rt := range server.Routes {
		rows = append(rows, []string{InlineCode(rt.Method), InlineCode(rt.Pattern), rt.Summary})
	}
	w.Table([]string{"Method", "Path", "Description"}, rows)

	return w.Bytes()
}

// writeFlags writes one row per visible flag, shorthand first.
func writeFlags(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := "--" + f.Name
		if f.Shorthand != "" {
			name = "-" + f.Shorthand + ", " + name
		}
		def := "-"
		if f.DefValue != "" {
			def = InlineCode(f.DefValue)
		}
		rows = append(rows, []string{InlineCode(name), f.Value.Type(), def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Flag", "Type", "Default", "Description"}, rows)
}

// dedent strips the two-space indent cobra examples are written with.
func dedent(example string) string {
	lines := strings.Split(example, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "  ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
