package commands

import (
	"github.com/spf13/cobra"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compile",
		Short: "Compile the target artifacts and print a summary",
		Long: `Load manifest.json, catalog.json and run_results.json from the target,
merge them into one project and report what was compiled.

run_results.json is optional; without it no compiled SQL is attached.`,
		Example: `  # Compile ./target
  leapdocs compile

  # Compile a remote target as JSON
  leapdocs compile --target https://docs.example.com/target --output json`,
		Annotations: map[string]string{AnnotationJSON: "Object with `id`, `metadata` and `stats` (node, model, test, column, annotation and compiled SQL counts)."},
		Args:        cobra.NoArgs,
		RunE:        func(cmd *cobra.Command, _ []string) error {
			return runCompile(cmd)
		},
	}
}

func runCompile(cmd *cobra.Command) error {
	cc := NewCommandContext(cmd)

	_, p, err := cc.LoadProject(cmd.Context())
	if err != nil {
		return err
	}

	if cc.JSON() {
		return renderJSON(cc.Out, struct {
			ID       string `json:"id"`
			Metadata any    `json:"metadata"`
			Stats    any    `json:"stats"`
		}{p.ID, p.Metadata, p.Stats()})
	}
	renderSummary(cc.Out, p)
	return nil
}
