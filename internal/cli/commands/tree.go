package commands

import (
	"github.com/leapstack-labs/leapdocs/internal/explorer"
	"github.com/spf13/cobra"
)

// NewTreeCommand creates the tree command.
func NewTreeCommand() *cobra.Command {
	var (
		database bool
		selected string
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the project or database tree of models",
		Long: `Show models grouped by their source file location, or with --database
grouped by schema. Ephemeral models do not appear in the database tree.

--select marks a model and the folders above it.`,
		Example: `  # Project tree
  leapdocs tree

  # Database tree with a model selected
  leapdocs tree --database --select model.jaffle_shop.orders`,
		Annotations: map[string]string{AnnotationJSON: "Array of tree nodes `{type, name, active, unique_id, items}`; `type` is folder/file or schema/table."},
		Args:        cobra.NoArgs,
		RunE:        func(cmd *cobra.Command, _ []string) error {
			return runTree(cmd, database, selected)
		},
	}

	cmd.Flags().BoolVar(&database, "database", false, "Group models by schema instead of file path")
	cmd.Flags().StringVar(&selected, "select", "", "Unique id of the model to mark as selected")

	return cmd
}

func runTree(cmd *cobra.Command, database bool, selected string) error {
	cc := NewCommandContext(cmd)

	store, _, err := cc.LoadProject(cmd.Context())
	if err != nil {
		return err
	}

	trees, err := explorer.New(store, cc.Logger).ModelTree(cmd.Context(), selected)
	if err != nil {
		return err
	}

	nodes, title := trees.Project, "project"
	if database {
		nodes, title = trees.Database, "database"
	}

	if cc.JSON() {
		return renderJSON(cc.Out, nodes)
	}
	renderTree(cc.Out, title, nodes)
	return nil
}
