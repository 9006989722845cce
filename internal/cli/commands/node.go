package commands

import (
	"github.com/spf13/cobra"
)

// NewNodeCommand creates the node command.
func NewNodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "node <unique_id>",
		Short: "Show a compiled node with its columns and tests",
		Example: `  leapdocs node model.jaffle_shop.orders
  leapdocs node model.jaffle_shop.orders --output json`,
		Annotations: map[string]string{AnnotationJSON: "The compiled node as merged from manifest and catalog, columns in catalog order with `tests`."},
		Args:        cobra.ExactArgs(1),
		RunE:        func(cmd *cobra.Command, args []string) error {
			return runNode(cmd, args[0])
		},
	}
}

func runNode(cmd *cobra.Command, uniqueID string) error {
	cc := NewCommandContext(cmd)

	store, _, err := cc.LoadProject(cmd.Context())
	if err != nil {
		return err
	}

	node, err := store.FindByID(cmd.Context(), uniqueID)
	if err != nil {
		return err
	}

	if cc.JSON() {
		return renderJSON(cc.Out, node)
	}
	renderNode(cc.Out, node)
	return nil
}
