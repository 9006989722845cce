package commands

import (
	"github.com/leapstack-labs/leapdocs/internal/explorer"
	"github.com/spf13/cobra"
)

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search models by name and description",
		Long: `Find models whose name or description contains the query, ignoring case.
Without a query every model is listed.`,
		Example: `  leapdocs search orders
  leapdocs search "lifetime value" --output json`,
		Annotations: map[string]string{AnnotationJSON: "Array of `{unique_id, name, matches}`; each match is `{key, value}` with the field and the query."},
		Args:        cobra.MaximumNArgs(1),
		RunE:        func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 1 {
				query = args[0]
			}
			return runSearch(cmd, query)
		},
	}
}

func runSearch(cmd *cobra.Command, query string) error {
	cc := NewCommandContext(cmd)

	store, _, err := cc.LoadProject(cmd.Context())
	if err != nil {
		return err
	}

	results, err := explorer.New(store, cc.Logger).Search(cmd.Context(), query)
	if err != nil {
		return err
	}

	if cc.JSON() {
		type row struct {
			UniqueID string `json:"unique_id"`
			Name     string `json:"name"`
			Matches  any    `json:"matches"`
		}
		rows := make([]row, 0, len(results))
		for _, r := range results {
			rows = append(rows, row{UniqueID: r.Model.UniqueID, Name: r.Model.Name, Matches: r.Matches})
		}
		return renderJSON(cc.Out, rows)
	}
	renderSearch(cc.Out, results)
	return nil
}
