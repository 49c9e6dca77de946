package main

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

func newResourcesCmd(opts *globalOptions) *cobra.Command {
	var userID int

	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Show which definitions reference each resource",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validateFormat(); err != nil {
				return err
			}
			svc, closeFn, err := opts.openService(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			var usage map[definition.ResourceID]definition.ResourceUsage
			if userID > 0 {
				usage, err = svc.ResourcesByUser(contextOf(cmd), definition.UserID(userID))
			} else {
				usage, err = svc.Resources(contextOf(cmd))
			}
			if err != nil {
				return err
			}

			rows := make([]definition.ResourceUsage, 0, len(usage))
			for _, u := range usage {
				rows = append(rows, u)
			}
			sort.Slice(rows, func(i, j int) bool { return rows[i].ResourceID < rows[j].ResourceID })

			if opts.format == "json" {
				return outputJSON(cmd, rows)
			}
			t := newTable(cmd, table.Row{"Resource", "Definitions"})
			for _, u := range rows {
				t.AppendRow(table.Row{u.ResourceID, joinCodes(u.DefinitionCodes)})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "Only consider definitions owned by this user")
	return cmd
}
