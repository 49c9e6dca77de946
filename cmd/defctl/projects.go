package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newProjectsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects that hold at least one definition",
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

			projects, err := svc.Projects(contextOf(cmd))
			if err != nil {
				return err
			}
			if opts.format == "json" {
				return outputJSON(cmd, projects)
			}
			t := newTable(cmd, table.Row{"Project"})
			for _, p := range projects {
				t.AppendRow(table.Row{p})
			}
			t.Render()
			return nil
		},
	}
}
