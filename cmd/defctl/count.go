package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

func newCountCmd(opts *globalOptions) *cobra.Command {
	var (
		userID  int
		isAdmin bool
	)

	cmd := &cobra.Command{
		Use:   "count <project-code>...",
		Short: "Count definitions per owner across projects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validateFormat(); err != nil {
				return err
			}
			projects := make([]definition.ProjectCode, 0, len(args))
			for _, arg := range args {
				p, err := parseProjectCode(arg)
				if err != nil {
					return err
				}
				projects = append(projects, p)
			}
			svc, closeFn, err := opts.openService(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			counts, err := svc.CountByUser(contextOf(cmd), definition.UserID(userID), isAdmin || userID == 0, projects)
			if err != nil {
				return err
			}
			if opts.format == "json" {
				return outputJSON(cmd, counts)
			}
			t := newTable(cmd, table.Row{"Owner", "Definitions"})
			for _, c := range counts {
				t.AppendRow(table.Row{c.UserID, c.Count})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "Only count definitions owned by this user")
	cmd.Flags().BoolVar(&isAdmin, "admin", false, "Count every owner even when --user is set")
	return cmd
}
