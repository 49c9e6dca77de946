package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

func newVersionsCmd(opts *globalOptions) *cobra.Command {
	var pageNo, pageSize int

	cmd := &cobra.Command{
		Use:   "versions <code>",
		Short: "List the version history of a definition, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validateFormat(); err != nil {
				return err
			}
			code, err := parseCode(args[0])
			if err != nil {
				return err
			}
			svc, closeFn, err := opts.openService(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			page, err := svc.Versions(contextOf(cmd), code, definition.PageSpec{PageNo: pageNo, PageSize: pageSize})
			if err != nil {
				return err
			}
			if opts.format == "json" {
				return outputJSON(cmd, page)
			}
			t := newTable(cmd, table.Row{"Version", "Name", "Operator", "Operated"})
			for _, log := range page.Items {
				t.AppendRow(table.Row{log.Version, log.Name, log.Operator, log.OperatedAt.Format(time.RFC3339)})
			}
			t.Render()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d, %d total\n", page.PageNo, page.TotalPages(), page.Total)
			return err
		},
	}

	cmd.Flags().IntVar(&pageNo, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Page size")
	return cmd
}
