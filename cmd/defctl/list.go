package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	var (
		userID   int
		isAdmin  bool
		search   string
		pageNo   int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list <project-code>",
		Short: "List the definitions of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validateFormat(); err != nil {
				return err
			}
			projectCode, err := parseProjectCode(args[0])
			if err != nil {
				return err
			}
			svc, closeFn, err := opts.openService(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			page, err := svc.List(contextOf(cmd), definition.UserID(userID), isAdmin || userID == 0, projectCode, search,
				definition.PageSpec{PageNo: pageNo, PageSize: pageSize})
			if err != nil {
				return err
			}
			if opts.format == "json" {
				return outputJSON(cmd, page)
			}
			outputDefinitions(cmd, page.Items)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d, %d total\n", page.PageNo, page.TotalPages(), page.Total)
			return err
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "Only show definitions owned by this user")
	cmd.Flags().BoolVar(&isAdmin, "admin", false, "Show every definition in the project even when --user is set")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive name filter")
	cmd.Flags().IntVar(&pageNo, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Page size")
	return cmd
}
