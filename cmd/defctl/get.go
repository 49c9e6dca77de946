package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

func newGetCmd(opts *globalOptions) *cobra.Command {
	var version int

	cmd := &cobra.Command{
		Use:   "get <code>",
		Short: "Show a definition, or one of its versions",
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

			var def *definition.ProcessDefinition
			var out interface{}
			if version > 0 {
				log, err := svc.GetVersion(contextOf(cmd), code, version)
				if err != nil {
					return err
				}
				def, out = &log.ProcessDefinition, log
			} else {
				def, err = svc.Get(contextOf(cmd), code)
				if err != nil {
					return err
				}
				out = def
			}
			if opts.format == "json" {
				return outputJSON(cmd, out)
			}

			t := newTable(cmd, table.Row{"Field", "Value"})
			t.AppendRows([]table.Row{
				{"Code", def.Code},
				{"Name", def.Name},
				{"Version", def.Version},
				{"State", def.ReleaseState.String()},
				{"Project", def.ProjectCode},
				{"Tenant", def.TenantID},
				{"Owner", def.UserID},
				{"Timeout", def.Timeout},
				{"Resources", definition.FormatResourceIDs(def.ResourceIDs)},
				{"Description", def.Description},
			})
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&version, "version", 0, "Show this history version instead of the live row")
	return cmd
}

func parseCode(s string) (definition.Code, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || !definition.Code(n).Valid() {
		return 0, definition.InvalidArgumentf("invalid code %q", s)
	}
	return definition.Code(n), nil
}

func parseProjectCode(s string) (definition.ProjectCode, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, definition.InvalidArgumentf("invalid project code %q", s)
	}
	return definition.ProjectCode(n), nil
}
