package main

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

func outputJSON(cmd *cobra.Command, v interface{}) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func newTable(cmd *cobra.Command, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}

func definitionRow(def *definition.ProcessDefinition) table.Row {
	return table.Row{
		def.Code,
		def.Name,
		def.Version,
		def.ReleaseState.String(),
		def.ProjectCode,
		def.UserID,
		def.UpdatedAt.Format(time.RFC3339),
	}
}

var definitionHeader = table.Row{"Code", "Name", "Version", "State", "Project", "Owner", "Updated"}

func outputDefinitions(cmd *cobra.Command, defs []*definition.ProcessDefinition) {
	t := newTable(cmd, definitionHeader)
	for _, def := range defs {
		t.AppendRow(definitionRow(def))
	}
	t.Render()
}

func joinCodes(codes []definition.Code) string {
	parts := make([]string, 0, len(codes))
	for _, c := range codes {
		parts = append(parts, strconv.FormatInt(int64(c), 10))
	}
	return strings.Join(parts, ",")
}
