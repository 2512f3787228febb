package command

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// PrintError reports a failed command in the selected output format.
func PrintError(cmd *cobra.Command, err error) {
	if cmd == nil {
		color.Red("perfdat error: %s", err)
		return
	}

	if IsFormatJSON(cmd) {
		data, _ := json.Marshal(map[string]string{"ERROR": err.Error()})
		color.Red(string(data))

		return
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"ERROR"})
	t.AppendRow(table.Row{err.Error()})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, VAlign: text.VAlignMiddle, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
	})
	t.SetOutputMirror(cmd.ErrOrStderr())
	t.Render()
}

func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)

	return t
}

// writeJSONLines writes one JSON document per value.
func writeJSONLines[T any](w io.Writer, values []T) error {
	enc := json.NewEncoder(w)
	for _, v := range values {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}

	return nil
}
