package command

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/arloliu/perfdat/container"
)

type inspectRow struct {
	File       string `json:"file"`
	Serial     string `json:"serial"`
	Name       string `json:"name"`
	Version    uint32 `json:"version"`
	DataLength uint32 `json:"data_length"`
	Blocks     int    `json:"blocks"`
	Malformed  int    `json:"malformed_blocks"`
	Start      int64  `json:"start,omitempty"`
	End        int64  `json:"end,omitempty"`
	State      string `json:"state"`
	Error      string `json:"error,omitempty"`
}

// NewInspectCommand returns the inspect command, which lists the blocks of
// each archive without decoding their matrices.
func NewInspectCommand() *cobra.Command {
	df := &decodeFlags{}
	cmd := &cobra.Command{
		Use:   "inspect <archive>...",
		Short: "show the header and block summary of archives",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, df)
			if err != nil {
				return err
			}
			defer s.close()

			// only the schemas are needed
			archives, err := s.decode(cmd, args, container.WithResources())
			if err != nil {
				return err
			}

			rows := inspectRows(archives)
			if err := renderInspect(cmd.OutOrStdout(), outputFormat(cmd), rows); err != nil {
				return err
			}

			return failedArchives(archives)
		},
	}
	df.register(cmd)

	return cmd
}

func inspectRows(archives []archive) []inspectRow {
	rows := make([]inspectRow, 0, len(archives))
	for _, a := range archives {
		h := a.Result.Header
		row := inspectRow{
			File:       a.Path,
			Serial:     h.Serial,
			Name:       h.Name,
			Version:    h.Version,
			DataLength: h.DataLength,
			Blocks:     len(a.Result.Blocks),
			State:      a.Result.State.String(),
			Error:      errString(a.Err),
		}

		for _, b := range a.Result.Blocks {
			if b.Malformed() {
				row.Malformed++
				continue
			}

			if row.Start == 0 || b.Schema.StartTime < row.Start {
				row.Start = b.Schema.StartTime
			}
			if b.Schema.EndTime > row.End {
				row.End = b.Schema.EndTime
			}
		}
		rows = append(rows, row)
	}

	return rows
}

func renderInspect(w io.Writer, format string, rows []inspectRow) error {
	switch format {
	case FormatJSON:
		return writeJSONLines(w, rows)
	case FormatCSV:
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"file", "serial", "name", "version", "data_length", "blocks", "malformed_blocks", "start", "end", "state", "error"})
		for _, r := range rows {
			_ = cw.Write([]string{
				r.File, r.Serial, r.Name,
				strconv.FormatUint(uint64(r.Version), 10),
				strconv.FormatUint(uint64(r.DataLength), 10),
				strconv.Itoa(r.Blocks), strconv.Itoa(r.Malformed),
				formatUnix(r.Start), formatUnix(r.End),
				r.State, r.Error,
			})
		}
		cw.Flush()

		return cw.Error()
	default:
		t := newTable(w, table.Row{"File", "Serial", "Name", "Version", "Data Length", "Blocks", "Malformed", "Start", "End", "State", "Error"})
		for _, r := range rows {
			t.AppendRow(table.Row{r.File, r.Serial, r.Name, r.Version, r.DataLength, r.Blocks, r.Malformed,
				formatUnix(r.Start), formatUnix(r.End), r.State, r.Error})
		}
		t.Render()

		return nil
	}
}

func formatUnix(sec int64) string {
	if sec == 0 {
		return ""
	}

	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

func failedArchives(archives []archive) error {
	failed := 0
	for _, a := range archives {
		if a.Err != nil {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d archives failed to decode", failed, len(archives))
	}

	return nil
}
