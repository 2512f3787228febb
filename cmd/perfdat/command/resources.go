package command

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/arloliu/perfdat/container"
)

type resourceRow struct {
	Resource string   `json:"resource"`
	Name     string   `json:"name"`
	Elements []string `json:"elements"`
	Metrics  []string `json:"metrics"`
	Blocks   int      `json:"blocks"`
}

// NewResourcesCommand returns the resources command, which lists the
// resources found across the blocks of each archive.
func NewResourcesCommand() *cobra.Command {
	df := &decodeFlags{}
	cmd := &cobra.Command{
		Use:   "resources <archive>...",
		Short: "list the resources, elements and metrics present in archives",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, df)
			if err != nil {
				return err
			}
			defer s.close()

			archives, err := s.decode(cmd, args, container.WithResources())
			if err != nil {
				return err
			}

			rows := resourceRows(archives, s.names)
			if err := renderResources(cmd.OutOrStdout(), outputFormat(cmd), rows, s.names); err != nil {
				return err
			}

			return failedArchives(archives)
		},
	}
	df.register(cmd)

	return cmd
}

// resourceRows merges the resources of every block, keeping first-seen order.
func resourceRows(archives []archive, names NameMap) []resourceRow {
	var rows []resourceRow
	index := make(map[string]int)
	seenElem := make(map[string]map[string]struct{})
	seenMetric := make(map[string]map[string]struct{})

	for _, a := range archives {
		for _, b := range a.Result.Blocks {
			for _, rb := range b.Resources {
				i, ok := index[rb.ID]
				if !ok {
					i = len(rows)
					index[rb.ID] = i
					rows = append(rows, resourceRow{Resource: rb.ID, Name: names.Resource(rb.ID)})
					seenElem[rb.ID] = make(map[string]struct{})
					seenMetric[rb.ID] = make(map[string]struct{})
				}

				row := &rows[i]
				row.Blocks++
				for _, e := range rb.Descriptor.ElementIDs {
					if _, dup := seenElem[rb.ID][e]; !dup {
						seenElem[rb.ID][e] = struct{}{}
						row.Elements = append(row.Elements, e)
					}
				}
				for _, m := range rb.Descriptor.MetricIDs {
					if _, dup := seenMetric[rb.ID][m]; !dup {
						seenMetric[rb.ID][m] = struct{}{}
						row.Metrics = append(row.Metrics, m)
					}
				}
			}
		}
	}

	return rows
}

func metricLabels(ids []string, names NameMap) string {
	labels := make([]string, len(ids))
	for i, id := range ids {
		if name := names.Metric(id); name != id {
			labels[i] = id + " (" + name + ")"
		} else {
			labels[i] = id
		}
	}

	return strings.Join(labels, ", ")
}

func renderResources(w io.Writer, format string, rows []resourceRow, names NameMap) error {
	switch format {
	case FormatJSON:
		return writeJSONLines(w, rows)
	case FormatCSV:
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"resource", "name", "elements", "metrics", "blocks"})
		for _, r := range rows {
			_ = cw.Write([]string{r.Resource, r.Name, strings.Join(r.Elements, " "), strings.Join(r.Metrics, " "), strconv.Itoa(r.Blocks)})
		}
		cw.Flush()

		return cw.Error()
	default:
		t := newTable(w, table.Row{"Resource", "Name", "Elements", "Metrics", "Blocks"})
		for _, r := range rows {
			t.AppendRow(table.Row{r.Resource, r.Name, len(r.Elements), metricLabels(r.Metrics, names), r.Blocks})
		}
		t.Render()

		return nil
	}
}
