package command

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/perfdat/container"
	"github.com/arloliu/perfdat/internal/collision"
)

// sampleValue is a cell value. Non-finite values are written to JSON as the
// strings "NaN", "+Inf" and "-Inf".
type sampleValue float64

func (v sampleValue) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}

func (v sampleValue) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.AppendQuote(nil, v.String()), nil
	}

	return []byte(v.String()), nil
}

func (v *sampleValue) UnmarshalJSON(b []byte) error {
	text := string(b)
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = unquoted
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("sample value %s: %w", b, err)
	}
	*v = sampleValue(f)

	return nil
}

type dumpRow struct {
	File         string  `json:"file"`
	Serial       string  `json:"serial"`
	Timestamp    string  `json:"timestamp"`
	Resource     string  `json:"resource"`
	ResourceName string  `json:"resource_name"`
	Element      string  `json:"element"`
	ElementName  string  `json:"element_name"`
	Metric       string  `json:"metric"`
	MetricName   string  `json:"metric_name"`
	Value        sampleValue `json:"value"`
	SeriesID     string  `json:"series_id"`
}

var dumpHeader = []string{
	"file", "serial", "timestamp", "resource", "resource_name", "element",
	"element_name", "metric", "metric_name", "value", "series_id",
}

func (r dumpRow) record() []string {
	return []string{
		r.File, r.Serial, r.Timestamp, r.Resource, r.ResourceName, r.Element,
		r.ElementName, r.Metric, r.MetricName, r.Value.String(), r.SeriesID,
	}
}

// sampleSink receives dump rows in archive, block and sample order.
type sampleSink interface {
	write(row dumpRow) error
	flush() error
}

type csvSink struct{ w *csv.Writer }

func (s *csvSink) write(row dumpRow) error { return s.w.Write(row.record()) }

func (s *csvSink) flush() error {
	s.w.Flush()
	return s.w.Error()
}

type jsonSink struct{ enc *json.Encoder }

func (s *jsonSink) write(row dumpRow) error { return s.enc.Encode(row) }

func (s *jsonSink) flush() error { return nil }

type tableSink struct{ t table.Writer }

func (s *tableSink) write(row dumpRow) error {
	s.t.AppendRow(table.Row{row.Timestamp, row.Resource, row.ElementName, row.MetricName, row.Value.String()})
	return nil
}

func (s *tableSink) flush() error {
	s.t.Render()
	return nil
}

func newSampleSink(w io.Writer, format string) (sampleSink, error) {
	switch format {
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(dumpHeader); err != nil {
			return nil, err
		}

		return &csvSink{w: cw}, nil
	case FormatJSON:
		return &jsonSink{enc: json.NewEncoder(w)}, nil
	default:
		return &tableSink{t: newTable(w, table.Row{"Timestamp", "Resource", "Element", "Metric", "Value"})}, nil
	}
}

// NewDumpCommand returns the dump command, which writes every decoded sample
// of the given archives as csv, json lines or a table.
func NewDumpCommand() *cobra.Command {
	df := &decodeFlags{}
	var limit int
	cmd := &cobra.Command{
		Use:   "dump <archive>...",
		Short: "dump the samples of archives as csv, json lines or a table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, df)
			if err != nil {
				return err
			}
			defer s.close()

			archives, err := s.decode(cmd, args)
			if err != nil {
				return err
			}

			sink, err := newSampleSink(cmd.OutOrStdout(), outputFormat(cmd))
			if err != nil {
				return err
			}

			tracker := collision.NewTracker()
			if err := dumpSamples(sink, archives, s.sampleFilter(), s.names, limit, tracker); err != nil {
				return err
			}

			for _, c := range tracker.Collisions() {
				s.logger.Warn("series id collision",
					zap.String("series_id", strconv.FormatUint(c.ID, 16)),
					zap.String("first", c.First),
					zap.String("second", c.Second))
			}

			return failedArchives(archives)
		},
	}
	df.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many samples, 0 means no limit")

	return cmd
}

// dumpSamples writes the samples of every decoded block, including the blocks
// decoded before an archive failed. Every series id is recorded in tracker.
func dumpSamples(sink sampleSink, archives []archive, filter container.SampleFilter, names NameMap, limit int, tracker *collision.Tracker) error {
	n := 0
	for _, a := range archives {
		for _, b := range a.Result.Blocks {
			for smp := range b.Samples(filter) {
				if limit > 0 && n >= limit {
					return sink.flush()
				}

				row := dumpRow{
					File:         a.Path,
					Serial:       a.Result.Header.Serial,
					Timestamp:    smp.Timestamp.Format(time.RFC3339),
					Resource:     smp.Resource,
					ResourceName: names.Resource(smp.Resource),
					Element:      smp.Element,
					ElementName:  smp.ElementName,
					Metric:       smp.Metric,
					MetricName:   names.Metric(smp.Metric),
					Value:        sampleValue(smp.Value),
					SeriesID:     strconv.FormatUint(smp.SeriesID, 16),
				}
				tracker.Track(smp.Resource+"/"+smp.Element+"/"+smp.Metric, smp.SeriesID)
				if err := sink.write(row); err != nil {
					return err
				}
				n++
			}
		}
	}

	return sink.flush()
}
