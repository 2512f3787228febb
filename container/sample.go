package container

import (
	"iter"
	"slices"
	"time"

	"github.com/arloliu/perfdat/internal/hash"
)

// Sample is one cell of a block matrix with its coordinates resolved.
type Sample struct {
	// SeriesID is the xxHash64 of "resource/element/metric", stable across blocks and archives.
	SeriesID    uint64
	Resource    string
	Element     string
	ElementName string
	Metric      string
	Timestamp   time.Time
	Value       float64
}

// SampleFilter restricts the samples produced by Block.Samples.
// Empty fields match everything.
type SampleFilter struct {
	Resources []string
	Metrics   []string
}

func (f SampleFilter) matchResource(id string) bool {
	return len(f.Resources) == 0 || slices.Contains(f.Resources, id)
}

func (f SampleFilter) matchMetric(id string) bool {
	return len(f.Metrics) == 0 || slices.Contains(f.Metrics, id)
}

type series struct {
	element int
	metric  int
	id      uint64
}

// Samples returns an iterator over the decoded cells of the block.
//
// Resources are visited in schema order, and within a resource samples are
// produced in time order, then by element, then by metric. Skipped resources
// and malformed blocks produce nothing. The timestamp of sample i is
// StartTime + i*Interval seconds, in UTC.
func (b Block) Samples(filter SampleFilter) iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		if b.Schema.Malformed {
			return
		}

		for _, rb := range b.Resources {
			if rb.Matrix == nil || !filter.matchResource(rb.ID) {
				continue
			}

			desc := rb.Descriptor
			selected := make([]series, 0, len(desc.ElementIDs)*len(desc.MetricIDs))
			for e, element := range desc.ElementIDs {
				for m, metric := range desc.MetricIDs {
					if filter.matchMetric(metric) {
						selected = append(selected, series{element: e, metric: m, id: hash.SeriesID(rb.ID, element, metric)})
					}
				}
			}

			if len(selected) == 0 {
				continue
			}

			samples, _, _ := rb.Matrix.Dims()
			for s := range samples {
				ts := time.Unix(b.Schema.StartTime+int64(s)*b.Schema.Interval, 0).UTC()
				for _, sr := range selected {
					sample := Sample{
						SeriesID:    sr.id,
						Resource:    rb.ID,
						Element:     desc.ElementIDs[sr.element],
						ElementName: desc.ElementName(sr.element),
						Metric:      desc.MetricIDs[sr.metric],
						Timestamp:   ts,
						Value:       rb.Matrix.At(s, sr.element, sr.metric),
					}
					if !yield(sample) {
						return
					}
				}
			}
		}
	}
}
