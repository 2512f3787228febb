package container

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/perfdat/encoding"
	"github.com/arloliu/perfdat/format"
	"github.com/arloliu/perfdat/section"
)

const fixtureStart = int64(1700000000)

func fixtureHeader() section.ContainerHeader {
	h := section.ContainerHeader{
		Version: 3,
		Serial:  "ABC123",
		Name:    "array-01",
	}
	copy(h.Marker[:], "PERF")

	return h
}

// fixtureSchema describes one hour of 60-second samples for a LUN and a port resource.
func fixtureSchema(start int64) section.BlockSchema {
	return section.BlockSchema{
		Type:         1,
		StartTime:    start,
		EndTime:      start + 3600,
		Interval:     60,
		ControllerID: "0",
		Resources: []section.ResourceEntry{
			{
				ID: "11",
				Descriptor: section.ResourceDescriptor{
					ElementIDs:   []string{"0", "1", "2"},
					ElementNames: []string{"lun-a", "lun-b", "lun-c"},
					MetricIDs:    []string{"21", "22"},
				},
			},
			{
				ID: "212",
				Descriptor: section.ResourceDescriptor{
					ElementIDs: []string{"CTE0.A.IOM0.P0", "CTE0.B.IOM0.P0"},
					MetricIDs:  []string{"228", "229", "230", "231"},
				},
			},
		},
	}
}

// fixtureValue is exactly representable as a float32.
func fixtureValue(block, resource, s, e, k int) float64 {
	return float64(block*10000+resource*1000+s*10+e) + float64(k)/4
}

func fixtureMatrices(block int, schema section.BlockSchema, kind format.ValueKind) []*encoding.Matrix {
	samples := schema.SampleCount()
	out := make([]*encoding.Matrix, len(schema.Resources))
	for r, res := range schema.Resources {
		elements, metrics := len(res.Descriptor.ElementIDs), len(res.Descriptor.MetricIDs)
		m := encoding.NewMatrix(samples, elements, metrics, kind)
		for s := range samples {
			for e := range elements {
				for k := range metrics {
					m.Set(s, e, k, fixtureValue(block, r, s, e, k))
				}
			}
		}
		out[r] = m
	}

	return out
}

// buildContainer encodes blocks consecutive hourly blocks.
func buildContainer(t *testing.T, blocks int, opts ...EncoderOption) []byte {
	t.Helper()

	enc, err := NewEncoder(fixtureHeader(), opts...)
	require.NoError(t, err)

	for b := range blocks {
		schema := fixtureSchema(fixtureStart + int64(b)*3600)
		require.NoError(t, enc.AddBlock(schema, fixtureMatrices(b, schema, format.ValueFloat32)))
	}

	data, err := enc.Finish()
	require.NoError(t, err)

	return data
}

func requireFixtureBlock(t *testing.T, index int, block Block) {
	t.Helper()

	want := fixtureSchema(fixtureStart + int64(index)*3600)
	require.Equal(t, index, block.Index)
	require.False(t, block.Malformed())
	require.Equal(t, want.StartTime, block.Schema.StartTime)
	require.Equal(t, want.EndTime, block.Schema.EndTime)
	require.Equal(t, want.Interval, block.Schema.Interval)
	require.Equal(t, 60, block.SampleCount())
	require.Len(t, block.Resources, len(want.Resources))

	for r, rb := range block.Resources {
		require.Equal(t, want.Resources[r].ID, rb.ID)
		require.Equal(t, want.Resources[r].Descriptor.ElementIDs, rb.Descriptor.ElementIDs)
		require.Equal(t, want.Resources[r].Descriptor.MetricIDs, rb.Descriptor.MetricIDs)
		require.False(t, rb.Skipped)
		require.NotNil(t, rb.Matrix)

		samples, elements, metrics := rb.Matrix.Dims()
		require.Equal(t, 60, samples)
		for s := range samples {
			for e := range elements {
				for k := range metrics {
					require.Equal(t, fixtureValue(index, r, s, e, k), rb.Matrix.At(s, e, k))
				}
			}
		}
	}
}
