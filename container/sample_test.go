package container

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/perfdat/internal/hash"
)

func collectSamples(block Block, filter SampleFilter) []Sample {
	var out []Sample
	for s := range block.Samples(filter) {
		out = append(out, s)
	}

	return out
}

func TestBlock_Samples(t *testing.T) {
	res, err := DecodeAll(buildContainer(t, 1))
	require.NoError(t, err)
	block := res.Blocks[0]

	t.Run("all cells", func(t *testing.T) {
		samples := collectSamples(block, SampleFilter{})
		require.Len(t, samples, 60*3*2+60*2*4)

		first := samples[0]
		require.Equal(t, "11", first.Resource)
		require.Equal(t, "0", first.Element)
		require.Equal(t, "lun-a", first.ElementName)
		require.Equal(t, "21", first.Metric)
		require.Equal(t, time.Unix(fixtureStart, 0).UTC(), first.Timestamp)
		require.Equal(t, hash.SeriesID("11", "0", "21"), first.SeriesID)
		require.Equal(t, fixtureValue(0, 0, 0, 0, 0), first.Value)

		last := samples[len(samples)-1]
		require.Equal(t, "212", last.Resource)
		require.Equal(t, "CTE0.B.IOM0.P0", last.Element)
		require.Equal(t, "CTE0.B.IOM0.P0", last.ElementName)
		require.Equal(t, "231", last.Metric)
		require.Equal(t, time.Unix(fixtureStart+59*60, 0).UTC(), last.Timestamp)
		require.Equal(t, fixtureValue(0, 1, 59, 1, 3), last.Value)
	})

	t.Run("metric filter", func(t *testing.T) {
		samples := collectSamples(block, SampleFilter{Metrics: []string{"22", "230"}})
		require.Len(t, samples, 60*3+60*2)

		for _, s := range samples {
			require.Contains(t, []string{"22", "230"}, s.Metric)
		}
	})

	t.Run("resource filter", func(t *testing.T) {
		samples := collectSamples(block, SampleFilter{Resources: []string{"212"}})
		require.Len(t, samples, 60*2*4)
		require.Equal(t, "212", samples[0].Resource)
	})

	t.Run("series ids are stable across samples", func(t *testing.T) {
		ids := make(map[uint64]int)
		for s := range block.Samples(SampleFilter{}) {
			ids[s.SeriesID]++
		}
		require.Len(t, ids, 3*2+2*4)
		for _, n := range ids {
			require.Equal(t, 60, n)
		}
	})

	t.Run("early stop", func(t *testing.T) {
		n := 0
		for range block.Samples(SampleFilter{}) {
			n++
			if n == 5 {
				break
			}
		}
		require.Equal(t, 5, n)
	})

	t.Run("skipped resources produce nothing", func(t *testing.T) {
		res, err := DecodeAll(buildContainer(t, 1), WithResources("11"))
		require.NoError(t, err)

		samples := collectSamples(res.Blocks[0], SampleFilter{})
		require.Len(t, samples, 60*3*2)
		for _, s := range samples {
			require.Equal(t, "11", s.Resource)
		}
	})
}
