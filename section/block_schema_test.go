package section

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/perfdat/endian"
	"github.com/arloliu/perfdat/errs"
	"github.com/arloliu/perfdat/format"
)

func rawBlock(typ uint32, text string, mode format.SchemaLengthMode) []byte {
	engine := endian.GetLittleEndianEngine()
	length := uint32(len(text))
	if mode == format.SchemaLengthInclusive {
		length += BlockPrefixSize
	}

	buf := engine.AppendUint32(nil, typ)
	buf = engine.AppendUint32(buf, length)

	return append(buf, text...)
}

const lunSchema = `{"StartTime":1700000000,"EndTime":"1700003600","Archive":60,"CtrlID":"0A",` +
	`"Version":"V500R007","Map":{"212":{"IDs":["P1","P0"],"DataTypes":[228,"229"]},` +
	`"11":{"IDs":[0,1,2],"Names":["lun-a","lun-b","lun-c"],"DataTypes":[21,22]}}}`

func TestParseBlockSchema(t *testing.T) {
	data := append(rawBlock(7, lunSchema, format.SchemaLengthExclusive), 0xee)
	cur := NewCursor(data, nil)

	s, err := ParseBlockSchema(cur, format.SchemaLengthExclusive)
	require.NoError(t, err)
	require.False(t, s.Malformed)
	require.NoError(t, s.Err)

	require.Equal(t, uint32(7), s.Type)
	require.Equal(t, uint32(len(lunSchema)), s.Length)
	require.Zero(t, s.Offset)
	require.Equal(t, lunSchema, s.Raw)
	require.Equal(t, BlockPrefixSize+len(lunSchema), cur.Offset())

	require.Equal(t, int64(1700000000), s.StartTime)
	require.Equal(t, int64(1700003600), s.EndTime)
	require.Equal(t, int64(60), s.Interval)
	require.Equal(t, 60, s.SampleCount())
	require.Equal(t, "0A", s.ControllerID)
	require.Equal(t, map[string]string{"Version": "V500R007"}, s.Extra)

	// source order, not sorted
	require.Len(t, s.Resources, 2)
	require.Equal(t, "212", s.Resources[0].ID)
	require.Equal(t, []string{"P1", "P0"}, s.Resources[0].Descriptor.ElementIDs)
	require.Equal(t, []string{"228", "229"}, s.Resources[0].Descriptor.MetricIDs)
	require.Equal(t, "P1", s.Resources[0].Descriptor.ElementName(0))

	lun, ok := s.Resource("11")
	require.True(t, ok)
	require.Equal(t, []string{"0", "1", "2"}, lun.ElementIDs)
	require.Equal(t, []string{"21", "22"}, lun.MetricIDs)
	require.Equal(t, "lun-c", lun.ElementName(2))

	_, ok = s.Resource("10")
	require.False(t, ok)
}

func TestParseBlockSchema_Defaults(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		interval  int64
		samples   int
		resources int
	}{
		{name: "missing archive", text: `{"StartTime":0,"EndTime":600,"Map":{}}`, interval: 60, samples: 10},
		{name: "missing map", text: `{"StartTime":0,"EndTime":600,"Archive":300}`, interval: 300, samples: 2},
		{name: "null map", text: `{"StartTime":0,"EndTime":600,"Archive":60,"Map":null}`, interval: 60, samples: 10},
		{name: "empty window", text: `{"StartTime":600,"EndTime":600}`, interval: 60, samples: 1},
		{name: "reversed window", text: `{"StartTime":600,"EndTime":0}`, interval: 60, samples: 1},
		{name: "trailing nul padding", text: "{\"StartTime\":0,\"EndTime\":120,\"Map\":{\"10\":{\"IDs\":[\"0\"],\"DataTypes\":[1]}}}\x00\x00\n", interval: 60, samples: 2, resources: 1},
		{name: "missing id lists", text: `{"StartTime":0,"EndTime":60,"Map":{"10":{}}}`, interval: 60, samples: 1, resources: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseBlockSchema(NewCursor(rawBlock(1, tt.text, format.SchemaLengthExclusive), nil), format.SchemaLengthExclusive)
			require.NoError(t, err)
			require.False(t, s.Malformed, "%v", s.Err)
			require.Equal(t, tt.interval, s.Interval)
			require.Equal(t, tt.samples, s.SampleCount())
			require.Len(t, s.Resources, tt.resources)
		})
	}
}

func TestParseBlockSchema_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "truncated", text: `{"StartTime":0,"EndTime":600,"Map":{"11":{"IDs":[`},
		{name: "array", text: `[1,2,3]`},
		{name: "missing start", text: `{"EndTime":600}`},
		{name: "fractional time", text: `{"StartTime":0.5,"EndTime":600}`},
		{name: "zero interval", text: `{"StartTime":0,"EndTime":600,"Archive":0}`},
		{name: "negative interval", text: `{"StartTime":0,"EndTime":600,"Archive":-60}`},
		{name: "map not object", text: `{"StartTime":0,"EndTime":600,"Map":[1]}`},
		{name: "resource not object", text: `{"StartTime":0,"EndTime":600,"Map":{"11":[1]}}`},
		{name: "ids not array", text: `{"StartTime":0,"EndTime":600,"Map":{"11":{"IDs":"0","DataTypes":[1]}}}`},
		{name: "nested id", text: `{"StartTime":0,"EndTime":600,"Map":{"11":{"IDs":[[0]],"DataTypes":[1]}}}`},
		{name: "binary garbage", text: "\x01\x02\xff\xfe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := append(rawBlock(1, tt.text, format.SchemaLengthExclusive), 0xaa, 0xbb)
			cur := NewCursor(data, nil)

			s, err := ParseBlockSchema(cur, format.SchemaLengthExclusive)
			require.NoError(t, err)
			require.True(t, s.Malformed)
			require.ErrorIs(t, s.Err, errs.ErrMalformedSchema)
			require.Empty(t, s.Resources)
			require.Zero(t, s.SampleCount())
			require.Equal(t, tt.text, s.Raw)

			// the declared length is consumed, nothing more
			require.Equal(t, BlockPrefixSize+len(tt.text), cur.Offset())
		})
	}
}

func TestParseBlockSchema_Inclusive(t *testing.T) {
	text := `{"StartTime":0,"EndTime":600}`
	cur := NewCursor(rawBlock(1, text, format.SchemaLengthInclusive), nil)

	s, err := ParseBlockSchema(cur, format.SchemaLengthInclusive)
	require.NoError(t, err)
	require.False(t, s.Malformed)
	require.Equal(t, uint32(len(text)+BlockPrefixSize), s.Length)
	require.Equal(t, text, s.Raw)
	require.Zero(t, cur.Remaining())

	engine := endian.GetLittleEndianEngine()
	short := engine.AppendUint32(engine.AppendUint32(nil, 1), 7)
	_, err = ParseBlockSchema(NewCursor(short, nil), format.SchemaLengthInclusive)
	require.ErrorIs(t, err, errs.ErrInvalidSchemaLength)

	_, err = ParseBlockSchema(NewCursor(short, nil), format.SchemaLengthMode(0))
	require.ErrorIs(t, err, errs.ErrInvalidOption)
}

func TestParseBlockSchema_Truncated(t *testing.T) {
	data := rawBlock(1, lunSchema, format.SchemaLengthExclusive)

	for _, cut := range []int{0, 3, BlockTypeSize, BlockPrefixSize, BlockPrefixSize + 1, len(data) - 1} {
		_, err := ParseBlockSchema(NewCursor(data[:cut], nil), format.SchemaLengthExclusive)
		require.ErrorIs(t, err, errs.ErrTruncatedInput, "cut at %d", cut)
	}
}

func TestParseBlockSchema_MaxLength(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	data := engine.AppendUint32(nil, 1)
	data = engine.AppendUint32(data, math.MaxUint32)
	data = append(data, lunSchema...)

	for _, mode := range []format.SchemaLengthMode{format.SchemaLengthExclusive, format.SchemaLengthInclusive} {
		t.Run(mode.String(), func(t *testing.T) {
			cur := NewCursor(data, nil)
			_, err := ParseBlockSchema(cur, mode)
			require.ErrorIs(t, err, errs.ErrTruncatedInput)
			require.NotErrorIs(t, err, errs.ErrInvalidFixedWidth)
			require.Equal(t, BlockPrefixSize, cur.Offset())
		})
	}
}

func TestParseBlockSchema_IntegerRange(t *testing.T) {
	tests := []struct {
		name  string
		start string
		ok    bool
	}{
		{"max safe float", "9007199254740992", true},
		{"two to the 63", "9223372036854775808", false},
		{"above int64", "1e19", false},
		{"fraction", "1.5", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := `{"StartTime":` + tt.start + `,"EndTime":0}`
			s, err := ParseBlockSchema(NewCursor(rawBlock(1, text, format.SchemaLengthExclusive), nil), format.SchemaLengthExclusive)
			require.NoError(t, err)
			require.Equal(t, !tt.ok, s.Malformed)
			if !tt.ok {
				require.ErrorIs(t, s.Err, errs.ErrMalformedSchema)
			}
		})
	}
}

func TestBlockSchema_MarshalText(t *testing.T) {
	s := BlockSchema{
		StartTime:    1700000000,
		EndTime:      1700003600,
		Interval:     300,
		ControllerID: "0B",
		Resources: []ResourceEntry{
			{ID: "212", Descriptor: ResourceDescriptor{ElementIDs: []string{"P1"}, MetricIDs: []string{"228", "x\"y"}}},
			{ID: "11", Descriptor: ResourceDescriptor{ElementIDs: []string{"0", "1"}, ElementNames: []string{"a", "b"}, MetricIDs: []string{"21"}}},
		},
	}

	text, err := s.MarshalText()
	require.NoError(t, err)
	require.Equal(t,
		`{"StartTime":1700000000,"EndTime":1700003600,"Archive":300,"CtrlID":"0B","Map":{`+
			`"212":{"IDs":["P1"],"DataTypes":[228,"x\"y"]},`+
			`"11":{"IDs":["0","1"],"Names":["a","b"],"DataTypes":[21]}}}`,
		string(text))

	for _, mode := range []format.SchemaLengthMode{format.SchemaLengthExclusive, format.SchemaLengthInclusive} {
		t.Run(mode.String(), func(t *testing.T) {
			data, err := s.AppendTo(nil, endian.GetLittleEndianEngine(), mode)
			require.NoError(t, err)

			got, err := ParseBlockSchema(NewCursor(data, nil), mode)
			require.NoError(t, err)
			require.False(t, got.Malformed)
			require.Equal(t, s.StartTime, got.StartTime)
			require.Equal(t, s.EndTime, got.EndTime)
			require.Equal(t, s.Interval, got.Interval)
			require.Equal(t, s.ControllerID, got.ControllerID)
			require.Equal(t, s.Resources, got.Resources)
		})
	}
}

func TestBlockSchema_AppendToRaw(t *testing.T) {
	s := BlockSchema{Type: 3, Raw: `{"broken"`}

	data, err := s.AppendTo(nil, endian.GetLittleEndianEngine(), format.SchemaLengthExclusive)
	require.NoError(t, err)
	require.Equal(t, rawBlock(3, `{"broken"`, format.SchemaLengthExclusive), data)
}
