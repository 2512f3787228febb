package format

type (
	// ValueKind selects how a 4-byte matrix cell is interpreted.
	ValueKind uint8
	// SchemaLengthMode selects what the block schema length field counts.
	SchemaLengthMode uint8
	// Layout selects how the matrices of one block are packed.
	Layout          uint8
	CompressionType uint8
)

const (
	ValueFloat32 ValueKind = 0x1 // ValueFloat32 reads cells as IEEE-754 single precision floats.
	ValueInt32   ValueKind = 0x2 // ValueInt32 reads cells as signed 32-bit integers.

	SchemaLengthExclusive SchemaLengthMode = 0x1 // SchemaLengthExclusive: the length counts schema text only.
	SchemaLengthInclusive SchemaLengthMode = 0x2 // SchemaLengthInclusive: the length also counts the 8-byte type and length prefix.

	LayoutPerResource Layout = 0x1 // LayoutPerResource stores each resource matrix contiguously, in schema order.
	LayoutInterleaved Layout = 0x2 // LayoutInterleaved stores, per sample, every resource row in schema order.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents a Zstandard frame.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents an S2/Snappy framed stream.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents an LZ4 frame.
	CompressionGzip CompressionType = 0x5 // CompressionGzip represents a gzip member.
)

func (k ValueKind) String() string {
	switch k {
	case ValueFloat32:
		return "Float32"
	case ValueInt32:
		return "Int32"
	default:
		return "Unknown"
	}
}

func (m SchemaLengthMode) String() string {
	switch m {
	case SchemaLengthExclusive:
		return "Exclusive"
	case SchemaLengthInclusive:
		return "Inclusive"
	default:
		return "Unknown"
	}
}

func (l Layout) String() string {
	switch l {
	case LayoutPerResource:
		return "PerResource"
	case LayoutInterleaved:
		return "Interleaved"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionGzip:
		return "Gzip"
	default:
		return "Unknown"
	}
}

// ParseValueKind maps a case-sensitive name ("float32", "int32") to a ValueKind.
func ParseValueKind(s string) (ValueKind, bool) {
	switch s {
	case "float32", "Float32":
		return ValueFloat32, true
	case "int32", "Int32":
		return ValueInt32, true
	default:
		return 0, false
	}
}

// ParseLayout maps a name ("per-resource", "interleaved") to a Layout.
func ParseLayout(s string) (Layout, bool) {
	switch s {
	case "per-resource", "PerResource":
		return LayoutPerResource, true
	case "interleaved", "Interleaved":
		return LayoutInterleaved, true
	default:
		return 0, false
	}
}

// ParseSchemaLengthMode maps a name ("exclusive", "inclusive") to a SchemaLengthMode.
func ParseSchemaLengthMode(s string) (SchemaLengthMode, bool) {
	switch s {
	case "exclusive", "Exclusive":
		return SchemaLengthExclusive, true
	case "inclusive", "Inclusive":
		return SchemaLengthInclusive, true
	default:
		return 0, false
	}
}
