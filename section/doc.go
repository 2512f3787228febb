// Package section reads and writes the fixed layouts of a performance archive:
// the container header and the block prefix with its schema text.
//
// # Container Structure
//
// All integers are little-endian.
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Container header (337 bytes, fixed)                     │
//	│  - Marker (32 bytes, opaque)                            │
//	│  - Version (4 bytes)                                    │
//	│  - Serial (256 bytes, NUL padded)                       │
//	│  - Name (41 bytes, NUL padded)                          │
//	│  - DataLength (4 bytes)                                 │
//	├─────────────────────────────────────────────────────────┤
//	│ Block 0                                                 │
//	│  - Type (4 bytes)                                       │
//	│  - SchemaLength L (4 bytes)                             │
//	│  - Schema text (L bytes, JSON)                          │
//	│  - Matrices (sized from the schema, see encoding)       │
//	├─────────────────────────────────────────────────────────┤
//	│ Block 1 ...                                             │
//	└─────────────────────────────────────────────────────────┘
//
// Blocks follow one another until DataLength bytes past the header are consumed.
//
// # Schema
//
// The schema is a JSON object:
//
//	{
//	  "StartTime": 1700000000,
//	  "EndTime": 1700003600,
//	  "Archive": 60,
//	  "CtrlID": "0",
//	  "Map": {
//	    "11": {"IDs": ["0", "1"], "Names": ["lun-a", "lun-b"], "DataTypes": [21, 22]}
//	  }
//	}
//
// Resource order in "Map" and id order in each list fix the order of the
// matrices that follow. A schema that does not parse is recorded as malformed
// and its block holds no matrices; the decoder still consumes exactly L bytes.
//
// Some firmware writes L including the 8-byte prefix; see format.SchemaLengthMode.
package section
