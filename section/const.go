package section

// Field widths of the container header, in on-disk order.
const (
	MarkerSize     = 32  // correctness marker, opaque
	VersionSize    = 4   // message format version, uint32
	SerialSize     = 256 // equipment serial number, NUL padded
	NameSize       = 41  // equipment display name, NUL padded
	DataLengthSize = 4   // declared length of everything after the header, uint32

	ContainerHeaderSize = MarkerSize + VersionSize + SerialSize + NameSize + DataLengthSize
)

// Block prefix layout: a uint32 block type followed by a uint32 schema length.
const (
	BlockTypeSize    = 4
	SchemaLengthSize = 4
	BlockPrefixSize  = BlockTypeSize + SchemaLengthSize
)

// DefaultInterval is the sampling interval in seconds used when a schema omits "Archive".
const DefaultInterval = 60

// Top-level schema keys written by the controller.
const (
	KeyMap          = "Map"
	KeyStartTime    = "StartTime"
	KeyEndTime      = "EndTime"
	KeyInterval     = "Archive"
	KeyControllerID = "CtrlID"

	KeyElementIDs   = "IDs"
	KeyElementNames = "Names"
	KeyMetricIDs    = "DataTypes"
)
