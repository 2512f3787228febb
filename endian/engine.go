// Package endian provides the byte order engine used to read and write
// performance archives.
//
// Controllers write every integer and sample cell little-endian, so most callers
// only need GetLittleEndianEngine:
//
//	engine := endian.GetLittleEndianEngine()
//	cur := section.NewCursor(data, engine)
//
// The returned EndianEngine instances are immutable, stateless and safe for
// concurrent use.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary, so the
// same value can drive the cursor (Uint32) and the encoder (AppendUint32).
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
