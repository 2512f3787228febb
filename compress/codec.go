package compress

import (
	"bytes"
	"fmt"

	"github.com/arloliu/perfdat/errs"
	"github.com/arloliu/perfdat/format"
)

// MaxDecompressedSize bounds the output of a single decompression.
// Archives beyond this size are rejected rather than exhausting memory.
const MaxDecompressedSize = 1 << 30 // 1GiB

// Compressor compresses a complete archive into a self-identifying stream.
//
// The returned slice is newly allocated and owned by the caller; the input is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores an archive from a compressed stream.
//
// It returns an error if the stream is corrupted or was produced by another algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// Magic prefixes of the supported streams.
var (
	gzipMagic   = []byte{0x1f, 0x8b}
	zstdMagic   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic    = []byte{0x04, 0x22, 0x4d, 0x18}
	s2Magic     = []byte("\xff\x06\x00\x00S2sTwO")
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")
)

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
	format.CompressionGzip: NewGzipCompressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}

// Detect identifies the compression of data from its leading magic bytes.
func Detect(data []byte) format.CompressionType {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return format.CompressionZstd
	case bytes.HasPrefix(data, lz4Magic):
		return format.CompressionLZ4
	case bytes.HasPrefix(data, s2Magic), bytes.HasPrefix(data, snappyMagic):
		return format.CompressionS2
	case bytes.HasPrefix(data, gzipMagic):
		return format.CompressionGzip
	default:
		return format.CompressionNone
	}
}

// Decompress detects the compression of data and returns the raw archive bytes.
func Decompress(data []byte) ([]byte, format.CompressionType, error) {
	comp := Detect(data)

	codec, err := GetCodec(comp)
	if err != nil {
		return nil, comp, err
	}

	out, err := codec.Decompress(data)
	if err != nil {
		return nil, comp, fmt.Errorf("%s decompression failed: %w", comp, err)
	}

	return out, comp, nil
}
