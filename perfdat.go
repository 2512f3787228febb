// Package perfdat decodes the binary performance archives written by
// storage-array controllers.
//
// An archive is a container: a fixed-size header (marker, version, equipment
// serial, equipment name, data length) followed by time-window blocks. Each
// block carries a JSON schema naming the resources, elements and metrics it
// holds, followed by one dense matrix of 4-byte samples per resource. Block
// count and sizes are not known up front; each block is sized from its own
// schema.
//
// # Basic Usage
//
// Decoding a whole archive:
//
//	res, err := perfdat.DecodeFile("PerfData_ABC123_20240101.dat")
//	if err != nil {
//	    // res.Blocks still holds every block decoded before the failure
//	}
//	for _, block := range res.Blocks {
//	    for s := range block.Samples(container.SampleFilter{Metrics: []string{"22"}}) {
//	        fmt.Println(s.Resource, s.ElementName, s.Timestamp, s.Value)
//	    }
//	}
//
// Walking lazily and stopping early:
//
//	dec, _ := perfdat.NewDecoder(data, container.WithResources("11"))
//	header, _ := dec.Header()
//	for block := range dec.All() {
//	    if block.Schema.StartTime > cutoff {
//	        break
//	    }
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the container
// package. For lower-level access use section (header and schema), encoding
// (matrices) and compress (compressed sources) directly.
package perfdat

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/perfdat/compress"
	"github.com/arloliu/perfdat/container"
	"github.com/arloliu/perfdat/internal/hash"
)

// NewDecoder creates a lazy decoder over an uncompressed archive held in memory.
//
// Available options:
//   - container.WithResources(ids...)
//   - container.WithValueKind(format.ValueFloat32|ValueInt32)
//   - container.WithLayout(format.LayoutPerResource|LayoutInterleaved)
//   - container.WithSchemaLengthMode(format.SchemaLengthExclusive|SchemaLengthInclusive)
//   - container.WithReadToEOF()
//   - container.WithLogger(logger)
func NewDecoder(data []byte, opts ...container.DecoderOption) (*container.Decoder, error) {
	return container.NewDecoder(data, opts...)
}

// Decode decodes every block of an archive held in memory.
// A gzip, zstd, s2/snappy or lz4 wrapped archive is unwrapped first.
//
// The container marker is opaque and may itself begin with a compression
// magic. When the detected stream does not decompress, data is decoded as an
// uncompressed archive.
//
// On a decoding failure the returned Result holds the blocks decoded before it.
func Decode(data []byte, opts ...container.DecoderOption) (container.Result, error) {
	raw, comp, err := compress.Decompress(data)
	if err == nil {
		return container.DecodeAll(raw, opts...)
	}

	res, decErr := container.DecodeAll(data, opts...)
	if decErr != nil {
		return res, errors.Join(decErr, fmt.Errorf("not a %s stream: %w", comp, err))
	}

	return res, nil
}

// DecodeReader reads r to the end and decodes the archive it holds, as Decode does.
func DecodeReader(r io.Reader, opts ...container.DecoderOption) (container.Result, error) {
	data, err := compress.Load(r)
	if err != nil {
		return container.Result{State: container.StateFailed}, err
	}

	return Decode(data, opts...)
}

// DecodeFile reads the named archive, possibly compressed, and decodes it as Decode does.
func DecodeFile(path string, opts ...container.DecoderOption) (container.Result, error) {
	data, err := compress.LoadFile(path)
	if err != nil {
		return container.Result{State: container.StateFailed}, err
	}

	res, err := Decode(data, opts...)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	return res, nil
}

// SeriesID returns the id of a resource/element/metric series, as carried by container.Sample.
func SeriesID(resource, element, metric string) uint64 {
	return hash.SeriesID(resource, element, metric)
}
