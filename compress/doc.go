// Package compress unwraps compressed performance archives.
//
// Controllers and collection tools frequently ship .dat archives inside a single
// compressed stream. This package detects the stream by its magic bytes and
// returns the raw container bytes the decoder expects:
//
//	data, comp, err := compress.ReadFile("PerfData_SN_2102355TJU_SP0.dat.gz")
//	if err != nil {
//	    return err
//	}
//	log.Printf("archive was %s compressed", comp)
//
// Supported streams:
//   - format.CompressionGzip: gzip members (github.com/klauspost/compress/gzip)
//   - format.CompressionZstd: Zstandard frames (github.com/klauspost/compress/zstd)
//   - format.CompressionS2:   S2 or Snappy framed streams (github.com/klauspost/compress/s2)
//   - format.CompressionLZ4:  LZ4 frames (github.com/pierrec/lz4/v4)
//
// Data without a known magic is returned unchanged as format.CompressionNone.
// Multi-file wrappers such as tar and zip are out of scope; extract the member
// first and pass its bytes here.
//
// Every codec also compresses, which is what container.Encoder uses to produce
// compressed fixtures.
//
// # Thread Safety
//
// All codecs are stateless values and safe for concurrent use. Zstd encoders and
// decoders are pooled internally.
package compress
