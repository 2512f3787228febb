package container

import (
	"fmt"
	"math"

	"github.com/arloliu/perfdat/compress"
	"github.com/arloliu/perfdat/encoding"
	"github.com/arloliu/perfdat/endian"
	"github.com/arloliu/perfdat/errs"
	"github.com/arloliu/perfdat/format"
	"github.com/arloliu/perfdat/internal/options"
	"github.com/arloliu/perfdat/internal/pool"
	"github.com/arloliu/perfdat/section"
)

// EncoderConfig holds the options of an Encoder.
type EncoderConfig struct {
	engine      endian.EndianEngine
	layout      format.Layout
	schemaMode  format.SchemaLengthMode
	compression format.CompressionType
	dataLength  *uint32
}

func newEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		engine:      endian.GetLittleEndianEngine(),
		layout:      format.LayoutPerResource,
		schemaMode:  format.SchemaLengthExclusive,
		compression: format.CompressionNone,
	}
}

// EncoderOption represents a functional option for configuring an Encoder.
type EncoderOption = options.Option[*EncoderConfig]

// WithEncoderLayout selects the matrix layout written for every block.
func WithEncoderLayout(layout format.Layout) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		switch layout {
		case format.LayoutPerResource, format.LayoutInterleaved:
			c.layout = layout
			return nil
		default:
			return fmt.Errorf("%w: layout %s", errs.ErrInvalidOption, layout)
		}
	})
}

// WithEncoderSchemaLengthMode selects what the written schema length field counts.
func WithEncoderSchemaLengthMode(mode format.SchemaLengthMode) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		switch mode {
		case format.SchemaLengthExclusive, format.SchemaLengthInclusive:
			c.schemaMode = mode
			return nil
		default:
			return fmt.Errorf("%w: schema length mode %s", errs.ErrInvalidOption, mode)
		}
	})
}

// WithCompression wraps the finished container in a compressed stream.
func WithCompression(comp format.CompressionType) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if _, err := compress.GetCodec(comp); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrInvalidOption, err)
		}
		c.compression = comp

		return nil
	})
}

// WithDataLength overrides the data length written to the header.
// By default it is the exact number of block bytes.
func WithDataLength(n uint32) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.dataLength = &n
	})
}

// Encoder builds a container from a header and a sequence of blocks.
//
// Note: The Encoder is NOT thread-safe and can be finished only once.
type Encoder struct {
	cfg      *EncoderConfig
	header   section.ContainerHeader
	body     *pool.ByteBuffer
	blocks   int
	finished bool
}

// NewEncoder creates an encoder for a container with the given header.
// The header DataLength is computed by Finish.
func NewEncoder(header section.ContainerHeader, opts ...EncoderOption) (*Encoder, error) {
	cfg := newEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Encoder{
		cfg:    cfg,
		header: header,
		body:   pool.GetContainerBuffer(),
	}, nil
}

// BlockCount returns the number of blocks added so far.
func (e *Encoder) BlockCount() int {
	return e.blocks
}

// AddBlock appends one block.
//
// matrices holds one matrix per schema resource, in schema order. A nil entry is
// written as zeros. Every matrix must be SampleCount × elements × metrics of its
// resource, otherwise errs.ErrInvalidMatrixShape is returned and nothing is written.
//
// When schema.Raw is set it is written verbatim and only the typed fields are
// used to size the matrices.
func (e *Encoder) AddBlock(schema section.BlockSchema, matrices []*encoding.Matrix) error {
	if e.finished {
		return errs.ErrEncoderFinished
	}

	if len(matrices) != len(schema.Resources) {
		return fmt.Errorf("%w: %d matrices for %d resources",
			errs.ErrInvalidMatrixShape, len(matrices), len(schema.Resources))
	}

	samples := schema.SampleCount()
	filled := make([]*encoding.Matrix, len(matrices))
	shapes := make([]encoding.Shape, len(matrices))
	for i, r := range schema.Resources {
		elements, metrics := len(r.Descriptor.ElementIDs), len(r.Descriptor.MetricIDs)

		m := matrices[i]
		if m == nil {
			m = encoding.NewMatrix(samples, elements, metrics, format.ValueFloat32)
		}

		if s, el, me := m.Dims(); s != samples || el != elements || me != metrics {
			return fmt.Errorf("%w: resource %s is %dx%dx%d, want %dx%dx%d",
				errs.ErrInvalidMatrixShape, r.ID, s, el, me, samples, elements, metrics)
		}
		filled[i] = m
		shapes[i] = encoding.Shape{Elements: elements, Metrics: metrics}
	}

	payload, err := encoding.BlockPayloadSize(samples, shapes)
	if err != nil {
		return fmt.Errorf("block %d: %w", e.blocks, err)
	}

	start := e.body.Len()
	buf, err := schema.AppendTo(e.body.B, e.cfg.engine, e.cfg.schemaMode)
	if err != nil {
		e.body.Truncate(start)
		return fmt.Errorf("block %d: %w", e.blocks, err)
	}
	e.body.B = buf
	e.body.Grow(payload)

	buf = e.body.B
	switch e.cfg.layout {
	case format.LayoutInterleaved:
		buf, err = encoding.AppendInterleaved(buf, e.cfg.engine, filled)
	default:
		for _, m := range filled {
			buf = encoding.AppendMatrix(buf, e.cfg.engine, m)
		}
	}
	e.body.B = buf

	if err != nil {
		e.body.Truncate(start)
		return fmt.Errorf("block %d: %w", e.blocks, err)
	}
	e.blocks++

	return nil
}

// Finish writes the header and returns the complete container, compressed if configured.
func (e *Encoder) Finish() ([]byte, error) {
	if e.finished {
		return nil, errs.ErrEncoderFinished
	}
	e.finished = true

	defer func() {
		pool.PutContainerBuffer(e.body)
		e.body = nil
	}()

	header := e.header
	switch {
	case e.cfg.dataLength != nil:
		header.DataLength = *e.cfg.dataLength
	case e.body.Len() > math.MaxUint32:
		return nil, fmt.Errorf("%w: %d block bytes exceed the data length field", errs.ErrInvalidOption, e.body.Len())
	default:
		header.DataLength = uint32(e.body.Len()) //nolint: gosec
	}

	out := make([]byte, 0, section.ContainerHeaderSize+e.body.Len())
	out, err := header.AppendTo(out, e.cfg.engine)
	if err != nil {
		return nil, fmt.Errorf("container header: %w", err)
	}
	out = append(out, e.body.Bytes()...)

	codec, err := compress.GetCodec(e.cfg.compression)
	if err != nil {
		return nil, err
	}

	compressed, err := codec.Compress(out)
	if err != nil {
		return nil, fmt.Errorf("compress container: %w", err)
	}

	return compressed, nil
}
