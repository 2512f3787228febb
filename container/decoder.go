package container

import (
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/arloliu/perfdat/encoding"
	"github.com/arloliu/perfdat/format"
	"github.com/arloliu/perfdat/internal/options"
	"github.com/arloliu/perfdat/section"
)

// State is the position of a Decoder in its decoding state machine:
//
//	Start -> HeaderParsed -> BlockParsed* -> Done | Failed
type State uint8

const (
	StateStart State = iota
	StateHeaderParsed
	StateBlockParsed
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateHeaderParsed:
		return "HeaderParsed"
	case StateBlockParsed:
		return "BlockParsed"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further blocks can be produced.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Decoder walks one container and produces its blocks on demand.
//
// Blocks are pulled with Next or ranged over with All; a caller may stop at any
// point without decoding the rest of the archive. A read failure moves the
// decoder to StateFailed; blocks returned before the failure remain valid.
//
// Note: The Decoder is NOT thread-safe. Decode independent containers with
// independent decoders.
type Decoder struct {
	cfg    *DecoderConfig
	cur    *section.Cursor
	state  State
	header section.ContainerHeader
	parsed bool
	blocks int
	err    error
}

// NewDecoder creates a decoder over data. Nothing is read until Header, Next or All is called.
//
// Returns an error only for invalid options.
func NewDecoder(data []byte, opts ...DecoderOption) (*Decoder, error) {
	cfg := newDecoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Decoder{
		cfg: cfg,
		cur: section.NewCursor(data, cfg.engine),
	}, nil
}

// State returns the current state.
func (d *Decoder) State() State {
	return d.state
}

// Err returns the error that moved the decoder to StateFailed, nil otherwise.
func (d *Decoder) Err() error {
	return d.err
}

// Offset returns the absolute cursor offset.
func (d *Decoder) Offset() int {
	return d.cur.Offset()
}

// BlockCount returns the number of blocks produced so far.
func (d *Decoder) BlockCount() int {
	return d.blocks
}

// StopOffset returns the absolute offset at which decoding ends, or -1 before the
// header is parsed. With WithReadToEOF it is the source length.
func (d *Decoder) StopOffset() int {
	if !d.parsed {
		return -1
	}

	if d.cfg.readToEOF {
		return d.cur.Len()
	}

	return d.header.StopOffset()
}

// Header parses the container header if needed and returns it.
func (d *Decoder) Header() (section.ContainerHeader, error) {
	if d.state == StateStart {
		d.parseHeader()
	}

	if !d.parsed {
		return d.header, d.err
	}

	return d.header, nil
}

// Next decodes the next block. It returns false once the decoder reaches
// StateDone or StateFailed; check Err to tell them apart.
func (d *Decoder) Next() (Block, bool) {
	if d.state == StateStart {
		if !d.parseHeader() {
			return Block{}, false
		}
	}

	if d.state.Terminal() {
		return Block{}, false
	}

	if d.atEnd() {
		d.state = StateDone
		d.cfg.logger.Debug("container decoded",
			zap.Int("blocks", d.blocks),
			zap.Int("offset", d.cur.Offset()))

		return Block{}, false
	}

	block, err := d.decodeBlock()
	if err != nil {
		d.fail(fmt.Errorf("block %d at offset %d: %w", d.blocks, block.Offset, err))
		return Block{}, false
	}

	d.state = StateBlockParsed
	d.blocks++

	return block, true
}

// All returns an iterator over the remaining blocks.
//
// Example:
//
//	for block := range dec.All() {
//	    fmt.Println(block.Schema.StartTime, len(block.Resources))
//	}
//	if err := dec.Err(); err != nil {
//	    // truncated archive, blocks above are still valid
//	}
func (d *Decoder) All() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		for {
			block, ok := d.Next()
			if !ok || !yield(block) {
				return
			}
		}
	}
}

func (d *Decoder) parseHeader() bool {
	header, err := section.ParseContainerHeader(d.cur)
	if err != nil {
		d.fail(fmt.Errorf("container header: %w", err))
		return false
	}

	d.header = header
	d.parsed = true
	d.state = StateHeaderParsed

	if stop := header.StopOffset(); !d.cfg.readToEOF && stop > d.cur.Len() {
		d.cfg.logger.Warn("declared data length exceeds source",
			zap.String("serial", header.Serial),
			zap.Int("stop_offset", stop),
			zap.Int("source_len", d.cur.Len()))
	}

	return true
}

func (d *Decoder) atEnd() bool {
	if d.cfg.readToEOF {
		return d.cur.Remaining() == 0
	}

	return d.cur.Offset() >= d.header.StopOffset()
}

func (d *Decoder) fail(err error) {
	d.err = err
	d.state = StateFailed
	d.cfg.logger.Warn("container decoding failed",
		zap.Int("blocks", d.blocks),
		zap.Int("offset", d.cur.Offset()),
		zap.Error(err))
}

// decodeBlock runs the schema decoder and then reads or skips every resource matrix.
func (d *Decoder) decodeBlock() (Block, error) {
	block := Block{Index: d.blocks, Offset: d.cur.Offset()}

	schema, err := section.ParseBlockSchema(d.cur, d.cfg.schemaMode)
	if err != nil {
		return block, err
	}
	block.Schema = schema

	if schema.Malformed {
		d.cfg.logger.Warn("malformed block schema, treating block as empty",
			zap.Int("block", block.Index),
			zap.Int("offset", block.Offset),
			zap.Uint32("schema_length", schema.Length),
			zap.Error(schema.Err))
	}

	block.Resources = make([]ResourceBlock, len(schema.Resources))
	for i, r := range schema.Resources {
		block.Resources[i] = ResourceBlock{
			ID:         r.ID,
			Descriptor: r.Descriptor,
			Skipped:    !d.cfg.wants(r.ID),
		}
	}

	switch d.cfg.layout {
	case format.LayoutInterleaved:
		err = d.readInterleaved(&block)
	default:
		err = d.readPerResource(&block)
	}

	if err != nil {
		return block, err
	}

	block.Size = d.cur.Offset() - block.Offset

	return block, nil
}

func (d *Decoder) readPerResource(block *Block) error {
	samples := block.SampleCount()
	for i := range block.Resources {
		rb := &block.Resources[i]
		elements, metrics := len(rb.Descriptor.ElementIDs), len(rb.Descriptor.MetricIDs)

		var err error
		if rb.Skipped {
			rb.Size, err = encoding.SkipMatrix(d.cur, samples, elements, metrics)
		} else {
			rb.Matrix, rb.Size, err = encoding.DecodeMatrix(d.cur, samples, elements, metrics, d.cfg.kind)
		}

		if err != nil {
			return fmt.Errorf("resource %s: %w", rb.ID, err)
		}
	}

	return nil
}

func (d *Decoder) readInterleaved(block *Block) error {
	if len(block.Resources) == 0 {
		return nil
	}

	samples := block.SampleCount()
	shapes := make([]encoding.Shape, len(block.Resources))
	decode := make([]bool, len(block.Resources))
	for i, rb := range block.Resources {
		shapes[i] = encoding.Shape{Elements: len(rb.Descriptor.ElementIDs), Metrics: len(rb.Descriptor.MetricIDs)}
		decode[i] = !rb.Skipped
	}

	matrices, _, err := encoding.DecodeInterleaved(d.cur, samples, shapes, decode, d.cfg.kind)
	if err != nil {
		return err
	}

	for i := range block.Resources {
		rb := &block.Resources[i]
		rb.Matrix = matrices[i]
		if rb.Size, err = encoding.MatrixSize(samples, shapes[i].Elements, shapes[i].Metrics); err != nil {
			return err
		}
	}

	return nil
}

// Result is the outcome of decoding a whole container with DecodeAll.
type Result struct {
	Header section.ContainerHeader
	Blocks []Block
	State  State
	// Consumed is the number of bytes read, header included.
	Consumed int
}

// DecodeAll decodes every block of a container.
//
// On failure the returned Result still holds the header (if parsed) and every
// block decoded before the failure, and State is StateFailed.
func DecodeAll(data []byte, opts ...DecoderOption) (Result, error) {
	dec, err := NewDecoder(data, opts...)
	if err != nil {
		return Result{State: StateFailed}, err
	}

	var res Result
	for block := range dec.All() {
		res.Blocks = append(res.Blocks, block)
	}

	res.Header, _ = dec.Header()
	res.State = dec.State()
	res.Consumed = dec.Offset()

	return res, dec.Err()
}
