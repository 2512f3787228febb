package container

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/perfdat/endian"
	"github.com/arloliu/perfdat/errs"
	"github.com/arloliu/perfdat/format"
	"github.com/arloliu/perfdat/internal/options"
)

// DecoderConfig holds the decoding options of a Decoder.
type DecoderConfig struct {
	engine     endian.EndianEngine
	kind       format.ValueKind
	layout     format.Layout
	schemaMode format.SchemaLengthMode
	resources  map[string]struct{}
	readToEOF  bool
	logger     *zap.Logger
}

func newDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		engine:     endian.GetLittleEndianEngine(),
		kind:       format.ValueFloat32,
		layout:     format.LayoutPerResource,
		schemaMode: format.SchemaLengthExclusive,
		logger:     zap.NewNop(),
	}
}

// wants reports whether the matrix of a resource should be decoded.
func (c *DecoderConfig) wants(resourceID string) bool {
	if c.resources == nil {
		return true
	}
	_, ok := c.resources[resourceID]

	return ok
}

// DecoderOption represents a functional option for configuring a Decoder.
type DecoderOption = options.Option[*DecoderConfig]

// WithResources limits matrix decoding to the given resource ids.
// Other resources are skipped: their bytes are consumed but not materialized.
// Calling it with no ids skips every resource.
func WithResources(ids ...string) DecoderOption {
	return options.NoError(func(c *DecoderConfig) {
		c.resources = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			c.resources[id] = struct{}{}
		}
	})
}

// WithValueKind selects how matrix cells are interpreted. Defaults to format.ValueFloat32.
func WithValueKind(kind format.ValueKind) DecoderOption {
	return options.New(func(c *DecoderConfig) error {
		switch kind {
		case format.ValueFloat32, format.ValueInt32:
			c.kind = kind
			return nil
		default:
			return fmt.Errorf("%w: value kind %s", errs.ErrInvalidOption, kind)
		}
	})
}

// WithLayout selects the matrix layout. Defaults to format.LayoutPerResource.
func WithLayout(layout format.Layout) DecoderOption {
	return options.New(func(c *DecoderConfig) error {
		switch layout {
		case format.LayoutPerResource, format.LayoutInterleaved:
			c.layout = layout
			return nil
		default:
			return fmt.Errorf("%w: layout %s", errs.ErrInvalidOption, layout)
		}
	})
}

// WithSchemaLengthMode selects what the schema length field counts.
// Defaults to format.SchemaLengthExclusive.
func WithSchemaLengthMode(mode format.SchemaLengthMode) DecoderOption {
	return options.New(func(c *DecoderConfig) error {
		switch mode {
		case format.SchemaLengthExclusive, format.SchemaLengthInclusive:
			c.schemaMode = mode
			return nil
		default:
			return fmt.Errorf("%w: schema length mode %s", errs.ErrInvalidOption, mode)
		}
	})
}

// WithReadToEOF ignores the declared data length and decodes blocks until the
// source is exhausted at a block boundary.
func WithReadToEOF() DecoderOption {
	return options.NoError(func(c *DecoderConfig) {
		c.readToEOF = true
	})
}

// WithLogger sets the logger used for malformed schemas and terminal failures.
// A nil logger disables logging.
func WithLogger(logger *zap.Logger) DecoderOption {
	return options.NoError(func(c *DecoderConfig) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	})
}
