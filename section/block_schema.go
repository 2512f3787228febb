package section

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/arloliu/perfdat/encoding"
	"github.com/arloliu/perfdat/endian"
	"github.com/arloliu/perfdat/errs"
	"github.com/arloliu/perfdat/format"
)

// ResourceDescriptor lists the elements and metrics present for one resource in a block.
//
// Order is significant: ElementIDs fixes axis 1 and MetricIDs fixes axis 2 of the
// resource's sample matrix.
type ResourceDescriptor struct {
	ElementIDs []string
	// ElementNames holds the display names written alongside ElementIDs, may be empty.
	ElementNames []string
	MetricIDs    []string
}

// ElementName returns the display name of element i, falling back to its id.
func (d ResourceDescriptor) ElementName(i int) string {
	if i < len(d.ElementNames) && d.ElementNames[i] != "" {
		return d.ElementNames[i]
	}

	return d.ElementIDs[i]
}

// ResourceEntry is one resource of a block schema, in source order.
type ResourceEntry struct {
	ID         string
	Descriptor ResourceDescriptor
}

// BlockSchema is the self-describing header of one time-window block.
type BlockSchema struct {
	// Type is the block type tag.
	Type uint32
	// Length is the schema length field as read from the archive.
	Length uint32
	// Offset is the absolute offset of the block prefix.
	Offset int
	// Raw is the schema text, exactly as stored.
	Raw string

	StartTime int64
	EndTime   int64
	Interval  int64
	// ControllerID is the "CtrlID" of the controller that wrote the block.
	ControllerID string
	Resources    []ResourceEntry
	// Extra holds the remaining scalar top-level keys.
	Extra map[string]string

	// Malformed reports that Raw could not be parsed. A malformed schema has no
	// resources and no samples; Err carries the reason and wraps errs.ErrMalformedSchema.
	Malformed bool
	Err       error
}

// SampleCount returns the number of samples per element and metric, 0 for a malformed schema.
func (s BlockSchema) SampleCount() int {
	if s.Malformed {
		return 0
	}

	return encoding.SampleCount(s.StartTime, s.EndTime, s.Interval)
}

// Resource returns the descriptor of the first resource with the given id.
func (s BlockSchema) Resource(id string) (ResourceDescriptor, bool) {
	for _, r := range s.Resources {
		if r.ID == id {
			return r.Descriptor, true
		}
	}

	return ResourceDescriptor{}, false
}

// ParseBlockSchema reads a block prefix and its schema text at the cursor position.
//
// Exactly the declared number of schema bytes is consumed whether or not the
// text parses, so a malformed schema keeps the cursor aligned. Only read
// failures are returned as errors: errs.ErrTruncatedInput, or
// errs.ErrInvalidSchemaLength for an inclusive length shorter than the prefix.
func ParseBlockSchema(cur *Cursor, mode format.SchemaLengthMode) (BlockSchema, error) {
	s := BlockSchema{Offset: cur.Offset()}

	var err error
	if s.Type, err = cur.ReadUint32(); err != nil {
		return s, fmt.Errorf("read block type: %w", err)
	}

	if s.Length, err = cur.ReadUint32(); err != nil {
		return s, fmt.Errorf("read schema length: %w", err)
	}

	textLen, err := schemaTextLength(s.Length, mode)
	if err != nil {
		return s, err
	}

	raw, err := cur.ReadBytes(textLen)
	if err != nil {
		return s, fmt.Errorf("read schema text: %w", err)
	}
	s.Raw = string(raw)

	if err := s.parse(); err != nil {
		s.Malformed = true
		s.Err = err
		s.StartTime, s.EndTime, s.Interval = 0, 0, 0
		s.ControllerID = ""
		s.Resources = nil
		s.Extra = nil
	}

	return s, nil
}

func schemaTextLength(length uint32, mode format.SchemaLengthMode) (int, error) {
	switch mode {
	case format.SchemaLengthInclusive:
		if length < BlockPrefixSize {
			return 0, fmt.Errorf("%w: %d is shorter than the %d-byte block prefix",
				errs.ErrInvalidSchemaLength, length, BlockPrefixSize)
		}

		return schemaLengthInt(length - BlockPrefixSize)
	case format.SchemaLengthExclusive:
		return schemaLengthInt(length)
	default:
		return 0, fmt.Errorf("%w: schema length mode %s", errs.ErrInvalidOption, mode)
	}
}

// schemaLengthInt converts a schema text length to int. A length that does
// not fit, only possible with a 32-bit int, cannot be present in the source.
func schemaLengthInt(n uint32) (int, error) {
	if uint64(n) > math.MaxInt {
		return 0, fmt.Errorf("%w: schema text of %d bytes", errs.ErrTruncatedInput, n)
	}

	return int(n), nil
}

func malformed(msg string, args ...any) error {
	return fmt.Errorf("%w: %s", errs.ErrMalformedSchema, fmt.Sprintf(msg, args...))
}

// parse fills the typed fields from s.Raw.
func (s *BlockSchema) parse() error {
	text := string(bytes.TrimRight([]byte(s.Raw), "\x00 \t\r\n"))
	if !gjson.Valid(text) {
		return malformed("invalid JSON")
	}

	doc := gjson.Parse(text)
	if !doc.IsObject() {
		return malformed("schema is not a JSON object")
	}

	var err error
	if s.StartTime, err = intField(doc, KeyStartTime, true, 0); err != nil {
		return err
	}

	if s.EndTime, err = intField(doc, KeyEndTime, true, 0); err != nil {
		return err
	}

	if s.Interval, err = intField(doc, KeyInterval, false, DefaultInterval); err != nil {
		return err
	}

	if s.Interval <= 0 {
		return malformed("%s must be positive, got %d", KeyInterval, s.Interval)
	}

	if v := doc.Get(KeyControllerID); v.Exists() {
		s.ControllerID = v.String()
	}

	doc.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case KeyMap, KeyStartTime, KeyEndTime, KeyInterval, KeyControllerID:
		default:
			if !value.IsObject() && !value.IsArray() {
				if s.Extra == nil {
					s.Extra = make(map[string]string)
				}
				s.Extra[key.String()] = value.String()
			}
		}

		return true
	})

	resources := doc.Get(KeyMap)
	if !resources.Exists() || resources.Type == gjson.Null {
		return nil
	}

	if !resources.IsObject() {
		return malformed("%s is not an object", KeyMap)
	}

	resources.ForEach(func(key, value gjson.Result) bool {
		var desc ResourceDescriptor
		desc, err = parseResource(key.String(), value)
		if err != nil {
			return false
		}
		s.Resources = append(s.Resources, ResourceEntry{ID: key.String(), Descriptor: desc})

		return true
	})

	return err
}

func parseResource(id string, value gjson.Result) (ResourceDescriptor, error) {
	var desc ResourceDescriptor
	if !value.IsObject() {
		return desc, malformed("resource %q is not an object", id)
	}

	var err error
	if desc.ElementIDs, err = stringList(value, KeyElementIDs); err != nil {
		return desc, malformed("resource %q: %v", id, err)
	}

	if desc.ElementNames, err = stringList(value, KeyElementNames); err != nil {
		return desc, malformed("resource %q: %v", id, err)
	}

	if desc.MetricIDs, err = stringList(value, KeyMetricIDs); err != nil {
		return desc, malformed("resource %q: %v", id, err)
	}

	return desc, nil
}

// stringList reads an array of scalars as strings. A missing key yields an empty list.
func stringList(obj gjson.Result, key string) ([]string, error) {
	v := obj.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return nil, nil
	}

	if !v.IsArray() {
		return nil, fmt.Errorf("%s is not an array", key)
	}

	items := v.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.IsObject() || item.IsArray() {
			return nil, fmt.Errorf("%s holds a non-scalar item", key)
		}
		out = append(out, item.String())
	}

	return out, nil
}

// intField reads an integer that the controller may write as a JSON number or a numeric string.
func intField(doc gjson.Result, key string, required bool, def int64) (int64, error) {
	v := doc.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		if required {
			return 0, malformed("missing %s", key)
		}

		return def, nil
	}

	switch v.Type { //nolint: exhaustive
	case gjson.Number:
		if v.Num != math.Trunc(v.Num) || math.Abs(v.Num) >= math.MaxInt64 {
			return 0, malformed("%s is not an integer: %s", key, v.Raw)
		}

		return int64(v.Num), nil
	case gjson.String:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		if err != nil {
			return 0, malformed("%s is not an integer: %q", key, v.Str)
		}

		return n, nil
	default:
		return 0, malformed("%s has unexpected type %s", key, v.Type)
	}
}

// MarshalText renders the typed fields as schema JSON, preserving resource and id order.
//
// Metric ids that are decimal integers are written as JSON numbers, everything
// else as strings, matching what controllers emit.
func (s BlockSchema) MarshalText() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')
	fmt.Fprintf(&buf, "%q:%d,%q:%d,%q:%d", KeyStartTime, s.StartTime, KeyEndTime, s.EndTime, KeyInterval, s.Interval)

	if s.ControllerID != "" {
		buf.WriteByte(',')
		writeKey(&buf, KeyControllerID)
		writeString(&buf, s.ControllerID)
	}

	buf.WriteByte(',')
	writeKey(&buf, KeyMap)
	buf.WriteByte('{')
	for i, r := range s.Resources {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeKey(&buf, r.ID)
		buf.WriteByte('{')
		writeKey(&buf, KeyElementIDs)
		writeList(&buf, r.Descriptor.ElementIDs, false)
		if len(r.Descriptor.ElementNames) > 0 {
			buf.WriteByte(',')
			writeKey(&buf, KeyElementNames)
			writeList(&buf, r.Descriptor.ElementNames, false)
		}
		buf.WriteByte(',')
		writeKey(&buf, KeyMetricIDs)
		writeList(&buf, r.Descriptor.MetricIDs, true)
		buf.WriteByte('}')
	}
	buf.WriteString("}}")

	return buf.Bytes(), nil
}

// AppendTo serializes the block prefix and schema text to dst.
func (s BlockSchema) AppendTo(dst []byte, engine endian.EndianEngine, mode format.SchemaLengthMode) ([]byte, error) {
	text := []byte(s.Raw)
	if s.Raw == "" {
		var err error
		if text, err = s.MarshalText(); err != nil {
			return dst, err
		}
	}

	length := len(text)
	switch mode {
	case format.SchemaLengthInclusive:
		length += BlockPrefixSize
	case format.SchemaLengthExclusive:
	default:
		return dst, fmt.Errorf("%w: schema length mode %s", errs.ErrInvalidOption, mode)
	}

	if length > math.MaxUint32 {
		return dst, fmt.Errorf("%w: schema text is %d bytes", errs.ErrInvalidOption, len(text))
	}

	dst = engine.AppendUint32(dst, s.Type)
	dst = engine.AppendUint32(dst, uint32(length))
	dst = append(dst, text...)

	return dst, nil
}

func writeKey(buf *bytes.Buffer, key string) {
	writeString(buf, key)
	buf.WriteByte(':')
}

func writeString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

func writeList(buf *bytes.Buffer, items []string, numeric bool) {
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		if _, err := strconv.ParseUint(item, 10, 64); numeric && err == nil {
			buf.WriteString(item)
		} else {
			writeString(buf, item)
		}
	}
	buf.WriteByte(']')
}
