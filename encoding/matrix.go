package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/perfdat/format"
)

// Matrix is a dense samples × elements × metrics array of 4-byte cells.
//
// Cells are stored as raw bits in row-major order with the metric index varying
// fastest; Kind selects how At interprets them.
type Matrix struct {
	samples  int
	elements int
	metrics  int
	kind     format.ValueKind
	cells    []uint32
}

// NewMatrix allocates a zeroed matrix.
// It panics on negative dimensions; use MatrixSize to validate untrusted shapes first.
func NewMatrix(samples, elements, metrics int, kind format.ValueKind) *Matrix {
	if samples < 0 || elements < 0 || metrics < 0 {
		panic(fmt.Sprintf("encoding: negative matrix dimension %dx%dx%d", samples, elements, metrics))
	}

	return &Matrix{
		samples:  samples,
		elements: elements,
		metrics:  metrics,
		kind:     kind,
		cells:    make([]uint32, samples*elements*metrics),
	}
}

// Dims returns the sample, element and metric counts.
func (m *Matrix) Dims() (samples, elements, metrics int) {
	return m.samples, m.elements, m.metrics
}

// Len returns the number of cells.
func (m *Matrix) Len() int {
	return len(m.cells)
}

// Size returns the encoded byte length.
func (m *Matrix) Size() int {
	return len(m.cells) * CellSize
}

// Kind returns the cell interpretation.
func (m *Matrix) Kind() format.ValueKind {
	return m.kind
}

func (m *Matrix) index(s, e, k int) int {
	if uint(s) >= uint(m.samples) || uint(e) >= uint(m.elements) || uint(k) >= uint(m.metrics) {
		panic(fmt.Sprintf("encoding: matrix index [%d][%d][%d] out of range [%d][%d][%d]",
			s, e, k, m.samples, m.elements, m.metrics))
	}

	return (s*m.elements+e)*m.metrics + k
}

// Bits returns the raw cell bits.
func (m *Matrix) Bits(s, e, k int) uint32 {
	return m.cells[m.index(s, e, k)]
}

// SetBits stores raw cell bits.
func (m *Matrix) SetBits(s, e, k int, v uint32) {
	m.cells[m.index(s, e, k)] = v
}

// Float32 returns the cell as an IEEE-754 float regardless of Kind.
func (m *Matrix) Float32(s, e, k int) float32 {
	return math.Float32frombits(m.Bits(s, e, k))
}

// Int32 returns the cell as a signed integer regardless of Kind.
func (m *Matrix) Int32(s, e, k int) int32 {
	return int32(m.Bits(s, e, k)) //nolint: gosec
}

// At returns the cell interpreted according to Kind.
func (m *Matrix) At(s, e, k int) float64 {
	return m.value(m.Bits(s, e, k))
}

// Set stores v according to Kind. Int32 matrices truncate v toward zero.
func (m *Matrix) Set(s, e, k int, v float64) {
	if m.kind == format.ValueInt32 {
		m.SetBits(s, e, k, uint32(int32(v))) //nolint: gosec

		return
	}
	m.SetBits(s, e, k, math.Float32bits(float32(v)))
}

// Row returns the metric values of element e at sample s.
func (m *Matrix) Row(s, e int) []float64 {
	if m.metrics == 0 {
		return nil
	}

	start := m.index(s, e, 0)
	row := make([]float64, m.metrics)
	for k := range row {
		row[k] = m.value(m.cells[start+k])
	}

	return row
}

// Raw returns the cell bits in storage order. The slice aliases the matrix.
func (m *Matrix) Raw() []uint32 {
	return m.cells
}

func (m *Matrix) value(bits uint32) float64 {
	if m.kind == format.ValueInt32 {
		return float64(int32(bits)) //nolint: gosec
	}

	return float64(math.Float32frombits(bits))
}
