package encoding

import (
	"fmt"

	"github.com/arloliu/perfdat/endian"
	"github.com/arloliu/perfdat/errs"
)

// AppendMatrix appends the cells of m to dst in storage order.
func AppendMatrix(dst []byte, engine endian.EndianEngine, m *Matrix) []byte {
	for _, c := range m.cells {
		dst = engine.AppendUint32(dst, c)
	}

	return dst
}

// AppendInterleaved appends the matrices of one block in format.LayoutInterleaved.
// Every matrix must have the same sample count.
func AppendInterleaved(dst []byte, engine endian.EndianEngine, matrices []*Matrix) ([]byte, error) {
	if len(matrices) == 0 {
		return dst, nil
	}

	samples := matrices[0].samples
	for i, m := range matrices {
		if m.samples != samples {
			return dst, fmt.Errorf("%w: matrix %d has %d samples, want %d",
				errs.ErrInvalidMatrixShape, i, m.samples, samples)
		}
	}

	for s := 0; s < samples; s++ {
		for _, m := range matrices {
			rowCells := m.elements * m.metrics
			for _, c := range m.cells[s*rowCells : (s+1)*rowCells] {
				dst = engine.AppendUint32(dst, c)
			}
		}
	}

	return dst, nil
}
