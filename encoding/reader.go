package encoding

import (
	"fmt"

	"github.com/arloliu/perfdat/endian"
	"github.com/arloliu/perfdat/errs"
	"github.com/arloliu/perfdat/format"
)

// Source is the positioned byte source matrices are read from.
// section.Cursor implements it.
type Source interface {
	ReadBytes(n int) ([]byte, error)
	Skip(n int) error
	Remaining() int
	Engine() endian.EndianEngine
}

// checkRemaining returns errs.ErrSizeOverflow when size bytes are not available.
func checkRemaining(src Source, size int) error {
	if rem := src.Remaining(); size > rem {
		return fmt.Errorf("%w: matrix needs %d bytes, %d remaining", errs.ErrSizeOverflow, size, rem)
	}

	return nil
}

// SkipMatrix advances src past a samples × elements × metrics matrix and returns
// the number of bytes skipped.
func SkipMatrix(src Source, samples, elements, metrics int) (int, error) {
	size, err := MatrixSize(samples, elements, metrics)
	if err != nil {
		return 0, err
	}

	if err := checkRemaining(src, size); err != nil {
		return 0, err
	}

	if err := src.Skip(size); err != nil {
		return 0, err
	}

	return size, nil
}

// DecodeMatrix reads a samples × elements × metrics matrix from src and returns it
// along with the number of bytes consumed.
//
// A zero dimension consumes nothing and returns an empty matrix.
func DecodeMatrix(src Source, samples, elements, metrics int, kind format.ValueKind) (*Matrix, int, error) {
	size, err := MatrixSize(samples, elements, metrics)
	if err != nil {
		return nil, 0, err
	}

	if err := checkRemaining(src, size); err != nil {
		return nil, 0, err
	}

	data, err := src.ReadBytes(size)
	if err != nil {
		return nil, 0, err
	}

	m := NewMatrix(samples, elements, metrics, kind)
	fillCells(m.cells, data, src.Engine())

	return m, size, nil
}

// DecodeInterleaved reads the matrices of one block stored in format.LayoutInterleaved.
//
// decode[i] selects whether shapes[i] is materialized; skipped resources get a nil
// matrix. The total bytes consumed equal BlockPayloadSize(samples, shapes).
func DecodeInterleaved(src Source, samples int, shapes []Shape, decode []bool, kind format.ValueKind) ([]*Matrix, int, error) {
	if len(decode) != len(shapes) {
		return nil, 0, fmt.Errorf("%w: %d decode flags for %d shapes", errs.ErrInvalidOption, len(decode), len(shapes))
	}

	total, err := BlockPayloadSize(samples, shapes)
	if err != nil {
		return nil, 0, err
	}

	if err := checkRemaining(src, total); err != nil {
		return nil, 0, err
	}

	rowSizes := make([]int, len(shapes))
	matrices := make([]*Matrix, len(shapes))
	for i, sh := range shapes {
		// a single-sample matrix is exactly one interleaved row
		if rowSizes[i], err = MatrixSize(1, sh.Elements, sh.Metrics); err != nil {
			return nil, 0, err
		}

		if decode[i] {
			matrices[i] = NewMatrix(samples, sh.Elements, sh.Metrics, kind)
		}
	}

	engine := src.Engine()
	for s := 0; s < samples; s++ {
		for i, m := range matrices {
			if rowSizes[i] == 0 {
				continue
			}

			if m == nil {
				if err := src.Skip(rowSizes[i]); err != nil {
					return nil, 0, err
				}

				continue
			}

			data, err := src.ReadBytes(rowSizes[i])
			if err != nil {
				return nil, 0, err
			}

			cellsPerRow := rowSizes[i] / CellSize
			fillCells(m.cells[s*cellsPerRow:(s+1)*cellsPerRow], data, engine)
		}
	}

	return matrices, total, nil
}

func fillCells(cells []uint32, data []byte, engine endian.EndianEngine) {
	for i := range cells {
		cells[i] = engine.Uint32(data[i*CellSize:])
	}
}
