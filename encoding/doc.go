// Package encoding sizes, reads and writes the sample matrices of a block.
//
// Every resource in a block schema owns one dense matrix of 4-byte cells with
// three axes:
//
//	axis 0: sample index   (slowest varying)
//	axis 1: element index
//	axis 2: metric index   (fastest varying)
//
// The byte length of a matrix is samples × elements × metrics × 4. It is computed
// by MatrixSize alone; SkipMatrix, DecodeMatrix and DecodeInterleaved all derive
// the number of consumed bytes from it, so skipping a resource and decoding it
// always move the cursor by the same amount.
//
// # Layouts
//
// With format.LayoutPerResource each resource matrix is stored contiguously,
// resources in schema order. With format.LayoutInterleaved the block is stored
// sample by sample: for every sample, each resource's elements × metrics row in
// schema order. Both layouts occupy the same number of bytes.
//
// # Cell Interpretation
//
// Cells are stored little-endian. format.ValueFloat32 reads them as IEEE-754
// single precision floats, format.ValueInt32 as signed integers. Matrix keeps the
// raw bits so either interpretation is available after decoding.
package encoding
