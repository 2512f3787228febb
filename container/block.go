package container

import (
	"github.com/arloliu/perfdat/encoding"
	"github.com/arloliu/perfdat/section"
)

// ResourceBlock is the decoded matrix of one resource inside a block.
type ResourceBlock struct {
	ID         string
	Descriptor section.ResourceDescriptor
	// Matrix is nil when the resource was skipped.
	Matrix  *encoding.Matrix
	Skipped bool
	// Size is the number of matrix bytes the resource occupies in the block.
	Size int
}

// Block is one fully decoded time-window block.
type Block struct {
	// Index is the zero-based position of the block in the container.
	Index int
	// Offset is the absolute offset of the block prefix.
	Offset int
	// Size is the number of bytes the block occupies, prefix and matrices included.
	Size      int
	Schema    section.BlockSchema
	Resources []ResourceBlock
}

// Malformed reports whether the block schema could not be parsed.
func (b Block) Malformed() bool {
	return b.Schema.Malformed
}

// SampleCount returns the number of samples per element and metric.
func (b Block) SampleCount() int {
	return b.Schema.SampleCount()
}

// Resource returns the first resource block with the given id.
func (b Block) Resource(id string) (ResourceBlock, bool) {
	for _, r := range b.Resources {
		if r.ID == id {
			return r, true
		}
	}

	return ResourceBlock{}, false
}
