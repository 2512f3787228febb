package compress

import (
	"fmt"
	"io"
	"os"

	"github.com/arloliu/perfdat/format"
)

// ReadAll reads r to the end and unwraps a detected compression stream.
func ReadAll(r io.Reader) ([]byte, format.CompressionType, error) {
	data, err := Load(r)
	if err != nil {
		return nil, format.CompressionNone, err
	}

	return Decompress(data)
}

// ReadFile reads the named file and unwraps a detected compression stream.
func ReadFile(path string) ([]byte, format.CompressionType, error) {
	data, err := LoadFile(path)
	if err != nil {
		return nil, format.CompressionNone, err
	}

	out, comp, err := Decompress(data)
	if err != nil {
		return nil, comp, fmt.Errorf("%s: %w", path, err)
	}

	return out, comp, nil
}

// Load reads r to the end without unwrapping, bounded by MaxDecompressedSize.
func Load(r io.Reader) ([]byte, error) {
	return readLimited(r)
}

// LoadFile reads the named file without unwrapping, bounded by MaxDecompressedSize.
func LoadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := readLimited(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return data, nil
}

// readLimited reads at most MaxDecompressedSize bytes and fails if r holds more.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDecompressedSize+1))
	if err != nil {
		return nil, err
	}

	if len(data) > MaxDecompressedSize {
		return nil, fmt.Errorf("stream exceeds %d bytes", MaxDecompressedSize)
	}

	return data, nil
}
