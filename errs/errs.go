// Package errs defines the sentinel errors returned by the perfdat packages.
//
// Errors are wrapped with additional context using fmt.Errorf and the %w verb,
// so callers should match them with errors.Is:
//
//	if errors.Is(err, errs.ErrTruncatedInput) {
//	    // the archive ended early; blocks decoded so far are still valid
//	}
package errs

import "errors"

var (
	// ErrTruncatedInput is returned when the source ends before a fixed-width read completes.
	ErrTruncatedInput = errors.New("truncated input")

	// ErrMalformedSchema marks a block whose schema text could not be parsed.
	// It is recorded on the block rather than returned, decoding continues with the next block.
	ErrMalformedSchema = errors.New("malformed block schema")

	// ErrSizeOverflow is returned when a matrix byte length exceeds the remaining source
	// or cannot be represented. It wraps ErrTruncatedInput.
	ErrSizeOverflow = &sizeOverflowError{}

	// ErrInvalidSchemaLength is returned when an inclusive schema length is smaller than its own prefix.
	ErrInvalidSchemaLength = errors.New("invalid schema length")

	// ErrInvalidFixedWidth is returned when a negative width is requested from a cursor.
	ErrInvalidFixedWidth = errors.New("invalid fixed width")

	// ErrInvalidOption is returned when a decoder or encoder option carries an unsupported value.
	ErrInvalidOption = errors.New("invalid option")

	// ErrUnsupportedCompression is returned for an unknown compression type.
	ErrUnsupportedCompression = errors.New("unsupported compression")

	// ErrInvalidMatrixShape is returned by the encoder when a matrix does not match its schema.
	ErrInvalidMatrixShape = errors.New("matrix shape does not match schema")

	// ErrEncoderFinished is returned when blocks are added to an encoder after Finish.
	ErrEncoderFinished = errors.New("encoder already finished")
)

type sizeOverflowError struct{}

func (*sizeOverflowError) Error() string { return "matrix size overflow" }

func (*sizeOverflowError) Unwrap() error { return ErrTruncatedInput }
