// packbuf reads and writes the exported fields of a struct in order, little
// endian, with no field names or padding. Both sides must agree on the
// struct layout.
package packbuf

import "github.com/pkg/errors"

const (
	// maxStringSize is the maximum string that can be sent over the wire
	maxStringSize = 65535
	// maxSliceLen stops a bad packet from making us allocate a huge slice
	maxSliceLen = 4096
)

var (
	ErrStringTooLarge = errors.New("string too large")
	ErrSliceTooLarge  = errors.New("slice too large")
	ErrUnsupported    = errors.New("unsupported data type")
)
