package ptau

import (
	"errors"
	"fmt"
)

// Errors returned by the format layer. Callers match them with errors.Is;
// returned errors wrap one of these sentinels with positional context.
var (
	ErrBadMagic           = errors.New("ptau: bad magic")
	ErrUnsupportedVersion = errors.New("ptau: unsupported version")
	ErrTruncated          = errors.New("ptau: unexpected end of data")
	ErrTruncatedSection   = errors.New("ptau: section exceeds file size")
	ErrDuplicateSection   = errors.New("ptau: duplicate section")
	ErrMissingSection     = errors.New("ptau: missing section")
	ErrLengthMismatch     = errors.New("ptau: section length mismatch")
	ErrUnsupportedCurve   = errors.New("ptau: unsupported curve")
	ErrPowerOutOfRange    = errors.New("ptau: power out of range")
	ErrOutOfBounds        = errors.New("ptau: index out of bounds")
	ErrInvalidRecord      = errors.New("ptau: invalid contribution record")

	// ErrInvalidPoint covers every point decoding failure. ErrNotOnCurve
	// and ErrWrongSubgroup wrap it, so errors.Is(err, ErrInvalidPoint)
	// catches both.
	ErrInvalidPoint  = errors.New("ptau: invalid point")
	ErrNotOnCurve    = fmt.Errorf("%w: not on curve", ErrInvalidPoint)
	ErrWrongSubgroup = fmt.Errorf("%w: not in prime-order subgroup", ErrInvalidPoint)
)
