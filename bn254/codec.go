package bn254

import (
	"encoding/binary"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"

	"github.com/geometryxyz/ppot/ptau"
)

// Uncompressed point widths in the .ptau container. Field elements are
// stored as little-endian Montgomery limbs, which load directly into
// gnark-crypto's fp.Element (arkworks and gnark-crypto share the same
// Montgomery constant for this field).
const (
	SizeG1Uncompressed = 2 * fp.Bytes
	SizeG2Uncompressed = 4 * fp.Bytes
)

// fpModulusLimbs holds the base-field modulus as little-endian limbs, for
// canonicity checks on decoded elements.
var fpModulusLimbs = modulusLimbs()

func modulusLimbs() [4]uint64 {
	var limbs [4]uint64
	b := fp.Modulus().Bytes() // big-endian
	for len(b) < fp.Bytes {
		b = append([]byte{0}, b...)
	}
	for i := 0; i < 4; i++ {
		limbs[i] = binary.BigEndian.Uint64(b[fp.Bytes-8*(i+1) : fp.Bytes-8*i])
	}
	return limbs
}

func decodeElement(data []byte) (fp.Element, error) {
	var z fp.Element
	for i := range z {
		z[i] = binary.LittleEndian.Uint64(data[i*8:])
	}
	// Limbs must encode a value below the modulus or the Montgomery
	// representation is meaningless.
	for i := len(z) - 1; i >= 0; i-- {
		if z[i] < fpModulusLimbs[i] {
			return z, nil
		}
		if z[i] > fpModulusLimbs[i] {
			return fp.Element{}, fmt.Errorf("%w: field element not below modulus", ptau.ErrInvalidPoint)
		}
	}
	return fp.Element{}, fmt.Errorf("%w: field element not below modulus", ptau.ErrInvalidPoint)
}

func encodeElement(dst []byte, e fp.Element) {
	for i := range e {
		binary.LittleEndian.PutUint64(dst[i*8:], e[i])
	}
}

func isAllZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

// DecodeG1 decodes a G1 point from its container encoding and validates
// it: the point must satisfy the curve equation (ptau.ErrNotOnCurve) and
// lie in the prime-order subgroup (ptau.ErrWrongSubgroup). The all-zero
// encoding is the point at infinity and is accepted as the identity. The
// compressed form is gnark-crypto's canonical big-endian encoding.
func DecodeG1(data []byte, compressed bool) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	if compressed {
		if len(data) != bn254.SizeOfG1AffineCompressed {
			return p, fmt.Errorf("%w: compressed G1 point is %d bytes, expected %d",
				ptau.ErrInvalidPoint, len(data), bn254.SizeOfG1AffineCompressed)
		}
		if _, err := p.SetBytes(data); err != nil {
			return bn254.G1Affine{}, fmt.Errorf("%w: %v", ptau.ErrInvalidPoint, err)
		}
		return p, nil
	}
	if len(data) != SizeG1Uncompressed {
		return p, fmt.Errorf("%w: uncompressed G1 point is %d bytes, expected %d",
			ptau.ErrInvalidPoint, len(data), SizeG1Uncompressed)
	}
	if isAllZero(data) {
		return p, nil // point at infinity
	}
	var err error
	if p.X, err = decodeElement(data[:fp.Bytes]); err != nil {
		return bn254.G1Affine{}, err
	}
	if p.Y, err = decodeElement(data[fp.Bytes:]); err != nil {
		return bn254.G1Affine{}, err
	}
	if !p.IsOnCurve() {
		return bn254.G1Affine{}, fmt.Errorf("%w: G1 x=%s y=%s", ptau.ErrNotOnCurve, p.X.String(), p.Y.String())
	}
	if !p.IsInSubGroup() {
		return bn254.G1Affine{}, fmt.Errorf("%w: G1 x=%s y=%s", ptau.ErrWrongSubgroup, p.X.String(), p.Y.String())
	}
	return p, nil
}

// DecodeG2 is DecodeG1 for G2 points; the uncompressed layout is
// (x.A0, x.A1, y.A0, y.A1).
func DecodeG2(data []byte, compressed bool) (bn254.G2Affine, error) {
	var p bn254.G2Affine
	if compressed {
		if len(data) != bn254.SizeOfG2AffineCompressed {
			return p, fmt.Errorf("%w: compressed G2 point is %d bytes, expected %d",
				ptau.ErrInvalidPoint, len(data), bn254.SizeOfG2AffineCompressed)
		}
		if _, err := p.SetBytes(data); err != nil {
			return bn254.G2Affine{}, fmt.Errorf("%w: %v", ptau.ErrInvalidPoint, err)
		}
		return p, nil
	}
	if len(data) != SizeG2Uncompressed {
		return p, fmt.Errorf("%w: uncompressed G2 point is %d bytes, expected %d",
			ptau.ErrInvalidPoint, len(data), SizeG2Uncompressed)
	}
	if isAllZero(data) {
		return p, nil // point at infinity
	}
	var err error
	if p.X.A0, err = decodeElement(data[:fp.Bytes]); err != nil {
		return bn254.G2Affine{}, err
	}
	if p.X.A1, err = decodeElement(data[fp.Bytes : 2*fp.Bytes]); err != nil {
		return bn254.G2Affine{}, err
	}
	if p.Y.A0, err = decodeElement(data[2*fp.Bytes : 3*fp.Bytes]); err != nil {
		return bn254.G2Affine{}, err
	}
	if p.Y.A1, err = decodeElement(data[3*fp.Bytes:]); err != nil {
		return bn254.G2Affine{}, err
	}
	if !p.IsOnCurve() {
		return bn254.G2Affine{}, fmt.Errorf("%w: G2 point", ptau.ErrNotOnCurve)
	}
	if !p.IsInSubGroup() {
		return bn254.G2Affine{}, fmt.Errorf("%w: G2 point", ptau.ErrWrongSubgroup)
	}
	return p, nil
}

// EncodeG1 writes a G1 point in the container's uncompressed encoding,
// the inverse of DecodeG1. The library has no file write path; this
// exists so callers can round-trip individual points.
func EncodeG1(p bn254.G1Affine) []byte {
	out := make([]byte, SizeG1Uncompressed)
	if p.IsInfinity() {
		return out
	}
	encodeElement(out[:fp.Bytes], p.X)
	encodeElement(out[fp.Bytes:], p.Y)
	return out
}

// EncodeG2 is EncodeG1 for G2 points.
func EncodeG2(p bn254.G2Affine) []byte {
	out := make([]byte, SizeG2Uncompressed)
	if p.IsInfinity() {
		return out
	}
	encodeElement(out[:fp.Bytes], p.X.A0)
	encodeElement(out[fp.Bytes:2*fp.Bytes], p.X.A1)
	encodeElement(out[2*fp.Bytes:3*fp.Bytes], p.Y.A0)
	encodeElement(out[3*fp.Bytes:], p.Y.A1)
	return out
}
