package bls12381

import (
	"encoding/binary"
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"

	"github.com/geometryxyz/ppot/ptau"
)

// Uncompressed point widths in the .ptau container; field elements are
// little-endian Montgomery limbs, loaded directly as fp.Element limbs.
const (
	SizeG1Uncompressed = 2 * fp.Bytes
	SizeG2Uncompressed = 4 * fp.Bytes
)

var fpModulusLimbs = modulusLimbs()

func modulusLimbs() [6]uint64 {
	var limbs [6]uint64
	b := fp.Modulus().Bytes() // big-endian
	for len(b) < fp.Bytes {
		b = append([]byte{0}, b...)
	}
	for i := 0; i < 6; i++ {
		limbs[i] = binary.BigEndian.Uint64(b[fp.Bytes-8*(i+1) : fp.Bytes-8*i])
	}
	return limbs
}

func decodeElement(data []byte) (fp.Element, error) {
	var z fp.Element
	for i := range z {
		z[i] = binary.LittleEndian.Uint64(data[i*8:])
	}
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

// DecodeG1 decodes a G1 point from its container encoding, checking the
// curve equation and prime-order subgroup membership. All-zero bytes are
// the point at infinity; the compressed form is gnark-crypto's canonical
// big-endian encoding.
func DecodeG1(data []byte, compressed bool) (bls12381.G1Affine, error) {
	var p bls12381.G1Affine
	if compressed {
		if len(data) != bls12381.SizeOfG1AffineCompressed {
			return p, fmt.Errorf("%w: compressed G1 point is %d bytes, expected %d",
				ptau.ErrInvalidPoint, len(data), bls12381.SizeOfG1AffineCompressed)
		}
		if _, err := p.SetBytes(data); err != nil {
			return bls12381.G1Affine{}, fmt.Errorf("%w: %v", ptau.ErrInvalidPoint, err)
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
		return bls12381.G1Affine{}, err
	}
	if p.Y, err = decodeElement(data[fp.Bytes:]); err != nil {
		return bls12381.G1Affine{}, err
	}
	if !p.IsOnCurve() {
		return bls12381.G1Affine{}, fmt.Errorf("%w: G1 x=%s y=%s", ptau.ErrNotOnCurve, p.X.String(), p.Y.String())
	}
	if !p.IsInSubGroup() {
		return bls12381.G1Affine{}, fmt.Errorf("%w: G1 x=%s y=%s", ptau.ErrWrongSubgroup, p.X.String(), p.Y.String())
	}
	return p, nil
}

// DecodeG2 is DecodeG1 for G2 points, layout (x.A0, x.A1, y.A0, y.A1).
func DecodeG2(data []byte, compressed bool) (bls12381.G2Affine, error) {
	var p bls12381.G2Affine
	if compressed {
		if len(data) != bls12381.SizeOfG2AffineCompressed {
			return p, fmt.Errorf("%w: compressed G2 point is %d bytes, expected %d",
				ptau.ErrInvalidPoint, len(data), bls12381.SizeOfG2AffineCompressed)
		}
		if _, err := p.SetBytes(data); err != nil {
			return bls12381.G2Affine{}, fmt.Errorf("%w: %v", ptau.ErrInvalidPoint, err)
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
		return bls12381.G2Affine{}, err
	}
	if p.X.A1, err = decodeElement(data[fp.Bytes : 2*fp.Bytes]); err != nil {
		return bls12381.G2Affine{}, err
	}
	if p.Y.A0, err = decodeElement(data[2*fp.Bytes : 3*fp.Bytes]); err != nil {
		return bls12381.G2Affine{}, err
	}
	if p.Y.A1, err = decodeElement(data[3*fp.Bytes:]); err != nil {
		return bls12381.G2Affine{}, err
	}
	if !p.IsOnCurve() {
		return bls12381.G2Affine{}, fmt.Errorf("%w: G2 point", ptau.ErrNotOnCurve)
	}
	if !p.IsInSubGroup() {
		return bls12381.G2Affine{}, fmt.Errorf("%w: G2 point", ptau.ErrWrongSubgroup)
	}
	return p, nil
}

// EncodeG1 writes a G1 point in the container's uncompressed encoding,
// the inverse of DecodeG1.
func EncodeG1(p bls12381.G1Affine) []byte {
	out := make([]byte, SizeG1Uncompressed)
	if p.IsInfinity() {
		return out
	}
	encodeElement(out[:fp.Bytes], p.X)
	encodeElement(out[fp.Bytes:], p.Y)
	return out
}

// EncodeG2 is EncodeG1 for G2 points.
func EncodeG2(p bls12381.G2Affine) []byte {
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
