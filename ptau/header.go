package ptau

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	fpbls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
	fpbn254 "github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

// MaxPower is the largest ceremony power this package accepts. The
// perpetual powers-of-tau ceremony itself stopped at 28 (2^28
// constraints); anything larger is treated as corruption.
const MaxPower = 28

// Header holds the ceremony parameters from section 1.
type Header struct {
	// Curve is the pairing-friendly curve the ceremony ran over, detected
	// from the base-field modulus recorded in the file.
	Curve ecc.ID
	// ElementSize is the byte width of one base-field element (n8).
	ElementSize int
	// Power is the ceremony power p: the file supports up to 2^p
	// constraints and its arrays are sized from it.
	Power uint32
	// CeremonyPower is the power of the original ceremony this file was
	// derived from; it is >= Power for truncated files.
	CeremonyPower uint32
}

// G1PointSize returns the byte width of one uncompressed G1 point.
func (h Header) G1PointSize() int { return 2 * h.ElementSize }

// G2PointSize returns the byte width of one uncompressed G2 point.
func (h Header) G2PointSize() int { return 4 * h.ElementSize }

// TauG1Len returns the number of points in the tauG1 section: 2^(p+1)-1.
func (h Header) TauG1Len() int64 { return 2*(int64(1)<<h.Power) - 1 }

// TauG2Len returns the number of points in the tauG2 section: 2^p. The
// alphaTauG1 and betaTauG1 sections have the same length.
func (h Header) TauG2Len() int64 { return int64(1) << h.Power }

func decodeHeader(f *File) (Header, error) {
	sec, err := f.Section(SectionHeader)
	if err != nil {
		return Header{}, err
	}
	cur := f.sectionCursor(sec)

	n8, err := cur.u32()
	if err != nil {
		return Header{}, err
	}
	if sec.Size != int64(n8)+12 {
		return Header{}, fmt.Errorf("%w: header section is %d bytes, expected %d",
			ErrLengthMismatch, sec.Size, n8+12)
	}

	primeLE, err := cur.bytes(int64(n8))
	if err != nil {
		return Header{}, err
	}
	curve, err := curveFromModulus(int(n8), primeLE)
	if err != nil {
		return Header{}, err
	}

	power, err := cur.u32()
	if err != nil {
		return Header{}, err
	}
	if power > MaxPower {
		return Header{}, fmt.Errorf("%w: %d, maximum is %d", ErrPowerOutOfRange, power, MaxPower)
	}
	ceremonyPower, err := cur.u32()
	if err != nil {
		return Header{}, err
	}

	return Header{
		Curve:         curve,
		ElementSize:   int(n8),
		Power:         power,
		CeremonyPower: ceremonyPower,
	}, nil
}

// curveFromModulus matches the little-endian base-field modulus recorded
// in the header against the supported curves. The curve set is closed:
// unrecognized (width, modulus) pairs fail rather than fall back.
func curveFromModulus(n8 int, primeLE []byte) (ecc.ID, error) {
	prime := new(big.Int).SetBytes(reverseBytes(primeLE))
	switch {
	case n8 == fpbn254.Bytes && prime.Cmp(fpbn254.Modulus()) == 0:
		return ecc.BN254, nil
	case n8 == fpbls12381.Bytes && prime.Cmp(fpbls12381.Modulus()) == 0:
		return ecc.BLS12_381, nil
	}
	return ecc.UNKNOWN, fmt.Errorf("%w: no curve with %d-byte modulus %s",
		ErrUnsupportedCurve, n8, prime.Text(16))
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
