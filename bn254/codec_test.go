package bn254

import (
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/stretchr/testify/require"

	"github.com/geometryxyz/ppot/ptau"
)

func g1Times(k int64) bn254.G1Affine {
	_, _, g1, _ := bn254.Generators()
	var p bn254.G1Affine
	p.ScalarMultiplication(&g1, big.NewInt(k))
	return p
}

func g2Times(k int64) bn254.G2Affine {
	_, _, _, g2 := bn254.Generators()
	var p bn254.G2Affine
	p.ScalarMultiplication(&g2, big.NewInt(k))
	return p
}

func TestG1RoundTripUncompressed(t *testing.T) {
	p := g1Times(42)
	dec, err := DecodeG1(EncodeG1(p), false)
	require.NoError(t, err)
	require.True(t, dec.Equal(&p))
}

func TestG2RoundTripUncompressed(t *testing.T) {
	p := g2Times(42)
	dec, err := DecodeG2(EncodeG2(p), false)
	require.NoError(t, err)
	require.True(t, dec.Equal(&p))
}

func TestDecodeCompressed(t *testing.T) {
	p1 := g1Times(7)
	b1 := p1.Bytes()
	dec1, err := DecodeG1(b1[:], true)
	require.NoError(t, err)
	require.True(t, dec1.Equal(&p1))

	p2 := g2Times(7)
	b2 := p2.Bytes()
	dec2, err := DecodeG2(b2[:], true)
	require.NoError(t, err)
	require.True(t, dec2.Equal(&p2))
}

func TestDecodeInfinity(t *testing.T) {
	p1, err := DecodeG1(make([]byte, SizeG1Uncompressed), false)
	require.NoError(t, err)
	require.True(t, p1.IsInfinity())

	p2, err := DecodeG2(make([]byte, SizeG2Uncompressed), false)
	require.NoError(t, err)
	require.True(t, p2.IsInfinity())
}

func TestDecodeWrongLength(t *testing.T) {
	_, err := DecodeG1(make([]byte, SizeG1Uncompressed-1), false)
	require.ErrorIs(t, err, ptau.ErrInvalidPoint)
	_, err = DecodeG1(make([]byte, SizeG1Uncompressed), true)
	require.ErrorIs(t, err, ptau.ErrInvalidPoint)
	_, err = DecodeG2(make([]byte, SizeG2Uncompressed+4), false)
	require.ErrorIs(t, err, ptau.ErrInvalidPoint)
}

func TestDecodeOffCurve(t *testing.T) {
	enc := EncodeG1(g1Times(1))
	enc[fp.Bytes] ^= 0x01 // lowest byte of Y
	_, err := DecodeG1(enc, false)
	require.ErrorIs(t, err, ptau.ErrNotOnCurve)
	require.ErrorIs(t, err, ptau.ErrInvalidPoint)
}

func TestDecodeNonCanonicalElement(t *testing.T) {
	// X limbs equal to the modulus: a non-canonical residue.
	enc := EncodeG1(g1Times(1))
	for i, limb := range fpModulusLimbs {
		binary.LittleEndian.PutUint64(enc[i*8:], limb)
	}
	_, err := DecodeG1(enc, false)
	require.ErrorIs(t, err, ptau.ErrInvalidPoint)
}

// Find a point on the G2 twist curve outside the prime-order subgroup
// and check that the decoder rejects it. The twist's cofactor is huge,
// so the first curve point found by sweeping small x values is
// essentially never in the subgroup.
func TestDecodeG2WrongSubgroup(t *testing.T) {
	_, _, _, g2 := bn254.Generators()

	xcu := g2.X
	xcu.Square(&g2.X)
	xcu.Mul(&xcu, &g2.X)
	b := g2.Y
	b.Square(&g2.Y)
	b.Sub(&b, &xcu) // twist equation constant: y² = x³ + b

	for k := uint64(1); k < 500; k++ {
		x := g2.X
		x.A0.SetUint64(k)
		x.A1.SetZero()
		ysq := x
		ysq.Square(&x)
		ysq.Mul(&ysq, &x)
		ysq.Add(&ysq, &b)
		if ysq.Legendre() != 1 {
			continue
		}
		y := ysq
		y.Sqrt(&ysq)

		cand := g2
		cand.X = x
		cand.Y = y
		if !cand.IsOnCurve() || cand.IsInSubGroup() {
			continue
		}
		_, err := DecodeG2(EncodeG2(cand), false)
		require.ErrorIs(t, err, ptau.ErrWrongSubgroup)
		return
	}
	t.Fatal("no curve point outside the subgroup found")
}
