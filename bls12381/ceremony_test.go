package bls12381

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
	"github.com/stretchr/testify/require"

	"github.com/geometryxyz/ppot/ptau"
	"github.com/geometryxyz/ppot/testutils"
)

func g1Times(k int64) bls12381.G1Affine {
	_, _, g1, _ := bls12381.Generators()
	var p bls12381.G1Affine
	p.ScalarMultiplication(&g1, big.NewInt(k))
	return p
}

func g2Times(k int64) bls12381.G2Affine {
	_, _, _, g2 := bls12381.Generators()
	var p bls12381.G2Affine
	p.ScalarMultiplication(&g2, big.NewInt(k))
	return p
}

func openCeremony(t *testing.T, p testutils.Params) *Ceremony {
	t.Helper()
	data, err := testutils.CeremonyBytes(p)
	require.NoError(t, err)
	f, err := ptau.NewFile(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	c, err := NewCeremony(f)
	require.NoError(t, err)
	return c
}

func TestNewCeremonyWrongCurve(t *testing.T) {
	data, err := testutils.CeremonyBytes(testutils.DefaultParams(ecc.BN254, 1))
	require.NoError(t, err)
	f, err := ptau.NewFile(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	_, err = NewCeremony(f)
	require.ErrorIs(t, err, ptau.ErrUnsupportedCurve)
}

func TestG1RoundTrip(t *testing.T) {
	p := g1Times(42)
	dec, err := DecodeG1(EncodeG1(p), false)
	require.NoError(t, err)
	require.True(t, dec.Equal(&p))

	b := p.Bytes()
	dec, err = DecodeG1(b[:], true)
	require.NoError(t, err)
	require.True(t, dec.Equal(&p))
}

func TestG2RoundTrip(t *testing.T) {
	p := g2Times(42)
	dec, err := DecodeG2(EncodeG2(p), false)
	require.NoError(t, err)
	require.True(t, dec.Equal(&p))
}

func TestDecodeOffCurve(t *testing.T) {
	enc := EncodeG1(g1Times(1))
	enc[fp.Bytes] ^= 0x01
	_, err := DecodeG1(enc, false)
	require.ErrorIs(t, err, ptau.ErrNotOnCurve)
}

// Sweep small x values for a curve point outside the prime-order
// subgroup; with a ~2^125 cofactor the first hit is essentially never in
// the subgroup.
func TestDecodeG1WrongSubgroup(t *testing.T) {
	_, _, g1, _ := bls12381.Generators()

	xcu := g1.X
	xcu.Square(&g1.X)
	xcu.Mul(&xcu, &g1.X)
	b := g1.Y
	b.Square(&g1.Y)
	b.Sub(&b, &xcu) // curve constant: y² = x³ + b

	for k := uint64(1); k < 500; k++ {
		var x, ysq fp.Element
		x.SetUint64(k)
		ysq.Square(&x)
		ysq.Mul(&ysq, &x)
		ysq.Add(&ysq, &b)
		if ysq.Legendre() != 1 {
			continue
		}
		var y fp.Element
		y.Sqrt(&ysq)

		cand := g1
		cand.X = x
		cand.Y = y
		if !cand.IsOnCurve() || cand.IsInSubGroup() {
			continue
		}
		_, err := DecodeG1(EncodeG1(cand), false)
		require.ErrorIs(t, err, ptau.ErrWrongSubgroup)
		return
	}
	t.Fatal("no curve point outside the subgroup found")
}

func TestArrayContents(t *testing.T) {
	c := openCeremony(t, testutils.DefaultParams(ecc.BLS12_381, 2))

	tauG1, err := c.TauG1()
	require.NoError(t, err)
	require.Equal(t, 7, tauG1.Len())
	got, err := tauG1.Get(2)
	require.NoError(t, err)
	want := g1Times(9) // τ²
	require.True(t, got.Equal(&want))

	tauG2, err := c.TauG2()
	require.NoError(t, err)
	require.Equal(t, 4, tauG2.Len())
	q, err := tauG2.Get(1)
	require.NoError(t, err)
	wantQ := g2Times(3)
	require.True(t, q.Equal(&wantQ))

	betaG2, err := c.BetaG2()
	require.NoError(t, err)
	wantQ = g2Times(7)
	require.True(t, betaG2.Equal(&wantQ))
}

func TestVerifyStructural(t *testing.T) {
	p := testutils.DefaultParams(ecc.BLS12_381, 2)
	p.Beacon = true
	c := openCeremony(t, p)

	rep, err := c.Verify()
	require.NoError(t, err)
	require.True(t, rep.ChainConsistent)
	require.True(t, rep.BeaconPresent)
	require.True(t, rep.BeaconValid)
	require.Equal(t, ptau.TrustStructural, rep.Trust)
}

func TestVerifyFull(t *testing.T) {
	p := testutils.DefaultParams(ecc.BLS12_381, 2)
	p.Beacon = true
	c := openCeremony(t, p)

	rep, err := c.VerifyFull()
	require.NoError(t, err)
	require.True(t, rep.Full)
	require.True(t, rep.PowersConsistent)
	require.Equal(t, ptau.TrustVerified, rep.Trust)
}

func TestVerifyFullTamperedPowers(t *testing.T) {
	p := testutils.DefaultParams(ecc.BLS12_381, 2)
	p.TamperTauG1 = 1
	c := openCeremony(t, p)

	rep, err := c.VerifyFull()
	require.NoError(t, err)
	require.False(t, rep.PowersConsistent)
	require.Equal(t, ptau.TrustInvalid, rep.Trust)
}

func TestSRS(t *testing.T) {
	c := openCeremony(t, testutils.DefaultParams(ecc.BLS12_381, 2))

	srs, err := c.SRS(3)
	require.NoError(t, err)
	require.Len(t, srs.Pk.G1, 3)

	_, _, g1, g2 := bls12381.Generators()
	require.True(t, srs.Pk.G1[0].Equal(&g1))
	require.True(t, srs.Vk.G2[0].Equal(&g2))
	tau2 := g2Times(3)
	require.True(t, srs.Vk.G2[1].Equal(&tau2))
}
