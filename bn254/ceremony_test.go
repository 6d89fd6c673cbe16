package bn254

import (
	"bytes"
	"io"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/stretchr/testify/require"

	"github.com/geometryxyz/ppot/ptau"
	"github.com/geometryxyz/ppot/testutils"
)

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
	data, err := testutils.CeremonyBytes(testutils.DefaultParams(ecc.BLS12_381, 1))
	require.NoError(t, err)
	f, err := ptau.NewFile(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	_, err = NewCeremony(f)
	require.ErrorIs(t, err, ptau.ErrUnsupportedCurve)
}

// The generated ceremony uses τ=3, α=5, β=7, so every array entry is a
// predictable multiple of the generator.
func TestArrayContents(t *testing.T) {
	c := openCeremony(t, testutils.DefaultParams(ecc.BN254, 3))

	tauG1, err := c.TauG1()
	require.NoError(t, err)
	require.Equal(t, 15, tauG1.Len())
	for i, want := range []int64{1, 3, 9, 27} {
		got, err := tauG1.Get(i)
		require.NoError(t, err)
		p := g1Times(want)
		require.True(t, got.Equal(&p), "tauG1[%d]", i)
	}

	alphaTauG1, err := c.AlphaTauG1()
	require.NoError(t, err)
	require.Equal(t, 8, alphaTauG1.Len())
	got, err := alphaTauG1.Get(1)
	require.NoError(t, err)
	p := g1Times(15) // α·τ
	require.True(t, got.Equal(&p))

	betaTauG1, err := c.BetaTauG1()
	require.NoError(t, err)
	got, err = betaTauG1.Get(0)
	require.NoError(t, err)
	p = g1Times(7)
	require.True(t, got.Equal(&p))

	tauG2, err := c.TauG2()
	require.NoError(t, err)
	require.Equal(t, 8, tauG2.Len())
	q, err := tauG2.Get(1)
	require.NoError(t, err)
	wantQ := g2Times(3)
	require.True(t, q.Equal(&wantQ))

	betaG2, err := c.BetaG2()
	require.NoError(t, err)
	wantQ = g2Times(7)
	require.True(t, betaG2.Equal(&wantQ))
}

func TestGetOutOfBounds(t *testing.T) {
	c := openCeremony(t, testutils.DefaultParams(ecc.BN254, 1))
	tauG1, err := c.TauG1()
	require.NoError(t, err)
	_, err = tauG1.Get(tauG1.Len())
	require.ErrorIs(t, err, ptau.ErrOutOfBounds)
}

func TestContributionsTyped(t *testing.T) {
	p := testutils.DefaultParams(ecc.BN254, 1)
	p.Beacon = true
	c := openCeremony(t, p)

	records, beacon, err := c.Contributions()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.NotNil(t, beacon)
	require.True(t, beacon.IsBeacon())

	// contributor i responds with scalar i+2
	r1 := g1Times(2)
	r2 := g2Times(2)
	require.True(t, records[0].ResponseG1.Equal(&r1))
	require.True(t, records[0].ResponseG2.Equal(&r2))
}

// An invalid point fails only its own element: the iterator reports the
// error through Err and keeps going.
func TestIteratorDeliversPerElementErrors(t *testing.T) {
	p := testutils.DefaultParams(ecc.BN254, 2)
	p.OffCurveTauG1 = 2
	c := openCeremony(t, p)

	tauG1, err := c.TauG1()
	require.NoError(t, err)

	var seen, failed int
	for it := tauG1.Iter(); it.Next(); {
		seen++
		if err := it.Err(); err != nil {
			failed++
			require.Equal(t, 2, it.Index())
			require.ErrorIs(t, err, ptau.ErrNotOnCurve)
			continue
		}
		want := g1Times(pow3(it.Index()))
		v := it.Value()
		require.True(t, v.Equal(&want), "tauG1[%d]", it.Index())
	}
	require.Equal(t, 7, seen)
	require.Equal(t, 1, failed)
}

func TestIteratorReset(t *testing.T) {
	c := openCeremony(t, testutils.DefaultParams(ecc.BN254, 2))
	tauG1, err := c.TauG1()
	require.NoError(t, err)

	it := tauG1.Iter()
	for i := 0; i < 3 && it.Next(); i++ {
	}
	it.Reset()

	var n int
	for it.Next() {
		require.NoError(t, it.Err())
		n++
	}
	require.Equal(t, tauG1.Len(), n)
}

type countingReaderAt struct {
	r     io.ReaderAt
	reads int
}

func (c *countingReaderAt) ReadAt(p []byte, off int64) (int, error) {
	c.reads++
	return c.r.ReadAt(p, off)
}

// Array access must stay one read per point with no look-ahead, so a
// partial scan of a huge array only pays for what it touched.
func TestArrayReadsOnDemand(t *testing.T) {
	data, err := testutils.CeremonyBytes(testutils.DefaultParams(ecc.BN254, 4))
	require.NoError(t, err)
	src := &countingReaderAt{r: bytes.NewReader(data)}
	f, err := ptau.NewFile(src, int64(len(data)))
	require.NoError(t, err)
	c, err := NewCeremony(f)
	require.NoError(t, err)

	tauG1, err := c.TauG1()
	require.NoError(t, err)

	src.reads = 0
	const k = 6
	it := tauG1.Iter()
	for i := 0; i < k; i++ {
		require.True(t, it.Next())
		require.NoError(t, it.Err())
	}
	require.Equal(t, k, src.reads)
}

func pow3(n int) int64 {
	out := int64(1)
	for i := 0; i < n; i++ {
		out *= 3
	}
	return out
}
