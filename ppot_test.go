package ppot_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/stretchr/testify/require"

	"github.com/geometryxyz/ppot"
	"github.com/geometryxyz/ppot/ptau"
	"github.com/geometryxyz/ppot/testutils"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.ptau")
	p := testutils.DefaultParams(ecc.BN254, 2)
	p.Beacon = true
	require.NoError(t, testutils.WriteCeremonyFile(path, p))

	c, err := ppot.Open(path)
	require.NoError(t, err)
	defer c.Close()

	hdr := c.Header()
	require.Equal(t, ecc.BN254, hdr.Curve)
	require.Equal(t, uint32(2), hdr.Power)

	view, err := c.BN254()
	require.NoError(t, err)
	tauG1, err := view.TauG1()
	require.NoError(t, err)
	require.Equal(t, 7, tauG1.Len())

	_, err = c.BLS12381()
	require.ErrorIs(t, err, ptau.ErrUnsupportedCurve)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := ppot.Open(filepath.Join(t.TempDir(), "nope.ptau"))
	require.Error(t, err)
}

func TestVerifyDispatch(t *testing.T) {
	for _, curve := range []ecc.ID{ecc.BN254, ecc.BLS12_381} {
		t.Run(curve.String(), func(t *testing.T) {
			p := testutils.DefaultParams(curve, 2)
			p.Beacon = true
			data, err := testutils.CeremonyBytes(p)
			require.NoError(t, err)

			c, err := ppot.New(bytes.NewReader(data), int64(len(data)))
			require.NoError(t, err)

			rep, err := c.Verify()
			require.NoError(t, err)
			require.True(t, rep.ChainConsistent)
			require.True(t, rep.BeaconValid)
			require.Equal(t, ptau.TrustStructural, rep.Trust)
		})
	}
}

func TestReportCaching(t *testing.T) {
	data, err := testutils.CeremonyBytes(testutils.DefaultParams(ecc.BN254, 2))
	require.NoError(t, err)
	c, err := ppot.New(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	first, err := c.Report()
	require.NoError(t, err)
	again, err := c.Report()
	require.NoError(t, err)
	require.Same(t, first, again)

	// a full report replaces the structural one
	full, err := c.VerifyFull()
	require.NoError(t, err)
	require.True(t, full.Full)
	cached, err := c.Report()
	require.NoError(t, err)
	require.Same(t, full, cached)

	// and a later structural run does not displace it
	_, err = c.Verify()
	require.NoError(t, err)
	cached, err = c.Report()
	require.NoError(t, err)
	require.Same(t, full, cached)
}
