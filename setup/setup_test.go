package setup

import (
	"path/filepath"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/stretchr/testify/require"

	"github.com/geometryxyz/ppot/testutils"
)

type squareCircuit struct {
	X frontend.Variable
	Y frontend.Variable `gnark:",public"`
}

func (c *squareCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(api.Mul(c.X, c.X), c.Y)
	return nil
}

func compile(t *testing.T, curve ecc.ID) constraint.ConstraintSystem {
	t.Helper()
	ccs, err := frontend.Compile(curve.ScalarField(), scs.NewBuilder, &squareCircuit{})
	require.NoError(t, err)
	return ccs
}

func writeCeremony(t *testing.T, p testutils.Params) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ptau")
	require.NoError(t, testutils.WriteCeremonyFile(path, p))
	return path
}

func TestRunTrustedBN254(t *testing.T) {
	path := writeCeremony(t, testutils.DefaultParams(ecc.BN254, 4))
	ccs := compile(t, ecc.BN254)

	pk, vk, err := Run(ccs, ecc.BN254, Trusted, path)
	require.NoError(t, err)
	require.NotNil(t, pk)
	require.NotNil(t, vk)
}

func TestRunTrustedBLS12381(t *testing.T) {
	path := writeCeremony(t, testutils.DefaultParams(ecc.BLS12_381, 4))
	ccs := compile(t, ecc.BLS12_381)

	pk, vk, err := Run(ccs, ecc.BLS12_381, Trusted, path)
	require.NoError(t, err)
	require.NotNil(t, pk)
	require.NotNil(t, vk)
}

func TestRunTestOnly(t *testing.T) {
	ccs := compile(t, ecc.BN254)
	pk, vk, err := Run(ccs, ecc.BN254, TestOnly, "")
	require.NoError(t, err)
	require.NotNil(t, pk)
	require.NotNil(t, vk)
}

func TestRunRejectsBrokenCeremony(t *testing.T) {
	p := testutils.DefaultParams(ecc.BN254, 4)
	p.BreakLink = 0
	path := writeCeremony(t, p)
	ccs := compile(t, ecc.BN254)

	_, _, err := Run(ccs, ecc.BN254, Trusted, path)
	require.Error(t, err)
}

func TestRunCeremonyTooSmall(t *testing.T) {
	path := writeCeremony(t, testutils.DefaultParams(ecc.BN254, 1))
	ccs := compile(t, ecc.BN254)

	_, _, err := Run(ccs, ecc.BN254, Trusted, path)
	require.Error(t, err)
}
