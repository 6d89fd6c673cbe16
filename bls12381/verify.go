package bls12381

import (
	"fmt"
	"math/big"
	"runtime"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"golang.org/x/crypto/blake2b"

	"github.com/geometryxyz/ppot/ptau"
)

// Verify checks the contribution chain structurally and, when a beacon
// closes the ceremony, re-derives its commitment from the public beacon
// input. Trust findings land in the report; an error means the file
// itself could not be decoded.
func (c *Ceremony) Verify() (*ptau.VerificationReport, error) {
	records, beacon, err := c.f.Contributions()
	if err != nil {
		return nil, err
	}
	rep := ptau.VerifyChain(records, beacon)
	if beacon != nil {
		rep.BeaconValid = c.beaconValid(beacon)
	}
	rep.UpdateTrust()
	return rep, nil
}

// VerifyFull performs the expensive cryptographic verification on top of
// Verify; cost is proportional to 2^power.
func (c *Ceremony) VerifyFull() (*ptau.VerificationReport, error) {
	rep, err := c.Verify()
	if err != nil {
		return nil, err
	}
	rep.Full = true

	records, beacon, err := c.f.Contributions()
	if err != nil {
		return nil, err
	}
	all := records
	if beacon != nil {
		all = append(append([]ptau.Contribution{}, records...), *beacon)
	}
	_, _, g1, g2 := bls12381.Generators()
	for i := range all {
		rep.Records[i].ResponseOK = responseWellFormed(all[i], g1, g2)
	}

	rep.PowersConsistent, err = c.verifyPowers()
	if err != nil {
		return nil, err
	}
	rep.UpdateTrust()
	return rep, nil
}

func responseWellFormed(rec ptau.Contribution, g1 bls12381.G1Affine, g2 bls12381.G2Affine) bool {
	r1, err := DecodeG1(rec.TauG1, false)
	if err != nil {
		return false
	}
	r2, err := DecodeG2(rec.TauG2, false)
	if err != nil {
		return false
	}
	return sameRatio(r1, g1, r2, g2)
}

func (c *Ceremony) beaconValid(beacon *ptau.Contribution) bool {
	stored1, err := DecodeG1(beacon.TauG1, false)
	if err != nil {
		return false
	}
	stored2, err := DecodeG2(beacon.TauG2, false)
	if err != nil {
		return false
	}
	want1, want2 := DeriveBeaconResponse(beacon.BeaconInput, beacon.BeaconIterationsExp)
	return stored1.Equal(&want1) && stored2.Equal(&want2)
}

// DeriveBeaconResponse recomputes the response commitment a beacon record
// must carry: blake2b-512 iterated 2^iterationsExp times over the public
// beacon input, reduced into the scalar field and committed in both
// groups.
func DeriveBeaconResponse(input []byte, iterationsExp uint32) (bls12381.G1Affine, bls12381.G2Affine) {
	h := blake2b.Sum512(input)
	for i := uint64(1); i < uint64(1)<<iterationsExp; i++ {
		h = blake2b.Sum512(h[:])
	}
	var s fr.Element
	s.SetBytes(h[:])
	var k big.Int
	s.BigInt(&k)

	_, _, g1, g2 := bls12381.Generators()
	var p1 bls12381.G1Affine
	var p2 bls12381.G2Affine
	p1.ScalarMultiplication(&g1, &k)
	p2.ScalarMultiplication(&g2, &k)
	return p1, p2
}

// verifyPowers checks the point arrays against each other with random
// linear combinations, one multi-exponentiation per array.
func (c *Ceremony) verifyPowers() (bool, error) {
	tauG1, err := c.collectG1(ptau.RoleTauG1)
	if err != nil {
		return false, err
	}
	tauG2Arr, err := c.TauG2()
	if err != nil {
		return false, err
	}
	tauG2, err := collectG2(tauG2Arr)
	if err != nil {
		return false, err
	}
	alphaTauG1, err := c.collectG1(ptau.RoleAlphaTauG1)
	if err != nil {
		return false, err
	}
	betaTauG1, err := c.collectG1(ptau.RoleBetaTauG1)
	if err != nil {
		return false, err
	}
	betaG2, err := c.BetaG2()
	if err != nil {
		return false, err
	}

	_, _, g1, g2 := bls12381.Generators()
	if len(tauG2) < 2 {
		return sameRatio(betaTauG1[0], g1, betaG2, g2), nil
	}
	tau1, tau2 := tauG1[1], tauG2[1]

	checks := []bool{
		sameRatio(tau1, g1, tau2, g2),
		sameRatio(betaTauG1[0], g1, betaG2, g2),
	}
	for _, points := range [][]bls12381.G1Affine{tauG1, alphaTauG1, betaTauG1} {
		ok, err := consecutivePowersG1(points, tau2, g2)
		if err != nil {
			return false, err
		}
		checks = append(checks, ok)
	}
	okG2, err := consecutivePowersG2(tauG2, tau1, g1)
	if err != nil {
		return false, err
	}
	checks = append(checks, okG2)

	for _, ok := range checks {
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (c *Ceremony) collectG1(role ptau.Role) ([]bls12381.G1Affine, error) {
	arr, err := c.g1Array(role)
	if err != nil {
		return nil, err
	}
	points := make([]bls12381.G1Affine, 0, arr.Len())
	for it := arr.Iter(); it.Next(); {
		if err := it.Err(); err != nil {
			return nil, err
		}
		points = append(points, it.Value())
	}
	return points, nil
}

func collectG2(arr *G2Array) ([]bls12381.G2Affine, error) {
	points := make([]bls12381.G2Affine, 0, arr.Len())
	for it := arr.Iter(); it.Next(); {
		if err := it.Err(); err != nil {
			return nil, err
		}
		points = append(points, it.Value())
	}
	return points, nil
}

func consecutivePowersG1(points []bls12381.G1Affine, tau2, g2 bls12381.G2Affine) (bool, error) {
	n := len(points)
	if n < 2 {
		return true, nil
	}
	r, err := randomScalars(n - 1)
	if err != nil {
		return false, err
	}
	conf := ecc.MultiExpConfig{NbTasks: runtime.NumCPU() / 2}
	var l1, l2 bls12381.G1Affine
	if _, err := l1.MultiExp(points[:n-1], r, conf); err != nil {
		return false, err
	}
	if _, err := l2.MultiExp(points[1:], r, conf); err != nil {
		return false, err
	}
	return sameRatio(l2, l1, tau2, g2), nil
}

func consecutivePowersG2(points []bls12381.G2Affine, tau1, g1 bls12381.G1Affine) (bool, error) {
	n := len(points)
	if n < 2 {
		return true, nil
	}
	r, err := randomScalars(n - 1)
	if err != nil {
		return false, err
	}
	conf := ecc.MultiExpConfig{NbTasks: runtime.NumCPU() / 2}
	var m1, m2 bls12381.G2Affine
	if _, err := m1.MultiExp(points[:n-1], r, conf); err != nil {
		return false, err
	}
	if _, err := m2.MultiExp(points[1:], r, conf); err != nil {
		return false, err
	}
	return sameRatio(g1, tau1, m1, m2), nil
}

func randomScalars(n int) ([]fr.Element, error) {
	r := make([]fr.Element, n)
	for i := range r {
		if _, err := r[i].SetRandom(); err != nil {
			return nil, fmt.Errorf("error sampling verification scalars: %v", err)
		}
	}
	return r, nil
}

// sameRatio reports whether a = x·b and c = x·d for the same scalar x,
// via e(a, d) == e(b, c).
func sameRatio(a, b bls12381.G1Affine, c, d bls12381.G2Affine) bool {
	var dNeg bls12381.G2Affine
	dNeg.Neg(&d)
	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{a, b},
		[]bls12381.G2Affine{dNeg, c},
	)
	return err == nil && ok
}
