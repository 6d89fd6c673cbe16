package bn254

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/kzg"
)

// SRS exports the first size powers of tau as a KZG structured reference
// string for circuit compilation: G1 powers [τ⁰]₁..[τ^(size-1)]₁ in the
// proving key, [τ⁰]₂ and [τ¹]₂ in the verifying key. Each point is
// decoded and validated on the way out.
func (c *Ceremony) SRS(size uint64) (*kzg.SRS, error) {
	if size < 2 {
		return nil, fmt.Errorf("size must be at least 2")
	}
	tauG1, err := c.TauG1()
	if err != nil {
		return nil, err
	}
	if size > uint64(tauG1.Len()) {
		return nil, fmt.Errorf("you required %d G1 parameters, but only %d are available",
			size, tauG1.Len())
	}
	tauG2, err := c.TauG2()
	if err != nil {
		return nil, err
	}
	if tauG2.Len() < 2 {
		return nil, fmt.Errorf("ceremony power %d is too small for a KZG verifying key",
			c.Header().Power)
	}

	var srs kzg.SRS
	srs.Pk.G1 = make([]bn254.G1Affine, size)
	it := tauG1.Iter()
	for i := uint64(0); i < size && it.Next(); i++ {
		if err := it.Err(); err != nil {
			return nil, err
		}
		srs.Pk.G1[i] = it.Value()
	}
	srs.Vk.G1 = srs.Pk.G1[0]
	if srs.Vk.G2[0], err = tauG2.Get(0); err != nil {
		return nil, err
	}
	if srs.Vk.G2[1], err = tauG2.Get(1); err != nil {
		return nil, err
	}
	return &srs, nil
}
