package setup

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	kzgbls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
	kzgbn254 "github.com/consensys/gnark-crypto/ecc/bn254/kzg"
	"github.com/consensys/gnark-crypto/kzg"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/constraint"

	"github.com/geometryxyz/ppot"
	"github.com/geometryxyz/ppot/ptau"
)

// Conf specifies what setup to run: Trusted reads a powers-of-tau
// ceremony file, TestOnly generates throwaway parameters not suitable
// for production.
type Conf int

const (
	Trusted Conf = iota
	TestOnly
)

// Run sets up a plonk system for the given constraint system. For a
// Trusted setup, ptauPath names the ceremony file to draw the SRS from;
// TestOnly ignores it.
func Run(ccs constraint.ConstraintSystem, curve ecc.ID, setup Conf, ptauPath string) (
	plonk.ProvingKey, plonk.VerifyingKey, error) {

	numGates := uint64(ccs.GetNbConstraints() + ccs.GetNbPublicVariables())
	numGates = ecc.NextPowerOfTwo(numGates)

	var srs kzg.SRS
	var err error

	switch curve {
	case ecc.BN254:
		if setup == Trusted {
			srs, err = trustedSetupBN254(numGates+5, ptauPath)
		} else if setup == TestOnly {
			srs, err = kzgbn254.NewSRS(numGates+5, big.NewInt(-1))
		}
	case ecc.BLS12_381:
		if setup == Trusted {
			srs, err = trustedSetupBLS12381(numGates+5, ptauPath)
		} else if setup == TestOnly {
			srs, err = kzgbls12381.NewSRS(numGates+5, big.NewInt(-1))
		}
	default:
		return nil, nil, fmt.Errorf("unsupported curve: %v", curve)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("error creating SRS: %v", err)
	}

	return plonk.Setup(ccs, srs)
}

// trustedSetupBN254 reads size powers of tau from the ceremony file at
// path. The file's contribution chain must at least verify structurally.
func trustedSetupBN254(size uint64, path string) (*kzgbn254.SRS, error) {
	cer, err := ppot.Open(path)
	if err != nil {
		return nil, err
	}
	defer cer.Close()

	view, err := cer.BN254()
	if err != nil {
		return nil, err
	}
	if err := checkTrust(cer); err != nil {
		return nil, err
	}
	return view.SRS(size)
}

// trustedSetupBLS12381 is trustedSetupBN254 for BLS12-381 ceremonies.
func trustedSetupBLS12381(size uint64, path string) (*kzgbls12381.SRS, error) {
	cer, err := ppot.Open(path)
	if err != nil {
		return nil, err
	}
	defer cer.Close()

	view, err := cer.BLS12381()
	if err != nil {
		return nil, err
	}
	if err := checkTrust(cer); err != nil {
		return nil, err
	}
	return view.SRS(size)
}

func checkTrust(cer *ppot.Ceremony) error {
	rep, err := cer.Verify()
	if err != nil {
		return fmt.Errorf("error verifying ceremony: %v", err)
	}
	if rep.Trust == ptau.TrustInvalid {
		return fmt.Errorf("ceremony file failed verification: %s", rep.Trust)
	}
	return nil
}
