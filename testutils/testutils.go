// package testutils generates synthetic .ptau ceremony files for tests:
// complete containers with real curve points derived from known (τ, α, β)
// scalars, a valid contribution chain and an optional beacon, plus knobs
// to corrupt specific parts. It depends only on gnark-crypto and blake2b
// so any package's tests may import it. Write support deliberately lives
// here and not in the library, which is read-only.
package testutils

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	fpbls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
	frbls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	fpbn254 "github.com/consensys/gnark-crypto/ecc/bn254/fp"
	frbn254 "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/crypto/blake2b"
)

// Params describes the synthetic ceremony to generate.
type Params struct {
	Curve ecc.ID
	Power uint32
	// Tau, Alpha, Beta are the ceremony secrets, small and known so tests
	// can predict array contents.
	Tau, Alpha, Beta int64
	// Contributions is the number of regular chain records.
	Contributions int
	// Beacon appends a terminal beacon record derived from BeaconInput
	// with 2^BeaconIterationsExp hash iterations.
	Beacon              bool
	BeaconInput         []byte
	BeaconIterationsExp uint32

	// BreakLink corrupts the PreviousHash of the record at this index
	// (Contributions addresses the beacon); -1 leaves the chain intact.
	BreakLink int
	// CorruptBeacon flips a byte of the beacon's stored response
	// commitment without touching the hash chain.
	CorruptBeacon bool
	// TamperTauG1 replaces the tauG1 point at this index with a valid
	// curve point that is not the right power of τ; -1 for none.
	TamperTauG1 int
	// OffCurveTauG1 corrupts the Y coordinate of the tauG1 point at this
	// index so it no longer satisfies the curve equation; -1 for none.
	OffCurveTauG1 int
}

// DefaultParams returns a small, fully valid ceremony description.
func DefaultParams(curve ecc.ID, power uint32) Params {
	return Params{
		Curve:         curve,
		Power:         power,
		Tau:           3,
		Alpha:         5,
		Beta:          7,
		Contributions: 2,
		BreakLink:     -1,
		TamperTauG1:   -1,
		OffCurveTauG1: -1,
	}
}

// WriteCeremony writes a complete .ptau container to w.
func WriteCeremony(w io.Writer, p Params) error {
	switch p.Curve {
	case ecc.BN254:
		return writeBN254(w, p)
	case ecc.BLS12_381:
		return writeBLS12381(w, p)
	}
	return fmt.Errorf("unsupported curve: %v", p.Curve)
}

// CeremonyBytes is WriteCeremony into a fresh buffer.
func CeremonyBytes(p Params) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCeremony(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCeremonyFile writes the ceremony to a file at path.
func WriteCeremonyFile(path string, p Params) error {
	data, err := CeremonyBytes(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

type section struct {
	id   uint32
	data []byte
}

func assemble(w io.Writer, sections []section) error {
	var scratch [8]byte
	if _, err := w.Write([]byte("ptau")); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(scratch[:4], 1) // version
	if _, err := w.Write(scratch[:4]); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(scratch[:4], uint32(len(sections)))
	if _, err := w.Write(scratch[:4]); err != nil {
		return err
	}
	for _, s := range sections {
		binary.LittleEndian.PutUint32(scratch[:4], s.id)
		if _, err := w.Write(scratch[:4]); err != nil {
			return err
		}
		binary.LittleEndian.PutUint64(scratch[:], uint64(len(s.data)))
		if _, err := w.Write(scratch[:]); err != nil {
			return err
		}
		if _, err := w.Write(s.data); err != nil {
			return err
		}
	}
	return nil
}

func putU32(buf *bytes.Buffer, v uint32) {
	var scratch [4]byte
	binary.LittleEndian.PutUint32(scratch[:], v)
	buf.Write(scratch[:])
}

// modulusLE returns the field modulus as little-endian bytes of the
// given width.
func modulusLE(mod *big.Int, width int) []byte {
	be := mod.Bytes()
	out := make([]byte, width)
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out
}

// beaconScalar derives the beacon scalar bytes: blake2b-512 iterated
// 2^iterationsExp times over the input. Must match the derivation the
// library verifies against.
func beaconScalar(input []byte, iterationsExp uint32) [64]byte {
	h := blake2b.Sum512(input)
	for i := uint64(1); i < uint64(1)<<iterationsExp; i++ {
		h = blake2b.Sum512(h[:])
	}
	return h
}

func recordHash(respG1, respG2 []byte, prev [64]byte) [64]byte {
	h, _ := blake2b.New512(nil)
	h.Write(respG1)
	h.Write(respG2)
	h.Write(prev[:])
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}

func writeBN254(w io.Writer, p Params) error {
	n := int64(1) << p.Power
	tau := big.NewInt(p.Tau)
	_, _, g1, g2 := bn254.Generators()

	var hdr bytes.Buffer
	putU32(&hdr, uint32(fpbn254.Bytes))
	hdr.Write(modulusLE(fpbn254.Modulus(), fpbn254.Bytes))
	putU32(&hdr, p.Power)
	putU32(&hdr, p.Power)

	var tauG1 bytes.Buffer
	pt := g1
	for i := int64(0); i < 2*n-1; i++ {
		out := pt
		if int64(p.TamperTauG1) == i {
			out.ScalarMultiplication(&g1, big.NewInt(999983))
		}
		enc := encodeBN254G1(out)
		if int64(p.OffCurveTauG1) == i {
			enc[fpbn254.Bytes] ^= 0x01 // lowest byte of Y
		}
		tauG1.Write(enc)
		pt.ScalarMultiplication(&pt, tau)
	}

	alphaTauG1 := bn254G1Powers(g1, big.NewInt(p.Alpha), tau, n)
	betaTauG1 := bn254G1Powers(g1, big.NewInt(p.Beta), tau, n)

	var tauG2 bytes.Buffer
	qt := g2
	for i := int64(0); i < n; i++ {
		tauG2.Write(encodeBN254G2(qt))
		qt.ScalarMultiplication(&qt, tau)
	}
	var betaG2Point bn254.G2Affine
	betaG2Point.ScalarMultiplication(&g2, big.NewInt(p.Beta))

	var contrib bytes.Buffer
	count := p.Contributions
	if p.Beacon {
		count++
	}
	putU32(&contrib, uint32(count))
	prev := blake2b.Sum512(nil)
	for i := 0; i < p.Contributions; i++ {
		var r1 bn254.G1Affine
		var r2 bn254.G2Affine
		s := big.NewInt(int64(i) + 2)
		r1.ScalarMultiplication(&g1, s)
		r2.ScalarMultiplication(&g2, s)
		prev = writeRecord(&contrib, encodeBN254G1(r1), encodeBN254G2(r2), prev,
			p.BreakLink == i, []byte(fmt.Sprintf("test contributor %d", i)))
	}
	if p.Beacon {
		input := p.BeaconInput
		if input == nil {
			input = []byte("test beacon")
		}
		h := beaconScalar(input, p.BeaconIterationsExp)
		var s frbn254.Element
		s.SetBytes(h[:])
		var k big.Int
		s.BigInt(&k)
		var r1 bn254.G1Affine
		var r2 bn254.G2Affine
		r1.ScalarMultiplication(&g1, &k)
		r2.ScalarMultiplication(&g2, &k)
		b1 := encodeBN254G1(r1)
		if p.CorruptBeacon {
			b1[1] ^= 0x01
		}
		writeBeaconRecord(&contrib, b1, encodeBN254G2(r2), prev,
			p.BreakLink == p.Contributions, input, p.BeaconIterationsExp)
	}

	return assemble(w, []section{
		{1, hdr.Bytes()},
		{2, tauG1.Bytes()},
		{3, tauG2.Bytes()},
		{4, alphaTauG1},
		{5, betaTauG1},
		{6, encodeBN254G2(betaG2Point)},
		{7, contrib.Bytes()},
	})
}

func bn254G1Powers(g1 bn254.G1Affine, scale, tau *big.Int, n int64) []byte {
	var buf bytes.Buffer
	var pt bn254.G1Affine
	pt.ScalarMultiplication(&g1, scale)
	for i := int64(0); i < n; i++ {
		buf.Write(encodeBN254G1(pt))
		pt.ScalarMultiplication(&pt, tau)
	}
	return buf.Bytes()
}

func writeRecord(buf *bytes.Buffer, respG1, respG2 []byte, prev [64]byte, breakLink bool, meta []byte) [64]byte {
	next := recordHash(respG1, respG2, prev)
	if breakLink {
		prev[0] ^= 0xff
	}
	buf.Write(respG1)
	buf.Write(respG2)
	buf.Write(prev[:])
	buf.Write(next[:])
	putU32(buf, uint32(len(meta)))
	buf.Write(meta)
	putU32(buf, 0)
	return next
}

func writeBeaconRecord(buf *bytes.Buffer, respG1, respG2 []byte, prev [64]byte, breakLink bool, input []byte, iterationsExp uint32) {
	next := recordHash(respG1, respG2, prev)
	if breakLink {
		prev[0] ^= 0xff
	}
	buf.Write(respG1)
	buf.Write(respG2)
	buf.Write(prev[:])
	buf.Write(next[:])
	putU32(buf, 0) // no metadata
	putU32(buf, 1) // beacon
	putU32(buf, uint32(len(input)))
	buf.Write(input)
	putU32(buf, iterationsExp)
}

func encodeBN254G1(p bn254.G1Affine) []byte {
	out := make([]byte, 2*fpbn254.Bytes)
	if p.IsInfinity() {
		return out
	}
	putBN254Element(out[:fpbn254.Bytes], p.X)
	putBN254Element(out[fpbn254.Bytes:], p.Y)
	return out
}

func encodeBN254G2(p bn254.G2Affine) []byte {
	out := make([]byte, 4*fpbn254.Bytes)
	if p.IsInfinity() {
		return out
	}
	putBN254Element(out[:fpbn254.Bytes], p.X.A0)
	putBN254Element(out[fpbn254.Bytes:2*fpbn254.Bytes], p.X.A1)
	putBN254Element(out[2*fpbn254.Bytes:3*fpbn254.Bytes], p.Y.A0)
	putBN254Element(out[3*fpbn254.Bytes:], p.Y.A1)
	return out
}

func putBN254Element(dst []byte, e fpbn254.Element) {
	for i := range e {
		binary.LittleEndian.PutUint64(dst[i*8:], e[i])
	}
}

func writeBLS12381(w io.Writer, p Params) error {
	n := int64(1) << p.Power
	tau := big.NewInt(p.Tau)
	_, _, g1, g2 := bls12381.Generators()

	var hdr bytes.Buffer
	putU32(&hdr, uint32(fpbls12381.Bytes))
	hdr.Write(modulusLE(fpbls12381.Modulus(), fpbls12381.Bytes))
	putU32(&hdr, p.Power)
	putU32(&hdr, p.Power)

	var tauG1 bytes.Buffer
	pt := g1
	for i := int64(0); i < 2*n-1; i++ {
		out := pt
		if int64(p.TamperTauG1) == i {
			out.ScalarMultiplication(&g1, big.NewInt(999983))
		}
		enc := encodeBLS12381G1(out)
		if int64(p.OffCurveTauG1) == i {
			enc[fpbls12381.Bytes] ^= 0x01
		}
		tauG1.Write(enc)
		pt.ScalarMultiplication(&pt, tau)
	}

	alphaTauG1 := bls12381G1Powers(g1, big.NewInt(p.Alpha), tau, n)
	betaTauG1 := bls12381G1Powers(g1, big.NewInt(p.Beta), tau, n)

	var tauG2 bytes.Buffer
	qt := g2
	for i := int64(0); i < n; i++ {
		tauG2.Write(encodeBLS12381G2(qt))
		qt.ScalarMultiplication(&qt, tau)
	}
	var betaG2Point bls12381.G2Affine
	betaG2Point.ScalarMultiplication(&g2, big.NewInt(p.Beta))

	var contrib bytes.Buffer
	count := p.Contributions
	if p.Beacon {
		count++
	}
	putU32(&contrib, uint32(count))
	prev := blake2b.Sum512(nil)
	for i := 0; i < p.Contributions; i++ {
		var r1 bls12381.G1Affine
		var r2 bls12381.G2Affine
		s := big.NewInt(int64(i) + 2)
		r1.ScalarMultiplication(&g1, s)
		r2.ScalarMultiplication(&g2, s)
		prev = writeRecord(&contrib, encodeBLS12381G1(r1), encodeBLS12381G2(r2), prev,
			p.BreakLink == i, []byte(fmt.Sprintf("test contributor %d", i)))
	}
	if p.Beacon {
		input := p.BeaconInput
		if input == nil {
			input = []byte("test beacon")
		}
		h := beaconScalar(input, p.BeaconIterationsExp)
		var s frbls12381.Element
		s.SetBytes(h[:])
		var k big.Int
		s.BigInt(&k)
		var r1 bls12381.G1Affine
		var r2 bls12381.G2Affine
		r1.ScalarMultiplication(&g1, &k)
		r2.ScalarMultiplication(&g2, &k)
		b1 := encodeBLS12381G1(r1)
		if p.CorruptBeacon {
			b1[1] ^= 0x01
		}
		writeBeaconRecord(&contrib, b1, encodeBLS12381G2(r2), prev,
			p.BreakLink == p.Contributions, input, p.BeaconIterationsExp)
	}

	return assemble(w, []section{
		{1, hdr.Bytes()},
		{2, tauG1.Bytes()},
		{3, tauG2.Bytes()},
		{4, alphaTauG1},
		{5, betaTauG1},
		{6, encodeBLS12381G2(betaG2Point)},
		{7, contrib.Bytes()},
	})
}

func bls12381G1Powers(g1 bls12381.G1Affine, scale, tau *big.Int, n int64) []byte {
	var buf bytes.Buffer
	var pt bls12381.G1Affine
	pt.ScalarMultiplication(&g1, scale)
	for i := int64(0); i < n; i++ {
		buf.Write(encodeBLS12381G1(pt))
		pt.ScalarMultiplication(&pt, tau)
	}
	return buf.Bytes()
}

func encodeBLS12381G1(p bls12381.G1Affine) []byte {
	out := make([]byte, 2*fpbls12381.Bytes)
	if p.IsInfinity() {
		return out
	}
	putBLS12381Element(out[:fpbls12381.Bytes], p.X)
	putBLS12381Element(out[fpbls12381.Bytes:], p.Y)
	return out
}

func encodeBLS12381G2(p bls12381.G2Affine) []byte {
	out := make([]byte, 4*fpbls12381.Bytes)
	if p.IsInfinity() {
		return out
	}
	putBLS12381Element(out[:fpbls12381.Bytes], p.X.A0)
	putBLS12381Element(out[fpbls12381.Bytes:2*fpbls12381.Bytes], p.X.A1)
	putBLS12381Element(out[2*fpbls12381.Bytes:3*fpbls12381.Bytes], p.Y.A0)
	putBLS12381Element(out[3*fpbls12381.Bytes:], p.Y.A1)
	return out
}

func putBLS12381Element(dst []byte, e fpbls12381.Element) {
	for i := range e {
		binary.LittleEndian.PutUint64(dst[i*8:], e[i])
	}
}
