// package ppot reads and verifies snarkjs powers-of-tau (.ptau) ceremony
// files: the aggregated output of a multi-party trusted setup, holding
// millions of committed curve points and the chain of contributions that
// produced them. Opening a file indexes it without decoding the point
// arrays; points are decoded on demand through per-curve accessors and
// the contribution chain can be verified structurally or, at full cost,
// cryptographically.
package ppot

import (
	"fmt"
	"io"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"

	ceremonybls12381 "github.com/geometryxyz/ppot/bls12381"
	ceremonybn254 "github.com/geometryxyz/ppot/bn254"
	"github.com/geometryxyz/ppot/ptau"
)

// Ceremony is the top-level view over a .ptau file: header metadata,
// per-curve point array accessors and the chain verification report.
// Construction fails eagerly on structural problems (bad magic, missing
// sections, invalid header); point arrays and the contribution chain are
// decoded lazily on first access.
type Ceremony struct {
	file *ptau.File

	mu     sync.Mutex
	report *ptau.VerificationReport
}

// Open indexes the .ptau file at path. Callers release the file handle
// with Close.
func Open(path string) (*Ceremony, error) {
	f, err := ptau.Open(path)
	if err != nil {
		return nil, err
	}
	return &Ceremony{file: f}, nil
}

// New indexes a .ptau byte source of the given size, e.g. a bytes.Reader
// or a memory-mapped region.
func New(r io.ReaderAt, size int64) (*Ceremony, error) {
	f, err := ptau.NewFile(r, size)
	if err != nil {
		return nil, err
	}
	return &Ceremony{file: f}, nil
}

// Header returns the ceremony header: curve and power.
func (c *Ceremony) Header() ptau.Header { return c.file.Header() }

// File returns the underlying container view for direct section access.
func (c *Ceremony) File() *ptau.File { return c.file }

// Close releases the underlying file handle when the Ceremony was built
// with Open.
func (c *Ceremony) Close() error { return c.file.Close() }

// BN254 returns the typed BN254 view of the ceremony, failing if the
// file holds a different curve.
func (c *Ceremony) BN254() (*ceremonybn254.Ceremony, error) {
	return ceremonybn254.NewCeremony(c.file)
}

// BLS12381 returns the typed BLS12-381 view of the ceremony, failing if
// the file holds a different curve.
func (c *Ceremony) BLS12381() (*ceremonybls12381.Ceremony, error) {
	return ceremonybls12381.NewCeremony(c.file)
}

// Verify runs the structural chain verification (hash links and beacon
// re-derivation) and caches the report. The result's trust level is at
// best "structurally consistent, cryptographically unverified"; use
// VerifyFull for the expensive pairing checks.
func (c *Ceremony) Verify() (*ptau.VerificationReport, error) {
	rep, err := c.verify(false)
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// VerifyFull runs the full cryptographic verification and caches the
// updated report. Cost is proportional to 2^power.
func (c *Ceremony) VerifyFull() (*ptau.VerificationReport, error) {
	return c.verify(true)
}

// Report returns the cached verification report, running the structural
// verification on first use. A report produced by VerifyFull is kept in
// preference to a structural one.
func (c *Ceremony) Report() (*ptau.VerificationReport, error) {
	c.mu.Lock()
	cached := c.report
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}
	return c.Verify()
}

func (c *Ceremony) verify(full bool) (*ptau.VerificationReport, error) {
	var rep *ptau.VerificationReport
	var err error
	switch curve := c.file.Header().Curve; curve {
	case ecc.BN254:
		var view *ceremonybn254.Ceremony
		if view, err = c.BN254(); err == nil {
			if full {
				rep, err = view.VerifyFull()
			} else {
				rep, err = view.Verify()
			}
		}
	case ecc.BLS12_381:
		var view *ceremonybls12381.Ceremony
		if view, err = c.BLS12381(); err == nil {
			if full {
				rep, err = view.VerifyFull()
			} else {
				rep, err = view.Verify()
			}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ptau.ErrUnsupportedCurve, curve)
	}
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if full || c.report == nil || !c.report.Full {
		c.report = rep
	}
	c.mu.Unlock()
	return rep, nil
}
