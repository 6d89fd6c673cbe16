package bls12381

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/geometryxyz/ppot/ptau"
)

// Ceremony is a typed view over a BLS12-381 .ptau file.
type Ceremony struct {
	f *ptau.File
}

// NewCeremony wraps f, which must hold a BLS12-381 ceremony.
func NewCeremony(f *ptau.File) (*Ceremony, error) {
	if curve := f.Header().Curve; curve != ecc.BLS12_381 {
		return nil, fmt.Errorf("%w: file holds a %s ceremony, not BLS12-381",
			ptau.ErrUnsupportedCurve, curve)
	}
	return &Ceremony{f: f}, nil
}

// Header returns the ceremony header.
func (c *Ceremony) Header() ptau.Header { return c.f.Header() }

// File returns the underlying container view.
func (c *Ceremony) File() *ptau.File { return c.f }

// TauG1 returns the [τ^i]₁ array of length 2^(power+1)-1.
func (c *Ceremony) TauG1() (*G1Array, error) { return c.g1Array(ptau.RoleTauG1) }

// AlphaTauG1 returns the α[τ^i]₁ array of length 2^power.
func (c *Ceremony) AlphaTauG1() (*G1Array, error) { return c.g1Array(ptau.RoleAlphaTauG1) }

// BetaTauG1 returns the β[τ^i]₁ array of length 2^power.
func (c *Ceremony) BetaTauG1() (*G1Array, error) { return c.g1Array(ptau.RoleBetaTauG1) }

// TauG2 returns the [τ^i]₂ array of length 2^power.
func (c *Ceremony) TauG2() (*G2Array, error) {
	arr, err := c.f.PointArray(ptau.RoleTauG2)
	if err != nil {
		return nil, err
	}
	return &G2Array{arr: arr}, nil
}

// BetaG2 returns the single [β]₂ point.
func (c *Ceremony) BetaG2() (bls12381.G2Affine, error) {
	arr, err := c.f.PointArray(ptau.RoleBetaG2)
	if err != nil {
		return bls12381.G2Affine{}, err
	}
	data, err := arr.At(0)
	if err != nil {
		return bls12381.G2Affine{}, err
	}
	return DecodeG2(data, false)
}

func (c *Ceremony) g1Array(role ptau.Role) (*G1Array, error) {
	arr, err := c.f.PointArray(role)
	if err != nil {
		return nil, err
	}
	return &G1Array{arr: arr}, nil
}

// Contribution is a chain record with its response commitment decoded.
type Contribution struct {
	ptau.Contribution
	ResponseG1 bls12381.G1Affine
	ResponseG2 bls12381.G2Affine
}

// Contributions returns the typed contribution chain and the optional
// terminal beacon.
func (c *Ceremony) Contributions() ([]Contribution, *Contribution, error) {
	records, beacon, err := c.f.Contributions()
	if err != nil {
		return nil, nil, err
	}
	typed := make([]Contribution, len(records))
	for i := range records {
		typed[i], err = typeRecord(records[i])
		if err != nil {
			return nil, nil, fmt.Errorf("contribution %d: %w", i, err)
		}
	}
	if beacon == nil {
		return typed, nil, nil
	}
	tb, err := typeRecord(*beacon)
	if err != nil {
		return nil, nil, fmt.Errorf("beacon record: %w", err)
	}
	return typed, &tb, nil
}

func typeRecord(rec ptau.Contribution) (Contribution, error) {
	out := Contribution{Contribution: rec}
	var err error
	if out.ResponseG1, err = DecodeG1(rec.TauG1, false); err != nil {
		return out, err
	}
	if out.ResponseG2, err = DecodeG2(rec.TauG2, false); err != nil {
		return out, err
	}
	return out, nil
}

// G1Array addresses one of the G1 point sections; Get decodes a single
// point per call with no caching.
type G1Array struct {
	arr *ptau.PointArray
}

func (a *G1Array) Len() int { return a.arr.Len() }

func (a *G1Array) Get(i int) (bls12381.G1Affine, error) {
	data, err := a.arr.At(i)
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	p, err := DecodeG1(data, false)
	if err != nil {
		return bls12381.G1Affine{}, fmt.Errorf("%s[%d]: %w", a.arr.Role(), i, err)
	}
	return p, nil
}

func (a *G1Array) Iter() *G1Iterator { return &G1Iterator{arr: a} }

// G1Iterator is a pull-based, restartable iterator; a decoding failure is
// delivered through Err for that element only.
type G1Iterator struct {
	arr  *G1Array
	next int
	cur  bls12381.G1Affine
	err  error
}

func (it *G1Iterator) Next() bool {
	if it.next >= it.arr.Len() {
		return false
	}
	it.cur, it.err = it.arr.Get(it.next)
	it.next++
	return true
}

func (it *G1Iterator) Value() bls12381.G1Affine { return it.cur }
func (it *G1Iterator) Err() error               { return it.err }
func (it *G1Iterator) Index() int               { return it.next - 1 }

func (it *G1Iterator) Reset() {
	it.next = 0
	it.cur = bls12381.G1Affine{}
	it.err = nil
}

// G2Array is G1Array for the G2 sections.
type G2Array struct {
	arr *ptau.PointArray
}

func (a *G2Array) Len() int { return a.arr.Len() }

func (a *G2Array) Get(i int) (bls12381.G2Affine, error) {
	data, err := a.arr.At(i)
	if err != nil {
		return bls12381.G2Affine{}, err
	}
	p, err := DecodeG2(data, false)
	if err != nil {
		return bls12381.G2Affine{}, fmt.Errorf("%s[%d]: %w", a.arr.Role(), i, err)
	}
	return p, nil
}

func (a *G2Array) Iter() *G2Iterator { return &G2Iterator{arr: a} }

// G2Iterator mirrors G1Iterator for G2 arrays.
type G2Iterator struct {
	arr  *G2Array
	next int
	cur  bls12381.G2Affine
	err  error
}

func (it *G2Iterator) Next() bool {
	if it.next >= it.arr.Len() {
		return false
	}
	it.cur, it.err = it.arr.Get(it.next)
	it.next++
	return true
}

func (it *G2Iterator) Value() bls12381.G2Affine { return it.cur }
func (it *G2Iterator) Err() error               { return it.err }
func (it *G2Iterator) Index() int               { return it.next - 1 }

func (it *G2Iterator) Reset() {
	it.next = 0
	it.cur = bls12381.G2Affine{}
	it.err = nil
}
