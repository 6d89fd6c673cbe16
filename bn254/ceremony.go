package bn254

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/geometryxyz/ppot/ptau"
)

// Ceremony is a typed view over a BN254 .ptau file. It holds no decoded
// state of its own: array accessors and the contribution chain resolve
// against the underlying ptau.File on demand.
type Ceremony struct {
	f *ptau.File
}

// NewCeremony wraps f, which must hold a BN254 ceremony.
func NewCeremony(f *ptau.File) (*Ceremony, error) {
	if curve := f.Header().Curve; curve != ecc.BN254 {
		return nil, fmt.Errorf("%w: file holds a %s ceremony, not BN254",
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
func (c *Ceremony) BetaG2() (bn254.G2Affine, error) {
	arr, err := c.f.PointArray(ptau.RoleBetaG2)
	if err != nil {
		return bn254.G2Affine{}, err
	}
	data, err := arr.At(0)
	if err != nil {
		return bn254.G2Affine{}, err
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
	ResponseG1 bn254.G1Affine
	ResponseG2 bn254.G2Affine
}

// Contributions returns the typed contribution chain and the optional
// terminal beacon. Response points are decoded and validated here; a
// record with an invalid response point fails the whole call, since the
// chain is small and decoded eagerly by design.
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

// G1Array addresses one of the G1 point sections. Get decodes a single
// point: random access costs one read of the byte source and no caching,
// so arrays of 2^28 points never get materialized.
type G1Array struct {
	arr *ptau.PointArray
}

// Len returns the number of points, an O(1) metadata lookup.
func (a *G1Array) Len() int { return a.arr.Len() }

// Get decodes and validates the point at index i.
func (a *G1Array) Get(i int) (bn254.G1Affine, error) {
	data, err := a.arr.At(i)
	if err != nil {
		return bn254.G1Affine{}, err
	}
	p, err := DecodeG1(data, false)
	if err != nil {
		return bn254.G1Affine{}, fmt.Errorf("%s[%d]: %w", a.arr.Role(), i, err)
	}
	return p, nil
}

// Iter returns a restartable iterator over the array in index order.
func (a *G1Array) Iter() *G1Iterator { return &G1Iterator{arr: a} }

// G1Iterator is a pull-based iterator: each Next decodes exactly one
// point, so memory stays bounded regardless of array size. A decoding
// failure is delivered through Err for that element only and does not
// terminate the traversal; callers choose whether to stop.
type G1Iterator struct {
	arr  *G1Array
	next int
	cur  bn254.G1Affine
	err  error
}

// Next advances to the next point, reporting false when the array is
// exhausted.
func (it *G1Iterator) Next() bool {
	if it.next >= it.arr.Len() {
		return false
	}
	it.cur, it.err = it.arr.Get(it.next)
	it.next++
	return true
}

// Value returns the current point; it is the zero value when Err is
// non-nil.
func (it *G1Iterator) Value() bn254.G1Affine { return it.cur }

// Err returns the decoding error for the current element, if any.
func (it *G1Iterator) Err() error { return it.err }

// Index returns the index of the current element.
func (it *G1Iterator) Index() int { return it.next - 1 }

// Reset rewinds the iterator to the start of the array.
func (it *G1Iterator) Reset() {
	it.next = 0
	it.cur = bn254.G1Affine{}
	it.err = nil
}

// G2Array is G1Array for the G2 sections.
type G2Array struct {
	arr *ptau.PointArray
}

func (a *G2Array) Len() int { return a.arr.Len() }

func (a *G2Array) Get(i int) (bn254.G2Affine, error) {
	data, err := a.arr.At(i)
	if err != nil {
		return bn254.G2Affine{}, err
	}
	p, err := DecodeG2(data, false)
	if err != nil {
		return bn254.G2Affine{}, fmt.Errorf("%s[%d]: %w", a.arr.Role(), i, err)
	}
	return p, nil
}

func (a *G2Array) Iter() *G2Iterator { return &G2Iterator{arr: a} }

// G2Iterator mirrors G1Iterator for G2 arrays.
type G2Iterator struct {
	arr  *G2Array
	next int
	cur  bn254.G2Affine
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

func (it *G2Iterator) Value() bn254.G2Affine { return it.cur }
func (it *G2Iterator) Err() error            { return it.err }
func (it *G2Iterator) Index() int            { return it.next - 1 }

func (it *G2Iterator) Reset() {
	it.next = 0
	it.cur = bn254.G2Affine{}
	it.err = nil
}
