package ptau

import (
	"fmt"
)

// Role names one of the fixed point arrays of the container.
type Role int

const (
	// RoleTauG1 is [τ⁰]₁ … [τ^(2^(p+1)-2)]₁.
	RoleTauG1 Role = iota
	// RoleTauG2 is [τ⁰]₂ … [τ^(2^p-1)]₂.
	RoleTauG2
	// RoleAlphaTauG1 is α[τ⁰]₁ … α[τ^(2^p-1)]₁.
	RoleAlphaTauG1
	// RoleBetaTauG1 is β[τ⁰]₁ … β[τ^(2^p-1)]₁.
	RoleBetaTauG1
	// RoleBetaG2 is the single point [β]₂.
	RoleBetaG2
)

func (r Role) String() string {
	switch r {
	case RoleTauG1:
		return "tauG1"
	case RoleTauG2:
		return "tauG2"
	case RoleAlphaTauG1:
		return "alphaTauG1"
	case RoleBetaTauG1:
		return "betaTauG1"
	case RoleBetaG2:
		return "betaG2"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// SectionID returns the container section holding this array.
func (r Role) SectionID() SectionID {
	switch r {
	case RoleTauG1:
		return SectionTauG1
	case RoleTauG2:
		return SectionTauG2
	case RoleAlphaTauG1:
		return SectionAlphaTauG1
	case RoleBetaTauG1:
		return SectionBetaTauG1
	case RoleBetaG2:
		return SectionBetaG2
	}
	return 0
}

// count returns the number of points the header mandates for the role.
func (r Role) count(h Header) int64 {
	switch r {
	case RoleTauG1:
		return h.TauG1Len()
	case RoleTauG2, RoleAlphaTauG1, RoleBetaTauG1:
		return h.TauG2Len()
	case RoleBetaG2:
		return 1
	}
	return 0
}

// pointSize returns the byte width of one uncompressed point of the role.
func (r Role) pointSize(h Header) int64 {
	switch r {
	case RoleTauG2, RoleBetaG2:
		return int64(h.G2PointSize())
	}
	return int64(h.G1PointSize())
}

// PointArray is a window over one point section, addressing points by
// index without decoding or copying the section. It performs no caching:
// every At call is an independent read, so concurrent access needs no
// synchronization.
type PointArray struct {
	f         *File
	role      Role
	offset    int64
	pointSize int64
	count     int64
}

// PointArray resolves the section for the given role and checks that its
// declared byte length matches the header-derived point count. This is
// where a length mismatch surfaces: at first access to the array, not at
// open time.
func (f *File) PointArray(role Role) (*PointArray, error) {
	sec, err := f.Section(role.SectionID())
	if err != nil {
		return nil, err
	}
	count := role.count(f.header)
	pointSize := role.pointSize(f.header)
	if sec.Size != count*pointSize {
		return nil, fmt.Errorf("%w: %s section is %d bytes, expected %d points of %d bytes",
			ErrLengthMismatch, role, sec.Size, count, pointSize)
	}
	return &PointArray{
		f:         f,
		role:      role,
		offset:    sec.Offset,
		pointSize: pointSize,
		count:     count,
	}, nil
}

// Role returns the array's role.
func (a *PointArray) Role() Role { return a.role }

// Len returns the number of points, computed from section metadata.
func (a *PointArray) Len() int { return int(a.count) }

// PointSize returns the byte width of one point.
func (a *PointArray) PointSize() int { return int(a.pointSize) }

// At returns the raw encoding of the point at the given index, read with
// a single call to the underlying byte source.
func (a *PointArray) At(i int) ([]byte, error) {
	if i < 0 || int64(i) >= a.count {
		return nil, fmt.Errorf("%w: index %d in %s array of length %d",
			ErrOutOfBounds, i, a.role, a.count)
	}
	return a.f.bytesAt(a.offset+int64(i)*a.pointSize, a.pointSize)
}
