package ptau

import (
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// HashSize is the width of the ceremony state digests (blake2b-512).
const HashSize = 64

// GenesisDigest is the well-known digest the first contribution's
// PreviousHash must equal: blake2b-512 of the empty input.
var GenesisDigest = blake2b.Sum512(nil)

// Contribution record types.
const (
	RecordContribution uint32 = 0
	RecordBeacon       uint32 = 1
)

// Contribution is one record of the ceremony's contribution chain. The
// response points are kept in their raw uncompressed encoding at this
// layer; the curve packages decode and validate them.
type Contribution struct {
	// TauG1 and TauG2 are the contributor's response commitment: their
	// randomness applied to the running τ product, one point per group.
	TauG1 []byte
	TauG2 []byte
	// PreviousHash is the digest of the ceremony state the contributor
	// started from; ResultingHash is the digest of the state they
	// produced. Record i's PreviousHash must equal record i-1's
	// ResultingHash (or GenesisDigest for the first record).
	PreviousHash  [HashSize]byte
	ResultingHash [HashSize]byte
	// Metadata is free-form contributor data (name, client, ...). It is
	// carried but never semantically validated.
	Metadata []byte
	// Type is RecordContribution or RecordBeacon.
	Type uint32
	// BeaconInput and BeaconIterationsExp are set for beacon records
	// only: the public randomness value and the log2 of the hash
	// iteration count used to derive the beacon's response.
	BeaconInput         []byte
	BeaconIterationsExp uint32
}

// IsBeacon reports whether the record is the ceremony's deterministic
// closing beacon.
func (c *Contribution) IsBeacon() bool { return c.Type == RecordBeacon }

// Contributions decodes the contribution chain. The chain is small (tens
// to low hundreds of records) so it is decoded whole on first call and
// cached; the returned slices must not be modified. The second return
// value is the terminal beacon record, or nil when the ceremony was not
// closed with one.
func (f *File) Contributions() ([]Contribution, *Contribution, error) {
	f.chainOnce.Do(func() {
		f.chain, f.beacon, f.chainErr = f.decodeChain()
	})
	return f.chain, f.beacon, f.chainErr
}

func (f *File) decodeChain() ([]Contribution, *Contribution, error) {
	sec, err := f.Section(SectionContributions)
	if err != nil {
		return nil, nil, err
	}
	cur := f.sectionCursor(sec)

	count, err := cur.u32()
	if err != nil {
		return nil, nil, err
	}

	g1Size := int64(f.header.G1PointSize())
	g2Size := int64(f.header.G2PointSize())

	// The count is untrusted; bound it by the smallest possible record
	// before allocating, so a corrupt count cannot demand the allocator
	// produce terabytes.
	minRecordSize := g1Size + g2Size + 2*HashSize + 8
	if int64(count) > cur.remaining()/minRecordSize {
		return nil, nil, fmt.Errorf("%w: %d records declared, %d bytes left in section",
			ErrTruncated, count, cur.remaining())
	}

	records := make([]Contribution, 0, count)
	var beacon *Contribution
	for i := uint32(0); i < count; i++ {
		if beacon != nil {
			return nil, nil, fmt.Errorf("%w: beacon record %d is not last", ErrInvalidRecord, i-1)
		}
		rec, err := decodeRecord(cur, g1Size, g2Size)
		if err != nil {
			return nil, nil, fmt.Errorf("error decoding contribution %d: %w", i, err)
		}
		if rec.IsBeacon() {
			beacon = &rec
		} else {
			records = append(records, rec)
		}
	}
	return records, beacon, nil
}

func decodeRecord(cur *cursor, g1Size, g2Size int64) (Contribution, error) {
	var rec Contribution
	var err error

	if rec.TauG1, err = cur.bytes(g1Size); err != nil {
		return rec, err
	}
	if rec.TauG2, err = cur.bytes(g2Size); err != nil {
		return rec, err
	}
	prev, err := cur.bytes(HashSize)
	if err != nil {
		return rec, err
	}
	copy(rec.PreviousHash[:], prev)
	next, err := cur.bytes(HashSize)
	if err != nil {
		return rec, err
	}
	copy(rec.ResultingHash[:], next)

	metaLen, err := cur.u32()
	if err != nil {
		return rec, err
	}
	if rec.Metadata, err = cur.bytes(int64(metaLen)); err != nil {
		return rec, err
	}

	if rec.Type, err = cur.u32(); err != nil {
		return rec, err
	}
	switch rec.Type {
	case RecordContribution:
	case RecordBeacon:
		inputLen, err := cur.u32()
		if err != nil {
			return rec, err
		}
		if rec.BeaconInput, err = cur.bytes(int64(inputLen)); err != nil {
			return rec, err
		}
		if rec.BeaconIterationsExp, err = cur.u32(); err != nil {
			return rec, err
		}
	default:
		return rec, fmt.Errorf("%w: unknown record type %d", ErrInvalidRecord, rec.Type)
	}
	return rec, nil
}
