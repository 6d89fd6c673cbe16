package ptau

// Trust is the overall trust level of a verified ceremony. A file can be
// fully decodable and still untrusted; trust findings are reported here
// rather than raised as errors.
type Trust int

const (
	// TrustInvalid: the hash chain is broken, or the requested
	// cryptographic checks failed.
	TrustInvalid Trust = iota
	// TrustStructural: the hash chain is consistent but the expensive
	// cryptographic checks were not run.
	TrustStructural
	// TrustVerified: the hash chain is consistent and all cryptographic
	// checks passed.
	TrustVerified
)

func (t Trust) String() string {
	switch t {
	case TrustInvalid:
		return "invalid"
	case TrustStructural:
		return "structurally consistent, cryptographically unverified"
	case TrustVerified:
		return "verified"
	}
	return "unknown"
}

// RecordStatus is the per-record outcome of chain verification. The
// beacon, when present, appears as the last entry.
type RecordStatus struct {
	Index int
	// HashChainOK reports whether the record's PreviousHash matches the
	// prior record's ResultingHash (GenesisDigest for index 0).
	HashChainOK bool
	// ResponseOK reports whether the record's response commitment passed
	// the pairing well-formedness check. Meaningful only when the
	// report's Full flag is set.
	ResponseOK bool
}

// VerificationReport is the immutable outcome of chain verification.
type VerificationReport struct {
	Records         []RecordStatus
	ChainConsistent bool
	// BeaconPresent reports whether a terminal beacon record exists;
	// BeaconValid whether its commitment matches the one re-derived from
	// the public beacon input. Beacon findings never alter the hash-chain
	// results.
	BeaconPresent bool
	BeaconValid   bool
	// Full reports whether the expensive cryptographic checks ran;
	// PowersConsistent is their outcome over the point arrays.
	Full             bool
	PowersConsistent bool
	Trust            Trust
}

// VerifyChain walks the contribution chain checking that each record's
// declared previous-state digest matches the prior record's resulting
// digest. Broken links are local findings: a mismatch at record i leaves
// every other record's check unaffected.
func VerifyChain(records []Contribution, beacon *Contribution) *VerificationReport {
	all := records
	if beacon != nil {
		all = make([]Contribution, 0, len(records)+1)
		all = append(all, records...)
		all = append(all, *beacon)
	}

	rep := &VerificationReport{
		Records:         make([]RecordStatus, len(all)),
		ChainConsistent: true,
		BeaconPresent:   beacon != nil,
	}
	prev := GenesisDigest
	for i := range all {
		ok := all[i].PreviousHash == prev
		rep.Records[i] = RecordStatus{Index: i, HashChainOK: ok}
		if !ok {
			rep.ChainConsistent = false
		}
		prev = all[i].ResultingHash
	}
	rep.UpdateTrust()
	return rep
}

// UpdateTrust recomputes the overall trust level from the recorded
// findings. Beacon validity is reported separately and does not lower the
// trust level: a ceremony with a forged beacon still carries the
// "at least one honest contributor" guarantee of its chain.
func (rep *VerificationReport) UpdateTrust() {
	switch {
	case !rep.ChainConsistent:
		rep.Trust = TrustInvalid
	case !rep.Full:
		rep.Trust = TrustStructural
	case rep.PowersConsistent && rep.allResponsesOK():
		rep.Trust = TrustVerified
	default:
		rep.Trust = TrustInvalid
	}
}

func (rep *VerificationReport) allResponsesOK() bool {
	for i := range rep.Records {
		if !rep.Records[i].ResponseOK {
			return false
		}
	}
	return true
}
