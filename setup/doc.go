/*
package setup builds plonk proving and verifying keys from powers-of-tau
ceremony files.

To secure the plonk protocol, Prover and Verifier share a structured
reference string whose creation requires a trusted setup. Distributed,
permissionless ceremonies make a dishonest setup statistically
insignificant: security holds as long as at least one participant was
honest, and a ceremony closed with a public random beacon is
independently re-derivable. For BN254 the battle-tested perpetual
powers-of-tau ceremony (used by Semaphore, Hermez, Tornado Cash and
snarkjs) published parameters supporting up to 2^28 constraints; snarkjs
distributes them as .ptau files.

This package reads such a file through the ppot library, refuses it when
its contribution chain fails verification, truncates the committed powers
to the circuit size and hands the resulting SRS to gnark's plonk setup.
The TestOnly mode generates a throwaway SRS from a known scalar instead
and must never be used in production.
*/
package setup
