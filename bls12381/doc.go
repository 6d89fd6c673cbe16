// package bls12381 is the BLS12-381 counterpart of the bn254 package:
// typed point array accessors, contribution chain with beacon
// re-derivation, pairing-based full verification and KZG SRS export over
// ptau's structural index.
package bls12381
