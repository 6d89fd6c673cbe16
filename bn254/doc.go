// package bn254 exposes a BN254 powers-of-tau ceremony: typed point array
// accessors with on-curve and subgroup validation, the contribution chain
// with beacon re-derivation, pairing-based full verification and KZG SRS
// export. It is the curve layer over ptau's structural index; the
// bls12381 package is its BLS12-381 counterpart.
package bn254
