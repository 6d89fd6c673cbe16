/*
package ptau implements the container format of snarkjs powers-of-tau
ceremony files.

A .ptau file is a section-addressed binary container: a magic tag and
version, a section table of (id, size) entries, and per-section payloads
holding the ceremony header, the committed curve point arrays and the
contribution chain. Files routinely reach gigabytes (the tauG1 array holds
2^(power+1)-1 points), so this package never materializes whole sections:
it indexes the file once and resolves every read through explicit offsets
over an io.ReaderAt.

This layer is purely structural. It knows byte widths and section lengths
but does not interpret curve points; the typed decoding, subgroup checks
and cryptographic verification live in the bn254 and bls12381 packages.
*/
package ptau
