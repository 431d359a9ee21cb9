// Package kinds binds the four artifact kinds (Certificate, CRL,
// PublicKey, PrivateKey) to concrete pkiobject.VTables, and implements the
// certificate best-match selection of §4.5.
//
// ASN.1/DER decoding is explicitly out of scope (§1): this package depends
// on small Decoder/Driver interfaces for the decoded form and the token
// attribute reads, rather than decoding anything itself.
package kinds

// Usage describes the intended use a certificate is being matched
// against (key usage / extended key usage bits, in whatever encoding the
// decoded-certificate collaborator understands). The core never inspects
// it; it is only ever threaded through to DecodedCert.MatchesUsage and
// IsTrustedForUsage.
type Usage struct {
	Bits uint32
}
