package main

import (
	"context"
	"fmt"

	"github.com/go-pki/pkicore/pkg/kinds"
	"github.com/go-pki/pkicore/pkg/pkiitem"
	"github.com/go-pki/pkicore/pkg/pkiobject"
)

// decodedFixtureCert is the "decoded form" the demo driver hands back;
// real ASN.1 decoding is explicitly out of scope, so the fixture simply
// carries the attributes a decoder would have produced.
type decodedFixtureCert struct {
	encoding  pkiitem.ByteItem
	matches   bool
	valid     bool
	trusted   bool
	notBefore pkiobject.Time
}

func (d *decodedFixtureCert) Encoding() pkiitem.ByteItem { return d.encoding }
func (d *decodedFixtureCert) MatchesUsage(kinds.Usage) bool {
	return d.matches
}
func (d *decodedFixtureCert) IsValidAtTime(pkiobject.Time) bool { return d.valid }
func (d *decodedFixtureCert) IsTrustedForUsage(kinds.Usage) bool {
	return d.trusted
}
func (d *decodedFixtureCert) NotBefore() pkiobject.Time { return d.notBefore }

// fixtureDecoder decodes by DER content, matching each instance's raw
// bytes back to its fixtureCert so the demo can exercise best-match
// selection without a real certificate parser.
type fixtureDecoder struct {
	byDER map[string]fixtureCert
}

func newFixtureDecoder(certs []fixtureCert) *fixtureDecoder {
	d := &fixtureDecoder{byDER: make(map[string]fixtureCert, len(certs))}
	for _, c := range certs {
		d.byDER[c.DER] = c
	}
	return d
}

func (d *fixtureDecoder) Decode(_ context.Context, encoding pkiitem.ByteItem) (kinds.DecodedCert, error) {
	c, ok := d.byDER[string(encoding.Bytes)]
	if !ok {
		return nil, fmt.Errorf("no fixture entry for DER %q", string(encoding.Bytes))
	}
	return &decodedFixtureCert{
		encoding:  encoding,
		matches:   c.MatchesUsage,
		valid:     c.ValidAtTime,
		trusted:   c.TrustedForUsage,
		notBefore: pkiobject.At(c.NotBefore),
	}, nil
}
