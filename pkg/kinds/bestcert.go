package kinds

import (
	"context"

	"github.com/go-pki/pkicore/pkg/pkiobject"
)

// BestCertificate implements §4.5's best-match selection: given certs, a
// time (Now() if timeOpt is nil), and a usage, it picks the single "best"
// certificate by evaluating, pairwise against a running best: usage match,
// then valid-at-time, then trusted-for-usage, then newer (by NotBefore).
// Ties beyond all four criteria resolve to the earlier-seen certificate.
//
// Certificates with no decoded form are skipped. The returned certificate
// is add-ref'd; when a running best is displaced, the reference this
// function took on it is released, and the caller's own references to the
// elements of certs are left untouched. An empty certs returns nil; a
// single decoded element is returned add-ref'd.
func BestCertificate(ctx context.Context, certs []*Certificate, timeOpt *pkiobject.Time, usage Usage) *Certificate {
	if len(certs) == 0 {
		return nil
	}

	at := pkiobject.Now()
	if timeOpt != nil {
		at = *timeOpt
	}

	var best *Certificate
	var bestDecoded DecodedCert
	var bestMatches, bestValid, bestTrusted bool

	for _, c := range certs {
		d := c.Decoded()
		if d == nil {
			continue
		}
		matches := d.MatchesUsage(usage)

		if best == nil {
			best = c.adoptRef()
			bestDecoded, bestMatches = d, matches
			continue
		}

		if bestMatches && !matches {
			continue
		}
		if !bestMatches && matches {
			best = swap(ctx, best, c)
			bestDecoded, bestMatches = d, matches
			bestValid, bestTrusted = false, false
			continue
		}

		// Usage match ties; defer to validity.
		validNow := bestValid || bestDecoded.IsValidAtTime(at)
		if validNow {
			bestValid = true
			if !d.IsValidAtTime(at) {
				continue
			}
		} else if d.IsValidAtTime(at) {
			best = swap(ctx, best, c)
			bestDecoded, bestValid = d, true
			continue
		}

		// Usage and validity tie; defer to trust.
		trustedNow := bestTrusted || bestDecoded.IsTrustedForUsage(usage)
		if trustedNow {
			bestTrusted = true
			if !d.IsTrustedForUsage(usage) {
				continue
			}
		} else if d.IsTrustedForUsage(usage) {
			best = swap(ctx, best, c)
			bestDecoded, bestTrusted = d, true
			continue
		}

		// Usage, validity, and trust all tie; take the newer one.
		if bestDecoded.NotBefore().Before(d.NotBefore()) {
			best = swap(ctx, best, c)
			bestDecoded = d
		}
		// Policies (§4.5 item 5) are a reserved tiebreaker, not required
		// for initial conformance; ties beyond this point keep best.
	}
	return best
}

// adoptRef add-refs c for the running best's slot.
func (c *Certificate) adoptRef() *Certificate {
	c.AddRef()
	return c
}

// swap releases the current best and add-refs the replacement, returning
// it as the new best.
func swap(ctx context.Context, best, replacement *Certificate) *Certificate {
	best.Destroy(ctx)
	replacement.AddRef()
	return replacement
}
