package kinds

import (
	"context"
	"fmt"

	"github.com/go-pki/pkicore/pkg/arena"
	"github.com/go-pki/pkicore/pkg/pkierr"
	"github.com/go-pki/pkicore/pkg/pkiitem"
	"github.com/go-pki/pkicore/pkg/pkiobject"
	"github.com/go-pki/pkicore/pkg/tokeninst"
	"github.com/go-pki/pkicore/pkg/trustdomain"
)

// CertificateLockKind is the lock discipline certificates use: a
// reentrant monitor, because a decoded certificate's usage/validity
// checks may re-enter the object's lock (§5).
const CertificateLockKind = pkiobject.ReentrantLock

// DecodedCert is the decoded form of a certificate: everything the core
// needs in order to dedupe it (Encoding) and to run best-match selection
// (§4.5) against it. Producing one from DER bytes is the out-of-scope
// ASN.1 collaborator's job (§1).
type DecodedCert interface {
	Encoding() pkiitem.ByteItem
	MatchesUsage(u Usage) bool
	IsValidAtTime(t pkiobject.Time) bool
	IsTrustedForUsage(u Usage) bool
	NotBefore() pkiobject.Time
}

// CertDecoder builds a DecodedCert from a full DER encoding.
type CertDecoder interface {
	Decode(ctx context.Context, encoding pkiitem.ByteItem) (DecodedCert, error)
}

// CertDriver is the token-driver surface a certificate collection needs:
// the generic instance operations plus the certificate attribute reader
// that fills in the UID (§6's cert_attributes).
type CertDriver interface {
	tokeninst.Driver
	CertAttributes(ctx context.Context, inst *tokeninst.Instance, a *arena.Arena) (encoding pkiitem.ByteItem, err error)
}

// Certificate is the typed façade over a certificate PKIObject.
type Certificate struct {
	*pkiobject.Object
}

// WrapCertificate views o (which must be of Kind Certificate) as a
// Certificate façade.
func WrapCertificate(o *pkiobject.Object) *Certificate {
	return &Certificate{Object: o}
}

// Decoded returns the certificate's decoded form, or nil if it has not
// been attached (a proto-object that was never promoted).
func (c *Certificate) Decoded() DecodedCert {
	d, _ := c.Object.Decoded().(DecodedCert)
	return d
}

// Encoding returns the certificate's full DER encoding, or an empty item
// if undecoded.
func (c *Certificate) Encoding() pkiitem.ByteItem {
	if d := c.Decoded(); d != nil {
		return d.Encoding()
	}
	return pkiitem.ByteItem{}
}

// NewCertificateVTable builds the certificate vtable (component D),
// wiring in the decoder, the attribute-reading driver, and the
// trust-domain cache that interns certificates by DER encoding (§4.2,
// §4.4).
func NewCertificateVTable(decoder CertDecoder, cache trustdomain.Cache, driver CertDriver) pkiobject.VTable {
	return pkiobject.VTable{
		Destroy: func(ctx context.Context, o *pkiobject.Object) {
			// A certificate's decoded form is owned by the object, not
			// the other way around (§9 "Decoded-form cycle"): there is
			// nothing extra to release here beyond what Object.Destroy
			// already does when it drops the decoded value along with
			// everything else.
			o.Destroy(ctx)
		},
		UIDFromObject: func(o *pkiobject.Object) (pkiitem.UID, error) {
			d, ok := o.Decoded().(DecodedCert)
			if !ok || d == nil {
				return pkiitem.UID{}, fmt.Errorf("certificate has no decoded form: %w", pkierr.ErrInvalidArgument)
			}
			enc := d.Encoding()
			if enc.Empty() {
				return pkiitem.UID{}, fmt.Errorf("certificate encoding absent: %w", pkierr.ErrInvalidArgument)
			}
			return pkiitem.UID{enc, pkiitem.ByteItem{}}, nil
		},
		UIDFromInstance: func(ctx context.Context, inst *tokeninst.Instance, a *arena.Arena) (pkiitem.UID, error) {
			enc, err := driver.CertAttributes(ctx, inst, a)
			if err != nil {
				return pkiitem.UID{}, fmt.Errorf("reading certificate attributes: %w: %w", pkierr.ErrTokenFailure, err)
			}
			if enc.Empty() {
				return pkiitem.UID{}, fmt.Errorf("certificate encoding absent: %w", pkierr.ErrInvalidArgument)
			}
			return pkiitem.UID{enc, pkiitem.ByteItem{}}, nil
		},
		CreateFromProto: func(ctx context.Context, proto *pkiobject.Object) (*pkiobject.Object, error) {
			proto.SetKind(pkiobject.Certificate)
			insts := proto.GetInstances()
			if len(insts) == 0 {
				return nil, fmt.Errorf("proto-certificate has no instances: %w", pkierr.ErrInvalidArgument)
			}
			enc, err := driver.CertAttributes(ctx, insts[0], proto.Arena())
			if err != nil {
				return nil, fmt.Errorf("reading certificate attributes: %w: %w", pkierr.ErrTokenFailure, err)
			}
			decoded, err := decoder.Decode(ctx, enc)
			if err != nil {
				return nil, fmt.Errorf("decoding certificate: %w", err)
			}
			proto.SetDecoded(decoded)

			// Intern the certificate in the trust-domain cache; this is
			// the single interning point that preserves "one decoded
			// cert per DER encoding" across the process (§4.2, §4.4).
			chosen := cache.Intern(string(enc.Bytes), proto)
			winner, ok := chosen.(*pkiobject.Object)
			if !ok {
				return nil, fmt.Errorf("trust-domain cache returned unexpected type %T", chosen)
			}
			return winner, nil
		},
	}
}
