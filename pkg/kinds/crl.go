package kinds

import (
	"context"
	"fmt"

	"github.com/go-pki/pkicore/pkg/arena"
	"github.com/go-pki/pkicore/pkg/pkierr"
	"github.com/go-pki/pkicore/pkg/pkiitem"
	"github.com/go-pki/pkicore/pkg/pkiobject"
	"github.com/go-pki/pkicore/pkg/tokeninst"
)

// CRLLockKind is the lock discipline CRLs use: a plain, non-reentrant
// mutex, since nothing about a CRL's operations re-enters itself (§5).
const CRLLockKind = pkiobject.PlainLock

// DecodedCRL is the decoded form of a CRL: just enough to dedupe it by
// its full DER encoding.
type DecodedCRL interface {
	Encoding() pkiitem.ByteItem
}

// CRLDecoder builds a DecodedCRL from a full DER encoding.
type CRLDecoder interface {
	Decode(ctx context.Context, encoding pkiitem.ByteItem) (DecodedCRL, error)
}

// CRLDriver is the token-driver surface a CRL collection needs.
type CRLDriver interface {
	tokeninst.Driver
	CRLAttributes(ctx context.Context, inst *tokeninst.Instance, a *arena.Arena) (encoding pkiitem.ByteItem, err error)
}

// CRL is the typed façade over a CRL PKIObject.
type CRL struct {
	*pkiobject.Object
}

// WrapCRL views o (which must be of Kind CRL) as a CRL façade.
func WrapCRL(o *pkiobject.Object) *CRL {
	return &CRL{Object: o}
}

// Decoded returns the CRL's decoded form, or nil if undecoded.
func (c *CRL) Decoded() DecodedCRL {
	d, _ := c.Object.Decoded().(DecodedCRL)
	return d
}

// NewCRLVTable builds the CRL vtable (component D).
func NewCRLVTable(decoder CRLDecoder, driver CRLDriver) pkiobject.VTable {
	return pkiobject.VTable{
		Destroy: func(ctx context.Context, o *pkiobject.Object) {
			o.Destroy(ctx)
		},
		UIDFromObject: func(o *pkiobject.Object) (pkiitem.UID, error) {
			d, ok := o.Decoded().(DecodedCRL)
			if !ok || d == nil {
				return pkiitem.UID{}, fmt.Errorf("CRL has no decoded form: %w", pkierr.ErrInvalidArgument)
			}
			enc := d.Encoding()
			if enc.Empty() {
				return pkiitem.UID{}, fmt.Errorf("CRL encoding absent: %w", pkierr.ErrInvalidArgument)
			}
			return pkiitem.UID{enc, pkiitem.ByteItem{}}, nil
		},
		UIDFromInstance: func(ctx context.Context, inst *tokeninst.Instance, a *arena.Arena) (pkiitem.UID, error) {
			enc, err := driver.CRLAttributes(ctx, inst, a)
			if err != nil {
				return pkiitem.UID{}, fmt.Errorf("reading CRL attributes: %w: %w", pkierr.ErrTokenFailure, err)
			}
			if enc.Empty() {
				return pkiitem.UID{}, fmt.Errorf("CRL encoding absent: %w", pkierr.ErrInvalidArgument)
			}
			return pkiitem.UID{enc, pkiitem.ByteItem{}}, nil
		},
		CreateFromProto: func(ctx context.Context, proto *pkiobject.Object) (*pkiobject.Object, error) {
			proto.SetKind(pkiobject.CRL)
			insts := proto.GetInstances()
			if len(insts) == 0 {
				return nil, fmt.Errorf("proto-CRL has no instances: %w", pkierr.ErrInvalidArgument)
			}
			enc, err := driver.CRLAttributes(ctx, insts[0], proto.Arena())
			if err != nil {
				return nil, fmt.Errorf("reading CRL attributes: %w: %w", pkierr.ErrTokenFailure, err)
			}
			decoded, err := decoder.Decode(ctx, enc)
			if err != nil {
				return nil, fmt.Errorf("decoding CRL: %w", err)
			}
			proto.SetDecoded(decoded)
			return proto, nil
		},
	}
}
