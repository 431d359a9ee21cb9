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

// KeyLockKind is the lock discipline both key kinds use. The source's
// retrieved fragment of pkibase.c only names the certificate and CRL lock
// kinds explicitly; keys get a plain lock by default since nothing in
// their (comparatively small) operation set is known to re-enter (an
// Open Question decision, see DESIGN.md).
const KeyLockKind = pkiobject.PlainLock

// DecodedKey is the decoded form of an RSA public or private key: just
// enough to fill a UID of (modulus, public exponent). Other key schemes
// would need their own kind-defined UID shape; only RSA is implemented
// here.
type DecodedKey interface {
	Modulus() pkiitem.ByteItem
	PublicExponent() pkiitem.ByteItem
}

// KeyDecoder builds a DecodedKey from its (modulus, public exponent)
// attributes.
type KeyDecoder interface {
	Decode(ctx context.Context, modulus, exponent pkiitem.ByteItem) (DecodedKey, error)
}

// KeyDriver is the token-driver surface a key collection needs.
type KeyDriver interface {
	tokeninst.Driver
	KeyAttributes(ctx context.Context, inst *tokeninst.Instance, a *arena.Arena) (modulus, exponent pkiitem.ByteItem, err error)
}

// PublicKey is the typed façade over a public-key PKIObject.
type PublicKey struct {
	*pkiobject.Object
}

// WrapPublicKey views o (which must be of Kind PublicKey) as a PublicKey
// façade.
func WrapPublicKey(o *pkiobject.Object) *PublicKey { return &PublicKey{Object: o} }

// Decoded returns the key's decoded form, or nil if undecoded.
func (k *PublicKey) Decoded() DecodedKey {
	d, _ := k.Object.Decoded().(DecodedKey)
	return d
}

// PrivateKey is the typed façade over a private-key PKIObject.
type PrivateKey struct {
	*pkiobject.Object
}

// WrapPrivateKey views o (which must be of Kind PrivateKey) as a
// PrivateKey façade.
func WrapPrivateKey(o *pkiobject.Object) *PrivateKey { return &PrivateKey{Object: o} }

// Decoded returns the key's decoded form, or nil if undecoded.
func (k *PrivateKey) Decoded() DecodedKey {
	d, _ := k.Object.Decoded().(DecodedKey)
	return d
}

// NewPublicKeyVTable builds the public-key vtable (component D).
func NewPublicKeyVTable(decoder KeyDecoder, driver KeyDriver) pkiobject.VTable {
	return newKeyVTable(pkiobject.PublicKey, decoder, driver)
}

// NewPrivateKeyVTable builds the private-key vtable (component D).
func NewPrivateKeyVTable(decoder KeyDecoder, driver KeyDriver) pkiobject.VTable {
	return newKeyVTable(pkiobject.PrivateKey, decoder, driver)
}

func newKeyVTable(kind pkiobject.Kind, decoder KeyDecoder, driver KeyDriver) pkiobject.VTable {
	return pkiobject.VTable{
		Destroy: func(ctx context.Context, o *pkiobject.Object) {
			o.Destroy(ctx)
		},
		UIDFromObject: func(o *pkiobject.Object) (pkiitem.UID, error) {
			d, ok := o.Decoded().(DecodedKey)
			if !ok || d == nil {
				return pkiitem.UID{}, fmt.Errorf("%s has no decoded form: %w", kind, pkierr.ErrInvalidArgument)
			}
			mod := d.Modulus()
			if mod.Empty() {
				return pkiitem.UID{}, fmt.Errorf("%s modulus absent: %w", kind, pkierr.ErrInvalidArgument)
			}
			return pkiitem.UID{mod, d.PublicExponent()}, nil
		},
		UIDFromInstance: func(ctx context.Context, inst *tokeninst.Instance, a *arena.Arena) (pkiitem.UID, error) {
			mod, exp, err := driver.KeyAttributes(ctx, inst, a)
			if err != nil {
				return pkiitem.UID{}, fmt.Errorf("reading %s attributes: %w: %w", kind, pkierr.ErrTokenFailure, err)
			}
			if mod.Empty() {
				return pkiitem.UID{}, fmt.Errorf("%s modulus absent: %w", kind, pkierr.ErrInvalidArgument)
			}
			return pkiitem.UID{mod, exp}, nil
		},
		CreateFromProto: func(ctx context.Context, proto *pkiobject.Object) (*pkiobject.Object, error) {
			proto.SetKind(kind)
			insts := proto.GetInstances()
			if len(insts) == 0 {
				return nil, fmt.Errorf("proto-%s has no instances: %w", kind, pkierr.ErrInvalidArgument)
			}
			mod, exp, err := driver.KeyAttributes(ctx, insts[0], proto.Arena())
			if err != nil {
				return nil, fmt.Errorf("reading %s attributes: %w: %w", kind, pkierr.ErrTokenFailure, err)
			}
			decoded, err := decoder.Decode(ctx, mod, exp)
			if err != nil {
				return nil, fmt.Errorf("decoding %s: %w", kind, err)
			}
			proto.SetDecoded(decoded)
			return proto, nil
		},
	}
}
