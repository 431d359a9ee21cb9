package pkiobject

import (
	"context"

	"github.com/go-pki/pkicore/pkg/arena"
	"github.com/go-pki/pkicore/pkg/pkiitem"
	"github.com/go-pki/pkicore/pkg/tokeninst"
)

// Kind tags which of the four artifact kinds an Object represents.
type Kind int

const (
	Certificate Kind = iota
	CRL
	PublicKey
	PrivateKey
)

func (k Kind) String() string {
	switch k {
	case Certificate:
		return "certificate"
	case CRL:
		return "crl"
	case PublicKey:
		return "public-key"
	case PrivateKey:
		return "private-key"
	default:
		return "unknown"
	}
}

// VTable is the per-kind dispatch table (component D). A Collection binds
// exactly one VTable, selected by the kind it manages; the collection
// itself only uses Kind to tag the proto-objects it creates (see
// pkg/collection).
type VTable struct {
	// Destroy performs kind-appropriate teardown. A decoded form is owned
	// by its Object and is dropped by Object.Destroy, so the built-in
	// kinds simply release the Object.
	Destroy func(ctx context.Context, o *Object)

	// UIDFromObject reads the in-memory typed form to fill the UID.
	UIDFromObject func(o *Object) (pkiitem.UID, error)

	// UIDFromInstance queries the token driver for enough attributes to
	// fill the UID; allocations land in a.
	UIDFromInstance func(ctx context.Context, inst *tokeninst.Instance, a *arena.Arena) (pkiitem.UID, error)

	// CreateFromProto promotes a proto-object to its concrete typed
	// representation. For certificates this also interns the result in
	// the trust-domain cache (§4.2); the collection accepts whatever is
	// returned as the node's new object, which may not be proto.
	CreateFromProto func(ctx context.Context, proto *Object) (*Object, error)
}
