// Package tokeninst implements TokenInstance, the (token, handle, label)
// triple identifying one physical copy of a PKI artifact on a token, and
// the Driver interface the core consumes from the token layer.
package tokeninst

import "context"

// Token is an opaque, reference-counted handle to a cryptographic token.
// The core never looks inside it; it only compares token identity via
// TokenID and moves ownership around with AddRef/Release.
type Token interface {
	// TokenID uniquely identifies the token. Two Token values refer to
	// the same token iff their TokenID results compare equal.
	TokenID() string
	// AddRef returns a reference to this token that the caller now owns.
	AddRef() Token
	// Release drops one reference.
	Release()
}

// Instance is a single (token, handle) copy of a logical PKI object, plus
// its optional nickname. The (token, handle) pair is immutable for the
// instance's lifetime; Label is the only mutable field.
type Instance struct {
	token  Token
	handle uint64
	label  string
}

// New constructs an instance that takes ownership of the given token
// reference (the caller must have already add-ref'd it if they intend to
// keep using it themselves).
func New(token Token, handle uint64, label string) *Instance {
	return &Instance{token: token, handle: handle, label: label}
}

// Token returns the instance's token reference. The caller does not own
// this reference; call Token().AddRef() to take one.
func (i *Instance) Token() Token { return i.token }

// Handle returns the token-local handle.
func (i *Instance) Handle() uint64 { return i.handle }

// Label returns the instance's nickname, or "" if it has none.
func (i *Instance) Label() string { return i.label }

// SetLabel replaces the instance's nickname. Callers holding an instance
// through a PKIObject must do so only while holding that object's lock
// (§5); Instance itself has no internal synchronization.
func (i *Instance) SetLabel(label string) { i.label = label }

// Key is the (token, handle) identity used to index instances.
type Key struct {
	Token  string
	Handle uint64
}

// Key returns the instance's (token, handle) identity.
func (i *Instance) Key() Key { return Key{Token: i.token.TokenID(), Handle: i.handle} }

// Equal reports whether two instances share the same (token, handle)
// identity, per §3's TokenInstance equality rule.
func (i *Instance) Equal(o *Instance) bool {
	if i == nil || o == nil {
		return i == o
	}
	return i.Key() == o.Key()
}

// Driver is consumed from the cryptographic token driver (§6). Every
// method that can fail reports failure through error, the idiomatic Go
// analogue of the source's PRStatus/NULL-return contract.
type Driver interface {
	// DestroyInstance releases one instance (and its token reference).
	DestroyInstance(inst *Instance)
	// CloneInstance returns a deep copy sufficient for independent
	// destruction.
	CloneInstance(inst *Instance) *Instance
	// EqualInstances is equivalent to comparing (a.Token, a.Handle) to
	// (b.Token, b.Handle); most callers can use Instance.Equal directly,
	// this exists to mirror the external collaborator named in §6 for
	// driver implementations that need to intercept it.
	EqualInstances(a, b *Instance) bool
	// DeleteStoredObject removes the persistent copy of inst on its
	// token.
	DeleteStoredObject(ctx context.Context, inst *Instance) error
}

// Clone deep-copies inst via drv, the Go-side convenience wrapper around
// Driver.CloneInstance used throughout the core.
func Clone(drv Driver, inst *Instance) *Instance {
	return drv.CloneInstance(inst)
}

// Destroy releases inst via drv.
func Destroy(drv Driver, inst *Instance) {
	if inst != nil {
		drv.DestroyInstance(inst)
	}
}
