// Package pkiobject implements the PKIObject: a reference-counted
// container of zero or more token instances, guarded by one of two lock
// kinds, plus the typed-object vtable and Time value that ride alongside
// it (components C, D, G).
package pkiobject

import (
	"context"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"

	"github.com/go-pki/pkicore/pkg/arena"
	"github.com/go-pki/pkicore/pkg/pkilog"
	"github.com/go-pki/pkicore/pkg/tokeninst"
)

// TrustDomain is a non-owning back reference to the enclosing trust
// domain. The core only ever stores and forwards it; interpreting it is
// entirely up to the kind-specific vtable (component D).
type TrustDomain interface{}

// CryptoContext is a non-owning back reference to the enclosing crypto
// context, held for the same reason as TrustDomain.
type CryptoContext interface{}

// Object is the PKIObject: the logical identity of a PKI artifact,
// independent of which token instances currently back it.
type Object struct {
	arena      *arena.Arena
	ownsArena  bool
	trustDom   TrustDomain
	cryptoCtx  CryptoContext
	kind       Kind
	lock       locker
	lockKind   LockKind
	instances  []*tokeninst.Instance
	refCount   int32
	driver     tokeninst.Driver
	decodedVal interface{} // set by the kind layer once a proto-object is promoted; read back through Decoded/SetDecoded.
}

// Arena returns the object's arena, whether owned or borrowed from its
// creator (see Create). Reading it requires no lock
// (§5: "reads of immutable fields need no lock").
func (o *Object) Arena() *arena.Arena { return o.arena }

// Kind returns the object's kind tag. No lock required.
func (o *Object) Kind() Kind { return o.kind }

// TrustDomain returns the object's trust-domain back reference. No lock
// required.
func (o *Object) TrustDomain() TrustDomain { return o.trustDom }

// CryptoContext returns the object's crypto-context back reference. No
// lock required.
func (o *Object) CryptoContext() CryptoContext { return o.cryptoCtx }

// Decoded returns the kind layer's cached decoded form, or nil if none has
// been attached yet.
func (o *Object) Decoded() interface{} {
	o.lock.Lock()
	defer o.lock.Unlock()
	return o.decodedVal
}

// SetDecoded attaches the kind layer's decoded form. The decoded form is
// owned by the Object, not the other way around (§9 "Decoded-form
// cycle"): Destroy drops it along with the instances.
func (o *Object) SetDecoded(v interface{}) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.decodedVal = v
}

// Create builds a new PKIObject. If arenaOpt is nil a fresh arena is
// allocated and owned by the object; otherwise the caller's arena is used
// without taking ownership of it (matching the source's "instance
// allocated in a collection's arena" case). If instanceOpt is non-nil it
// becomes the object's first instance. A successfully constructed object
// has a reference count of 1.
func Create(arenaOpt *arena.Arena, instanceOpt *tokeninst.Instance, td TrustDomain, cc CryptoContext, lockKind LockKind, driver tokeninst.Driver) *Object {
	a := arenaOpt
	owns := false
	if a == nil {
		a = arena.New()
		owns = true
	}
	o := &Object{
		arena:     a,
		ownsArena: owns,
		trustDom:  td,
		cryptoCtx: cc,
		lockKind:  lockKind,
		lock:      newLocker(lockKind),
		driver:    driver,
		refCount:  1,
	}
	if instanceOpt != nil {
		o.instances = append(o.instances, instanceOpt)
	}
	return o
}

// SetKind tags the object with its concrete kind. Collections call this
// right after Create, before the object becomes visible to any other
// goroutine.
func (o *Object) SetKind(k Kind) { o.kind = k }

// AddRef increments the reference count and returns the object, for
// chaining at call sites (`obj = obj.AddRef()`).
func (o *Object) AddRef() *Object {
	atomic.AddInt32(&o.refCount, 1)
	return o
}

// RefCount returns the current reference count, primarily for tests.
func (o *Object) RefCount() int32 { return atomic.LoadInt32(&o.refCount) }

// Destroy decrements the reference count; when it reaches zero it destroys
// every instance in insertion order, drops the decoded form, and destroys
// the arena if the object owns it. It reports whether this call performed the
// final destruction. Calling any other method on an object after its
// final destruction is undefined, same as the source.
func (o *Object) Destroy(ctx context.Context) bool {
	if atomic.AddInt32(&o.refCount, -1) != 0 {
		return false
	}
	for _, inst := range o.instances {
		tokeninst.Destroy(o.driver, inst)
	}
	o.instances = nil
	o.decodedVal = nil
	if o.ownsArena {
		o.arena.Destroy()
	}
	pkilog.From(ctx).Debugw("pkiobject destroyed", "kind", o.kind.String())
	return true
}

// AddInstance locks the object and either merges candidate into an
// existing (token, handle)-equal instance (replacing its label and
// discarding candidate) or appends it. It never produces a duplicate
// (token, handle) pair.
func (o *Object) AddInstance(candidate *tokeninst.Instance) {
	o.lock.Lock()
	defer o.lock.Unlock()
	for _, existing := range o.instances {
		if existing.Equal(candidate) {
			existing.SetLabel(candidate.Label())
			tokeninst.Destroy(o.driver, candidate)
			return
		}
	}
	o.instances = append(o.instances, candidate)
}

// HasInstance reports whether an instance equal to candidate (by (token,
// handle)) is present.
func (o *Object) HasInstance(candidate *tokeninst.Instance) bool {
	o.lock.Lock()
	defer o.lock.Unlock()
	for _, existing := range o.instances {
		if existing.Equal(candidate) {
			return true
		}
	}
	return false
}

// RemoveInstancesForToken removes at most one instance whose token matches
// tok, by swapping it to the tail and shrinking. This preserves the
// source's exact (arguably buggy, see §9) behavior of removing at most one
// instance despite the plural name.
func (o *Object) RemoveInstancesForToken(tok tokeninst.Token) {
	o.lock.Lock()
	defer o.lock.Unlock()
	if len(o.instances) == 0 {
		return
	}
	for i, inst := range o.instances {
		if inst.Token().TokenID() == tok.TokenID() {
			last := len(o.instances) - 1
			o.instances[i], o.instances[last] = o.instances[last], o.instances[i]
			removed := o.instances[last]
			o.instances = o.instances[:last]
			tokeninst.Destroy(o.driver, removed)
			return
		}
	}
}

// DeleteStoredObject asks the token driver to delete the persistent copy
// of each instance. Instances whose deletion succeeds are destroyed and
// removed; instances whose deletion fails are compacted to the front and
// retained. Every failure is accumulated into the returned multierror (nil
// if every instance was deleted), in instance order, so the last error in
// it is that of the last instance whose deletion failed; a success after
// that failure does not clear the returned error.
func (o *Object) DeleteStoredObject(ctx context.Context) error {
	o.lock.Lock()
	defer o.lock.Unlock()

	var result *multierror.Error
	kept := o.instances[:0]
	for _, inst := range o.instances {
		if err := o.driver.DeleteStoredObject(ctx, inst); err != nil {
			result = multierror.Append(result, err)
			kept = append(kept, inst)
			pkilog.From(ctx).Warnw("failed to delete stored instance", "token", inst.Token().TokenID(), "error", err)
			continue
		}
		tokeninst.Destroy(o.driver, inst)
	}
	o.instances = kept
	return result.ErrorOrNil()
}

// GetTokens returns an add-ref'd token for every instance, in instance
// order. It returns nil for an object with no instances.
func (o *Object) GetTokens() []tokeninst.Token {
	o.lock.Lock()
	defer o.lock.Unlock()
	if len(o.instances) == 0 {
		return nil
	}
	toks := make([]tokeninst.Token, len(o.instances))
	for i, inst := range o.instances {
		toks[i] = inst.Token().AddRef()
	}
	return toks
}

// GetNicknameForToken returns the label of the first instance matching
// tokOpt, or, if tokOpt is nil, the label of the first instance that has
// any label. It returns "" if no such instance exists.
func (o *Object) GetNicknameForToken(tokOpt tokeninst.Token) string {
	o.lock.Lock()
	defer o.lock.Unlock()
	for _, inst := range o.instances {
		if tokOpt == nil {
			if inst.Label() != "" {
				return inst.Label()
			}
			continue
		}
		if inst.Token().TokenID() == tokOpt.TokenID() {
			return inst.Label()
		}
	}
	return ""
}

// GetInstances returns a cloned copy of every instance, in insertion
// order.
func (o *Object) GetInstances() []*tokeninst.Instance {
	o.lock.Lock()
	defer o.lock.Unlock()
	if len(o.instances) == 0 {
		return nil
	}
	out := make([]*tokeninst.Instance, len(o.instances))
	for i, inst := range o.instances {
		out[i] = tokeninst.Clone(o.driver, inst)
	}
	return out
}

// InstanceCount returns the current number of instances, mostly for
// tests.
func (o *Object) InstanceCount() int {
	o.lock.Lock()
	defer o.lock.Unlock()
	return len(o.instances)
}
