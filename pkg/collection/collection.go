// Package collection implements the Collection: a deduplicating set of
// PKIObjects indexed by both UID and by (token, handle), with lazy
// materialization of proto-objects into their concrete typed form
// (component E).
package collection

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/go-pki/pkicore/pkg/arena"
	"github.com/go-pki/pkicore/pkg/kinds"
	"github.com/go-pki/pkicore/pkg/pkierr"
	"github.com/go-pki/pkicore/pkg/pkiitem"
	"github.com/go-pki/pkicore/pkg/pkiobject"
	"github.com/go-pki/pkicore/pkg/tokeninst"
)

// Node is a CollectionNode: a UID, the object currently bound to it, and
// whether that object has been promoted from a proto-object to its
// concrete typed form.
type Node struct {
	UID        pkiitem.UID
	Object     *pkiobject.Object
	HaveObject bool
}

// outcome classifies what addInstance actually did, so callers that need
// to react differently to each case (AddInstanceAsObject) don't have to
// re-derive it from index state.
type outcome int

const (
	outcomeDuplicate outcome = iota
	outcomeAppended
	outcomeNew
)

// Collection is the deduplicating object set. It has no internal lock:
// per the concurrency model, callers serialize their own mutations on a
// given collection, the same discipline the source assumes (promotion
// takes the object's lock internally, and lock-ordering a collection lock
// against every object lock it might touch would invite deadlock).
type Collection struct {
	arena      *arena.Arena
	vtable     pkiobject.VTable
	kind       pkiobject.Kind
	lockKind   pkiobject.LockKind
	trustDom   pkiobject.TrustDomain
	cryptoCtx  pkiobject.CryptoContext
	driver     tokeninst.Driver
	byUID      map[pkiitem.Key]*Node
	byInstance map[tokeninst.Key]*Node
	size       int
}

// New builds an empty Collection of the given kind, bound to vtable and
// driver, whose proto-objects are created with lockKind and the supplied
// back references.
func New(kind pkiobject.Kind, vtable pkiobject.VTable, lockKind pkiobject.LockKind, td pkiobject.TrustDomain, cc pkiobject.CryptoContext, driver tokeninst.Driver) *Collection {
	return &Collection{
		arena:      arena.New(),
		vtable:     vtable,
		kind:       kind,
		lockKind:   lockKind,
		trustDom:   td,
		cryptoCtx:  cc,
		driver:     driver,
		byUID:      make(map[pkiitem.Key]*Node),
		byInstance: make(map[tokeninst.Key]*Node),
	}
}

// NewWithObjects builds a Collection like New and then seeds it by calling
// AddObject once per entry of objs, in order, mirroring the source
// constructors that take a NULL-terminated array of already-typed objects
// (nssCertificateCollection_Create's certsOpt, nssCRLCollection_Create's
// crlsOpt). It stops at the first AddObject failure and returns the error;
// any objects not yet added still belong to the caller.
func NewWithObjects(ctx context.Context, kind pkiobject.Kind, vtable pkiobject.VTable, lockKind pkiobject.LockKind, td pkiobject.TrustDomain, cc pkiobject.CryptoContext, driver tokeninst.Driver, objs []*pkiobject.Object) (*Collection, error) {
	c := New(kind, vtable, lockKind, td, cc, driver)
	for _, obj := range objs {
		if err := c.AddObject(ctx, obj); err != nil {
			return c, err
		}
	}
	return c, nil
}

// Destroy releases both indexes and the collection's own arena. Contained
// objects are not destroyed here; the collection is only ever a view,
// ownership of each object belongs to whoever extracted it.
func (c *Collection) Destroy() {
	c.byUID = nil
	c.byInstance = nil
	c.arena.Destroy()
}

// Count returns the number of distinct UIDs currently indexed.
func (c *Collection) Count() int { return c.size }

// AddObject indexes an already-typed object by UID without touching the
// instance index. The collection takes the add-ref it needs; on error to
// compute the UID that add-ref is dropped again (the caller's own
// reference is untouched) and the object is not indexed.
func (c *Collection) AddObject(ctx context.Context, obj *pkiobject.Object) error {
	obj.AddRef()
	uid, err := c.vtable.UIDFromObject(obj)
	if err != nil {
		obj.Destroy(ctx)
		return err
	}
	c.byUID[uid.Key()] = &Node{UID: uid, Object: obj, HaveObject: true}
	c.size++
	return nil
}

// addInstance is the core deduplication algorithm: an exact (token,
// handle) hit hands the candidate to the owning node's object, which
// takes over its label and destroys it, and returns that node; a UID hit
// appends the instance to the existing node's
// object; a miss allocates a fresh proto-object and a new node. Ownership
// of candidate always passes to the collection, win or lose.
func (c *Collection) addInstance(ctx context.Context, candidate *tokeninst.Instance) (*Node, outcome, error) {
	instKey := candidate.Key()
	if existing, ok := c.byInstance[instKey]; ok {
		existing.Object.AddInstance(candidate)
		return existing, outcomeDuplicate, nil
	}

	mark := c.arena.Mark()
	uid, err := c.vtable.UIDFromInstance(ctx, candidate, c.arena)
	if err != nil {
		c.arena.Release(mark)
		tokeninst.Destroy(c.driver, candidate)
		return nil, 0, err
	}

	uidKey := uid.Key()
	if node, ok := c.byUID[uidKey]; ok {
		node.Object.AddInstance(candidate)
		c.byInstance[instKey] = node
		return node, outcomeAppended, nil
	}

	proto := pkiobject.Create(c.arena, candidate, c.trustDom, c.cryptoCtx, c.lockKind, c.driver)
	proto.SetKind(c.kind)
	node := &Node{UID: uid, Object: proto, HaveObject: false}
	c.byUID[uidKey] = node
	c.byInstance[instKey] = node
	c.size++
	return node, outcomeNew, nil
}

// AddInstance runs the core dedup algorithm for a single candidate,
// reporting nothing beyond success or failure (the richer outcome is
// only needed internally by AddInstanceAsObject).
func (c *Collection) AddInstance(ctx context.Context, candidate *tokeninst.Instance) error {
	_, _, err := c.addInstance(ctx, candidate)
	return err
}

// AddInstances adds every candidate. On the first failure it stops
// invoking the core algorithm but keeps destroying every remaining
// candidate, since the collection took ownership of all of them on call.
// The returned multierror therefore holds only that first failure (nil if
// every candidate was added); errors.Is against the wrapped sentinel still
// works on it.
func (c *Collection) AddInstances(ctx context.Context, candidates []*tokeninst.Instance) error {
	var result *multierror.Error
	stopped := false
	for _, candidate := range candidates {
		if stopped {
			tokeninst.Destroy(c.driver, candidate)
			continue
		}
		if _, _, err := c.addInstance(ctx, candidate); err != nil {
			result = multierror.Append(result, err)
			stopped = true
		}
	}
	return result.ErrorOrNil()
}

// AddInstanceAsObject adds candidate and ensures the owning node carries
// a promoted object. The governing condition is simply "the node isn't
// promoted yet" — true for a brand-new node, but just as true for a node
// that was created un-promoted by an earlier plain AddInstance/AddInstances
// call and is only now reached through this method. On promotion failure
// the node is removed from the UID index and size is decremented, matching
// the "remove on promotion failure" rule that also governs GetObjects and
// Traverse. When the node was already promoted and this call appended a
// genuinely new instance to it (not an exact duplicate), the typed layer
// is re-run over it so its decoded form stays consistent with the
// enlarged instance set.
func (c *Collection) AddInstanceAsObject(ctx context.Context, candidate *tokeninst.Instance) (*pkiobject.Object, error) {
	node, how, err := c.addInstance(ctx, candidate)
	if err != nil {
		return nil, err
	}

	if !node.HaveObject {
		promoted, err := c.vtable.CreateFromProto(ctx, node.Object)
		if err != nil {
			delete(c.byUID, node.UID.Key())
			c.size--
			return nil, err
		}
		node.Object = promoted
		node.HaveObject = true
	} else if how == outcomeAppended {
		if refreshed, err := c.vtable.CreateFromProto(ctx, node.Object); err == nil {
			node.Object = refreshed
		}
	}
	return node.Object, nil
}

// GetObjects returns up to max promoted, add-ref'd objects from the UID
// index (max <= 0 means unbounded). Un-promoted nodes are promoted on the
// way; a node whose promotion fails is dropped from the index rather than
// returned. It reports ErrNotFound exactly when zero objects were
// produced, the Go shape of the source's "error slot set to NOT_FOUND"
// behavior (§9's Open Question, resolved in favor of a single error
// return rather than a side channel).
func (c *Collection) GetObjects(ctx context.Context, max int) ([]*pkiobject.Object, error) {
	limit := max
	if limit <= 0 {
		limit = len(c.byUID)
	}
	out := make([]*pkiobject.Object, 0, limit)
	for key, node := range c.byUID {
		if len(out) >= limit {
			break
		}
		if !node.HaveObject {
			promoted, err := c.vtable.CreateFromProto(ctx, node.Object)
			if err != nil {
				delete(c.byUID, key)
				c.size--
				continue
			}
			node.Object = promoted
			node.HaveObject = true
		}
		out = append(out, node.Object.AddRef())
	}
	if len(out) == 0 {
		return nil, pkierr.ErrNotFound
	}
	return out, nil
}

// GetCertificates is GetObjects projected onto the Certificate façade,
// for a collection built with a certificate vtable.
func (c *Collection) GetCertificates(ctx context.Context, max int) ([]*kinds.Certificate, error) {
	objs, err := c.GetObjects(ctx, max)
	if err != nil {
		return nil, err
	}
	out := make([]*kinds.Certificate, len(objs))
	for i, o := range objs {
		out[i] = kinds.WrapCertificate(o)
	}
	return out, nil
}

// GetCRLs is GetObjects projected onto the CRL façade, for a collection
// built with a CRL vtable.
func (c *Collection) GetCRLs(ctx context.Context, max int) ([]*kinds.CRL, error) {
	objs, err := c.GetObjects(ctx, max)
	if err != nil {
		return nil, err
	}
	out := make([]*kinds.CRL, len(objs))
	for i, o := range objs {
		out[i] = kinds.WrapCRL(o)
	}
	return out, nil
}

// Traverse invokes cb once per indexed node, in map order, after ensuring
// the node's object is promoted; a node whose promotion fails is dropped
// instead of visited. It stops and returns the first error cb produces.
func (c *Collection) Traverse(ctx context.Context, cb func(*pkiobject.Object) error) error {
	for key, node := range c.byUID {
		if !node.HaveObject {
			promoted, err := c.vtable.CreateFromProto(ctx, node.Object)
			if err != nil {
				delete(c.byUID, key)
				c.size--
				continue
			}
			node.Object = promoted
			node.HaveObject = true
		}
		if err := cb(node.Object); err != nil {
			return err
		}
	}
	return nil
}
