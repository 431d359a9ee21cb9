// Package pkiitem provides equality and hashing over opaque byte slices,
// and the fixed-size UID tuple built from them.
package pkiitem

import "bytes"

// ByteItem is a (bytes, length) pair. It carries no ownership of the
// underlying buffer; whatever Arena produced it owns the storage.
type ByteItem struct {
	Bytes []byte
}

// Empty reports whether the item is absent (length 0), matching the
// source's convention that an absent UID component has size 0.
func (b ByteItem) Empty() bool {
	return len(b.Bytes) == 0
}

// Equal reports bytewise equality. Two empty items are equal.
func (b ByteItem) Equal(o ByteItem) bool {
	return bytes.Equal(b.Bytes, o.Bytes)
}

// MaxUIDItems is the fixed arity of a UID tuple (§3: "at most two
// ByteItems").
const MaxUIDItems = 2

// UID is the canonical identifier of a logical PKI object: a fixed-length
// tuple of at most two ByteItems. An absent item has length 0.
type UID [MaxUIDItems]ByteItem

// Equal reports whether two UIDs are bytewise equal in every position.
func (u UID) Equal(o UID) bool {
	for i := range u {
		if !u[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Key is a comparable, hashable projection of a UID suitable for use as a
// Go map key (byte slices themselves are neither). The string conversion
// is the idiomatic Go way to get a hashable view of a []byte; building a
// Key copies each item's bytes into its string.
type Key [MaxUIDItems]string

// Key projects the UID to its map key.
func (u UID) Key() Key {
	var k Key
	for i := range u {
		k[i] = string(u[i].Bytes)
	}
	return k
}
